package persistence

import (
	"fmt"
	"time"

	"reddit-sync/infrastructure/configuration"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewRepositories opens the optional MySQL user store through GORM. Deployments
// that keep users in the primary PostgreSQL database never call this.
func NewRepositories() (*gorm.DB, error) {
	cfg := configuration.C.Database.Mysql
	if cfg.Host == "" || cfg.Name == "" {
		return nil, fmt.Errorf("mysql user store not configured")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}
