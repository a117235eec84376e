package configuration

import (
	"fmt"
	"os"
	"strconv"

	"reddit-sync/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Reddit      Reddit      `json:"reddit"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port        int    `json:"port"`
	SecretKey   string `json:"secretKey"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

type Database struct {
	Psql  Db `json:"psql"`
	Mssql Db `json:"mssql"`
	Mysql Db `json:"mysql"`
	Mongo Db `json:"mongo"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type Logger struct {
	Format string `json:"format"`
}

// Reddit holds the pre-registered OAuth client applications. Every credential
// is bound to exactly one app; lookups by unknown key fail loudly instead of
// silently substituting a default.
type Reddit struct {
	UserAgent string      `json:"userAgent"`
	Scopes    []string    `json:"scopes"`
	Apps      []RedditApp `json:"apps"`
}

type RedditApp struct {
	Key          string `json:"key"`
	DisplayName  string `json:"displayName"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RedirectURI  string `json:"redirectURI"`
	UserAgent    string `json:"userAgent"`
}

// Configured reports whether the app has everything needed to run an OAuth
// flow against Reddit.
func (a RedditApp) Configured() bool {
	return a.ClientID != "" && a.ClientSecret != "" && a.RedirectURI != ""
}

// GetRedditApp resolves an app variant by key. Unknown keys are an error;
// there is no fallback app.
func (c *Config) GetRedditApp(key string) (RedditApp, error) {
	for _, app := range c.Reddit.Apps {
		if app.Key == key {
			return app, nil
		}
	}
	return RedditApp{}, fmt.Errorf("reddit app %q: no such app variant", key)
}

// DefaultRedditApp returns the first configured app, used when a connect
// request does not name a variant.
func (c *Config) DefaultRedditApp() (RedditApp, error) {
	for _, app := range c.Reddit.Apps {
		if app.Configured() {
			return app, nil
		}
	}
	return RedditApp{}, fmt.Errorf("no reddit app variant is configured")
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initReddit(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}

	// Optional SQL Server config via environment (Azure SQL in production)
	if v := os.Getenv("MSSQL_DB_NAME"); v != "" && C.Database.Mssql.Name == "" {
		C.Database.Mssql.Name = v
	}
	if v := os.Getenv("MSSQL_HOST"); v != "" && C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = v
	}
	if v := os.Getenv("MSSQL_USER"); v != "" && C.Database.Mssql.User == "" {
		C.Database.Mssql.User = v
	}
	if v := os.Getenv("MSSQL_PASSWORD"); v != "" && C.Database.Mssql.Password == "" {
		C.Database.Mssql.Password = v
	}
	if C.Database.Mssql.Port == "" {
		C.Database.Mssql.Port = "1433"
	}

	// Optional MySQL config for the GORM-backed user store.
	if v := os.Getenv("MYSQL_DB_NAME"); v != "" && C.Database.Mysql.Name == "" {
		C.Database.Mysql.Name = v
	}
	if v := os.Getenv("MYSQL_HOST"); v != "" && C.Database.Mysql.Host == "" {
		C.Database.Mysql.Host = v
	}
	if v := os.Getenv("MYSQL_USER"); v != "" && C.Database.Mysql.User == "" {
		C.Database.Mysql.User = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" && C.Database.Mysql.Password == "" {
		C.Database.Mysql.Password = v
	}
	if C.Database.Mysql.Port == "" {
		C.Database.Mysql.Port = "3306"
	}
}

func initApp(C *Config) {
	// SECRET_KEY from environment wins over the config file.
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order: APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initReddit(C *Config) {
	if C.Reddit.UserAgent == "" {
		C.Reddit.UserAgent = os.Getenv("REDDIT_USER_AGENT")
	}
	if C.Reddit.UserAgent == "" {
		C.Reddit.UserAgent = "reddit-sync/1.0"
	}
	if len(C.Reddit.Scopes) == 0 {
		C.Reddit.Scopes = []string{"identity", "read", "submit", "mysubreddits", "history"}
	}
	// Allow a single app configured purely via environment, matching the
	// production deployment where secrets never live in the config file.
	if len(C.Reddit.Apps) == 0 {
		if id := os.Getenv("REDDIT_CLIENT_ID"); id != "" {
			C.Reddit.Apps = append(C.Reddit.Apps, RedditApp{
				Key:          "app1",
				DisplayName:  "Reddit App 1",
				ClientID:     id,
				ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
				RedirectURI:  os.Getenv("REDDIT_REDIRECT_URI"),
			})
		}
	}
	for i := range C.Reddit.Apps {
		if C.Reddit.Apps[i].UserAgent == "" {
			C.Reddit.Apps[i].UserAgent = C.Reddit.UserAgent
		}
	}
}
