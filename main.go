package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"reddit-sync/domain/repository"
	"reddit-sync/infrastructure/cache"
	"reddit-sync/infrastructure/clients/reddit"
	"reddit-sync/infrastructure/configuration"
	"reddit-sync/infrastructure/logger"
	"reddit-sync/infrastructure/persistence"
	"reddit-sync/infrastructure/pubsub"
	"reddit-sync/infrastructure/realtime"
	"reddit-sync/infrastructure/servicebus"
	httpHandler "reddit-sync/interfaces/http"
	"reddit-sync/server"
	"reddit-sync/usecase"
)

// sweepInterval is how often the scheduler looks for due posts.
const sweepInterval = 30 * time.Second

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	db, vendor, err := initiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"vendor": vendor,
		"ping":   db.Ping(),
	}).Info("Database connected")

	var posts repository.IPost
	var creds repository.ICredential
	var challenges repository.ILinkChallenge
	var users repository.IUser
	if vendor == "mssql" {
		if err := persistence.EnsureSchemaMSSQL(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("Schema bootstrap failed")
			os.Exit(1)
		}
		posts = persistence.NewPostRepositoryMSSQL(db)
		creds = persistence.NewCredentialRepositoryMSSQL(db)
		challenges = persistence.NewLinkChallengeRepositoryMSSQL(db)
		users = persistence.NewUserRepositoryMSSQL(db)
	} else {
		if err := persistence.EnsureSchema(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("Schema bootstrap failed")
			os.Exit(1)
		}
		posts = persistence.NewPostRepository(db)
		creds = persistence.NewCredentialRepository(db)
		challenges = persistence.NewLinkChallengeRepository(db)
		users = persistence.NewUserRepository(db)
	}

	// An optional MySQL user store can replace the vendor-native one, for
	// deployments that keep accounts in an existing MySQL instance.
	if configuration.C.Database.Mysql.Host != "" {
		gormDb, err := persistence.NewRepositories()
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("MySQL user store not available - using primary database for users")
		} else {
			users = persistence.NewUserRepositoryGorm(gormDb)
		}
	}

	mongoDb, err := persistence.NewMongoDb(
		configuration.C.Database.Mongo.Host,
		configuration.C.Database.Mongo.Port,
		configuration.C.Database.Mongo.User,
		configuration.C.Database.Mongo.Password,
		configuration.C.Database.Mongo.Name,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB not available - publish audit disabled")
		mongoDb = nil
	} else if err := mongoDb.Ping(ctx, nil); err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB ping failed - publish audit disabled")
		mongoDb = nil
	}
	auditRepository := persistence.NewPublishAuditRepository(mongoDb, configuration.C.Database.Mongo.Name)

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - post list cache disabled")
		redisClient = nil
	}
	postCache := cache.NewPostCache(redisClient)

	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - event fan-out leg disabled")
		pubSubClient = nil
	}
	postEventPubSub := pubsub.NewPostEventPubSub(pubSubClient, configuration.C.Pubsub.Topic)

	azServiceBusClient, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - event fan-out leg disabled")
		azServiceBusClient = nil
	}
	postEventServiceBus := servicebus.NewPostEventServiceBus(azServiceBusClient, configuration.C.ServiceBus.Queue)

	hub := realtime.NewPostHub()
	notifier := usecase.NewPostEventFanout(hub, postEventPubSub, postEventServiceBus)

	factory := reddit.NewFactory(&configuration.C)
	engine := usecase.NewPublishEngine(posts, creds, factory, auditRepository, notifier)

	postUsecase := usecase.NewPostUsecase(posts, engine, postCache)
	linkUsecase := usecase.NewLinkUsecase(&configuration.C, challenges, creds, factory)
	credentialUsecase := usecase.NewCredentialUsecase(creds, posts, factory)
	userUsecase := usecase.NewUserUsecase(users)

	userHandler := httpHandler.NewUserHandler(userUsecase)
	postHandler := httpHandler.NewPostHandler(postUsecase)
	oauthHandler := httpHandler.NewOAuthHandler(linkUsecase)
	credentialHandler := httpHandler.NewCredentialHandler(credentialUsecase)

	router := server.InitiateRouter(userHandler, postHandler, oauthHandler, credentialHandler, hub, users, nil)

	// Scheduler: sweep for due posts and push them through the engine.
	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				sweepCtx, cancelSweep := context.WithTimeout(ctx, sweepInterval)
				if err := postUsecase.ProcessDue(sweepCtx); err != nil {
					logger.GetLogger().WithField("error", err).Error("Due post sweep failed")
				}
				cancelSweep()
			}
		}
	})

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			} else {
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// initiateDatabase picks the SQL vendor: MSSQL in production or when forced
// via DB_VENDOR, PostgreSQL otherwise.
func initiateDatabase() (*sql.DB, string, error) {
	env := os.Getenv("ENV")
	if v := os.Getenv("DB_VENDOR"); v == "mssql" || env == "production" || env == "prod" {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			return nil, "", err
		}
		return db, "mssql", nil
	}
	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		return nil, "", err
	}
	return db, "psql", nil
}
