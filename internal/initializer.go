package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campushub-server/internal/config"
	"campushub-server/internal/managers"
	"campushub-server/internal/migrations"
	"campushub-server/internal/routing"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Init wires the whole server together and blocks until shutdown.
func Init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}

	setLogLevel(cfg.LogLevel)

	if err := migrations.Up(cfg.DatabaseURL()); err != nil {
		log.Fatal("Error applying migrations: ", err)
	}

	pool := initializeDatabase(cfg)
	defer pool.Close()

	databaseMgr := managers.NewDatabaseManager(pool)
	mailMgr := managers.NewMailManager(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.IsProduction())

	jwtMgr, err := managers.NewJWTManagerFromFile(cfg.KeyPairPath)
	if err != nil {
		log.Fatal("Error initializing JWT manager: ", err)
	}

	router := routing.InitRouter(databaseMgr, jwtMgr, mailMgr, cfg.VerifyEmails)
	log.Info("Initialized router")

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Handle interrupt signal gracefully
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		<-c
		log.Info("Server shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("Error during shutdown: ", err)
		}
	}()

	log.Infof("Starting server on port %s...", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Error starting server: ", err)
	}
}

func initializeDatabase(cfg *config.Config) *pgxpool.Pool {
	log.Info("Initializing database")

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error configuring database: ", err)
	}

	poolConfig.MinConns = 5
	poolConfig.MaxConns = 30
	poolConfig.MaxConnIdleTime = time.Minute * 2
	poolConfig.HealthCheckPeriod = time.Minute * 1

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	log.Info("Connected to database")
	return pool
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	log.SetReportCaller(true)
	log.SetOutput(os.Stdout)
}
