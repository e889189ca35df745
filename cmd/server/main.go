package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apprelay "github.com/scafi/integration-backend/internal/application/relay"
	"github.com/scafi/integration-backend/internal/infrastructure/config"
	"github.com/scafi/integration-backend/internal/infrastructure/jde"
	"github.com/scafi/integration-backend/internal/infrastructure/logger"
	"github.com/scafi/integration-backend/internal/infrastructure/notification"
	"github.com/scafi/integration-backend/internal/infrastructure/persistence"
	"github.com/scafi/integration-backend/internal/interfaces/http/handler"
	"github.com/scafi/integration-backend/internal/interfaces/http/middleware"
	"github.com/scafi/integration-backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting integration backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database is optional: offline mode keeps the relay flowing with
	// log-only persistence.
	var db *persistence.Database
	if !cfg.Database.Offline {
		gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
		db, err = persistence.NewDatabase(&cfg.Database, gormLog)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
		log.Info("Database connected successfully")
	} else {
		log.Warn("Database offline mode enabled, integration log writes will be skipped")
	}

	logRepo := newLogRepository(db, cfg.Database.Offline, log)

	erpClient, err := jde.NewClient(&jde.ClientConfig{
		BaseURL:     cfg.JDE.BaseURL,
		Timeout:     cfg.JDE.Timeout,
		MaxRetries:  cfg.JDE.MaxRetries,
		BackoffBase: cfg.JDE.BackoffBase,
		Offline:     cfg.JDE.Offline,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize JDE client", zap.Error(err))
	}

	credentials := jde.NewCredentialStore(cfg.JDE.CredentialsJSON, log)
	mailer := notification.NewMailer(&cfg.SMTP, log)

	invoiceService := apprelay.NewInvoiceService(erpClient, credentials, logRepo, mailer, &cfg.JDE, log)
	partyService := apprelay.NewPartyService(erpClient, credentials, logRepo, &cfg.JDE, log)

	var dbProber apprelay.DatabaseProber
	if db != nil {
		dbProber = db
	}
	readiness := apprelay.NewReadinessService(dbProber, erpClient, cfg.Database.Offline, cfg.JDE.Offline)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	handler.NewSystemHandler(readiness).RegisterRoutes(engine)

	// JDE callers address /integration/... directly, with no API prefix.
	r := router.NewRouter(engine, router.WithPrefix(""))
	r.Register(handler.NewIntegrationHandler(partyService, invoiceService, log))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func newLogRepository(db *persistence.Database, offline bool, log *zap.Logger) *persistence.GormIntegrationLogRepository {
	if db == nil {
		return persistence.NewGormIntegrationLogRepository(nil, true, log)
	}
	return persistence.NewGormIntegrationLogRepository(db.DB, offline, log)
}
