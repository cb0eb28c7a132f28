package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/contact-book/internal/config"
	"github.com/iliyamo/contact-book/internal/database"
	"github.com/iliyamo/contact-book/internal/handler"
	"github.com/iliyamo/contact-book/internal/logging"
	"github.com/iliyamo/contact-book/internal/middleware"
	"github.com/iliyamo/contact-book/internal/queue"
	"github.com/iliyamo/contact-book/internal/repository"
	"github.com/iliyamo/contact-book/internal/router"
	"github.com/iliyamo/contact-book/internal/service"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Error("migrate", "err", err)
		os.Exit(1)
	}

	// Without the ledger a logged out token would keep working.
	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		log.Error("connect redis", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	var events service.EventPublisher
	if cfg.EventsEnabled {
		events = queue.NewPublisher(cfg.AMQPURL)
	}

	ledger := service.NewRevocationLedger(repository.NewRevocationRepo(rdb), time.Now)
	validator := service.NewTokenValidator([]byte(cfg.JWTSecret), ledger, time.Now, log)
	authSvc := service.NewAuthService(
		service.NewCredentialStore(repository.NewUserRepo(db), cfg.BcryptCost, log),
		service.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.AccessTTL(), time.Now),
		validator,
		ledger,
		events,
		log,
	)
	contactSvc := service.NewContactService(repository.NewContactRepo(db), log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb, log)
	router.RegisterRoutes(e, handler.NewHealthHandler(db, rdb, cfg.RequestTimeout))
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, cfg.RequestTimeout, log), limiter)
	router.RegisterContacts(e, handler.NewContactHandler(contactSvc, cfg.RequestTimeout, log), validator, cfg.RequestTimeout, log)

	if cfg.AuditConsumerEnabled {
		consumer := queue.NewAuditConsumer(cfg.AMQPURL, cfg.AuditLogDir, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit consumer stopped", "err", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
	log.Info("stopped")
}
