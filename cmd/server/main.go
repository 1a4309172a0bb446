package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/wsprbooks/bookstore/internal/config"
	"github.com/wsprbooks/bookstore/internal/es"
	"github.com/wsprbooks/bookstore/internal/handlers"
	"github.com/wsprbooks/bookstore/internal/logging"
	"github.com/wsprbooks/bookstore/internal/mykafka"
	"github.com/wsprbooks/bookstore/internal/service/order"
	"github.com/wsprbooks/bookstore/internal/service/report"
	"github.com/wsprbooks/bookstore/internal/service/token"
	httpserver "github.com/wsprbooks/bookstore/internal/transport/http"
	"github.com/wsprbooks/bookstore/internal/worker"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	prod, err := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	if err != nil {
		logger.Warn("kafka disabled", "err", err)
		prod = nil
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		logger.Warn("elasticsearch disabled", "err", err)
		esClient = nil
	}

	orderService := &order.Service{DB: db}
	reportService := &report.Service{DB: db}
	tokenService := &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())

	deps := httpserver.Deps{
		DB:              db,
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		UserHandler:     &handlers.UserHandler{DB: db},
		BookHandler:     &handlers.BookHandler{DB: db, ES: esClient, Index: "books", Producer: prod},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: "books"},
		CartHandler:     &handlers.CartHandler{DB: db},
		FavoriteHandler: &handlers.FavoriteHandler{DB: db},
		EventHandler:    &handlers.EventHandler{DB: db},
		OrderHandler:    &handlers.OrderHandler{Orders: orderService, Reports: reportService, Producer: prod},
		ReportHandler:   &handlers.ReportHandler{Reports: reportService},
		TokenService:    tokenService,
	}

	httpserver.Register(e, &deps)

	sweepCtx, stopSweep := context.WithCancel(logging.IntoContext(context.Background(), logger))
	sweeper := &worker.EventSweeper{DB: db}
	go sweeper.Run(sweepCtx, worker.SweepInterval)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
		}
	}()

	logger.Info("server started", "port", configuration.PORT)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "err", err)
		}
	} else {
		logger.Error("db() error", "err", err)
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			logger.Error("kafka close error", "err", err)
		}
	}

	logger.Info("shutdown complete")
}
