package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/teatro/backend/config"
	"github.com/teatro/backend/internal/clock"
	repository "github.com/teatro/backend/internal/database/postgres"
	redisCache "github.com/teatro/backend/internal/database/redis"
	"github.com/teatro/backend/internal/service"
	"github.com/teatro/backend/internal/transport"
	"github.com/teatro/backend/internal/worker"
	"github.com/teatro/backend/pkg/postgres"
	"github.com/teatro/backend/pkg/redis"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("failed to run migrations: %v", err)
	}

	redisClient := redis.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()

	customerRepo := repository.NewCustomerRepository(db)
	eventRepo := repository.NewEventRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	eventCache := redisCache.NewEventCache(redisClient, cfg.Cache.TTL)
	systemClock := clock.NewSystem()

	reservationService := service.NewReservationService(
		reservationRepo, customerRepo, eventRepo, eventCache, systemClock, cfg.Reservation.MaxAttempts)
	eventService := service.NewEventService(eventRepo, eventCache, systemClock)
	customerService := service.NewCustomerService(customerRepo, systemClock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	warmWorker := worker.NewCacheWarmWorker(eventRepo, eventCache, cfg.Cache.WarmInterval)
	go warmWorker.Start(ctx)

	reservationHandler := transport.NewReservationHandler(reservationService)
	eventHandler := transport.NewEventHandler(eventService)
	customerHandler := transport.NewCustomerHandler(customerService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(reservationHandler, eventHandler, customerHandler)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
