package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/psiconecta/booking-system/docs"
	"github.com/psiconecta/booking-system/internal/api"
	"github.com/psiconecta/booking-system/internal/api/handler"
	"github.com/psiconecta/booking-system/internal/core/service"
	"github.com/psiconecta/booking-system/internal/infrastructure/config"
	mongodb "github.com/psiconecta/booking-system/internal/infrastructure/db/mongo"
	redisdb "github.com/psiconecta/booking-system/internal/infrastructure/db/redis"
	"github.com/psiconecta/booking-system/internal/infrastructure/identity"
	"github.com/psiconecta/booking-system/internal/infrastructure/payments/mercadopago"
	"github.com/psiconecta/booking-system/internal/infrastructure/queue"
	"github.com/psiconecta/booking-system/internal/infrastructure/realtime"
	"github.com/psiconecta/booking-system/pkg/logger"
)

// @title        Psiconecta Booking API
// @version      1.0
// @description  Appointment booking, payments and realtime notifications for the Psiconecta platform.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Backing stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	appointmentRepo := mongodb.NewAppointmentRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)
	messageRepo := mongodb.NewMessageRepository(db)

	indexCtx, cancelIndexes := context.WithTimeout(ctx, 30*time.Second)
	defer cancelIndexes()
	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureIndexes,
		appointmentRepo.EnsureIndexes,
		paymentRepo.EnsureIndexes,
		messageRepo.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	// --- Realtime hub ---
	hub := realtime.NewHub(log)
	realtimeHandler := realtime.NewHandler(hub, messageRepo, cfg.JWTSecret, log)

	// --- External adapters ---
	checkoutProvider := mercadopago.NewClient(cfg.MercadoPago.BaseURL, cfg.MercadoPago.AccessToken, cfg.FrontendURL)
	identityVerifier := identity.NewVerifier()
	dedupChecker := redisdb.NewDedupChecker(redisClient)

	// --- Core services ---
	authService := service.NewAuthService(userRepo, identityVerifier, cfg.JWTSecret, cfg.TokenTTL)
	appointmentService := service.NewAppointmentService(appointmentRepo, hub, log)
	paymentService := service.NewPaymentService(paymentRepo, appointmentRepo, checkoutProvider, log)
	patientService := service.NewPatientService(userRepo, log)
	reconciliationService := service.NewReconciliationService(paymentRepo, appointmentRepo, checkoutProvider, dedupChecker, hub, log)

	// --- Callback workers ---
	dispatcher := queue.NewDispatcher(cfg.CallbackWorkers, reconciliationService, log)
	dispatcher.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.RouterDeps{
		Auth:        handler.NewAuthHandler(authService),
		Appointment: handler.NewAppointmentHandler(appointmentService),
		Payment:     handler.NewPaymentHandler(paymentService, dispatcher, log),
		Patient:     handler.NewPatientHandler(patientService),
		Health:      handler.NewHealthHandler(mongoClient, redisClient),
		Realtime:    realtimeHandler,
		JWTSecret:   cfg.JWTSecret,
		Log:         log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// Stop accepting websockets and flush connected clients first, then
	// drain HTTP. Callback workers stop when ctx is cancelled by stop().
	hub.Drain()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
