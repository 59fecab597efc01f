package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/vitalagenda/vital-api/internal/config"
	"github.com/vitalagenda/vital-api/internal/email"
	"github.com/vitalagenda/vital-api/internal/handler"
	appointmentHandler "github.com/vitalagenda/vital-api/internal/handler/appointment"
	authHandler "github.com/vitalagenda/vital-api/internal/handler/auth"
	doseHandler "github.com/vitalagenda/vital-api/internal/handler/dose"
	glucoseHandler "github.com/vitalagenda/vital-api/internal/handler/glucose"
	laboratoryHandler "github.com/vitalagenda/vital-api/internal/handler/laboratory"
	medicationHandler "github.com/vitalagenda/vital-api/internal/handler/medication"
	userHandler "github.com/vitalagenda/vital-api/internal/handler/user"
	viaadminHandler "github.com/vitalagenda/vital-api/internal/handler/viaadmin"
	"github.com/vitalagenda/vital-api/internal/middleware"
	"github.com/vitalagenda/vital-api/internal/repository/postgres"
	"github.com/vitalagenda/vital-api/internal/router"
	appointmentService "github.com/vitalagenda/vital-api/internal/service/appointment"
	authService "github.com/vitalagenda/vital-api/internal/service/auth"
	doseService "github.com/vitalagenda/vital-api/internal/service/dose"
	glucoseService "github.com/vitalagenda/vital-api/internal/service/glucose"
	laboratoryService "github.com/vitalagenda/vital-api/internal/service/laboratory"
	medicationService "github.com/vitalagenda/vital-api/internal/service/medication"
	"github.com/vitalagenda/vital-api/internal/service/schedule"
	userService "github.com/vitalagenda/vital-api/internal/service/user"
	viaadminService "github.com/vitalagenda/vital-api/internal/service/viaadmin"
	"github.com/vitalagenda/vital-api/internal/storage"
	"github.com/vitalagenda/vital-api/pkg/logger"
	redisBroker "github.com/vitalagenda/vital-api/pkg/messaging/redis"
	"github.com/vitalagenda/vital-api/pkg/metrics"
	"github.com/vitalagenda/vital-api/pkg/security"
	"github.com/vitalagenda/vital-api/pkg/token"
	"github.com/vitalagenda/vital-api/pkg/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})

	db, err := postgres.NewDB(postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	medicationRepo := postgres.NewMedicationRepository(db)
	doseRepo := postgres.NewDoseRepository(db)
	glucoseRepo := postgres.NewGlucoseRepository(db)
	laboratoryRepo := postgres.NewLaboratoryRepository(db)
	routeRepo := postgres.NewAdministrationRouteRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Shared infrastructure
	photoStore, err := storage.NewPhotoStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatal(err, "failed to prepare upload directory")
	}

	var emailSvc email.Service
	if cfg.SMTP.Enabled {
		emailSvc = email.NewSMTPService(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		emailSvc = email.NoopService{}
	}

	tokenSvc := token.NewService(token.Config{
		Secret: cfg.JWT.Secret,
		Expiry: time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
	})
	hasher := security.NewBcryptHasher(0)
	scheduler := schedule.NewGenerator(cfg.Schedule.AnchorHour)

	// Services
	authSvc := authService.NewService(userRepo, hasher, tokenSvc, emailSvc, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	userSvc := userService.NewService(userRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, userRepo, emailSvc, log)
	medicationSvc := medicationService.NewService(medicationRepo, routeRepo, photoStore, scheduler)
	doseSvc := doseService.NewService(doseRepo)
	glucoseSvc := glucoseService.NewService(glucoseRepo)
	laboratorySvc := laboratoryService.NewService(laboratoryRepo)
	viaadminSvc := viaadminService.NewService(routeRepo)

	// Handlers
	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc)
	medicationH := medicationHandler.NewHandler(medicationSvc)
	doseH := doseHandler.NewHandler(doseSvc)
	glucoseH := glucoseHandler.NewHandler(glucoseSvc)
	laboratoryH := laboratoryHandler.NewHandler(laboratorySvc)
	viaadminH := viaadminHandler.NewHandler(viaadminSvc)
	userH := userHandler.NewHandler(userSvc)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	m := metrics.New("vital_api")

	r := router.NewRouter(
		authMiddleware,
		authH,
		appointmentH,
		medicationH,
		doseH,
		glucoseH,
		laboratoryH,
		viaadminH,
		userH,
		h,
		m,
		router.Config{
			RateLimit:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:  cfg.RateLimit.Burst,
			CORSConfig: middleware.DefaultCORSConfig(),
			Timeout:    cfg.Server.Timeout,
			UploadsDir: cfg.Uploads.Dir,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// The outbox worker publishes domain events to Redis for the
	// notification pipeline. The API stays up if Redis is down; events
	// accumulate in the outbox until the worker reconnects.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	broker, err := redisBroker.NewBroker(redisBroker.Config{URL: cfg.Redis.URL}, log.Zerolog())
	if err != nil {
		log.Error(err, "failed to connect to Redis, outbox processing disabled")
	} else {
		processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  cfg.Outbox.PollInterval,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    cfg.Outbox.RetryDelay,
		}, log, m)
		go processor.Start(workerCtx)
	}

	go func() {
		log.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	stopWorker()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited")
}
