package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/IFRN-SPP/presente/internal/config"
	"github.com/IFRN-SPP/presente/internal/database"
	"github.com/IFRN-SPP/presente/internal/handler"
	"github.com/IFRN-SPP/presente/internal/ipacl"
	"github.com/IFRN-SPP/presente/internal/middleware"
	"github.com/IFRN-SPP/presente/internal/models"
	"github.com/IFRN-SPP/presente/internal/repository"
	"github.com/IFRN-SPP/presente/internal/router"
	"github.com/IFRN-SPP/presente/internal/service"
	"github.com/IFRN-SPP/presente/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Activity{}, &models.Network{}, &models.Attendance{}, &models.AuditLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	codec, err := token.NewCodec([]byte(cfg.SecretKey))
	if err != nil {
		log.Fatalf("failed to initialise token codec: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	matcher := ipacl.NewMatcher(logger)

	activityRepo := repository.NewActivityRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	networkRepo := repository.NewNetworkRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	publicID := token.NewPublicID(codec)

	activityService := service.NewActivityService(activityRepo, auditLogRepo, validate, publicID, logger)
	networkService := service.NewNetworkService(networkRepo, auditLogRepo, validate, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, activityRepo, networkRepo, auditLogRepo, matcher, logger)
	auditLogService := service.NewAuditLogService(auditLogRepo, logger)
	dashboardService := service.NewDashboardService(activityRepo, attendanceRepo, redisClient, cfg.DashboardCacheTTL, logger)
	checkinService := service.NewCheckinService(activityRepo, attendanceRepo, networkRepo, codec, matcher, service.CheckinOptions{
		Ceiling:       cfg.CheckinCeiling,
		PublicBaseURL: cfg.PublicBaseURL,
		QRSize:        cfg.QRSize,
		NATSSubject:   "presente.checkins",
	}, natsConn, logger)

	activityHandler := handler.NewActivityHandler(activityService, logger)
	networkHandler := handler.NewNetworkHandler(networkService, logger)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, logger)
	checkinHandler := handler.NewCheckinHandler(checkinService, logger)
	publicHandler := handler.NewPublicHandler(activityService, checkinService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	auditLogHandler := handler.NewAuditLogHandler(auditLogService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ActivityHandler:   activityHandler,
		AttendanceHandler: attendanceHandler,
		NetworkHandler:    networkHandler,
		CheckinHandler:    checkinHandler,
		PublicHandler:     publicHandler,
		DashboardHandler:  dashboardHandler,
		AuditLogHandler:   auditLogHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
