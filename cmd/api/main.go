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
	"github.com/rs/zerolog"

	"github.com/devcircle/clubconnect-api/internal/config"
	"github.com/devcircle/clubconnect-api/internal/database"
	"github.com/devcircle/clubconnect-api/internal/handler"
	"github.com/devcircle/clubconnect-api/internal/middleware"
	"github.com/devcircle/clubconnect-api/internal/models"
	"github.com/devcircle/clubconnect-api/internal/repository"
	"github.com/devcircle/clubconnect-api/internal/router"
	"github.com/devcircle/clubconnect-api/internal/service"
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

	if err := db.AutoMigrate(
		&models.Account{},
		&models.Profile{},
		&models.AlumniMeta{},
		&models.GuidanceRequest{},
		&models.Referral{},
		&models.ReferralApplicant{},
		&models.SafetyReport{},
		&models.AuditLog{},
		&models.ActivityLog{},
		&models.Announcement{},
		&models.Post{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	accountRepo := repository.NewAccountRepository(db)
	alumniMetaRepo := repository.NewAlumniMetaRepository(db)
	guidanceRepo := repository.NewGuidanceRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	safetyRepo := repository.NewSafetyReportRepository(db)
	adminActionRepo := repository.NewAdminActionRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	activityLogRepo := repository.NewActivityLogRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	postRepo := repository.NewPostRepository(db)

	cooldowns := map[string]time.Duration{
		service.ActionGuidanceRequest: cfg.GuidanceCooldown,
		service.ActionReferralRequest: cfg.ReferralPostCooldown,
		service.ActionReferralApply:   cfg.ReferralApplyWindow,
		service.ActionCreatePost:      cfg.PostCooldown,
	}

	limiter := service.NewRateLimiter(redisClient, cooldowns, logger)
	notifier := service.NewNotifier(natsConn, "clubconnect", logger)

	identityService := service.NewIdentityService(accountRepo, alumniMetaRepo, validate, cfg.AdminEmails, logger)
	matchingService := service.NewMatchingService(accountRepo, alumniMetaRepo, logger)
	guidanceService := service.NewGuidanceService(guidanceRepo, accountRepo, alumniMetaRepo, limiter, notifier, validate, logger)
	referralService := service.NewReferralService(referralRepo, alumniMetaRepo, limiter, notifier, validate, logger)
	safetyService := service.NewSafetyService(safetyRepo, accountRepo, guidanceRepo, validate, logger)
	adminService := service.NewAdminService(adminActionRepo, accountRepo, safetyRepo, announcementRepo, auditLogRepo, redisClient, cfg.DashboardCacheTTL, notifier, validate, logger)
	activityService := service.NewActivityService(activityLogRepo, logger)
	postService := service.NewPostService(postRepo, limiter, validate, logger)

	accountHandler := handler.NewAccountHandler(identityService, activityService, logger)
	guidanceHandler := handler.NewGuidanceHandler(guidanceService, logger)
	matchingHandler := handler.NewMatchingHandler(matchingService, logger)
	referralHandler := handler.NewReferralHandler(referralService, logger)
	safetyHandler := handler.NewSafetyHandler(safetyService, logger)
	adminHandler := handler.NewAdminHandler(adminService, safetyService, logger)
	postHandler := handler.NewPostHandler(postService, logger)
	announcementHandler := handler.NewAnnouncementHandler(adminService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		AccountHandler:      accountHandler,
		GuidanceHandler:     guidanceHandler,
		MatchingHandler:     matchingHandler,
		ReferralHandler:     referralHandler,
		SafetyHandler:       safetyHandler,
		AdminHandler:        adminHandler,
		PostHandler:         postHandler,
		AnnouncementHandler: announcementHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		IdentityMiddleware:  middleware.LoadIdentity(identityService),
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
