package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hakwonlab/center-schedule-api/internal/handler"
	"github.com/hakwonlab/center-schedule-api/internal/repository"
	"github.com/hakwonlab/center-schedule-api/internal/schedule"
	"github.com/hakwonlab/center-schedule-api/internal/service"
	"github.com/hakwonlab/center-schedule-api/pkg/cache"
	"github.com/hakwonlab/center-schedule-api/pkg/config"
	"github.com/hakwonlab/center-schedule-api/pkg/database"
	"github.com/hakwonlab/center-schedule-api/pkg/logger"
	"github.com/hakwonlab/center-schedule-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	window := schedule.NewWindow(cfg.Window.StartHour, cfg.Window.EndHour)

	scheduleRepo := repository.NewScheduleRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	userRepo := repository.NewUserRepository(db)

	metrics := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	settingsSvc := service.NewSettingsService(settingsRepo, logr)
	rosterSvc := service.NewRosterService(studentRepo, scheduleRepo, validate, logr)

	notifyCfg := service.NotifyConfig{
		SenderNumber: cfg.SMS.SenderNumber,
		Workers:      cfg.SMS.WorkerConcurrency,
		Retries:      cfg.SMS.WorkerRetries,
	}
	if cfg.SMS.Enabled {
		notifyCfg.AdminNumbers = cfg.SMS.AdminNumbers
	}
	notifySvc := service.NewNotifyService(nil, studentRepo, settingsRepo, metrics, logr, notifyCfg)

	var submissionSvc *service.SubmissionService
	if cfg.Drafts.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		draftRepo := repository.NewDraftRepository(redisClient, cfg.Drafts.TTL)
		submissionSvc = service.NewSubmissionService(scheduleRepo, draftRepo, notifySvc, metrics, validate, logr, window)
	} else {
		submissionSvc = service.NewSubmissionService(scheduleRepo, nil, notifySvc, metrics, validate, logr, window)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifySvc.Start(ctx)
	defer notifySvc.Stop()

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(scheduleRepo, store, signer, logr)
		go exportSvc.RunCleanup(ctx, cfg.Exports.CleanupInterval, cfg.Exports.SignedURLTTL)
	}

	studentHandler := handler.NewStudentHandler(rosterSvc, submissionSvc, settingsSvc)
	adminHandler := handler.NewAdminHandler(authSvc, rosterSvc, submissionSvc, settingsSvc, exportSvc, notifySvc)

	r := handler.NewRouter(handler.RouterDeps{
		Config:  cfg,
		Logger:  logr,
		Auth:    authSvc,
		Metrics: metrics,
		Student: studentHandler,
		Admin:   adminHandler,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("forced shutdown", "error", err)
	}
}
