package main

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"boardly/internal/api"
	"boardly/internal/api/handlers"
	"boardly/internal/api/middleware"
	"boardly/internal/engine/activity"
	"boardly/internal/engine/boards"
	"boardly/internal/engine/pipeline"
	"boardly/internal/engine/realtime"
	"boardly/internal/engine/webhooks"
	"boardly/internal/pkg/logger"
	"boardly/internal/platform/auth"
	"boardly/internal/platform/config"
	"boardly/internal/platform/database"
	"boardly/internal/platform/repositories"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	publisher, err := realtime.Connect(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer publisher.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	boardRepo := repositories.NewBoardRepository(db)
	listRepo := repositories.NewListRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	webhookRepo := repositories.NewWebhookRepository(db)
	activityRepo := repositories.NewActivityRepository(db)

	// Propagation pipeline
	recorder := activity.NewRecorder(activityRepo)
	dispatcher := webhooks.NewDispatcher(webhookRepo,
		webhooks.WithClient(&http.Client{Timeout: cfg.Webhooks.DeliveryTimeout}),
		webhooks.WithFailureThreshold(cfg.Webhooks.FailureThreshold),
	)
	orchestrator := pipeline.NewOrchestrator(publisher, recorder, dispatcher)

	boardSvc := boards.NewService(boardRepo, listRepo, taskRepo, orchestrator)
	tokenSvc := auth.NewTokenService(cfg.JWT)

	deps := &api.Dependencies{
		AuthHandler:     handlers.NewAuthHandler(userRepo, tokenSvc),
		BoardHandler:    handlers.NewBoardHandler(boardSvc),
		ListHandler:     handlers.NewListHandler(boardSvc),
		TaskHandler:     handlers.NewTaskHandler(boardSvc),
		WebhookHandler:  handlers.NewWebhookHandler(webhookRepo),
		ActivityHandler: handlers.NewActivityHandler(recorder),
		HealthHandler:   handlers.NewHealthHandler(db),
		AuthMiddleware:  middleware.NewAuthMiddleware(tokenSvc),
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Info().Str("addr", addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
