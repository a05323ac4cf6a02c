package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	goMongo "go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	apiHandler "github.com/personalmgr/backend/api/handler"
	"github.com/personalmgr/backend/internal/config"
	"github.com/personalmgr/backend/internal/infrastructure/googlecal"
	mongoInfra "github.com/personalmgr/backend/internal/infrastructure/mongo"
	"github.com/personalmgr/backend/internal/infrastructure/monitor"
	redisInfra "github.com/personalmgr/backend/internal/infrastructure/redis"
	"github.com/personalmgr/backend/internal/infrastructure/tokenstore"
	"github.com/personalmgr/backend/internal/middleware"
	"github.com/personalmgr/backend/internal/router"
	"github.com/personalmgr/backend/internal/services"
	"github.com/personalmgr/backend/internal/services/lifecycle"
	"github.com/personalmgr/backend/pkg/httpcontext"
	"github.com/personalmgr/backend/pkg/logger"
	"github.com/personalmgr/backend/repository"
	memoryRepo "github.com/personalmgr/backend/repository/memory"
	mongoRepo "github.com/personalmgr/backend/repository/mongo"
	redisRepo "github.com/personalmgr/backend/repository/redis"
	authUC "github.com/personalmgr/backend/usecase/auth"
	taskUC "github.com/personalmgr/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	var mongoClient *goMongo.Client
	var taskRepo repository.TaskRepository

	mongoClient, err = mongoInfra.Connect(appCtx, cfg.Mongo, zapLogger)
	if err != nil {
		if cfg.Environment != "development" {
			zapLogger.Fatal("mongodb connection failed", zap.Error(err))
		}
		// Development fallback: serve from process memory, nothing persists.
		zapLogger.Warn("mongodb unavailable, using in-memory task store", zap.Error(err))
		taskRepo = memoryRepo.NewTaskRepository()
	} else {
		manager.Register("mongodb", func(ctx context.Context) error {
			return mongoClient.Disconnect(ctx)
		})
		tasks := mongoClient.Database(cfg.Mongo.Database).Collection("tasks")
		taskRepo = mongoRepo.NewTaskRepository(tasks)
	}

	redisClient, err := redisInfra.NewClient(cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	tokens, err := tokenstore.Open(cfg.Google.TokenStorePath, "tokens")
	if err != nil {
		zapLogger.Fatal("failed to open token store", zap.Error(err))
	}
	manager.Register("token_store", func(ctx context.Context) error {
		return tokens.Close()
	})

	calendarProvider := googlecal.New(googlecal.Config{
		CredentialsFile: cfg.Google.CredentialsFile,
		CalendarID:      cfg.Google.CalendarID,
		RequestTimeout:  cfg.Google.RequestTimeout,
	}, tokens, zapLogger)

	mon := monitor.New(mongoClient, redisClient, tokens, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	keepalive := services.NewCalendarKeepalive(
		calendarProvider,
		cfg.Scheduler.KeepaliveSchedule,
		cfg.Google.RequestTimeout,
		zapLogger,
	)
	keepalive.Start()
	manager.Register("calendar_keepalive", func(ctx context.Context) error {
		keepalive.Stop(ctx)
		return nil
	})

	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	authUseCase := authUC.New(sessionRepo, cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	taskUseCase := taskUC.New(taskRepo, calendarProvider, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.SessionTTL),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger, cfg.Environment),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
