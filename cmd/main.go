package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/boardside/kilterboard-backend/internal/clients/redis"
	"github.com/boardside/kilterboard-backend/internal/data/db"
	"github.com/boardside/kilterboard-backend/internal/data/repos"
	"github.com/boardside/kilterboard-backend/internal/domain/board"
	"github.com/boardside/kilterboard-backend/internal/http"
	"github.com/boardside/kilterboard-backend/internal/http/handlers"
	"github.com/boardside/kilterboard-backend/internal/http/middleware"
	"github.com/boardside/kilterboard-backend/internal/platform/envutil"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
	"github.com/boardside/kilterboard-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecret := envutil.String("JWT_SECRET_KEY", "defaultsecret")
	accessTTL := envutil.Duration("ACCESS_TOKEN_TTL", 1*time.Hour)
	refreshTTL := envutil.Duration("REFRESH_TOKEN_TTL", 24*time.Hour)
	ratingTTL := envutil.Duration("RATING_CACHE_TTL", 10*time.Minute)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	gdb := postgresService.DB()

	// Board geometry catalog
	boards, err := board.LoadRegistry()
	if err != nil {
		log.Fatal("Board registry load failed", "error", err)
	}
	log.Info("Loaded board registry", "boards", boards.Names())

	// Redis (optional: the cache and wall bus degrade to no-ops without it)
	rdb, err := redis.NewClient(log)
	if err != nil {
		log.Warn("Redis init failed, running without cache and wall bus", "error", err)
		rdb = nil
	}
	ratingCache := redis.NewRatingCache(rdb, log, ratingTTL)
	wallBus := redis.NewWallBus(rdb, log)

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(gdb, log)
	userTokenRepo := repos.NewUserTokenRepo(gdb, log)
	problemRepo := repos.NewProblemRepo(gdb, log)
	voteRepo := repos.NewVoteRepo(gdb, log)
	attemptRepo := repos.NewAttemptRepo(gdb, log)
	statsRepo := repos.NewStatisticsRepo(gdb, log)

	// Services
	log.Info("Setting up services...")
	avatarService, err := services.NewAvatarService(log)
	if err != nil {
		log.Warn("Avatar service init failed, registering without avatars", "error", err)
		avatarService = nil
	}
	authService := services.NewAuthService(gdb, log, userRepo, userTokenRepo, avatarService, jwtSecret, accessTTL, refreshTTL)
	userService := services.NewUserService(gdb, log, userRepo, avatarService)
	problemService := services.NewProblemService(gdb, log, problemRepo, boards)
	voteService := services.NewVoteService(gdb, log, voteRepo, problemRepo, ratingCache)
	statsService := services.NewStatsService(gdb, log, attemptRepo, statsRepo, problemRepo)
	wallService := services.NewWallService(log, problemRepo, wallBus)

	// Handlers + middleware
	log.Info("Setting up handlers...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, statsService)
	problemHandler := handlers.NewProblemHandler(problemService, voteService, statsService, wallService)
	boardHandler := handlers.NewBoardHandler(boards)
	healthHandler := handlers.NewHealthHandler()
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	port := envutil.String("PORT", "8080")
	server := http.NewServer(http.RouterConfig{
		Log:            log,
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		UserHandler:    userHandler,
		ProblemHandler: problemHandler,
		BoardHandler:   boardHandler,
		HealthHandler:  healthHandler,
	}, ":"+port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", port)
		return server.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = wallBus.Close()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
