package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"miniblog/internal/config"
	"miniblog/internal/db"
	"miniblog/internal/email"
	apihttp "miniblog/internal/http"
	"miniblog/internal/repository"
	"miniblog/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	postRepo := repository.NewPgPostRepository(pool)
	commentRepo := repository.NewPgCommentRepository(pool)
	likeRepo := repository.NewPgLikeRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		loginLimiter service.LoginRateLimiter
		tokenStore   service.RefreshTokenStore
		redisClient  *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, time.Minute, 10)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)

	userSvc := service.NewUserService(logger, userRepo, loginLimiter)
	postSvc := service.NewPostService(logger, postRepo)
	commentSvc := service.NewCommentService(logger, commentRepo, postRepo, userRepo, emailSender)
	likeSvc := service.NewLikeService(logger, likeRepo, postRepo)

	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	postHandler := apihttp.NewPostHandler(logger, postSvc, likeSvc)
	commentHandler := apihttp.NewCommentHandler(logger, commentSvc)
	router := apihttp.NewRouter(logger, jwtSvc, userHandler, postHandler, commentHandler, cfg.StaticDir)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
