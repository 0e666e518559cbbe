package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"go-interview-backend/config"
	v1 "go-interview-backend/internal/delivery/http/v1"
	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/gateway/gemini"
	"go-interview-backend/internal/repository/postgres"
	"go-interview-backend/internal/repository/redisstore"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/pkg/database"
	"go-interview-backend/pkg/email"
	"go-interview-backend/pkg/logger"
	"go-interview-backend/pkg/redis"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting interview backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional; OTP store and rate limiter fall back to memory)
	var otpStore domain.OTPStore
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory OTP store", "error", err)
		}
	}
	if client := redis.Client(); client != nil {
		otpStore = redisstore.NewOTPStore(client, cfg.OTPMaxAttempts)
	} else {
		otpStore = redisstore.NewMemoryOTPStore(cfg.OTPMaxAttempts)
	}
	defer redis.Close()

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	sessionRepo := postgres.NewSessionRepository(dbPool)

	// 6. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - notifications will be skipped")
	}

	// 7. Setup Gemini Gateways (degrade to fallbacks when not configured)
	geminiClient, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		if errors.Is(err, gemini.ErrNotConfigured) {
			logger.Log.Warn("GEMINI_API_KEY not set - interviews will use fallback questions and scoring")
		} else {
			logger.Log.Error("Failed to create Gemini client", "error", err)
			os.Exit(1)
		}
	}
	questionGW := gemini.NewQuestionGateway(geminiClient)
	evaluationGW := gemini.NewEvaluationGateway(geminiClient)
	feedbackGW := gemini.NewFeedbackGateway(geminiClient)
	resumeExtractor := gemini.NewResumeExtractor(geminiClient)

	// 8. Setup UseCases
	validate := validator.New()
	authUC := usecase.NewAuthUsecase(userRepo, otpStore, emailService, validate, cfg.JWTSecret, cfg.JWTExpiryMinutes, cfg.OTPExpiryMinutes)
	interviewUC := usecase.NewInterviewUsecase(sessionRepo, userRepo, questionGW, evaluationGW, feedbackGW, emailService, cfg.QuestionsPerRound)
	statsUC := usecase.NewStatsUsecase(userRepo, sessionRepo)
	resumeUC := usecase.NewResumeUsecase(resumeExtractor)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:      authUC,
		InterviewUC: interviewUC,
		StatsUC:     statsUC,
		ResumeUC:    resumeUC,
		Config:      cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
