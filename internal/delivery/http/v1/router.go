package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-interview-backend/config"
	"go-interview-backend/internal/delivery/http/middleware"
	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/usecase"
)

type RouterDeps struct {
	AuthUC      domain.AuthUsecase
	InterviewUC domain.InterviewUsecase
	StatsUC     domain.StatsUsecase
	ResumeUC    usecase.ResumeUsecase
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CSRFMiddleware())
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Public auth routes get the stricter limiter
	public := v1.Group("")
	public.Use(middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig(deps.Config.RateLimitAuthThreshold, window)))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config, deps.AuthUC))
	{
		NewAuthHandler(public, protected, deps.AuthUC)
		NewInterviewHandler(protected, deps.InterviewUC)
		NewDashboardHandler(protected, deps.StatsUC)
		NewResumeHandler(protected, deps.ResumeUC)
	}

	return r
}
