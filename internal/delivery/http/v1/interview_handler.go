package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/validation"
)

type InterviewHandler struct {
	interviewUC domain.InterviewUsecase
}

// NewInterviewHandler registers interview session routes
func NewInterviewHandler(r *gin.RouterGroup, interviewUC domain.InterviewUsecase) {
	handler := &InterviewHandler{interviewUC: interviewUC}

	interviews := r.Group("/interviews")
	{
		interviews.POST("", handler.CreateSession)
		interviews.GET("/:id", handler.GetSession)
		interviews.POST("/:id/greeting", handler.Greeting)
		interviews.POST("/:id/answers", handler.SubmitAnswer)
		interviews.POST("/:id/continue", handler.ContinueRound)
		interviews.POST("/:id/pause", handler.Pause)
		interviews.POST("/:id/resume", handler.Resume)
		interviews.GET("/:id/results", handler.Results)
	}
}

// CreateSessionRequest is the request payload for starting an interview
type CreateSessionRequest struct {
	Role            string                `json:"role" binding:"required"`
	ExperienceLevel string                `json:"experience_level"`
	Domain          string                `json:"domain"`
	Resume          *domain.ResumeProfile `json:"resume"`
}

// SubmitAnswerRequest carries the candidate's answer text
type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

func (h *InterviewHandler) CreateSession(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	session, err := h.interviewUC.CreateSession(c.Request.Context(), userID, domain.CreateSessionInput{
		Role:            req.Role,
		ExperienceLevel: req.ExperienceLevel,
		Domain:          req.Domain,
		Resume:          req.Resume,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Interview session created", session)
}

func (h *InterviewHandler) GetSession(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	session, err := h.interviewUC.GetSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Session retrieved", session)
}

func (h *InterviewHandler) Greeting(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	greeting, err := h.interviewUC.Greeting(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Greeting generated", gin.H{"greeting": greeting})
}

func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	result, err := h.interviewUC.SubmitAnswer(c.Request.Context(), userID, c.Param("id"), req.Answer)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Answer evaluated", result)
}

func (h *InterviewHandler) ContinueRound(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	question, err := h.interviewUC.ContinueRound(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Next round started", question)
}

func (h *InterviewHandler) Pause(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	if err := h.interviewUC.Pause(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Session paused", nil)
}

func (h *InterviewHandler) Resume(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	question, err := h.interviewUC.Resume(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Session resumed", question)
}

func (h *InterviewHandler) Results(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	results, err := h.interviewUC.Results(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Results retrieved", results)
}
