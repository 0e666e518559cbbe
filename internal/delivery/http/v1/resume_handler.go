package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/pkg/apperror"
)

// maxResumeSize caps resume uploads at 5 MB.
const maxResumeSize = 5 << 20

type ResumeHandler struct {
	resumeUC usecase.ResumeUsecase
}

// NewResumeHandler registers resume parsing routes
func NewResumeHandler(r *gin.RouterGroup, resumeUC usecase.ResumeUsecase) {
	handler := &ResumeHandler{resumeUC: resumeUC}
	r.POST("/resumes/parse", handler.ParseResume)
}

func (h *ResumeHandler) ParseResume(c *gin.Context) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		c.Error(apperror.BadRequest("A 'resume' file field is required"))
		return
	}
	if fileHeader.Size > maxResumeSize {
		c.Error(apperror.BadRequest("Resume file exceeds the 5 MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Could not read uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxResumeSize+1))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	profile, err := h.resumeUC.ParseResume(
		c.Request.Context(),
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Filename,
		data,
	)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Resume parsed", profile)
}
