package usecase

import (
	"context"
	"strings"

	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/gateway/fallback"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/logger"
	"go-interview-backend/pkg/resume"
)

// ResumeUsecase turns an uploaded resume file into a structured profile.
type ResumeUsecase interface {
	ParseResume(ctx context.Context, contentType, filename string, data []byte) (*domain.ResumeProfile, error)
}

type resumeUsecase struct {
	extractor domain.ResumeExtractor
}

func NewResumeUsecase(extractor domain.ResumeExtractor) ResumeUsecase {
	return &resumeUsecase{extractor: extractor}
}

func (uc *resumeUsecase) ParseResume(ctx context.Context, contentType, filename string, data []byte) (*domain.ResumeProfile, error) {
	if len(data) == 0 {
		return nil, apperror.BadRequest("Resume file is empty")
	}

	text, err := resume.ExtractText(contentType, filename, data)
	if err != nil {
		return nil, apperror.BadRequest("Unsupported or unreadable resume file")
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperror.BadRequest("Could not extract any text from the resume")
	}

	profile, err := uc.extractor.ExtractProfile(ctx, text)
	if err != nil {
		if qe, ok := domain.AsQuotaExceeded(err); ok {
			return nil, apperror.QuotaExceeded(quotaMessage(qe), qe.RetryAfter)
		}
		logger.Log.Warn("Resume extractor failed, using heuristic parser", "error", err)
		profile = fallback.ResumeProfile(text)
	}
	return profile, nil
}
