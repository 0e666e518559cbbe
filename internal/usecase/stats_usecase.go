package usecase

import (
	"context"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
)

const recentInterviewLimit = 10

type statsUsecase struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
}

func NewStatsUsecase(userRepo domain.UserRepository, sessionRepo domain.SessionRepository) domain.StatsUsecase {
	return &statsUsecase{userRepo: userRepo, sessionRepo: sessionRepo}
}

func (uc *statsUsecase) GetDashboardStats(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}

	sessions, err := uc.sessionRepo.ListByUserID(ctx, userID, recentInterviewLimit)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	recent := make([]domain.RecentInterview, 0, len(sessions))
	for _, s := range sessions {
		score := 0
		if s.FinalScore != nil {
			score = *s.FinalScore
		}
		recent = append(recent, domain.RecentInterview{
			SessionID:       s.ID,
			Role:            s.Role,
			Domain:          s.Domain,
			Status:          s.Status,
			Score:           score,
			RoundsCompleted: len(s.RoundAverages),
			Date:            s.CreatedAt,
		})
	}

	return &domain.DashboardStats{
		TotalInterviews:  user.TotalInterviews,
		AverageScore:     user.AverageScore,
		BestScore:        user.BestScore,
		RecentInterviews: recent,
	}, nil
}
