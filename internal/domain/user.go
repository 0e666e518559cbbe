package domain

import (
	"context"
	"time"
)

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	PasswordHash  string    `json:"-"`
	EmailVerified bool      `json:"email_verified"`
	// Aggregate interview stats, updated transactionally when a session completes
	TotalInterviews int       `json:"total_interviews"`
	AverageScore    int       `json:"average_score"`
	BestScore       int       `json:"best_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	SetEmailVerified(ctx context.Context, id string) error
	// ApplyInterviewResult folds a completed interview's final score into the
	// user's aggregate stats in a single transaction.
	ApplyInterviewResult(ctx context.Context, id string, finalScore int) error
}

// AuthToken is an issued access token with its expiry.
type AuthToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthUsecase interface {
	Register(ctx context.Context, email, password, fullName string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, *AuthToken, error)
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}

// DashboardStats is the aggregate view served to the dashboard page.
type DashboardStats struct {
	TotalInterviews  int                `json:"total_interviews"`
	AverageScore     int                `json:"average_score"`
	BestScore        int                `json:"best_score"`
	RecentInterviews []RecentInterview  `json:"recent_interviews"`
}

type RecentInterview struct {
	SessionID       string    `json:"session_id"`
	Role            string    `json:"role"`
	Domain          string    `json:"domain"`
	Status          string    `json:"status"`
	Score           int       `json:"score"`
	RoundsCompleted int       `json:"rounds_completed"`
	Date            time.Time `json:"date"`
}

type StatsUsecase interface {
	GetDashboardStats(ctx context.Context, userID string) (*DashboardStats, error)
}
