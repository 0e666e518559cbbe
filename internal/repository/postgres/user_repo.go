package postgres

import (
	"context"
	"errors"
	"math"
	"time"

	"go-interview-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new user account
func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, email, full_name, password_hash, email_verified, total_interviews, average_score, best_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, 0, 0, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.FullName, user.PasswordHash, user.EmailVerified,
		user.CreatedAt, user.UpdatedAt,
	)
	return err
}

const userColumns = `id, email, full_name, password_hash, email_verified, total_interviews, average_score, best_score, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.EmailVerified,
		&u.TotalInterviews, &u.AverageScore, &u.BestScore,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by id
func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail retrieves a user by email
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// SetEmailVerified marks the user's email as verified
func (r *userRepo) SetEmailVerified(ctx context.Context, id string) error {
	query := `UPDATE users SET email_verified = TRUE, updated_at = $2 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ApplyInterviewResult folds a completed interview into the user's aggregate
// stats inside one transaction: the row is locked so concurrent completions
// cannot lose an update.
func (r *userRepo) ApplyInterviewResult(ctx context.Context, id string, finalScore int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var total, average, best int
	err = tx.QueryRow(ctx,
		`SELECT total_interviews, average_score, best_score FROM users WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&total, &average, &best)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	newTotal := total + 1
	newAverage := int(math.Round((float64(average)*float64(total) + float64(finalScore)) / float64(newTotal)))
	newBest := best
	if finalScore > newBest {
		newBest = finalScore
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET total_interviews = $2, average_score = $3, best_score = $4, updated_at = $5 WHERE id = $1`,
		id, newTotal, newAverage, newBest, time.Now(),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
