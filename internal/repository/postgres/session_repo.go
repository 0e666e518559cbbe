package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-interview-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type sessionRepo struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new interview session repository
func NewSessionRepository(db *pgxpool.Pool) domain.SessionRepository {
	return &sessionRepo{db: db}
}

// Create inserts a new interview session
func (r *sessionRepo) Create(ctx context.Context, session *domain.InterviewSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	if session.Status == "" {
		session.Status = domain.SessionStatusActive
	}
	if session.CurrentRound == 0 {
		session.CurrentRound = domain.RoundHR
	}

	var resumeJSON []byte
	if session.Resume != nil {
		var err error
		resumeJSON, err = json.Marshal(session.Resume)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO interview_sessions
			(id, user_id, role, experience_level, domain, resume, questions_per_round, current_round, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Role,
		session.ExperienceLevel,
		session.Domain,
		resumeJSON,
		session.QuestionsPerRound,
		session.CurrentRound,
		session.Status,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}

// GetByID retrieves a session with its question/answer logs and round averages
func (r *sessionRepo) GetByID(ctx context.Context, id string) (*domain.InterviewSession, error) {
	query := `
		SELECT id, user_id, role, experience_level, domain, resume, questions_per_round,
		       current_round, status, final_score, created_at, updated_at
		FROM interview_sessions
		WHERE id = $1`

	var session domain.InterviewSession
	var resumeJSON []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID, &session.UserID, &session.Role, &session.ExperienceLevel,
		&session.Domain, &resumeJSON, &session.QuestionsPerRound,
		&session.CurrentRound, &session.Status, &session.FinalScore,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if len(resumeJSON) > 0 {
		var resume domain.ResumeProfile
		if err := json.Unmarshal(resumeJSON, &resume); err == nil {
			session.Resume = &resume
		}
	}

	if err := r.loadQuestions(ctx, &session); err != nil {
		return nil, err
	}
	if err := r.loadAnswers(ctx, &session); err != nil {
		return nil, err
	}
	if err := r.loadRoundAverages(ctx, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *sessionRepo) loadQuestions(ctx context.Context, session *domain.InterviewSession) error {
	query := `
		SELECT round, text, asked_at
		FROM interview_questions
		WHERE session_id = $1
		ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, session.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.Round, &q.Text, &q.AskedAt); err != nil {
			return err
		}
		session.Questions = append(session.Questions, q)
	}
	return rows.Err()
}

func (r *sessionRepo) loadAnswers(ctx context.Context, session *domain.InterviewSession) error {
	query := `
		SELECT round, question, answer, clarity, relevance, completeness, confidence, feedback, submitted_at
		FROM interview_answers
		WHERE session_id = $1
		ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, session.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.Round, &a.Question, &a.Text,
			&a.Evaluation.Clarity, &a.Evaluation.Relevance,
			&a.Evaluation.Completeness, &a.Evaluation.Confidence,
			&a.Evaluation.Feedback, &a.SubmittedAt,
		); err != nil {
			return err
		}
		session.Answers = append(session.Answers, a)
	}
	return rows.Err()
}

func (r *sessionRepo) loadRoundAverages(ctx context.Context, session *domain.InterviewSession) error {
	query := `SELECT round, average FROM interview_round_averages WHERE session_id = $1`

	rows, err := r.db.Query(ctx, query, session.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	session.RoundAverages = make(map[int]int)
	for rows.Next() {
		var round, average int
		if err := rows.Scan(&round, &average); err != nil {
			return err
		}
		session.RoundAverages[round] = average
	}
	return rows.Err()
}

// ListByUserID retrieves the user's sessions, newest first, with their round
// averages but without the per-question logs (dashboard view)
func (r *sessionRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.InterviewSession, error) {
	query := `
		SELECT id, user_id, role, experience_level, domain, questions_per_round,
		       current_round, status, final_score, created_at, updated_at
		FROM interview_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.InterviewSession
	for rows.Next() {
		var s domain.InterviewSession
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Role, &s.ExperienceLevel, &s.Domain,
			&s.QuestionsPerRound, &s.CurrentRound, &s.Status, &s.FinalScore,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadRoundAveragesForAll(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) loadRoundAveragesForAll(ctx context.Context, sessions []domain.InterviewSession) error {
	if len(sessions) == 0 {
		return nil
	}

	ids := make([]string, len(sessions))
	byID := make(map[string]*domain.InterviewSession, len(sessions))
	for i := range sessions {
		sessions[i].RoundAverages = make(map[int]int)
		ids[i] = sessions[i].ID
		byID[sessions[i].ID] = &sessions[i]
	}

	query := `SELECT session_id, round, average FROM interview_round_averages WHERE session_id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sessionID string
		var round, average int
		if err := rows.Scan(&sessionID, &round, &average); err != nil {
			return err
		}
		if s, ok := byID[sessionID]; ok {
			s.RoundAverages[round] = average
		}
	}
	return rows.Err()
}

// AppendQuestion appends one question to the session's ordered log
func (r *sessionRepo) AppendQuestion(ctx context.Context, id string, q domain.Question) error {
	query := `
		INSERT INTO interview_questions (session_id, round, text, asked_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, id, q.Round, q.Text, q.AskedAt); err != nil {
		return err
	}
	return r.touch(ctx, id)
}

// AppendAnswer appends one answer with its evaluation to the session's ordered log
func (r *sessionRepo) AppendAnswer(ctx context.Context, id string, a domain.Answer) error {
	query := `
		INSERT INTO interview_answers
			(session_id, round, question, answer, clarity, relevance, completeness, confidence, feedback, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err := r.db.Exec(ctx, query, id, a.Round, a.Question, a.Text,
		a.Evaluation.Clarity, a.Evaluation.Relevance, a.Evaluation.Completeness,
		a.Evaluation.Confidence, a.Evaluation.Feedback, a.SubmittedAt,
	); err != nil {
		return err
	}
	return r.touch(ctx, id)
}

// SetRoundAverage records a round's average. Write-once: a second write for
// the same round is a no-op, keeping the stored value immutable.
func (r *sessionRepo) SetRoundAverage(ctx context.Context, id string, round, value int) error {
	query := `
		INSERT INTO interview_round_averages (session_id, round, average)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, round) DO NOTHING`

	if _, err := r.db.Exec(ctx, query, id, round, value); err != nil {
		return err
	}
	return r.touch(ctx, id)
}

// SetCurrentRound advances the session's round pointer
func (r *sessionRepo) SetCurrentRound(ctx context.Context, id string, round int) error {
	query := `UPDATE interview_sessions SET current_round = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, round, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus updates the session status
func (r *sessionRepo) SetStatus(ctx context.Context, id string, status string) error {
	query := `UPDATE interview_sessions SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetFinalScore records the final score. Write-once: an already-set score is
// never overwritten.
func (r *sessionRepo) SetFinalScore(ctx context.Context, id string, score int) error {
	query := `
		UPDATE interview_sessions
		SET final_score = $2, updated_at = $3
		WHERE id = $1 AND final_score IS NULL`
	_, err := r.db.Exec(ctx, query, id, score, time.Now())
	return err
}

func (r *sessionRepo) touch(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE interview_sessions SET updated_at = $2 WHERE id = $1`, id, time.Now())
	return err
}
