// Package redisstore holds Redis-backed stores with an in-memory fallback
// for local development.
package redisstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-interview-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	otpKeyPrefix      = "otp:"
	otpAttemptsPrefix = "otp:attempts:"
)

type otpStore struct {
	client      *redis.Client
	maxAttempts int
}

// NewOTPStore creates a Redis-backed OTP store. Codes carry an explicit TTL;
// failed attempts are counted and the code is invalidated once maxAttempts
// is reached.
func NewOTPStore(client *redis.Client, maxAttempts int) domain.OTPStore {
	return &otpStore{client: client, maxAttempts: maxAttempts}
}

func (s *otpStore) Save(ctx context.Context, email, code string, expiry time.Duration) error {
	if err := s.client.Set(ctx, otpKeyPrefix+email, code, expiry).Err(); err != nil {
		return err
	}
	// reset the attempt counter alongside the fresh code
	return s.client.Del(ctx, otpAttemptsPrefix+email).Err()
}

func (s *otpStore) Verify(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.client.Get(ctx, otpKeyPrefix+email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // no code or already expired
		}
		return false, err
	}

	attempts, err := s.client.Incr(ctx, otpAttemptsPrefix+email).Result()
	if err != nil {
		return false, err
	}
	if attempts == 1 {
		// attempts expire with the code's window
		if ttl, err := s.client.TTL(ctx, otpKeyPrefix+email).Result(); err == nil && ttl > 0 {
			_ = s.client.Expire(ctx, otpAttemptsPrefix+email, ttl).Err()
		}
	}
	if int(attempts) > s.maxAttempts {
		_ = s.Clear(ctx, email)
		return false, nil
	}

	if stored != code {
		return false, nil
	}

	// consume on success
	return true, s.Clear(ctx, email)
}

func (s *otpStore) Clear(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpKeyPrefix+email, otpAttemptsPrefix+email).Err()
}

type memoryEntry struct {
	code      string
	expiresAt time.Time
	attempts  int
}

type memoryOTPStore struct {
	mu          sync.Mutex
	entries     map[string]*memoryEntry
	maxAttempts int
}

// NewMemoryOTPStore is the in-process fallback used when Redis is not
// configured. Expiry is an explicit timestamp checked at read time.
func NewMemoryOTPStore(maxAttempts int) domain.OTPStore {
	return &memoryOTPStore{
		entries:     make(map[string]*memoryEntry),
		maxAttempts: maxAttempts,
	}
}

func (s *memoryOTPStore) Save(_ context.Context, email, code string, expiry time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = &memoryEntry{
		code:      code,
		expiresAt: time.Now().Add(expiry),
	}
	return nil
}

func (s *memoryOTPStore) Verify(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[email]
	if !ok {
		return false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, email)
		return false, nil
	}

	entry.attempts++
	if entry.attempts > s.maxAttempts {
		delete(s.entries, email)
		return false, nil
	}

	if entry.code != code {
		return false, nil
	}

	delete(s.entries, email)
	return true, nil
}

func (s *memoryOTPStore) Clear(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}
