package domain

import (
	"context"
	"time"
)

// OTPStore persists one-time verification codes with an explicit expiry that
// is checked at read time. Verify consumes the code on success and counts
// failed attempts; a code is invalidated once the attempt budget is spent.
type OTPStore interface {
	Save(ctx context.Context, email, code string, expiry time.Duration) error
	Verify(ctx context.Context, email, code string) (bool, error)
	Clear(ctx context.Context, email string) error
}
