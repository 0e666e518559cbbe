package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/email"
	"go-interview-backend/pkg/logger"
)

type authUsecase struct {
	userRepo     domain.UserRepository
	otpStore     domain.OTPStore
	emailService *email.EmailService
	validate     *validator.Validate
	jwtSecret    string
	jwtExpiry    time.Duration
	otpExpiry    time.Duration
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	otpStore domain.OTPStore,
	emailService *email.EmailService,
	validate *validator.Validate,
	jwtSecret string,
	jwtExpiryMinutes int,
	otpExpiryMinutes int,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:     userRepo,
		otpStore:     otpStore,
		emailService: emailService,
		validate:     validate,
		jwtSecret:    jwtSecret,
		jwtExpiry:    time.Duration(jwtExpiryMinutes) * time.Minute,
		otpExpiry:    time.Duration(otpExpiryMinutes) * time.Minute,
	}
}

func (uc *authUsecase) Register(ctx context.Context, emailAddr, password, fullName string) (*domain.User, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" || password == "" || fullName == "" {
		return nil, apperror.BadRequest("Email, password and full name are required")
	}
	if err := uc.validate.Var(emailAddr, "email"); err != nil {
		return nil, apperror.BadRequest("Invalid email address")
	}
	if len(password) < 8 {
		return nil, apperror.BadRequest("Password must be at least 8 characters")
	}

	if existing, err := uc.userRepo.GetByEmail(ctx, emailAddr); err == nil && existing != nil {
		return nil, apperror.BadRequest("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		Email:        emailAddr,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}

	// Verification is best-effort at registration time; the user can always
	// request a fresh code later.
	code, err := uc.issueOTP(ctx, emailAddr)
	if err != nil {
		logger.Log.Warn("Failed to issue registration OTP", "email", emailAddr, "error", err)
		return user, nil
	}
	if uc.emailService != nil && uc.emailService.IsConfigured() {
		go func() {
			if err := uc.emailService.SendWelcomeEmail(user.Email, user.FullName, code, int(uc.otpExpiry.Minutes())); err != nil {
				logger.Log.Warn("Failed to send welcome email", "email", user.Email, "error", err)
			}
		}()
	}

	return user, nil
}

func (uc *authUsecase) Login(ctx context.Context, emailAddr, password string) (*domain.User, *domain.AuthToken, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" || password == "" {
		return nil, nil, apperror.BadRequest("Email and password are required")
	}

	user, err := uc.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, nil, apperror.Unauthorized("Invalid email or password")
		}
		return nil, nil, apperror.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperror.Unauthorized("Invalid email or password")
	}

	token, err := uc.issueToken(user)
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	return user, token, nil
}

func (uc *authUsecase) SendOTP(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" {
		return apperror.BadRequest("Email is required")
	}

	user, err := uc.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if err == domain.ErrNotFound {
			// Do not reveal whether the address is registered.
			return nil
		}
		return apperror.Internal(err)
	}
	if user.EmailVerified {
		return apperror.BadRequest("Email is already verified")
	}

	code, err := uc.issueOTP(ctx, emailAddr)
	if err != nil {
		return apperror.Internal(err)
	}
	if uc.emailService != nil && uc.emailService.IsConfigured() {
		go func() {
			if err := uc.emailService.SendOTPEmail(emailAddr, code, int(uc.otpExpiry.Minutes())); err != nil {
				logger.Log.Warn("Failed to send OTP email", "email", emailAddr, "error", err)
			}
		}()
	}
	return nil
}

func (uc *authUsecase) VerifyOTP(ctx context.Context, emailAddr, code string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" || code == "" {
		return apperror.BadRequest("Email and code are required")
	}

	ok, err := uc.otpStore.Verify(ctx, emailAddr, code)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.BadRequest("Invalid or expired verification code")
	}

	user, err := uc.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if err == domain.ErrNotFound {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal(err)
	}
	if err := uc.userRepo.SetEmailVerified(ctx, user.ID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (uc *authUsecase) issueOTP(ctx context.Context, emailAddr string) (string, error) {
	code, err := generateOTPCode()
	if err != nil {
		return "", err
	}
	if err := uc.otpStore.Save(ctx, emailAddr, code, uc.otpExpiry); err != nil {
		return "", err
	}
	return code, nil
}

func (uc *authUsecase) issueToken(user *domain.User) (*domain.AuthToken, error) {
	expiresAt := time.Now().Add(uc.jwtExpiry)
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return nil, err
	}
	return &domain.AuthToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// generateOTPCode returns a 6-digit code from crypto/rand.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
