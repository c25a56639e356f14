package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-pomodoro-api/internal/domain"
	"github.com/go-pomodoro-api/internal/pkg/secret"
	"golang.org/x/crypto/bcrypt"
)

const secretLength = 32

type Service interface {
	// Request creates a pending verification record for the user and
	// dispatches the plaintext secret by mail.
	Request(ctx context.Context, userID string) error
	// Verify compares the supplied secret against the stored hash. On match
	// the record transitions pending → accepted and Verify returns true; on
	// mismatch it returns false with no error and the record is untouched.
	// Re-verifying an accepted record fails with ErrUnprocessable.
	Verify(ctx context.Context, userID, suppliedSecret string) (bool, error)
	// ClearStale deletes every non-accepted record created before today's
	// UTC midnight. Run once at startup and before every record read.
	ClearStale(ctx context.Context) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.UserVerification) error
	GetByUser(ctx context.Context, userID string) (*domain.UserVerification, error)
	UpdateStatus(ctx context.Context, userID, status string) error
	DeleteStale(ctx context.Context, threshold time.Time) (int, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type mailDispatcher interface {
	SendVerification(ctx context.Context, userID, plainSecret string) error
}

type service struct {
	verificationRepo verificationStore
	userRepo         userStore
	mail             mailDispatcher
}

type ServiceDeps struct {
	VerificationRepo verificationStore
	UserRepo         userStore
	Mail             mailDispatcher
}

func NewService(deps ServiceDeps) Service {
	return &service{
		verificationRepo: deps.VerificationRepo,
		userRepo:         deps.UserRepo,
		mail:             deps.Mail,
	}
}

func (s *service) Request(ctx context.Context, userID string) error {
	if _, err := s.userRepo.Get(ctx, userID); err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}

	plain, err := secret.New(secretLength)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	v := &domain.UserVerification{
		UserID:     userID,
		SecretHash: string(hash),
		Status:     domain.VerificationPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return err
	}

	// Fire-and-forget: a failed dispatch must not fail the request.
	if err := s.mail.SendVerification(ctx, userID, plain); err != nil {
		slog.Warn("failed to dispatch verification mail", "user_id", userID, "err", err)
	}
	return nil
}

func (s *service) Verify(ctx context.Context, userID, suppliedSecret string) (bool, error) {
	if err := s.ClearStale(ctx); err != nil {
		slog.Warn("stale verification sweep failed", "err", err)
	}

	v, err := s.verificationRepo.GetByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	if v.Status == domain.VerificationAccepted {
		return false, fmt.Errorf("user already verified: %w", domain.ErrUnprocessable)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(v.SecretHash), []byte(suppliedSecret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}

	if err := s.verificationRepo.UpdateStatus(ctx, userID, domain.VerificationAccepted); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) ClearStale(ctx context.Context) error {
	deleted, err := s.verificationRepo.DeleteStale(ctx, startOfTodayUTC())
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("deleted stale verifications", "count", deleted)
	}
	return nil
}

// startOfTodayUTC returns today's UTC midnight — the oldest creation time a
// non-accepted record may have. Calendar-day boundary, not a rolling window.
func startOfTodayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
