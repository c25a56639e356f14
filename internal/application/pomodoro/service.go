package pomodoro

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pomodoro-api/internal/domain"
	"github.com/go-pomodoro-api/internal/pkg/id"
)

type Service interface {
	// GetToday returns the user's session created today (UTC calendar day),
	// with its rounds attached.
	GetToday(ctx context.Context, userID string) (*domain.PomodoroSession, error)
	// Create returns today's session if one exists, otherwise creates a new
	// session with one zeroed round per configured interval.
	Create(ctx context.Context, userID string) (*domain.PomodoroSession, error)
	Update(ctx context.Context, userID, sessionID string, req domain.UpdateSessionRequest) (*domain.PomodoroSession, error)
	UpdateRound(ctx context.Context, userID, roundID string, req domain.UpdateRoundRequest) (*domain.PomodoroRound, error)
	Delete(ctx context.Context, userID, sessionID string) error
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.PomodoroSession) error
	Get(ctx context.Context, sessionID string) (*domain.PomodoroSession, error)
	GetSince(ctx context.Context, userID string, since time.Time) (*domain.PomodoroSession, error)
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
	Delete(ctx context.Context, sessionID string) error
}

type roundStore interface {
	Put(ctx context.Context, r *domain.PomodoroRound) error
	Get(ctx context.Context, roundID string) (*domain.PomodoroRound, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.PomodoroRound, error)
	Update(ctx context.Context, roundID string, updates map[string]interface{}) error
	DeleteBySession(ctx context.Context, sessionID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// DynamoDB attribute names used in partial update maps.
const (
	fieldIsCompleted  = "is_completed"
	fieldTotalSeconds = "total_seconds"
)

type service struct {
	sessionRepo sessionStore
	roundRepo   roundStore
	userRepo    userStore
}

type ServiceDeps struct {
	SessionRepo sessionStore
	RoundRepo   roundStore
	UserRepo    userStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		sessionRepo: deps.SessionRepo,
		roundRepo:   deps.RoundRepo,
		userRepo:    deps.UserRepo,
	}
}

func (s *service) GetToday(ctx context.Context, userID string) (*domain.PomodoroSession, error) {
	sess, err := s.sessionRepo.GetSince(ctx, userID, startOfTodayUTC())
	if err != nil {
		return nil, fmt.Errorf("no session today: %w", domain.ErrNotFound)
	}
	return s.attachRounds(ctx, sess)
}

func (s *service) Create(ctx context.Context, userID string) (*domain.PomodoroSession, error) {
	if existing, err := s.sessionRepo.GetSince(ctx, userID, startOfTodayUTC()); err == nil {
		return s.attachRounds(ctx, existing)
	}

	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	intervals := u.IntervalsCount
	if intervals < 1 {
		intervals = domain.DefaultIntervalsCount
	}

	now := time.Now().UTC()
	sess := &domain.PomodoroSession{
		SessionID: id.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}

	rounds := make([]domain.PomodoroRound, 0, intervals)
	for i := 1; i <= intervals; i++ {
		round := domain.PomodoroRound{
			RoundID:   id.New(),
			SessionID: sess.SessionID,
			Number:    i,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.roundRepo.Put(ctx, &round); err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}
	sess.Rounds = rounds
	return sess, nil
}

func (s *service) Update(ctx context.Context, userID, sessionID string, req domain.UpdateSessionRequest) (*domain.PomodoroSession, error) {
	sess, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.IsCompleted != nil {
		updates[fieldIsCompleted] = *req.IsCompleted
	}
	if len(updates) == 0 {
		return s.attachRounds(ctx, sess)
	}
	if err := s.sessionRepo.Update(ctx, sessionID, updates); err != nil {
		return nil, err
	}
	sess, err = s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.attachRounds(ctx, sess)
}

func (s *service) UpdateRound(ctx context.Context, userID, roundID string, req domain.UpdateRoundRequest) (*domain.PomodoroRound, error) {
	round, err := s.roundRepo.Get(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("round not found: %w", domain.ErrNotFound)
	}
	if _, err := s.ownedSession(ctx, userID, round.SessionID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.TotalSeconds != nil {
		updates[fieldTotalSeconds] = *req.TotalSeconds
	}
	if req.IsCompleted != nil {
		updates[fieldIsCompleted] = *req.IsCompleted
	}
	if len(updates) == 0 {
		return round, nil
	}
	if err := s.roundRepo.Update(ctx, roundID, updates); err != nil {
		return nil, err
	}
	return s.roundRepo.Get(ctx, roundID)
}

func (s *service) Delete(ctx context.Context, userID, sessionID string) error {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.roundRepo.DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}

// ownedSession fetches the session and hides its existence from other users:
// a foreign session id yields ErrNotFound, not ErrUnauthorized.
func (s *service) ownedSession(ctx context.Context, userID, sessionID string) (*domain.PomodoroSession, error) {
	sess, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("pomodoro session not found: %w", domain.ErrNotFound)
	}
	if sess.UserID != userID {
		return nil, fmt.Errorf("pomodoro session not found: %w", domain.ErrNotFound)
	}
	return sess, nil
}

func (s *service) attachRounds(ctx context.Context, sess *domain.PomodoroSession) (*domain.PomodoroSession, error) {
	rounds, err := s.roundRepo.ListBySession(ctx, sess.SessionID)
	if err != nil {
		return nil, err
	}
	sess.Rounds = rounds
	return sess, nil
}

func startOfTodayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
