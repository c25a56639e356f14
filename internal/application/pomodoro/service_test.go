package pomodoro

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-pomodoro-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.PomodoroSession) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSessionStore) Get(ctx context.Context, sessionID string) (*domain.PomodoroSession, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.PomodoroSession); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) GetSince(ctx context.Context, userID string, since time.Time) (*domain.PomodoroSession, error) {
	args := m.Called(ctx, userID, since)
	if s, _ := args.Get(0).(*domain.PomodoroSession); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) Update(ctx context.Context, sessionID string, updates map[string]interface{}) error {
	return m.Called(ctx, sessionID, updates).Error(0)
}
func (m *mockSessionStore) Delete(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type mockRoundStore struct{ mock.Mock }

func (m *mockRoundStore) Put(ctx context.Context, r *domain.PomodoroRound) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockRoundStore) Get(ctx context.Context, roundID string) (*domain.PomodoroRound, error) {
	args := m.Called(ctx, roundID)
	if r, _ := args.Get(0).(*domain.PomodoroRound); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRoundStore) ListBySession(ctx context.Context, sessionID string) ([]domain.PomodoroRound, error) {
	args := m.Called(ctx, sessionID)
	if r, _ := args.Get(0).([]domain.PomodoroRound); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRoundStore) Update(ctx context.Context, roundID string, updates map[string]interface{}) error {
	return m.Called(ctx, roundID, updates).Error(0)
}
func (m *mockRoundStore) DeleteBySession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- builder ---

func newService(ss *mockSessionStore, rs *mockRoundStore, us *mockUserStore) Service {
	return NewService(ServiceDeps{
		SessionRepo: ss,
		RoundRepo:   rs,
		UserRepo:    us,
	})
}

// --- GetToday ---

func TestGetToday_NoSession(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("GetSince", mock.Anything, "u1", mock.Anything).Return(nil, domain.ErrNotFound)

	svc := newService(ss, nil, nil)
	_, err := svc.GetToday(context.Background(), "u1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetToday_AttachesRounds(t *testing.T) {
	ss := &mockSessionStore{}
	rs := &mockRoundStore{}
	ss.On("GetSince", mock.Anything, "u1", mock.Anything).Return(&domain.PomodoroSession{
		SessionID: "s1",
		UserID:    "u1",
	}, nil)
	rs.On("ListBySession", mock.Anything, "s1").Return([]domain.PomodoroRound{
		{RoundID: "r1", SessionID: "s1", Number: 1},
		{RoundID: "r2", SessionID: "s1", Number: 2},
	}, nil)

	svc := newService(ss, rs, nil)
	sess, err := svc.GetToday(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, sess.Rounds, 2)
	assert.Equal(t, 1, sess.Rounds[0].Number)
}

func TestGetToday_ThresholdIsTodayUTCMidnight(t *testing.T) {
	ss := &mockSessionStore{}
	var gotSince time.Time
	ss.On("GetSince", mock.Anything, "u1", mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { gotSince = args.Get(2).(time.Time) }).
		Return(nil, domain.ErrNotFound)

	svc := newService(ss, nil, nil)
	before := midnightUTC(time.Now().UTC())
	_, _ = svc.GetToday(context.Background(), "u1")
	after := midnightUTC(time.Now().UTC())

	assert.True(t, gotSince.Equal(before) || gotSince.Equal(after))
	assert.Equal(t, time.UTC, gotSince.Location())
}

func midnightUTC(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

// --- Create ---

func TestCreate_ReturnsExistingTodaySession(t *testing.T) {
	ss := &mockSessionStore{}
	rs := &mockRoundStore{}
	us := &mockUserStore{}
	ss.On("GetSince", mock.Anything, "u1", mock.Anything).Return(&domain.PomodoroSession{
		SessionID: "s1",
		UserID:    "u1",
	}, nil)
	rs.On("ListBySession", mock.Anything, "s1").Return([]domain.PomodoroRound{}, nil)

	svc := newService(ss, rs, us)
	sess, err := svc.Create(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "s1", sess.SessionID)
	ss.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	us.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCreate_NewSessionWithConfiguredRounds(t *testing.T) {
	ss := &mockSessionStore{}
	rs := &mockRoundStore{}
	us := &mockUserStore{}
	ss.On("GetSince", mock.Anything, "u1", mock.Anything).Return(nil, domain.ErrNotFound)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", IntervalsCount: 4}, nil)
	ss.On("Put", mock.Anything, mock.MatchedBy(func(s *domain.PomodoroSession) bool {
		return s.UserID == "u1" && s.SessionID != "" && !s.IsCompleted
	})).Return(nil)
	rs.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := newService(ss, rs, us)
	sess, err := svc.Create(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, sess.Rounds, 4)
	for i, round := range sess.Rounds {
		assert.Equal(t, i+1, round.Number)
		assert.Equal(t, sess.SessionID, round.SessionID)
		assert.Zero(t, round.TotalSeconds)
		assert.False(t, round.IsCompleted)
	}
	rs.AssertNumberOfCalls(t, "Put", 4)
}

func TestCreate_DefaultsIntervalsWhenUnset(t *testing.T) {
	ss := &mockSessionStore{}
	rs := &mockRoundStore{}
	us := &mockUserStore{}
	ss.On("GetSince", mock.Anything, "u1", mock.Anything).Return(nil, domain.ErrNotFound)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	ss.On("Put", mock.Anything, mock.Anything).Return(nil)
	rs.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := newService(ss, rs, us)
	sess, err := svc.Create(context.Background(), "u1")

	require.NoError(t, err)
	assert.Len(t, sess.Rounds, domain.DefaultIntervalsCount)
}

func TestCreate_UserNotFound(t *testing.T) {
	ss := &mockSessionStore{}
	us := &mockUserStore{}
	ss.On("GetSince", mock.Anything, "ghost", mock.Anything).Return(nil, domain.ErrNotFound)
	us.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := newService(ss, nil, us)
	_, err := svc.Create(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- Update ---

func TestUpdate_ForeignSessionHidden(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", mock.Anything, "s1").Return(&domain.PomodoroSession{
		SessionID: "s1",
		UserID:    "someone-else",
	}, nil)

	svc := newService(ss, nil, nil)
	done := true
	_, err := svc.Update(context.Background(), "u1", "s1", domain.UpdateSessionRequest{IsCompleted: &done})

	require.Error(t, err)
	// Ownership failures must look identical to missing sessions.
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	ss.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_HappyPath(t *testing.T) {
	ss := &mockSessionStore{}
	rs := &mockRoundStore{}
	owned := &domain.PomodoroSession{SessionID: "s1", UserID: "u1"}
	ss.On("Get", mock.Anything, "s1").Return(owned, nil)
	ss.On("Update", mock.Anything, "s1", map[string]interface{}{fieldIsCompleted: true}).Return(nil)
	rs.On("ListBySession", mock.Anything, "s1").Return([]domain.PomodoroRound{}, nil)

	svc := newService(ss, rs, nil)
	done := true
	sess, err := svc.Update(context.Background(), "u1", "s1", domain.UpdateSessionRequest{IsCompleted: &done})

	require.NoError(t, err)
	assert.Equal(t, "s1", sess.SessionID)
	ss.AssertExpectations(t)
}

func TestUpdate_EmptyRequestIsReadback(t *testing.T) {
	ss := &mockSessionStore{}
	rs := &mockRoundStore{}
	ss.On("Get", mock.Anything, "s1").Return(&domain.PomodoroSession{SessionID: "s1", UserID: "u1"}, nil)
	rs.On("ListBySession", mock.Anything, "s1").Return([]domain.PomodoroRound{}, nil)

	svc := newService(ss, rs, nil)
	_, err := svc.Update(context.Background(), "u1", "s1", domain.UpdateSessionRequest{})

	require.NoError(t, err)
	ss.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

// --- UpdateRound ---

func TestUpdateRound_RoundNotFound(t *testing.T) {
	rs := &mockRoundStore{}
	rs.On("Get", mock.Anything, "r1").Return(nil, domain.ErrNotFound)

	svc := newService(nil, rs, nil)
	_, err := svc.UpdateRound(context.Background(), "u1", "r1", domain.UpdateRoundRequest{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdateRound_ForeignSessionHidden(t *testing.T) {
	ss := &mockSessionStore{}
	rs := &mockRoundStore{}
	rs.On("Get", mock.Anything, "r1").Return(&domain.PomodoroRound{RoundID: "r1", SessionID: "s1"}, nil)
	ss.On("Get", mock.Anything, "s1").Return(&domain.PomodoroSession{
		SessionID: "s1",
		UserID:    "someone-else",
	}, nil)

	svc := newService(ss, rs, nil)
	secs := 300
	_, err := svc.UpdateRound(context.Background(), "u1", "r1", domain.UpdateRoundRequest{TotalSeconds: &secs})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	rs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateRound_HappyPath(t *testing.T) {
	ss := &mockSessionStore{}
	rs := &mockRoundStore{}
	rs.On("Get", mock.Anything, "r1").Return(&domain.PomodoroRound{RoundID: "r1", SessionID: "s1"}, nil)
	ss.On("Get", mock.Anything, "s1").Return(&domain.PomodoroSession{SessionID: "s1", UserID: "u1"}, nil)
	secs := 1500
	done := true
	rs.On("Update", mock.Anything, "r1", map[string]interface{}{
		fieldTotalSeconds: secs,
		fieldIsCompleted:  done,
	}).Return(nil)

	svc := newService(ss, rs, nil)
	round, err := svc.UpdateRound(context.Background(), "u1", "r1", domain.UpdateRoundRequest{
		TotalSeconds: &secs,
		IsCompleted:  &done,
	})

	require.NoError(t, err)
	assert.Equal(t, "r1", round.RoundID)
	rs.AssertExpectations(t)
}

// --- Delete ---

func TestDelete_ForeignSessionHidden(t *testing.T) {
	ss := &mockSessionStore{}
	rs := &mockRoundStore{}
	ss.On("Get", mock.Anything, "s1").Return(&domain.PomodoroSession{
		SessionID: "s1",
		UserID:    "someone-else",
	}, nil)

	svc := newService(ss, rs, nil)
	err := svc.Delete(context.Background(), "u1", "s1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	rs.AssertNotCalled(t, "DeleteBySession", mock.Anything, mock.Anything)
	ss.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_RemovesRoundsFirst(t *testing.T) {
	ss := &mockSessionStore{}
	rs := &mockRoundStore{}
	ss.On("Get", mock.Anything, "s1").Return(&domain.PomodoroSession{SessionID: "s1", UserID: "u1"}, nil)
	rs.On("DeleteBySession", mock.Anything, "s1").Return(nil)
	ss.On("Delete", mock.Anything, "s1").Return(nil)

	svc := newService(ss, rs, nil)
	err := svc.Delete(context.Background(), "u1", "s1")

	require.NoError(t, err)
	rs.AssertExpectations(t)
	ss.AssertExpectations(t)
}

func TestDelete_RoundCleanupFailureAborts(t *testing.T) {
	ss := &mockSessionStore{}
	rs := &mockRoundStore{}
	ss.On("Get", mock.Anything, "s1").Return(&domain.PomodoroSession{SessionID: "s1", UserID: "u1"}, nil)
	rs.On("DeleteBySession", mock.Anything, "s1").Return(errors.New("dynamo unavailable"))

	svc := newService(ss, rs, nil)
	err := svc.Delete(context.Background(), "u1", "s1")

	require.Error(t, err)
	ss.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
