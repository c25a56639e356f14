package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-pomodoro-api/internal/domain"
	jwtinfra "github.com/go-pomodoro-api/internal/infrastructure/jwt"
	"github.com/go-pomodoro-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

// Result is returned by Login, Register and Refresh. The user's password
// hash is never serialized (json:"-" on the domain type).
type Result struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"-"`
}

type Service interface {
	Login(ctx context.Context, req domain.AuthRequest) (*Result, error)
	Register(ctx context.Context, req domain.AuthRequest) (*Result, error)
	Refresh(ctx context.Context, refreshToken string) (*Result, error)
	// RefreshCookie and ClearRefreshCookie build the httpOnly cookie that
	// carries the refresh token; attributes depend on the environment mode.
	RefreshCookie(token string) *http.Cookie
	ClearRefreshCookie() *http.Cookie
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type tokenProvider interface {
	IssuePair(userID string) (accessToken, refreshToken string, err error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type service struct {
	userRepo     userStore
	tokens       tokenProvider
	cookieDomain string
	production   bool
	refreshTTL   time.Duration
}

type ServiceDeps struct {
	UserRepo      userStore
	TokenProvider tokenProvider
	CookieDomain  string
	Production    bool
	RefreshTTL    time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo:     deps.UserRepo,
		tokens:       deps.TokenProvider,
		cookieDomain: deps.CookieDomain,
		production:   deps.Production,
		refreshTTL:   deps.RefreshTTL,
	}
}

func (s *service) Login(ctx context.Context, req domain.AuthRequest) (*Result, error) {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid password: %w", domain.ErrUnauthorized)
	}
	return s.issue(u)
}

func (s *service) Register(ctx context.Context, req domain.AuthRequest) (*Result, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user already exists: %w", domain.ErrBadRequest)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:         id.New(),
		Email:          req.Email,
		PasswordHash:   string(hash),
		WorkInterval:   domain.DefaultWorkInterval,
		BreakInterval:  domain.DefaultBreakInterval,
		IntervalsCount: domain.DefaultIntervalsCount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.userRepo.Put(ctx, u); err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*Result, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired refresh token: %w", domain.ErrUnauthorized)
	}
	u, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return s.issue(u)
}

func (s *service) issue(u *domain.User) (*Result, error) {
	access, refresh, err := s.tokens.IssuePair(u.UserID)
	if err != nil {
		return nil, err
	}
	return &Result{User: u, AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshCookie builds the refresh token cookie. Production mode requires
// Secure and SameSite=Lax; any other mode allows plain HTTP with
// SameSite=None so local frontends on other ports can send the cookie.
func (s *service) RefreshCookie(token string) *http.Cookie {
	c := s.baseCookie()
	c.Value = token
	c.Expires = time.Now().Add(s.refreshTTL)
	return c
}

// ClearRefreshCookie builds an expired, empty refresh cookie.
func (s *service) ClearRefreshCookie() *http.Cookie {
	c := s.baseCookie()
	c.Value = ""
	c.Expires = time.Unix(0, 0)
	return c
}

func (s *service) baseCookie() *http.Cookie {
	c := &http.Cookie{
		Name:     RefreshCookieName,
		Path:     "/",
		Domain:   s.cookieDomain,
		HttpOnly: true,
	}
	if s.production {
		c.Secure = true
		c.SameSite = http.SameSiteLaxMode
	} else {
		c.Secure = false
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
