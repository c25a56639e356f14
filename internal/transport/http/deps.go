package http

import (
	"github.com/go-pomodoro-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-pomodoro-api/internal/infrastructure/jwt"
	"github.com/go-pomodoro-api/internal/infrastructure/smtp"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	SessionRepo      *dynamo.PomodoroSessionRepo
	RoundRepo        *dynamo.PomodoroRoundRepo
	VerificationRepo *dynamo.VerificationRepo
	Mailer           smtp.Mailer
	JWTProvider      *jwtinfra.Provider
}
