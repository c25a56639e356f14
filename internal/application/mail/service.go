package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/go-pomodoro-api/internal/domain"
	"github.com/go-pomodoro-api/internal/infrastructure/smtp"
)

const verificationSubject = "Confirm your email"

// verificationTmpl renders the verification mail body. The secret is the
// plaintext code the user submits back; only its hash is stored server-side.
var verificationTmpl = template.Must(template.New("verification").Parse(`<html>
<body style="font-family: sans-serif">
  <h2>Confirm your email</h2>
  <p>Hello{{if .Name}} {{.Name}}{{end}},</p>
  <p>Use this code to verify your account:</p>
  <p style="font-size: 20px; letter-spacing: 2px"><b>{{.Secret}}</b></p>
  <p>The code expires at the end of the day. If you did not request this, ignore this message.</p>
</body>
</html>`))

type Service interface {
	SendVerification(ctx context.Context, userID, plainSecret string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	userRepo userStore
	mailer   smtp.Mailer
}

func NewService(userRepo userStore, mailer smtp.Mailer) Service {
	return &service{userRepo: userRepo, mailer: mailer}
}

func (s *service) SendVerification(ctx context.Context, userID, plainSecret string) error {
	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}

	var body bytes.Buffer
	data := struct {
		Name   string
		Secret string
	}{Name: u.Name, Secret: plainSecret}
	if err := verificationTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render verification mail: %w", err)
	}

	return s.mailer.SendEmail(u.Email, verificationSubject, body.String())
}
