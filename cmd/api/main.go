package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-pomodoro-api/internal/application/mail"
	"github.com/go-pomodoro-api/internal/application/verification"
	"github.com/go-pomodoro-api/internal/config"
	"github.com/go-pomodoro-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-pomodoro-api/internal/infrastructure/jwt"
	"github.com/go-pomodoro-api/internal/infrastructure/smtp"
	transporthttp "github.com/go-pomodoro-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	mailer := smtp.NewMailer(cfg)

	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	verificationRepo := dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.UserVerifications)

	// Purge stale verification records once before serving traffic.
	verificationSvc := verification.NewService(verification.ServiceDeps{
		VerificationRepo: verificationRepo,
		UserRepo:         userRepo,
		Mail:             mail.NewService(userRepo, mailer),
	})
	if err := verificationSvc.ClearStale(context.Background()); err != nil {
		log.Printf("WARN: startup verification sweep failed: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:         userRepo,
		SessionRepo:      dynamo.NewPomodoroSessionRepo(dynamoClient, cfg.DynamoTables.PomodoroSessions),
		RoundRepo:        dynamo.NewPomodoroRoundRepo(dynamoClient, cfg.DynamoTables.PomodoroRounds),
		VerificationRepo: verificationRepo,
		Mailer:           mailer,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
