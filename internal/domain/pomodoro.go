package domain

import "time"

type PomodoroSession struct {
	SessionID   string    `json:"id" dynamodbav:"session_id"`
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	IsCompleted bool      `json:"is_completed" dynamodbav:"is_completed"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`

	// Rounds are stored in their own table and attached on read.
	Rounds []PomodoroRound `json:"rounds,omitempty" dynamodbav:"-"`
}

type PomodoroRound struct {
	RoundID      string    `json:"id" dynamodbav:"round_id"`
	SessionID    string    `json:"session_id" dynamodbav:"session_id"`
	Number       int       `json:"number" dynamodbav:"number"` // 1-based position within the session
	TotalSeconds int       `json:"total_seconds" dynamodbav:"total_seconds"`
	IsCompleted  bool      `json:"is_completed" dynamodbav:"is_completed"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type UpdateSessionRequest struct {
	IsCompleted *bool `json:"is_completed"`
}

type UpdateRoundRequest struct {
	TotalSeconds *int  `json:"total_seconds" validate:"omitempty,min=0"`
	IsCompleted  *bool `json:"is_completed"`
}
