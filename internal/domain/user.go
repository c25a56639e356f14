package domain

import "time"

// Default Pomodoro settings applied on registration.
const (
	DefaultWorkInterval   = 50 // minutes
	DefaultBreakInterval  = 10 // minutes
	DefaultIntervalsCount = 7
)

type User struct {
	UserID         string    `json:"id" dynamodbav:"user_id"`
	Email          string    `json:"email" dynamodbav:"email"`
	Name           string    `json:"name" dynamodbav:"name"`
	PasswordHash   string    `json:"-" dynamodbav:"password_hash"`
	WorkInterval   int       `json:"work_interval" dynamodbav:"work_interval"`     // minutes
	BreakInterval  int       `json:"break_interval" dynamodbav:"break_interval"`   // minutes
	IntervalsCount int       `json:"intervals_count" dynamodbav:"intervals_count"` // rounds per session
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// AuthRequest carries login and registration credentials.
type AuthRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type UpdateUserRequest struct {
	Email          *string `json:"email" validate:"omitempty,email"`
	Name           *string `json:"name"`
	Password       *string `json:"password" validate:"omitempty,min=6,max=72"`
	WorkInterval   *int    `json:"work_interval" validate:"omitempty,min=1,max=120"`
	BreakInterval  *int    `json:"break_interval" validate:"omitempty,min=1,max=60"`
	IntervalsCount *int    `json:"intervals_count" validate:"omitempty,min=1,max=12"`
}
