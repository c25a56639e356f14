package domain

import "time"

// Verification statuses. The only legal transition is pending → accepted;
// accepted is terminal.
const (
	VerificationPending  = "pending"
	VerificationAccepted = "accepted"
)

// UserVerification is the server-side state of an email ownership proof.
// PK: user_id (one record per user by usage pattern). SecretHash is the
// bcrypt hash of the opaque secret mailed to the user.
type UserVerification struct {
	UserID     string    `json:"user_id" dynamodbav:"user_id"`
	SecretHash string    `json:"-" dynamodbav:"secret_hash"`
	Status     string    `json:"status" dynamodbav:"status"` // "pending" | "accepted"
	CreatedAt  time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" dynamodbav:"updated_at"`
}
