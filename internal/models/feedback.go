package models

import "time"

// Feedback represents a rating on a generated analysis
type Feedback struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id" validate:"required"`
	Rating         int       `json:"rating" validate:"gte=1,lte=5"`
	Comment        string    `json:"feedback"`
	GoodResponse   bool      `json:"good_response"`
	CreatedAt      time.Time `json:"created_at"`
}

// APIClient represents a service caller allowed to obtain tokens
type APIClient struct {
	ID         int64     `json:"id"`
	ClientID   string    `json:"client_id"`
	Name       string    `json:"name"`
	SecretHash string    `json:"-"` // Not serialized
	CreatedAt  time.Time `json:"created_at"`
}

// LoginRequest represents client-credential login
type LoginRequest struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
}
