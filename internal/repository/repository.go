package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique key is already taken
var ErrDuplicate = errors.New("already exists")

// uniqueViolation is the PostgreSQL error code for unique_violation
const uniqueViolation = "23505"

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Ping checks database connectivity
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateAPIClient creates a new API client in the database
func (r *Repository) CreateAPIClient(ctx context.Context, client *models.APIClient) error {
	query := `
		INSERT INTO cashflow.api_clients (client_id, name, secret_hash, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, client.ClientID, client.Name, client.SecretHash).
		Scan(&client.ID, &client.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("client %s: %w", client.ClientID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create api client: %w", err)
	}
	return nil
}

// FindClientByClientID retrieves an API client by its public identifier
func (r *Repository) FindClientByClientID(ctx context.Context, clientID string) (*models.APIClient, error) {
	client := &models.APIClient{}
	query := `
		SELECT id, client_id, name, secret_hash, created_at
		FROM cashflow.api_clients
		WHERE client_id = $1`
	err := r.db.QueryRowContext(ctx, query, clientID).
		Scan(&client.ID, &client.ClientID, &client.Name, &client.SecretHash, &client.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client %s: %w", clientID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find api client: %w", err)
	}
	return client, nil
}

// CreateFeedback stores a rating for a generated analysis. The id is assigned here.
func (r *Repository) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	fb.ID = uuid.NewString()
	query := `
		INSERT INTO cashflow.feedback (id, conversation_id, rating, feedback, good_response, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, fb.ID, fb.ConversationID, fb.Rating, fb.Comment, fb.GoodResponse).
		Scan(&fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

// FeedbackStats returns the number of ratings and their mean for a conversation
func (r *Repository) FeedbackStats(ctx context.Context, conversationID string) (int, float64, error) {
	var (
		count int
		avg   sql.NullFloat64
	)
	query := `
		SELECT COUNT(*), AVG(rating)
		FROM cashflow.feedback
		WHERE conversation_id = $1`
	if err := r.db.QueryRowContext(ctx, query, conversationID).Scan(&count, &avg); err != nil {
		return 0, 0, fmt.Errorf("failed to load feedback stats: %w", err)
	}
	return count, avg.Float64, nil
}
