package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/netfolio/netfolio-backend/internal/domain"
)

// goalRepository implements domain.GoalRepository
type goalRepository struct {
	db *DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *DB) domain.GoalRepository {
	return &goalRepository{db: db}
}

// Get retrieves the goal persisted for an identity
func (r *goalRepository) Get(ctx context.Context, owner uuid.UUID) (*domain.Goal, error) {
	query := `
		SELECT owner_id, name, target_amount, target_date, current_net_worth, updated_at
		FROM goals
		WHERE owner_id = $1
	`

	var goal domain.Goal
	var targetAmountStr, currentNetWorthStr string

	err := r.db.QueryRowContext(ctx, query, owner).Scan(
		&goal.OwnerID,
		&goal.Name,
		&targetAmountStr,
		&goal.TargetDate,
		&currentNetWorthStr,
		&goal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	// Parse target_amount and current_net_worth (DECIMAL)
	goal.TargetAmount, err = decimal.NewFromString(targetAmountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target_amount: %w", err)
	}
	goal.CurrentNetWorth, err = decimal.NewFromString(currentNetWorthStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current_net_worth: %w", err)
	}

	return &goal, nil
}

// Save creates or replaces the goal for its owner
func (r *goalRepository) Save(ctx context.Context, goal *domain.Goal) error {
	query := `
		INSERT INTO goals (owner_id, name, target_amount, target_date, current_net_worth, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id) DO UPDATE SET
			name = EXCLUDED.name,
			target_amount = EXCLUDED.target_amount,
			target_date = EXCLUDED.target_date,
			current_net_worth = EXCLUDED.current_net_worth,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		goal.OwnerID,
		goal.Name,
		goal.TargetAmount.String(),
		goal.TargetDate,
		goal.CurrentNetWorth.String(),
		goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}

	return nil
}
