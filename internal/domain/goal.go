package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrGoalNotFound is returned when no goal record exists for an identity.
var ErrGoalNotFound = errors.New("goal not found")

// Goal is the persisted per-identity savings goal. CurrentNetWorth is the
// field the engine keeps in sync after every successful aggregation
// commit; the rest is owned by whoever created the goal.
type Goal struct {
	OwnerID         uuid.UUID       `json:"ownerId"`
	Name            string          `json:"name"`
	TargetAmount    decimal.Decimal `json:"targetAmount"`
	TargetDate      time.Time       `json:"targetDate"`
	CurrentNetWorth decimal.Decimal `json:"currentNetWorth"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Validate ensures the goal adheres to domain rules.
func (g *Goal) Validate() error {
	if g.OwnerID == uuid.Nil {
		return errors.New("goal must have an owner")
	}
	if g.Name == "" {
		return errors.New("goal name cannot be empty")
	}
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return errors.New("goal target amount must be positive")
	}
	return nil
}
