package postgres

import (
	"context"
	"fmt"
)

// EnsureSchema creates the goals table on boot if it does not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS goals (
			owner_id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			target_amount DECIMAL NOT NULL,
			target_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			current_net_worth DECIMAL NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure goals schema: %w", err)
	}
	return nil
}
