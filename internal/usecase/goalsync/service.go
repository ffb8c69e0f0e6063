// Package goalsync pushes a freshly computed net worth into the
// persisted per-identity goal record. Every failure here is logged and
// swallowed: the snapshot the value came from is already committed and
// must not be affected.
package goalsync

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/netfolio/netfolio-backend/internal/domain"
)

// Service handles goal synchronization after snapshot commits.
type Service struct {
	goals domain.GoalRepository
}

// NewService creates a new goalsync Service instance.
func NewService(goals domain.GoalRepository) *Service {
	return &Service{goals: goals}
}

// SyncNetWorth loads the owner's goal, updates its recorded current net
// worth and writes it back. A missing goal is a no-op.
func (s *Service) SyncNetWorth(ctx context.Context, owner uuid.UUID, netWorth decimal.Decimal) {
	goal, err := s.goals.Get(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			logrus.WithField("owner", owner.String()).Debug("No goal to sync")
			return
		}
		logrus.WithFields(logrus.Fields{
			"owner": owner.String(),
			"error": err.Error(),
		}).Warn("Goal load failed, skipping sync")
		return
	}

	goal.CurrentNetWorth = netWorth
	goal.UpdatedAt = time.Now()

	if err := s.goals.Save(ctx, goal); err != nil {
		logrus.WithFields(logrus.Fields{
			"owner": owner.String(),
			"error": err.Error(),
		}).Warn("Goal write failed")
		return
	}

	logrus.WithFields(logrus.Fields{
		"owner":     owner.String(),
		"net_worth": netWorth.String(),
	}).Debug("Goal net worth synced")
}
