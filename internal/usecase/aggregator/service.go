package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/netfolio/netfolio-backend/internal/domain"
)

// GoalSyncer pushes a freshly committed net worth into the persisted goal
// record. Implementations are best-effort; they log their own failures.
type GoalSyncer interface {
	SyncNetWorth(ctx context.Context, owner uuid.UUID, netWorth decimal.Decimal)
}

// Service is the aggregation orchestrator. It fans out one fetch per
// category provider, normalizes and reduces each category's records, and
// commits the composed snapshot to the store.
type Service struct {
	providers []domain.RecordProvider
	store     *SnapshotStore
	sessions  domain.SessionReader
	goalSync  GoalSyncer
}

// NewService creates a new aggregation Service instance. goalSync may be
// nil when no goal store is wired.
func NewService(
	providers []domain.RecordProvider,
	store *SnapshotStore,
	sessions domain.SessionReader,
	goalSync GoalSyncer,
) *Service {
	return &Service{
		providers: providers,
		store:     store,
		sessions:  sessions,
		goalSync:  goalSync,
	}
}

// Snapshot returns the current snapshot and the loading flag. This read
// surface never returns an error; every code path resolves to a valid
// snapshot.
func (s *Service) Snapshot() (domain.Snapshot, bool) {
	return s.store.View()
}

// Refresh runs a full aggregation for the currently known identity. If no
// identity is present (or the session state is unreadable) it commits the
// zero snapshot and returns.
func (s *Service) Refresh(ctx context.Context) {
	owner, ok, err := s.sessions.CurrentIdentity(ctx)
	if err != nil {
		logrus.WithField("error", err.Error()).Warn("Session read failed, treating as logged out")
		ok = false
	}
	if !ok {
		s.store.Reset()
		return
	}
	s.runFor(ctx, owner)
}

// IdentityAppeared handles a login detected by the identity monitor.
func (s *Service) IdentityAppeared(ctx context.Context, id uuid.UUID) {
	s.runFor(ctx, id)
}

// IdentityChanged handles an identity switch detected by the monitor. The
// run for the new identity begins with a reset-before-load commit, so the
// old identity's figures are never visible during the transition.
func (s *Service) IdentityChanged(ctx context.Context, _, newID uuid.UUID) {
	s.runFor(ctx, newID)
}

// IdentityDisappeared handles a logout: immediate reset to the zero
// snapshot.
func (s *Service) IdentityDisappeared(context.Context) {
	s.store.Reset()
}

// runFor executes one aggregation run for owner.
// Logic:
//  1. Commit the zero snapshot with loading=true before any fetch
//     (reset-before-load) and obtain the generation token.
//  2. Fan out one fetch per provider. Each fetch is independently
//     guarded: a failure yields an empty record list for that category
//     only and never aborts the other in-flight fetches.
//  3. Join all fetches, normalize and reduce per category, partition the
//     cash provider's records into bank accounts and wallets.
//  4. Compose the snapshot and commit it; the commit is discarded if a
//     later run (or a reset) started in the meantime.
//  5. On an applied commit, fire the goal synchronizer as a side effect.
func (s *Service) runFor(ctx context.Context, owner uuid.UUID) {
	generation := s.store.BeginRun()

	fetched := make(map[domain.Category][]domain.RawRecord, len(s.providers))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, p := range s.providers {
		wg.Add(1)
		go func(p domain.RecordProvider) {
			defer wg.Done()
			raws, err := p.GetAll(ctx, owner)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"category": p.ProviderCategory(),
					"owner":    owner.String(),
					"error":    err.Error(),
				}).Warn("Provider fetch failed, degrading to empty bucket")
				raws = nil
			}
			mu.Lock()
			fetched[p.ProviderCategory()] = raws
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	bank, wallets := normalizeCash(fetched[domain.CategoryCash])
	assets := domain.Assets{
		Gold:        domain.NewBucket(normalizeGold(fetched[domain.CategoryGold])),
		Bonds:       domain.NewBucket(normalizeBonds(fetched[domain.CategoryBonds])),
		Stocks:      domain.NewBucket(normalizeStocks(fetched[domain.CategoryStocks])),
		Property:    domain.NewBucket(normalizeProperty(fetched[domain.CategoryProperty])),
		MutualFunds: domain.NewBucket(normalizeMutualFunds(fetched[domain.CategoryMutualFunds])),
		Cash:        domain.NewCashHolding(domain.NewBucket(bank), domain.NewBucket(wallets)),
	}
	liabilities := domain.Liabilities{
		Loans:       domain.NewBucket(normalizeLoans(fetched[domain.CategoryLoans])),
		CreditCards: domain.NewBucket(normalizeCreditCards(fetched[domain.CategoryCreditCards])),
	}

	snapshot := domain.ComposeSnapshot(owner, assets, liabilities, time.Now())

	if !s.store.Commit(generation, snapshot) {
		logrus.WithFields(logrus.Fields{
			"owner":      owner.String(),
			"generation": generation,
		}).Debug("Aggregation run superseded, discarding result")
		return
	}

	logrus.WithFields(logrus.Fields{
		"owner":     owner.String(),
		"net_worth": snapshot.NetWorth.String(),
	}).Info("Snapshot committed")

	if s.goalSync != nil {
		// Fire and forget: the goal write must survive the caller's
		// request context but never affect the committed snapshot.
		go s.goalSync.SyncNetWorth(context.WithoutCancel(ctx), owner, snapshot.NetWorth)
	}
}
