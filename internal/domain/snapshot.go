package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Assets holds the six asset buckets of a snapshot.
type Assets struct {
	Gold        Bucket      `json:"gold"`
	Bonds       Bucket      `json:"bonds"`
	Stocks      Bucket      `json:"stocks"`
	Property    Bucket      `json:"property"`
	MutualFunds Bucket      `json:"mutualFunds"`
	Cash        CashHolding `json:"cash"`
}

// Total sums the six asset bucket totals.
func (a Assets) Total() decimal.Decimal {
	return a.Gold.TotalValue.
		Add(a.Bonds.TotalValue).
		Add(a.Stocks.TotalValue).
		Add(a.Property.TotalValue).
		Add(a.MutualFunds.TotalValue).
		Add(a.Cash.TotalValue)
}

// Liabilities holds the two liability buckets of a snapshot.
type Liabilities struct {
	Loans       Bucket `json:"loans"`
	CreditCards Bucket `json:"creditCards"`
}

// Total sums the liability bucket totals.
func (l Liabilities) Total() decimal.Decimal {
	return l.Loans.TotalValue.Add(l.CreditCards.TotalValue)
}

// Snapshot is the complete, consistent net-worth state for one identity at
// one point in time. Snapshots are replaced wholesale by the aggregation
// run, never mutated in place. Owner is nil for the zero snapshot.
//
// Committed snapshots always satisfy:
//   - TotalAssets == sum of the six asset bucket totals
//   - Cash.TotalValue == bank total + wallet total
//   - NetWorth == TotalAssets - TotalLiabilities
type Snapshot struct {
	Assets           Assets          `json:"assets"`
	Liabilities      Liabilities     `json:"liabilities"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	NetWorth         decimal.Decimal `json:"netWorth"`
	LastUpdated      time.Time       `json:"lastUpdated"`
	Owner            *uuid.UUID      `json:"ownerIdentity,omitempty"`
}

// ZeroSnapshot returns the canonical empty snapshot: all buckets empty,
// all totals zero, no owner. It is the default state and the value
// produced synchronously on reset.
func ZeroSnapshot() Snapshot {
	return Snapshot{
		Assets: Assets{
			Gold:        EmptyBucket(),
			Bonds:       EmptyBucket(),
			Stocks:      EmptyBucket(),
			Property:    EmptyBucket(),
			MutualFunds: EmptyBucket(),
			Cash:        EmptyCashHolding(),
		},
		Liabilities: Liabilities{
			Loans:       EmptyBucket(),
			CreditCards: EmptyBucket(),
		},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		NetWorth:         decimal.Zero,
	}
}

// ComposeSnapshot builds a populated snapshot for owner from the reduced
// buckets, deriving the three totals so the snapshot invariants hold by
// construction.
func ComposeSnapshot(owner uuid.UUID, assets Assets, liabilities Liabilities, at time.Time) Snapshot {
	totalAssets := assets.Total()
	totalLiabilities := liabilities.Total()
	return Snapshot{
		Assets:           assets,
		Liabilities:      liabilities,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		NetWorth:         totalAssets.Sub(totalLiabilities),
		LastUpdated:      at,
		Owner:            &owner,
	}
}
