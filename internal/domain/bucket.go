package domain

import (
	"github.com/shopspring/decimal"
)

// Item is one record's contribution to a bucket, in the concrete shape
// the snapshot JSON carries. A published snapshot decodes straight back
// into domain types.
type Item struct {
	ID    string          `json:"id"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Bucket holds the items of one category together with their reduced
// total value. An empty bucket with a zero total is a valid state, not
// an error.
type Bucket struct {
	Items      []Item          `json:"items"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// NewBucket reduces records to a bucket, summing each record's Amount.
func NewBucket(records []Record) Bucket {
	items := make([]Item, 0, len(records))
	total := decimal.Zero
	for _, record := range records {
		amount := record.Amount()
		items = append(items, Item{
			ID:    record.RecordID(),
			Label: record.RecordLabel(),
			Value: amount,
		})
		total = total.Add(amount)
	}
	return Bucket{
		Items:      items,
		TotalValue: total,
	}
}

// EmptyBucket returns the zero-total bucket used for reset snapshots and
// for categories whose provider fetch failed.
func EmptyBucket() Bucket {
	return NewBucket(nil)
}

// CashHolding groups the two cash buckets derived from the single cash
// provider. TotalValue is always the sum of the two bucket totals.
type CashHolding struct {
	BankAccounts Bucket          `json:"bankAccounts"`
	Wallets      Bucket          `json:"wallets"`
	TotalValue   decimal.Decimal `json:"totalValue"`
}

// NewCashHolding composes the cash holding from its two partitions.
func NewCashHolding(bankAccounts, wallets Bucket) CashHolding {
	return CashHolding{
		BankAccounts: bankAccounts,
		Wallets:      wallets,
		TotalValue:   bankAccounts.TotalValue.Add(wallets.TotalValue),
	}
}

// EmptyCashHolding returns the zero cash holding.
func EmptyCashHolding() CashHolding {
	return NewCashHolding(EmptyBucket(), EmptyBucket())
}
