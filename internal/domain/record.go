package domain

import (
	"github.com/shopspring/decimal"
)

// Category identifies one asset or liability class tracked by the engine.
// Each category is owned by exactly one external record provider; the cash
// provider is special in that its records are partitioned into bank
// accounts and wallets downstream.
type Category string

const (
	CategoryGold        Category = "gold"
	CategoryBonds       Category = "bonds"
	CategoryStocks      Category = "stocks"
	CategoryProperty    Category = "property"
	CategoryMutualFunds Category = "mutual_funds"
	CategoryCash        Category = "cash"
	CategoryLoans       Category = "loans"
	CategoryCreditCards Category = "credit_cards"
)

// ReferentialOrder returns every category in the order bulk creates must
// follow (parents before dependents: cash accounts first, since loan and
// credit card records may reference a repayment account). Bulk deletes
// walk this slice in reverse.
func ReferentialOrder() []Category {
	return []Category{
		CategoryCash,
		CategoryGold,
		CategoryBonds,
		CategoryStocks,
		CategoryProperty,
		CategoryMutualFunds,
		CategoryLoans,
		CategoryCreditCards,
	}
}

// IsLiability reports whether records of this category count against net
// worth rather than towards it.
func (c Category) IsLiability() bool {
	return c == CategoryLoans || c == CategoryCreditCards
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range ReferentialOrder() {
		if c == known {
			return true
		}
	}
	return false
}

// RawRecord is a provider-shaped record as received over the wire, before
// normalization. Field names are provider-specific.
type RawRecord map[string]any

// Record is a canonical, category-tagged financial item produced by the
// normalizer. Records are immutable once produced.
//
// Amount returns the value the record contributes to its bucket total,
// applying the category's valuation rule. RecordLabel is the
// human-readable name carried into the snapshot's bucket items.
type Record interface {
	RecordID() string
	RecordCategory() Category
	RecordLabel() string
	Amount() decimal.Decimal
}

// GoldRecord is a gold holding. Its contribution is the stored total value
// per item, not weight times price.
type GoldRecord struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	WeightGrams decimal.Decimal `json:"weightInGrams"`
	TotalValue  decimal.Decimal `json:"totalValue"`
}

func (r GoldRecord) RecordID() string         { return r.ID }
func (r GoldRecord) RecordCategory() Category { return CategoryGold }
func (r GoldRecord) RecordLabel() string      { return r.Description }
func (r GoldRecord) Amount() decimal.Decimal  { return r.TotalValue }

// BondRecord is a bond holding. CurrentValue is nil when the provider did
// not supply a parsable current value; the contribution then falls back to
// the face value. A parsable current value of zero is respected as zero.
type BondRecord struct {
	ID           string           `json:"id"`
	Issuer       string           `json:"issuer"`
	FaceValue    decimal.Decimal  `json:"faceValue"`
	CurrentValue *decimal.Decimal `json:"currentValue"`
}

func (r BondRecord) RecordID() string         { return r.ID }
func (r BondRecord) RecordCategory() Category { return CategoryBonds }
func (r BondRecord) RecordLabel() string      { return r.Issuer }

func (r BondRecord) Amount() decimal.Decimal {
	if r.CurrentValue != nil {
		return *r.CurrentValue
	}
	return r.FaceValue
}

// StockRecord is an equity holding valued as units times unit price.
type StockRecord struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Units     decimal.Decimal `json:"units"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func (r StockRecord) RecordID() string         { return r.ID }
func (r StockRecord) RecordCategory() Category { return CategoryStocks }
func (r StockRecord) RecordLabel() string      { return r.Symbol }
func (r StockRecord) Amount() decimal.Decimal  { return r.Units.Mul(r.UnitPrice) }

// PropertyRecord is a real-estate holding valued at its current value.
type PropertyRecord struct {
	ID           string          `json:"id"`
	Address      string          `json:"address"`
	CurrentValue decimal.Decimal `json:"currentValue"`
}

func (r PropertyRecord) RecordID() string         { return r.ID }
func (r PropertyRecord) RecordCategory() Category { return CategoryProperty }
func (r PropertyRecord) RecordLabel() string      { return r.Address }
func (r PropertyRecord) Amount() decimal.Decimal  { return r.CurrentValue }

// MutualFundRecord is a mutual fund holding valued at its current value.
type MutualFundRecord struct {
	ID           string          `json:"id"`
	FundName     string          `json:"fundName"`
	CurrentValue decimal.Decimal `json:"currentValue"`
}

func (r MutualFundRecord) RecordID() string         { return r.ID }
func (r MutualFundRecord) RecordCategory() Category { return CategoryMutualFunds }
func (r MutualFundRecord) RecordLabel() string      { return r.FundName }
func (r MutualFundRecord) Amount() decimal.Decimal  { return r.CurrentValue }

// AccountKind discriminates the cash provider's records into the two cash
// buckets.
type AccountKind string

const (
	AccountKindBank   AccountKind = "bank"
	AccountKindWallet AccountKind = "wallet"
)

// CashAccountRecord is a bank account or wallet valued at its balance.
type CashAccountRecord struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Kind    AccountKind     `json:"accountType"`
	Balance decimal.Decimal `json:"balance"`
}

func (r CashAccountRecord) RecordID() string         { return r.ID }
func (r CashAccountRecord) RecordCategory() Category { return CategoryCash }
func (r CashAccountRecord) RecordLabel() string      { return r.Name }
func (r CashAccountRecord) Amount() decimal.Decimal  { return r.Balance }

// LoanRecord is a liability valued at its outstanding balance.
type LoanRecord struct {
	ID          string          `json:"id"`
	Lender      string          `json:"lender"`
	Outstanding decimal.Decimal `json:"outstandingBalance"`
}

func (r LoanRecord) RecordID() string         { return r.ID }
func (r LoanRecord) RecordCategory() Category { return CategoryLoans }
func (r LoanRecord) RecordLabel() string      { return r.Lender }
func (r LoanRecord) Amount() decimal.Decimal  { return r.Outstanding }

// CreditCardRecord is a liability valued at its used amount.
type CreditCardRecord struct {
	ID         string          `json:"id"`
	Issuer     string          `json:"issuer"`
	UsedAmount decimal.Decimal `json:"usedAmount"`
}

func (r CreditCardRecord) RecordID() string         { return r.ID }
func (r CreditCardRecord) RecordCategory() Category { return CategoryCreditCards }
func (r CreditCardRecord) RecordLabel() string      { return r.Issuer }
func (r CreditCardRecord) Amount() decimal.Decimal  { return r.UsedAmount }
