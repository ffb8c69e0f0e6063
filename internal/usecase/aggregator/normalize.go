package aggregator

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/netfolio/netfolio-backend/internal/domain"
)

// coerceDecimal defensively parses a provider field into a decimal.
// Providers are independently owned and not all of them agree on whether
// numbers arrive as JSON numbers or as strings; anything that fails to
// parse contributes zero rather than propagating a non-numeric value.
// The second return value reports whether the field actually parsed.
func coerceDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	default:
		return decimal.Zero, false
	}
}

// numField coerces raw[key], degrading to zero for missing or malformed
// fields.
func numField(raw domain.RawRecord, key string) decimal.Decimal {
	d, _ := coerceDecimal(raw[key])
	return d
}

func strField(raw domain.RawRecord, key string) string {
	s, _ := raw[key].(string)
	return s
}

func normalizeGold(raws []domain.RawRecord) []domain.Record {
	items := make([]domain.Record, 0, len(raws))
	for _, raw := range raws {
		items = append(items, domain.GoldRecord{
			ID:          strField(raw, "id"),
			Description: strField(raw, "description"),
			WeightGrams: numField(raw, "weightInGrams"),
			TotalValue:  numField(raw, "totalValue"),
		})
	}
	return items
}

func normalizeBonds(raws []domain.RawRecord) []domain.Record {
	items := make([]domain.Record, 0, len(raws))
	for _, raw := range raws {
		record := domain.BondRecord{
			ID:        strField(raw, "id"),
			Issuer:    strField(raw, "issuer"),
			FaceValue: numField(raw, "faceValue"),
		}
		// The fallback to face value applies only when the current value
		// is absent or malformed; a parsable zero is kept as zero.
		if current, ok := coerceDecimal(raw["currentValue"]); ok {
			record.CurrentValue = &current
		}
		items = append(items, record)
	}
	return items
}

func normalizeStocks(raws []domain.RawRecord) []domain.Record {
	items := make([]domain.Record, 0, len(raws))
	for _, raw := range raws {
		items = append(items, domain.StockRecord{
			ID:        strField(raw, "id"),
			Symbol:    strField(raw, "symbol"),
			Units:     numField(raw, "units"),
			UnitPrice: numField(raw, "unitPrice"),
		})
	}
	return items
}

func normalizeProperty(raws []domain.RawRecord) []domain.Record {
	items := make([]domain.Record, 0, len(raws))
	for _, raw := range raws {
		items = append(items, domain.PropertyRecord{
			ID:           strField(raw, "id"),
			Address:      strField(raw, "address"),
			CurrentValue: numField(raw, "currentValue"),
		})
	}
	return items
}

func normalizeMutualFunds(raws []domain.RawRecord) []domain.Record {
	items := make([]domain.Record, 0, len(raws))
	for _, raw := range raws {
		items = append(items, domain.MutualFundRecord{
			ID:           strField(raw, "id"),
			FundName:     strField(raw, "fundName"),
			CurrentValue: numField(raw, "currentValue"),
		})
	}
	return items
}

// normalizeCash maps the single cash provider's records and partitions
// them into bank accounts and wallets on the accountType discriminator.
// Records without a recognizable wallet marker count as bank accounts.
func normalizeCash(raws []domain.RawRecord) (bank, wallets []domain.Record) {
	bank = make([]domain.Record, 0, len(raws))
	wallets = make([]domain.Record, 0)
	for _, raw := range raws {
		kind := domain.AccountKindBank
		if strings.EqualFold(strField(raw, "accountType"), string(domain.AccountKindWallet)) {
			kind = domain.AccountKindWallet
		}
		record := domain.CashAccountRecord{
			ID:      strField(raw, "id"),
			Name:    strField(raw, "name"),
			Kind:    kind,
			Balance: numField(raw, "balance"),
		}
		if kind == domain.AccountKindWallet {
			wallets = append(wallets, record)
		} else {
			bank = append(bank, record)
		}
	}
	return bank, wallets
}

func normalizeLoans(raws []domain.RawRecord) []domain.Record {
	items := make([]domain.Record, 0, len(raws))
	for _, raw := range raws {
		items = append(items, domain.LoanRecord{
			ID:          strField(raw, "id"),
			Lender:      strField(raw, "lender"),
			Outstanding: numField(raw, "outstandingBalance"),
		})
	}
	return items
}

func normalizeCreditCards(raws []domain.RawRecord) []domain.Record {
	items := make([]domain.Record, 0, len(raws))
	for _, raw := range raws {
		items = append(items, domain.CreditCardRecord{
			ID:         strField(raw, "id"),
			Issuer:     strField(raw, "issuer"),
			UsedAmount: numField(raw, "usedAmount"),
		})
	}
	return items
}
