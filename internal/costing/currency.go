package costing

import (
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultBaseCurrency = "IDR"

// Amount is a money value tagged with the currency it was entered in.
type Amount struct {
	Amount   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"amount"`
	Currency string          `gorm:"type:varchar(10)" json:"currency"`
}

// Normalizer converts amounts into the base currency. It holds no rate table:
// the rate is always supplied by the caller (the quotation's exchange rate).
type Normalizer struct {
	base    string
	foreign map[string]struct{}
}

// NewNormalizer builds a normalizer for the given base currency. Only the
// listed foreign currencies are converted; any other code passes through.
func NewNormalizer(base string, foreign ...string) Normalizer {
	n := Normalizer{
		base:    normalizeCode(base),
		foreign: make(map[string]struct{}, len(foreign)),
	}
	if n.base == "" {
		n.base = DefaultBaseCurrency
	}
	for _, code := range foreign {
		code = normalizeCode(code)
		if code == "" || code == n.base {
			continue
		}
		n.foreign[code] = struct{}{}
	}
	return n
}

// DefaultNormalizer converts USD into IDR.
func DefaultNormalizer() Normalizer {
	return NewNormalizer(DefaultBaseCurrency, "USD")
}

func (n Normalizer) Base() string {
	if n.base == "" {
		return DefaultBaseCurrency
	}
	return n.base
}

// Currency resolves the effective currency of a field: blank means base.
func (n Normalizer) Currency(code string) string {
	code = normalizeCode(code)
	if code == "" {
		return n.Base()
	}
	return code
}

// ToBase returns amount expressed in the base currency.
//
// Base-currency and unknown codes pass through unchanged; known foreign codes
// are multiplied by rate. Negative amounts count as zero. A non-positive rate
// leaves the amount unconverted so the mistake stays visible on the quote.
func (n Normalizer) ToBase(amount decimal.Decimal, currency string, rate decimal.Decimal) decimal.Decimal {
	amount = Sanitize(amount)
	code := n.Currency(currency)
	if code == n.Base() {
		return amount
	}
	if _, ok := n.foreign[code]; !ok {
		return amount
	}
	if !rate.IsPositive() {
		return amount
	}
	return amount.Mul(rate)
}

// AmountToBase is ToBase for a tagged amount.
func (n Normalizer) AmountToBase(a Amount, rate decimal.Decimal) decimal.Decimal {
	return n.ToBase(a.Amount, a.Currency, rate)
}

// Sanitize clamps negative values to zero.
func Sanitize(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
