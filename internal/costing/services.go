package costing

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrCostNotFound = errors.New("cost entry not found")

// ServiceFees are the three fixed per-quotation service charges.
type ServiceFees struct {
	CustomsClearance Amount `gorm:"embedded;embeddedPrefix:customs_clearance_" json:"customs_clearance"`
	Documentation    Amount `gorm:"embedded;embeddedPrefix:documentation_" json:"documentation"`
	TerminalHandling Amount `gorm:"embedded;embeddedPrefix:terminal_handling_" json:"terminal_handling"`
}

func (f ServiceFees) list() []Amount {
	return []Amount{f.CustomsClearance, f.Documentation, f.TerminalHandling}
}

// OtherCost is a user-defined charge. Its ID is assigned on creation and is
// the only handle used for later edits.
type OtherCost struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

// OtherCosts is an append-only keyed collection; entries are addressed by ID,
// never by position.
type OtherCosts []OtherCost

// Add appends a new entry with a fresh random ID, so IDs are never reused
// even after deletions.
func (c *OtherCosts) Add(description string, amount decimal.Decimal, currency string) OtherCost {
	entry := OtherCost{
		ID:          uuid.New(),
		Description: strings.TrimSpace(description),
		Amount:      amount,
		Currency:    strings.ToUpper(strings.TrimSpace(currency)),
	}
	*c = append(*c, entry)
	return entry
}

func (c OtherCosts) find(id uuid.UUID) (OtherCost, bool) {
	for _, entry := range c {
		if entry.ID == id {
			return entry, true
		}
	}
	return OtherCost{}, false
}

// Update replaces description, amount and currency of the entry with id.
func (c OtherCosts) Update(id uuid.UUID, description string, amount decimal.Decimal, currency string) (OtherCost, error) {
	for i := range c {
		if c[i].ID != id {
			continue
		}
		c[i].Description = strings.TrimSpace(description)
		c[i].Amount = amount
		c[i].Currency = strings.ToUpper(strings.TrimSpace(currency))
		return c[i], nil
	}
	return OtherCost{}, ErrCostNotFound
}

func (c *OtherCosts) Remove(id uuid.UUID) error {
	for i, entry := range *c {
		if entry.ID == id {
			*c = append((*c)[:i:i], (*c)[i+1:]...)
			return nil
		}
	}
	return ErrCostNotFound
}

// Clone deep-copies the collection. When fresh is true every entry gets a new ID.
func (c OtherCosts) Clone(fresh bool) OtherCosts {
	if c == nil {
		return nil
	}
	out := make(OtherCosts, len(c))
	copy(out, c)
	if fresh {
		for i := range out {
			out[i].ID = uuid.New()
		}
	}
	return out
}

// SumOtherCosts converts every entry with its own currency and adds them up.
func (n Normalizer) SumOtherCosts(costs []OtherCost, rate decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, entry := range costs {
		sum = sum.Add(n.ToBase(entry.Amount, entry.Currency, rate))
	}
	return sum
}

// AggregateServices sums the fixed fees and the other costs in base currency.
func (n Normalizer) AggregateServices(fees ServiceFees, others []OtherCost, rate decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, fee := range fees.list() {
		sum = sum.Add(n.AmountToBase(fee, rate))
	}
	return sum.Add(n.SumOtherCosts(others, rate))
}
