package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizerToBase(t *testing.T) {
	n := DefaultNormalizer()
	rate := d("15000")

	tests := []struct {
		name     string
		amount   string
		currency string
		rate     decimal.Decimal
		want     string
	}{
		{"base currency passes through", "100", "IDR", rate, "100"},
		{"foreign currency is converted", "100", "USD", rate, "1500000"},
		{"lowercase code", "2", " usd ", rate, "30000"},
		{"blank currency means base", "100", "", rate, "100"},
		{"unknown code passes through", "100", "EUR", rate, "100"},
		{"negative amount is zero", "-5", "USD", rate, "0"},
		{"zero rate leaves amount", "7", "USD", decimal.Zero, "7"},
		{"negative rate leaves amount", "7", "USD", d("-1"), "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireDecimal(t, tt.want, n.ToBase(d(tt.amount), tt.currency, tt.rate))
		})
	}
}

func TestNewNormalizerDefaults(t *testing.T) {
	n := NewNormalizer("", "usd", "idr", "")
	assert.Equal(t, "IDR", n.Base())
	assert.Equal(t, "IDR", n.Currency(""))
	assert.Equal(t, "USD", n.Currency("usd"))
	requireDecimal(t, "20", n.ToBase(d("2"), "USD", d("10")))
}
