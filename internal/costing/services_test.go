package costing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOtherCostsKeyedEdits(t *testing.T) {
	var costs OtherCosts
	first := costs.Add(" Fumigation ", d("100"), "usd")
	second := costs.Add("Escort", d("50000"), "")
	third := costs.Add("Permit", d("25000"), "IDR")

	assert.Equal(t, "Fumigation", first.Description)
	assert.Equal(t, "USD", first.Currency)
	require.Len(t, costs, 3)

	require.NoError(t, costs.Remove(second.ID))
	require.Len(t, costs, 2)

	updated, err := costs.Update(third.ID, "Import permit", d("30000"), "IDR")
	require.NoError(t, err)
	assert.Equal(t, "Import permit", updated.Description)

	got, ok := costs.find(third.ID)
	require.True(t, ok)
	requireDecimal(t, "30000", got.Amount)

	_, err = costs.Update(second.ID, "x", d("1"), "")
	assert.ErrorIs(t, err, ErrCostNotFound)
	assert.ErrorIs(t, costs.Remove(uuid.New()), ErrCostNotFound)

	fourth := costs.Add("Survey", d("1"), "")
	for _, id := range []uuid.UUID{first.ID, second.ID, third.ID} {
		assert.NotEqual(t, id, fourth.ID)
	}
}

func TestOtherCostsRemoveKeepsOrder(t *testing.T) {
	var costs OtherCosts
	a := costs.Add("a", d("1"), "")
	b := costs.Add("b", d("2"), "")
	c := costs.Add("c", d("3"), "")

	require.NoError(t, costs.Remove(b.ID))
	require.Len(t, costs, 2)
	assert.Equal(t, a.ID, costs[0].ID)
	assert.Equal(t, c.ID, costs[1].ID)
}

func TestOtherCostsClone(t *testing.T) {
	var costs OtherCosts
	orig := costs.Add("Crane", d("10"), "USD")

	same := costs.Clone(false)
	fresh := costs.Clone(true)
	same[0].Amount = d("99")

	requireDecimal(t, "10", costs[0].Amount)
	assert.Equal(t, orig.ID, same[0].ID)
	assert.NotEqual(t, orig.ID, fresh[0].ID)
	assert.Nil(t, OtherCosts(nil).Clone(true))
}

func TestAggregateServices(t *testing.T) {
	n := DefaultNormalizer()
	fees := ServiceFees{
		CustomsClearance: Amount{Amount: d("500000")},
		Documentation:    Amount{Amount: d("10"), Currency: "USD"},
		TerminalHandling: Amount{Amount: d("-3"), Currency: "USD"},
	}
	others := []OtherCost{
		{ID: uuid.New(), Amount: d("2"), Currency: "USD"},
		{ID: uuid.New(), Amount: d("75000"), Currency: "IDR"},
	}

	requireDecimal(t, "755000", n.AggregateServices(fees, others, d("15000")))
	requireDecimal(t, "500000", n.AggregateServices(ServiceFees{CustomsClearance: Amount{Amount: d("500000")}}, nil, d("15000")))
}
