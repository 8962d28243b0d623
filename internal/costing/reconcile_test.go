package costing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedLine(value string, costs CostFields) OperationalLine {
	n := DefaultNormalizer()
	quoted := Snapshot(CargoLine{ID: uuid.New(), Value: d(value), Costs: costs}, "Machine parts")
	return OperationalLine{
		ID:          uuid.New(),
		Quoted:      quoted,
		Operational: n.Seed(quoted, d("15000")),
	}
}

func TestSeedMatchesQuote(t *testing.T) {
	n := DefaultNormalizer()
	quoted := QuotedCosts{
		Value:         d("100"),
		ValueCurrency: "USD",
		Currency:      "USD",
		Costs:         CostFields{PickupCharge: d("1"), BasicFreight: d("2"), BunkerSurcharge: d("3"), DeliveryCharge: d("4"), InsuranceCost: d("5")},
	}

	ops := n.Seed(quoted, d("1000"))

	requireDecimal(t, "1000", ops.ActualOriginCost)
	requireDecimal(t, "5000", ops.ActualFreightCost)
	requireDecimal(t, "4000", ops.ActualDestinationCost)
	requireDecimal(t, "5000", ops.ActualAdditionalCost)

	item := n.ReconcileItem(OperationalLine{Quoted: quoted, Operational: ops}, d("1000"))
	requireDecimal(t, "0", item.CostDifference)
	requireDecimal(t, "15000", item.TotalQuotationCost)
	requireDecimal(t, "85000", item.Margin)
	assert.Equal(t, ProfitabilityNormal, item.Profitability)
}

func TestSnapshotIsIndependentOfActuals(t *testing.T) {
	line := approvedLine("10000000", CostFields{BasicFreight: d("2000000")})

	line.Operational.ActualFreightCost = d("2600000")
	line.Recorded = true

	requireDecimal(t, "2000000", line.Quoted.Costs.BasicFreight)
	item := DefaultNormalizer().ReconcileItem(line, d("15000"))
	requireDecimal(t, "600000", item.CostDifference)
	requireDecimal(t, "7400000", item.Margin)
	assert.Equal(t, ProfitabilityProfit, item.Profitability)
}

func TestReconcileItemAdditionalCosts(t *testing.T) {
	line := approvedLine("1000", CostFields{BasicFreight: d("900")})
	line.Recorded = true
	line.Additional = []OtherCost{
		{ID: uuid.New(), Description: "Demurrage", Amount: d("0.01"), Currency: "USD"},
	}

	item := DefaultNormalizer().ReconcileItem(line, d("15000"))

	requireDecimal(t, "150", item.AdditionalCostTotal)
	requireDecimal(t, "1050", item.TotalOperationalCost)
	requireDecimal(t, "-50", item.Margin)
	assert.Equal(t, ProfitabilityLoss, item.Profitability)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ProfitabilityProfit, Classify(d("0.01")))
	assert.Equal(t, ProfitabilityLoss, Classify(d("-0.01")))
	assert.Equal(t, ProfitabilityBreakEven, Classify(decimal.Zero))
}

func TestReconcileRecordRollupConsistency(t *testing.T) {
	n := DefaultNormalizer()
	rate := d("15000")
	lines := []OperationalLine{
		approvedLine("5000000", CostFields{BasicFreight: d("1000000")}),
		approvedLine("3000000", CostFields{PickupCharge: d("500000"), StorageFee: d("200000")}),
		approvedLine("700000", CostFields{DeliveryCharge: d("700000")}),
	}

	rec := n.ReconcileRecord(lines, rate)
	assert.Equal(t, ProfitabilityNormal, rec.OverallProfitability)

	edits := []func(){
		func() {
			lines[0].Operational.ActualFreightCost = d("1500000")
			lines[0].Recorded = true
		},
		func() {
			lines[1].Additional = append(lines[1].Additional, OtherCost{ID: uuid.New(), Amount: d("9000000")})
			lines[1].Recorded = true
		},
		func() {
			lines[2].Operational.ActualDestinationCost = d("0")
			lines[2].Recorded = true
		},
		func() { lines[1].Additional = nil },
	}
	for i, edit := range edits {
		edit()
		rec = n.ReconcileRecord(lines, rate)

		sumMargin := decimal.Zero
		sumOps := decimal.Zero
		for _, item := range rec.Items {
			sumMargin = sumMargin.Add(item.Margin)
			sumOps = sumOps.Add(item.TotalOperationalCost)
		}
		require.Truef(t, rec.TotalMargin.Equal(sumMargin), "edit %d: margin drift", i)
		require.Truef(t, rec.TotalOperationalCost.Equal(sumOps), "edit %d: cost drift", i)
		require.Equal(t, Classify(rec.TotalMargin), rec.OverallProfitability)
	}

	requireDecimal(t, "2200000", rec.TotalOperationalCost)
	requireDecimal(t, "6500000", rec.TotalMargin)
	assert.Equal(t, ProfitabilityProfit, rec.OverallProfitability)
}
