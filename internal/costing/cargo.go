package costing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryOrigin      Category = "origin"
	CategoryFreight     Category = "freight"
	CategoryDestination Category = "destination"
	CategoryAdditional  Category = "additional"
)

// CostFields are the per-item cost lines, all entered in the item's currency.
type CostFields struct {
	// origin
	PickupCharge decimal.Decimal `gorm:"column:pickup_charge;type:decimal(20,4);not null;default:0" json:"pickup_charge"`
	ExportDocFee decimal.Decimal `gorm:"column:export_doc_fee;type:decimal(20,4);not null;default:0" json:"export_doc_fee"`
	OriginTHC    decimal.Decimal `gorm:"column:origin_thc;type:decimal(20,4);not null;default:0" json:"origin_thc"`
	VGMFee       decimal.Decimal `gorm:"column:vgm_fee;type:decimal(20,4);not null;default:0" json:"vgm_fee"`

	// freight
	BasicFreight      decimal.Decimal `gorm:"column:basic_freight;type:decimal(20,4);not null;default:0" json:"basic_freight"`
	BunkerSurcharge   decimal.Decimal `gorm:"column:bunker_surcharge;type:decimal(20,4);not null;default:0" json:"bunker_surcharge"`
	SecuritySurcharge decimal.Decimal `gorm:"column:security_surcharge;type:decimal(20,4);not null;default:0" json:"security_surcharge"`
	WarRiskSurcharge  decimal.Decimal `gorm:"column:war_risk_surcharge;type:decimal(20,4);not null;default:0" json:"war_risk_surcharge"`

	// destination
	ImportDocFee   decimal.Decimal `gorm:"column:import_doc_fee;type:decimal(20,4);not null;default:0" json:"import_doc_fee"`
	DestinationTHC decimal.Decimal `gorm:"column:destination_thc;type:decimal(20,4);not null;default:0" json:"destination_thc"`
	DeliveryCharge decimal.Decimal `gorm:"column:delivery_charge;type:decimal(20,4);not null;default:0" json:"delivery_charge"`

	// additional
	StorageFee         decimal.Decimal `gorm:"column:storage_fee;type:decimal(20,4);not null;default:0" json:"storage_fee"`
	DetentionFee       decimal.Decimal `gorm:"column:detention_fee;type:decimal(20,4);not null;default:0" json:"detention_fee"`
	SpecialHandlingFee decimal.Decimal `gorm:"column:special_handling_fee;type:decimal(20,4);not null;default:0" json:"special_handling_fee"`
	InsuranceCost      decimal.Decimal `gorm:"column:insurance_cost;type:decimal(20,4);not null;default:0" json:"insurance_cost"`
}

const costFieldCount = 15

// fieldCategories is indexed in the same order as CostFields.refs.
var fieldCategories = [costFieldCount]Category{
	CategoryOrigin, CategoryOrigin, CategoryOrigin, CategoryOrigin,
	CategoryFreight, CategoryFreight, CategoryFreight, CategoryFreight,
	CategoryDestination, CategoryDestination, CategoryDestination,
	CategoryAdditional, CategoryAdditional, CategoryAdditional, CategoryAdditional,
}

func (c *CostFields) refs() [costFieldCount]*decimal.Decimal {
	return [costFieldCount]*decimal.Decimal{
		&c.PickupCharge, &c.ExportDocFee, &c.OriginTHC, &c.VGMFee,
		&c.BasicFreight, &c.BunkerSurcharge, &c.SecuritySurcharge, &c.WarRiskSurcharge,
		&c.ImportDocFee, &c.DestinationTHC, &c.DeliveryCharge,
		&c.StorageFee, &c.DetentionFee, &c.SpecialHandlingFee, &c.InsuranceCost,
	}
}

// ToBase returns a copy with every field converted to the base currency.
func (c CostFields) ToBase(n Normalizer, currency string, rate decimal.Decimal) CostFields {
	out := c
	for _, f := range out.refs() {
		*f = n.ToBase(*f, currency, rate)
	}
	return out
}

// Add returns the field-wise sum of c and o.
func (c CostFields) Add(o CostFields) CostFields {
	out := c
	dst := out.refs()
	src := o.refs()
	for i := range dst {
		*dst[i] = dst[i].Add(*src[i])
	}
	return out
}

// Category sums the fields belonging to cat. Values are taken as stored, so
// callers convert first when the fields are not in base currency.
func (c CostFields) Category(cat Category) decimal.Decimal {
	sum := decimal.Zero
	for i, f := range c.refs() {
		if fieldCategories[i] == cat {
			sum = sum.Add(Sanitize(*f))
		}
	}
	return sum
}

// Total sums all four categories.
func (c CostFields) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, f := range c.refs() {
		sum = sum.Add(Sanitize(*f))
	}
	return sum
}

// CargoLine is the engine's view of one cargo item.
type CargoLine struct {
	ID            uuid.UUID
	Value         decimal.Decimal
	ValueCurrency string
	Currency      string
	Costs         CostFields
}

// ItemCost is the per-item breakdown in base currency.
type ItemCost struct {
	ID          uuid.UUID       `json:"id"`
	Value       decimal.Decimal `json:"value"`
	Origin      decimal.Decimal `json:"origin"`
	Freight     decimal.Decimal `json:"freight"`
	Destination decimal.Decimal `json:"destination"`
	Additional  decimal.Decimal `json:"additional"`
	Costs       decimal.Decimal `json:"costs"`
	Total       decimal.Decimal `json:"total"`
}

// CategoryTotals carries the category sums, per-field sums and per-item
// breakdown so consumers never have to rescan the item list.
type CategoryTotals struct {
	CargoValue    decimal.Decimal `json:"cargo_value"`
	Origin        decimal.Decimal `json:"origin"`
	Freight       decimal.Decimal `json:"freight"`
	Destination   decimal.Decimal `json:"destination"`
	Additional    decimal.Decimal `json:"additional"`
	ItemTotalCost decimal.Decimal `json:"item_total_cost"`
	Fields        CostFields      `json:"fields"`
	ItemCount     int             `json:"item_count"`
	Items         []ItemCost      `json:"items"`
}

// Aggregate converts each item with its own currency and accumulates category,
// field and item totals. An item's total is its declared value plus its four
// cost categories.
func (n Normalizer) Aggregate(items []CargoLine, rate decimal.Decimal) CategoryTotals {
	totals := CategoryTotals{Items: make([]ItemCost, 0, len(items))}
	for _, item := range items {
		costs := item.Costs.ToBase(n, item.Currency, rate)
		ic := ItemCost{
			ID:          item.ID,
			Value:       n.ToBase(item.Value, item.ValueCurrency, rate),
			Origin:      costs.Category(CategoryOrigin),
			Freight:     costs.Category(CategoryFreight),
			Destination: costs.Category(CategoryDestination),
			Additional:  costs.Category(CategoryAdditional),
		}
		ic.Costs = ic.Origin.Add(ic.Freight).Add(ic.Destination).Add(ic.Additional)
		ic.Total = ic.Value.Add(ic.Costs)

		totals.CargoValue = totals.CargoValue.Add(ic.Value)
		totals.Origin = totals.Origin.Add(ic.Origin)
		totals.Freight = totals.Freight.Add(ic.Freight)
		totals.Destination = totals.Destination.Add(ic.Destination)
		totals.Additional = totals.Additional.Add(ic.Additional)
		totals.ItemTotalCost = totals.ItemTotalCost.Add(ic.Total)
		totals.Fields = totals.Fields.Add(costs)
		totals.ItemCount++
		totals.Items = append(totals.Items, ic)
	}
	return totals
}
