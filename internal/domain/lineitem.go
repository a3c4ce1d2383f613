package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// totalTolerance absorbs float rounding between the client's sum and ours
var totalTolerance = decimal.New(1, -2)

// LineItem is a frozen copy of a catalog service placed on a quote or invoice.
// Price is the unit price at the time the item was added, not a live reference.
type LineItem struct {
	ServiceID   uint    `json:"service_id" binding:"required"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Price       float64 `json:"price" binding:"gte=0"`
	Quantity    float64 `json:"quantity" binding:"gt=0"`
}

// LineItems is stored as a single JSON text column
type LineItems = datatypes.JSONSlice[LineItem]

// LineTotal returns price x quantity for one item
func (li LineItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(li.Price).Mul(decimal.NewFromFloat(li.Quantity))
}

// SumLineItems adds up every line of a quote or invoice
func SumLineItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// TotalMatches reports whether a submitted total equals the sum of its lines
func TotalMatches(total float64, items []LineItem) bool {
	diff := decimal.NewFromFloat(total).Sub(SumLineItems(items)).Abs()
	return diff.LessThanOrEqual(totalTolerance)
}
