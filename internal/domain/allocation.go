package domain

import "github.com/shopspring/decimal"

// RequestedLine is one entry of an order request.
type RequestedLine struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

func (l RequestedLine) Valid() bool {
	return l.Name != "" && l.Category != "" && l.Quantity > 0
}

// FulfilledLine is a requested line for which at least one unit was allocated.
type FulfilledLine struct {
	ProductID string
	Name      string
	Category  string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (f FulfilledLine) Subtotal() decimal.Decimal {
	return f.UnitPrice.Mul(decimal.NewFromInt(int64(f.Quantity)))
}

// ShortageRecord describes an under-fulfilled or unfulfillable requested
// line. Available is set (to false) only for lines with no matching catalog
// product; AvailableQuantity is set for lines that matched one.
type ShortageRecord struct {
	Name              string `json:"name"`
	Available         *bool  `json:"available,omitempty"`
	AvailableQuantity *int   `json:"availableQuantity,omitempty"`
	WantedQuantity    int    `json:"wantedQuantity"`
	RemainingQuantity int    `json:"remainingQuantity,omitempty"`
}

type AllocationKind int

const (
	AllocationUnavailable AllocationKind = iota
	AllocationFull
	AllocationPartial
	AllocationZero
)

// AllocationOutcome is the result of matching one requested line against the
// catalog. Fulfilled is set for full and partial allocations; Shortage is set
// for everything except full allocations.
type AllocationOutcome struct {
	Kind      AllocationKind
	Fulfilled *FulfilledLine
	Shortage  *ShortageRecord
}

// Allocate matches a requested line against a catalog product (nil when no
// product matched the line's name and category). The allocated quantity is
// min(product.Count, line.Quantity).
func Allocate(line RequestedLine, product *Product) AllocationOutcome {
	if product == nil {
		unavailable := false
		return AllocationOutcome{
			Kind: AllocationUnavailable,
			Shortage: &ShortageRecord{
				Name:           line.Name,
				Available:      &unavailable,
				WantedQuantity: line.Quantity,
			},
		}
	}

	available := product.Count
	if line.Quantity < available {
		available = line.Quantity
	}

	if available == 0 {
		zero := 0
		return AllocationOutcome{
			Kind: AllocationZero,
			Shortage: &ShortageRecord{
				Name:              line.Name,
				AvailableQuantity: &zero,
				WantedQuantity:    line.Quantity,
			},
		}
	}

	fulfilled := &FulfilledLine{
		ProductID: product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Quantity:  available,
		UnitPrice: decimal.NewFromFloat(product.Price),
	}

	if available < line.Quantity {
		availableQty := available
		return AllocationOutcome{
			Kind:      AllocationPartial,
			Fulfilled: fulfilled,
			Shortage: &ShortageRecord{
				Name:              line.Name,
				AvailableQuantity: &availableQty,
				WantedQuantity:    line.Quantity,
				RemainingQuantity: line.Quantity - available,
			},
		}
	}

	return AllocationOutcome{
		Kind:      AllocationFull,
		Fulfilled: fulfilled,
	}
}
