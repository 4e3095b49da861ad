package domain

import "time"

// Product lives in the document store. ID is the store's object id in hex;
// (Name, Category) is the lookup key used by order placement.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Count       int       `json:"count"`
	OwnerID     string    `json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (p *Product) InStock() bool {
	return p.Count > 0
}
