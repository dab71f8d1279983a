package domain

import "errors"

// ErrItemNotFound indicates a catalog operation referenced an unknown item id
var ErrItemNotFound = errors.New("item not found")

// Item represents a purchasable catalog entry. Identity, name and category
// are fixed at creation; price and availability change only through explicit
// catalog updates.
type Item struct {
	ID        string
	Name      string
	Price     float64
	Category  string
	Available bool
}
