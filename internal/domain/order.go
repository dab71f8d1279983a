package domain

import (
	"errors"
	"time"
)

// ErrOrderNotFound indicates an order lookup or status update referenced an
// unknown order id
var ErrOrderNotFound = errors.New("order not found")

// OrderLine is a single line of an order: the catalog item as it was sold,
// the quantity, and an optional free-text special request.
type OrderLine struct {
	Item           Item
	Quantity       int
	SpecialRequest string
}

// Order represents a placed canteen order. Orders are created once with
// status PENDING and mutated only by status updates afterwards; they are
// never deleted from history, terminal or not.
type Order struct {
	ID          string
	CustomerID  string
	Status      Status
	TotalAmount float64
	CreatedAt   time.Time
	Lines       map[string]OrderLine // keyed by Item.ID
}

// NewOrder builds a pending order. The caller assigns id, customer and
// submission time; uniqueness of the id is the caller's responsibility.
func NewOrder(id, customerID string, createdAt time.Time, lines map[string]OrderLine) *Order {
	order := &Order{
		ID:         id,
		CustomerID: customerID,
		Status:     StatusPending,
		CreatedAt:  createdAt,
		Lines:      lines,
	}
	order.CalculateTotal()
	return order
}

// CalculateTotal recomputes the total amount from the order lines.
func (o *Order) CalculateTotal() {
	total := 0.0
	for _, line := range o.Lines {
		total += line.Item.Price * float64(line.Quantity)
	}
	o.TotalAmount = total
}
