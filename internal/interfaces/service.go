package interfaces

import "github.com/manya112233/canteen/internal/domain"

// OrderScheduler owns the two-tier pending queues and the history ledger.
type OrderScheduler interface {
	PlaceOrder(order *domain.Order, vip bool)
	PendingOrders() []*domain.Order
	UpdateOrderStatus(id string, status domain.Status) error
	FindOrder(id string) (*domain.Order, error)
	AllOrders() []*domain.Order
	CustomerHistory(customerID string) []*domain.Order
}

// Catalog manages the purchasable item records consumed by order intake.
type Catalog interface {
	Add(item domain.Item)
	Remove(id string) error
	Lookup(id string) (domain.Item, error)
	UpdatePrice(id string, price float64) error
	UpdateAvailability(id string, available bool) error
	ItemsByCategory(category string) []domain.Item
	SearchByName(query string) []domain.Item
	Categories() []string
}
