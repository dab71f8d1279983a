package scheduler

import (
	"sort"
	"sync"

	"github.com/manya112233/canteen/internal/adapter/logger"
	"github.com/manya112233/canteen/internal/domain"
	"github.com/manya112233/canteen/internal/interfaces"
)

// Service owns the two-tier pending queues and the per-customer history
// ledger. History is the durable source of truth; the queues are an
// in-memory view over non-terminal orders and are not rebuilt on restart.
//
// A single mutex guards both structures: queue eviction and history updates
// are not individually atomic across the two.
type Service struct {
	store  interfaces.OrderStore
	logger logger.Logger

	mu       sync.RWMutex
	vip      []*domain.Order // ascending CreatedAt
	standard []*domain.Order // ascending CreatedAt
	history  interfaces.History
}

// NewService builds the scheduler and rebuilds the history ledger from the
// store. A load failure is logged and the service starts with empty history;
// pending queues always start empty.
func NewService(store interfaces.OrderStore, lgr logger.Logger) *Service {
	s := &Service{
		store:   store,
		logger:  lgr,
		history: interfaces.History{},
	}

	history, err := store.Load()
	if err != nil {
		s.logger.Error("store_load_failed", "Starting with empty order history", "", nil, err)
		return s
	}
	s.history = history

	return s
}

// PlaceOrder enqueues the order into the flagged tier, appends it to the
// customer's history and rewrites the store. The order id is not checked for
// uniqueness here; duplicates are the caller's responsibility and will both
// appear in history.
func (s *Service) PlaceOrder(order *domain.Order, vip bool) {
	s.mu.Lock()
	if vip {
		s.vip = insertByTime(s.vip, order)
	} else {
		s.standard = insertByTime(s.standard, order)
	}
	s.history[order.CustomerID] = append(s.history[order.CustomerID], order)
	s.persistLocked()
	s.mu.Unlock()

	s.logger.Debug("order_placed", "Order added to pending queue", "", map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"vip":         vip,
	})
}

// PendingOrders returns a snapshot of the pending queues: the whole VIP tier
// in ascending submission order, then the whole standard tier. VIP precedence
// is absolute, not interleaved; a standard order is listed after every VIP
// order no matter how long it has waited. The queues are not mutated.
func (s *Service) PendingOrders() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]*domain.Order, 0, len(s.vip)+len(s.standard))
	pending = append(pending, s.vip...)
	pending = append(pending, s.standard...)
	return pending
}

// UpdateOrderStatus mutates the order's status in place, both in its pending
// queue and in every matching history entry. A terminal status evicts the
// order from the queue; it remains reachable through history. An unknown id
// returns ErrOrderNotFound.
func (s *Service) UpdateOrderStatus(id string, newStatus domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, order := range s.vip {
		if order.ID == id {
			order.Status = newStatus
			found = true
		}
	}
	for _, order := range s.standard {
		if order.ID == id {
			order.Status = newStatus
			found = true
		}
	}
	if newStatus.Terminal() {
		s.vip = dropOrder(s.vip, id)
		s.standard = dropOrder(s.standard, id)
	}

	// Queue entries share pointers with history, but orders rebuilt from the
	// store never reach a queue, so history is walked on its own.
	for _, orders := range s.history {
		for _, order := range orders {
			if order.ID == id {
				order.Status = newStatus
				found = true
			}
		}
	}

	if !found {
		return domain.ErrOrderNotFound
	}

	s.persistLocked()

	s.logger.Debug("order_status_updated", "Order status changed", "", map[string]interface{}{
		"order_id": id,
		"status":   string(newStatus),
	})
	return nil
}

// FindOrder scans the whole history for the first order with the given id.
func (s *Service) FindOrder(id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, orders := range s.history {
		for _, order := range orders {
			if order.ID == id {
				return order, nil
			}
		}
	}
	return nil, domain.ErrOrderNotFound
}

// AllOrders flattens the entire history ledger.
func (s *Service) AllOrders() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*domain.Order
	for _, orders := range s.history {
		all = append(all, orders...)
	}
	return all
}

// CustomerHistory returns the customer's orders in insertion order. An
// unknown customer gets an empty sequence, never an error.
func (s *Service) CustomerHistory(customerID string) []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*domain.Order(nil), s.history[customerID]...)
}

// persistLocked rewrites the store from the history ledger. Persistence
// failures are logged and do not roll back the in-memory mutation.
func (s *Service) persistLocked() {
	if err := s.store.Save(s.history); err != nil {
		s.logger.Error("store_save_failed", "Order history not persisted", "", nil, err)
	}
}

func insertByTime(queue []*domain.Order, order *domain.Order) []*domain.Order {
	i := sort.Search(len(queue), func(i int) bool {
		return queue[i].CreatedAt.After(order.CreatedAt)
	})
	queue = append(queue, nil)
	copy(queue[i+1:], queue[i:])
	queue[i] = order
	return queue
}

func dropOrder(queue []*domain.Order, id string) []*domain.Order {
	kept := queue[:0]
	for _, order := range queue {
		if order.ID != id {
			kept = append(kept, order)
		}
	}
	return kept
}
