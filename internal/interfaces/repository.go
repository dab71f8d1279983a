package interfaces

import "github.com/manya112233/canteen/internal/domain"

// History is the durable order ledger: every order ever placed, grouped by
// customer id, each sequence in insertion order.
type History map[string][]*domain.Order

// OrderStore persists the complete order history. Save rewrites the whole
// store on every call; Load rebuilds the history once at startup.
type OrderStore interface {
	Save(history History) error
	Load() (History, error)
}
