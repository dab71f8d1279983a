package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/manya112233/canteen/internal/adapter/logger"
	"github.com/manya112233/canteen/internal/domain"
)

// Service is the keyed item catalog. The order scheduler never calls into
// it; only order intake uses it to resolve item ids before an order is built.
type Service struct {
	logger logger.Logger

	mu    sync.RWMutex
	items map[string]*domain.Item
}

func NewService(lgr logger.Logger) *Service {
	return &Service{
		logger: lgr,
		items:  make(map[string]*domain.Item),
	}
}

// Add inserts the item, replacing any existing entry under the same id.
func (s *Service) Add(item domain.Item) {
	s.mu.Lock()
	s.items[item.ID] = &item
	s.mu.Unlock()

	s.logger.Debug("item_added", "Catalog item added", "", map[string]interface{}{
		"item_id":  item.ID,
		"category": item.Category,
	})
}

func (s *Service) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Service) Lookup(id string) (domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return *item, nil
}

func (s *Service) UpdatePrice(id string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Price = price
	return nil
}

func (s *Service) UpdateAvailability(id string, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Available = available
	return nil
}

func (s *Service) ItemsByCategory(category string) []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Item
	for _, item := range s.items {
		if item.Category == category {
			matched = append(matched, *item)
		}
	}
	sortItems(matched)
	return matched
}

// SearchByName matches item names by case-insensitive substring.
func (s *Service) SearchByName(query string) []domain.Item {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Item
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Name), q) {
			matched = append(matched, *item)
		}
	}
	sortItems(matched)
	return matched
}

// Categories lists the distinct categories in use, sorted.
func (s *Service) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var categories []string
	for _, item := range s.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

func sortItems(items []domain.Item) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
}
