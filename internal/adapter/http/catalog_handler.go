package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/manya112233/canteen/internal/adapter/logger"
	"github.com/manya112233/canteen/internal/domain"
	"github.com/manya112233/canteen/internal/interfaces"
)

type CatalogHandler struct {
	catalog interfaces.Catalog
	logger  logger.Logger
}

func NewCatalogHandler(catalog interfaces.Catalog, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

type ItemRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Available *bool   `json:"available,omitempty"`
}

type ItemResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Available bool    `json:"available"`
}

type UpdatePriceRequest struct {
	Price float64 `json:"price"`
}

type UpdateAvailabilityRequest struct {
	Available bool `json:"available"`
}

// AddItem handles POST /catalog/items.
func (h *CatalogHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	var errs []ValidationError
	if strings.TrimSpace(req.ID) == "" {
		errs = append(errs, ValidationError{Field: "id", Message: "item id is required"})
	}
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "item name is required"})
	}
	if req.Price <= 0 {
		errs = append(errs, ValidationError{Field: "price", Message: "item price must be positive"})
	}
	if len(errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, errs)
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	h.catalog.Add(domain.Item{
		ID:        strings.TrimSpace(req.ID),
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
		Category:  strings.TrimSpace(req.Category),
		Available: available,
	})

	w.WriteHeader(http.StatusCreated)
}

// RemoveItem handles DELETE /catalog/items/{id}.
func (h *CatalogHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Remove(r.PathValue("id")); err != nil {
		respondError(w, "Item not found", http.StatusNotFound, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetItem handles GET /catalog/items/{id}.
func (h *CatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.Lookup(r.PathValue("id"))
	if err != nil {
		respondError(w, "Item not found", http.StatusNotFound, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toItemResponse(item))
}

// ListItems handles GET /catalog/items with optional ?category= and ?q=
// filters.
func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	var items []domain.Item
	switch {
	case r.URL.Query().Get("category") != "":
		items = h.catalog.ItemsByCategory(r.URL.Query().Get("category"))
	case r.URL.Query().Get("q") != "":
		items = h.catalog.SearchByName(r.URL.Query().Get("q"))
	default:
		items = h.catalog.SearchByName("")
	}

	resp := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemResponse(item))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// UpdatePrice handles PUT /catalog/items/{id}/price.
func (h *CatalogHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if req.Price <= 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
			Field:   "price",
			Message: "item price must be positive",
		}})
		return
	}

	if err := h.catalog.UpdatePrice(r.PathValue("id"), req.Price); err != nil {
		h.respondCatalogError(w, r.PathValue("id"), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateAvailability handles PUT /catalog/items/{id}/availability.
func (h *CatalogHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	var req UpdateAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := h.catalog.UpdateAvailability(r.PathValue("id"), req.Available); err != nil {
		h.respondCatalogError(w, r.PathValue("id"), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Categories handles GET /catalog/categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := h.catalog.Categories()
	if categories == nil {
		categories = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

func (h *CatalogHandler) respondCatalogError(w http.ResponseWriter, itemID string, err error) {
	if errors.Is(err, domain.ErrItemNotFound) {
		respondError(w, "Item not found", http.StatusNotFound, nil)
		return
	}
	h.logger.Error("catalog_update_failed", "Failed to update catalog item", "", map[string]interface{}{
		"item_id": itemID,
	}, err)
	respondError(w, "Internal server error", http.StatusInternalServerError, nil)
}

func toItemResponse(item domain.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Price:     item.Price,
		Category:  item.Category,
		Available: item.Available,
	}
}
