package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/manya112233/canteen/internal/adapter/logger"
	"github.com/manya112233/canteen/internal/domain"
	"github.com/manya112233/canteen/internal/interfaces"
)

type OrderHandler struct {
	scheduler interfaces.OrderScheduler
	catalog   interfaces.Catalog
	logger    logger.Logger
}

func NewOrderHandler(scheduler interfaces.OrderScheduler, catalog interfaces.Catalog, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		scheduler: scheduler,
		catalog:   catalog,
		logger:    logger,
	}
}

type PlaceOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	VIP        bool               `json:"vip"`
	Items      []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ItemID         string `json:"item_id"`
	Quantity       int    `json:"quantity"`
	SpecialRequest string `json:"special_request,omitempty"`
}

type PlaceOrderResponse struct {
	OrderID     string  `json:"order_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// PlaceOrder resolves the requested item ids against the catalog, builds the
// order and hands it to the scheduler. The scheduler itself never touches
// the catalog.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if validationErrors := validatePlaceOrderRequest(req); len(validationErrors) > 0 {
		h.logger.Error("validation_failed", "Order validation failed", "", map[string]interface{}{
			"errors": validationErrors,
		}, fmt.Errorf("validation failed"))

		respondError(w, "Validation failed", http.StatusBadRequest, validationErrors)
		return
	}

	lines := make(map[string]domain.OrderLine, len(req.Items))
	var lookupErrors []ValidationError
	for i, reqItem := range req.Items {
		itemPrefix := fmt.Sprintf("items[%d]", i)

		if _, dup := lines[reqItem.ItemID]; dup {
			lookupErrors = append(lookupErrors, ValidationError{
				Field:   fmt.Sprintf("%s.item_id", itemPrefix),
				Message: "duplicate item id in order",
			})
			continue
		}

		item, err := h.catalog.Lookup(reqItem.ItemID)
		if err != nil {
			lookupErrors = append(lookupErrors, ValidationError{
				Field:   fmt.Sprintf("%s.item_id", itemPrefix),
				Message: "unknown item id",
			})
			continue
		}
		if !item.Available {
			lookupErrors = append(lookupErrors, ValidationError{
				Field:   fmt.Sprintf("%s.item_id", itemPrefix),
				Message: "item is not available",
			})
			continue
		}

		lines[reqItem.ItemID] = domain.OrderLine{
			Item:           item,
			Quantity:       reqItem.Quantity,
			SpecialRequest: strings.TrimSpace(reqItem.SpecialRequest),
		}
	}
	if len(lookupErrors) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, lookupErrors)
		return
	}

	order := domain.NewOrder(uuid.NewString(), strings.TrimSpace(req.CustomerID), time.Now(), lines)
	h.scheduler.PlaceOrder(order, req.VIP)

	resp := PlaceOrderResponse{
		OrderID:     order.ID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// UpdateStatus handles POST /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	status := domain.Status(req.Status)
	if !status.Valid() {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
			Field:   "status",
			Message: "status must be one of: PENDING, PREPARING, READY, DELIVERED, CANCELLED",
		}})
		return
	}

	if err := h.scheduler.UpdateOrderStatus(orderID, status); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			respondError(w, "Order not found", http.StatusNotFound, nil)
			return
		}
		h.logger.Error("status_update_failed", "Failed to update order status", "", map[string]interface{}{
			"order_id": orderID,
		}, err)
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"order_id": orderID,
		"status":   req.Status,
	})
}

func validatePlaceOrderRequest(req PlaceOrderRequest) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(req.CustomerID) == "" {
		errs = append(errs, ValidationError{
			Field:   "customer_id",
			Message: "customer id is required",
		})
	}

	if len(req.Items) < 1 {
		errs = append(errs, ValidationError{
			Field:   "items",
			Message: "order must contain at least 1 item",
		})
	}

	for i, item := range req.Items {
		itemPrefix := fmt.Sprintf("items[%d]", i)

		if strings.TrimSpace(item.ItemID) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.item_id", itemPrefix),
				Message: "item id is required",
			})
		}
		if item.Quantity < 1 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.quantity", itemPrefix),
				Message: "item quantity must be at least 1",
			})
		}
	}

	return errs
}

func respondError(w http.ResponseWriter, message string, statusCode int, validationErrors []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:  message,
		Errors: validationErrors,
	})
}
