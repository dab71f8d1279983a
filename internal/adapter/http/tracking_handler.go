package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/manya112233/canteen/internal/adapter/logger"
	"github.com/manya112233/canteen/internal/domain"
	"github.com/manya112233/canteen/internal/interfaces"
)

type TrackingHandler struct {
	scheduler interfaces.OrderScheduler
	logger    logger.Logger
}

func NewTrackingHandler(scheduler interfaces.OrderScheduler, logger logger.Logger) *TrackingHandler {
	return &TrackingHandler{
		scheduler: scheduler,
		logger:    logger,
	}
}

type OrderResponse struct {
	OrderID     string              `json:"order_id"`
	CustomerID  string              `json:"customer_id"`
	Status      string              `json:"status"`
	TotalAmount float64             `json:"total_amount"`
	CreatedAt   time.Time           `json:"created_at"`
	Items       []OrderItemResponse `json:"items"`
}

type OrderItemResponse struct {
	ItemID         string  `json:"item_id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Category       string  `json:"category"`
	Quantity       int     `json:"quantity"`
	SpecialRequest string  `json:"special_request,omitempty"`
}

// PendingOrders handles GET /orders/pending: the VIP tier first, then the
// standard tier, each in submission order.
func (h *TrackingHandler) PendingOrders(w http.ResponseWriter, r *http.Request) {
	respondOrders(w, h.scheduler.PendingOrders())
}

// GetOrder handles GET /orders/{id}.
func (h *TrackingHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.scheduler.FindOrder(r.PathValue("id"))
	if err != nil {
		respondError(w, "Order not found", http.StatusNotFound, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toOrderResponse(order))
}

// CustomerHistory handles GET /customers/{id}/orders. An unknown customer
// gets an empty list, not a 404.
func (h *TrackingHandler) CustomerHistory(w http.ResponseWriter, r *http.Request) {
	respondOrders(w, h.scheduler.CustomerHistory(r.PathValue("id")))
}

// AllOrders handles GET /orders.
func (h *TrackingHandler) AllOrders(w http.ResponseWriter, r *http.Request) {
	respondOrders(w, h.scheduler.AllOrders())
}

func respondOrders(w http.ResponseWriter, orders []*domain.Order) {
	resp := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, toOrderResponse(order))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func toOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
		Items:       make([]OrderItemResponse, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		resp.Items = append(resp.Items, OrderItemResponse{
			ItemID:         line.Item.ID,
			Name:           line.Item.Name,
			Price:          line.Item.Price,
			Category:       line.Item.Category,
			Quantity:       line.Quantity,
			SpecialRequest: line.SpecialRequest,
		})
	}
	return resp
}
