package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	catalog "github.com/fernholt/storefront/internal/catalog/domain"
	"github.com/fernholt/storefront/internal/checkout/domain"
	"github.com/fernholt/storefront/internal/checkout/repository"
	"github.com/fernholt/storefront/internal/checkout/usecase"
	inventory "github.com/fernholt/storefront/internal/inventory/domain"
	"github.com/fernholt/storefront/internal/shipping"
	"github.com/fernholt/storefront/kafka"
	"github.com/fernholt/storefront/pkg/logger"
	"github.com/fernholt/storefront/pkg/metrics"
)

// CheckoutHandler handles HTTP requests for checkout
type CheckoutHandler struct {
	placeOrder *usecase.PlaceOrderHandler
	orders     domain.OrderRepository
	publisher  *kafka.Publisher
	metrics    *metrics.StorefrontMetrics
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(
	placeOrder *usecase.PlaceOrderHandler,
	orders domain.OrderRepository,
	publisher *kafka.Publisher,
	m *metrics.StorefrontMetrics,
) *CheckoutHandler {
	return &CheckoutHandler{
		placeOrder: placeOrder,
		orders:     orders,
		publisher:  publisher,
		metrics:    m,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type checkoutRequest struct {
	CustomerID   string                     `json:"customer_id"`
	DiscountCode string                     `json:"discount_code"`
	Destination  shipping.Destination       `json:"destination"`
	Items        []usecase.OrderLineRequest `json:"items"`
}

// PlaceOrder handles POST /api/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	order, err := h.placeOrder.Handle(r.Context(), usecase.PlaceOrderCommand{
		CustomerID:   req.CustomerID,
		DiscountCode: req.DiscountCode,
		Destination:  req.Destination,
		Items:        req.Items,
	})
	if err != nil {
		h.metrics.CheckoutsTotal.WithLabelValues("error").Inc()
		respondCheckoutError(w, err)
		return
	}

	h.metrics.CheckoutsTotal.WithLabelValues("success").Inc()
	h.publishPlaced(r, order)

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Order placed successfully",
		Data:    order,
	})
}

// GetOrder handles GET /api/orders/{id}
func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	order, err := h.orders.FindByID(r.Context(), id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Order not found",
		})
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("order_id", id).Msg("Failed to load order")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to load order",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    order,
	})
}

// ListCustomerOrders handles GET /api/orders?customer_id=X
func (h *CheckoutHandler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "customer_id query parameter is required",
		})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.orders.FindByCustomer(r.Context(), customerID, limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("customer_id", customerID).Msg("Failed to list orders")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list orders",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    orders,
	})
}

// publishPlaced emits the order placed event. Publishing is best-effort;
// a broker outage never fails an already persisted order.
func (h *CheckoutHandler) publishPlaced(r *http.Request, order *domain.Order) {
	err := h.publisher.PublishOrderPlaced(r.Context(), kafka.OrderPlacedEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		LineCount:  len(order.Items),
		Subtotal:   order.Subtotal,
		Total:      order.Total,
	})
	if err != nil {
		logger.Error(r.Context()).
			Err(err).
			Str("order_id", order.ID).
			Msg("Failed to publish order placed event")
	}
}

// RegisterRoutes registers all checkout routes
func (h *CheckoutHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/checkout", h.PlaceOrder).Methods("POST")
	router.HandleFunc("/api/orders", h.ListCustomerOrders).Methods("GET")
	router.HandleFunc("/api/orders/{id}", h.GetOrder).Methods("GET")
}

// respondCheckoutError maps checkout failures onto HTTP statuses.
func respondCheckoutError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, inventory.ErrNotFound),
		errors.Is(err, catalog.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, inventory.ErrConflict),
		errors.Is(err, inventory.ErrReconcileRequired):
		status = http.StatusConflict
	}

	respondJSON(w, status, Response{
		Success: false,
		Error:   err.Error(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
