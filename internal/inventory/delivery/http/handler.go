package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fernholt/storefront/internal/inventory/domain"
	"github.com/fernholt/storefront/internal/inventory/usecase/command"
	"github.com/fernholt/storefront/internal/inventory/usecase/query"
	"github.com/fernholt/storefront/kafka"
	"github.com/fernholt/storefront/pkg/logger"
	"github.com/fernholt/storefront/pkg/metrics"
)

// InventoryHandler handles HTTP requests for the inventory ledger
type InventoryHandler struct {
	adjust     *command.AdjustStockHandler
	bulk       *command.BulkAdjustHandler
	getLevel   *query.GetLevelHandler
	lowStock   *query.ListLowStockHandler
	outOfStock *query.ListOutOfStockHandler
	history    *query.ListHistoryHandler
	verify     *query.VerifyLedgerHandler
	publisher  *kafka.Publisher
	metrics    *metrics.StorefrontMetrics
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	adjust *command.AdjustStockHandler,
	bulk *command.BulkAdjustHandler,
	getLevel *query.GetLevelHandler,
	lowStock *query.ListLowStockHandler,
	outOfStock *query.ListOutOfStockHandler,
	history *query.ListHistoryHandler,
	verify *query.VerifyLedgerHandler,
	publisher *kafka.Publisher,
	m *metrics.StorefrontMetrics,
) *InventoryHandler {
	return &InventoryHandler{
		adjust:     adjust,
		bulk:       bulk,
		getLevel:   getLevel,
		lowStock:   lowStock,
		outOfStock: outOfStock,
		history:    history,
		verify:     verify,
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

type adjustRequest struct {
	ProductID uint   `json:"product_id"`
	Kind      string `json:"kind"`
	Magnitude int    `json:"magnitude"`
	Reason    string `json:"reason"`
	ActorID   string `json:"actor_id"`
}

// GetLevel handles GET /api/inventory/{product_id}
func (h *InventoryHandler) GetLevel(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDVar(w, r)
	if !ok {
		return
	}

	level, err := h.getLevel.Handle(r.Context(), query.GetLevelQuery{ProductID: productID})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    level,
	})
}

// ListLevels handles GET /api/inventory?filter=low|out
func (h *InventoryHandler) ListLevels(w http.ResponseWriter, r *http.Request) {
	var (
		levels []domain.StockLevel
		err    error
	)

	switch filter := r.URL.Query().Get("filter"); filter {
	case "low":
		levels, err = h.lowStock.Handle(r.Context())
	case "out":
		levels, err = h.outOfStock.Handle(r.Context())
	default:
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "filter must be 'low' or 'out'",
		})
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list stock levels")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list stock levels",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    levels,
	})
}

// GetHistory handles GET /api/inventory/{product_id}/history
func (h *InventoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDVar(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	records, err := h.history.Handle(r.Context(), query.ListHistoryQuery{
		ProductID: productID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    records,
	})
}

// AdjustStock handles POST /api/admin/inventory/adjust
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.adjust.Handle(r.Context(), command.AdjustStockCommand{
		ProductID: req.ProductID,
		Kind:      domain.AdjustmentKind(req.Kind),
		Magnitude: req.Magnitude,
		Reason:    req.Reason,
		ActorID:   req.ActorID,
	})
	if err != nil {
		h.metrics.AdjustmentsTotal.WithLabelValues(req.Kind, "error").Inc()
		respondError(w, err)
		return
	}

	h.metrics.AdjustmentsTotal.WithLabelValues(req.Kind, "success").Inc()
	if result.Record.Unfulfilled() > 0 {
		h.metrics.ClampedSales.Inc()
	}
	h.publishAdjusted(r, result.Record)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock adjusted successfully",
		Data:    result,
	})
}

// BulkAdjust handles POST /api/admin/inventory/bulk
func (h *InventoryHandler) BulkAdjust(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActorID string          `json:"actor_id"`
		Items   []adjustRequest `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.BulkAdjustCommand{ActorID: req.ActorID}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, command.AdjustStockCommand{
			ProductID: item.ProductID,
			Kind:      domain.AdjustmentKind(item.Kind),
			Magnitude: item.Magnitude,
			Reason:    item.Reason,
			ActorID:   item.ActorID,
		})
	}

	result := h.bulk.Handle(r.Context(), cmd)
	for _, outcome := range result.Outcomes {
		status := "success"
		if !outcome.Success {
			status = "error"
		}
		h.metrics.AdjustmentsTotal.WithLabelValues("bulk", status).Inc()
	}

	// A fully failed batch still returns 200; outcomes carry the detail.
	respondJSON(w, http.StatusOK, Response{
		Success: result.FailureCount == 0,
		Data:    result,
	})
}

// VerifyLedger handles POST /api/admin/inventory/{product_id}/verify
func (h *InventoryHandler) VerifyLedger(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDVar(w, r)
	if !ok {
		return
	}

	verification, err := h.verify.Handle(r.Context(), query.VerifyLedgerQuery{ProductID: productID})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: verification.Consistent,
		Data:    verification,
	})
}

// publishAdjusted emits the ledger mutation event. Publishing is
// best-effort; a broker outage never fails the adjustment.
func (h *InventoryHandler) publishAdjusted(r *http.Request, record *domain.AdjustmentRecord) {
	err := h.publisher.PublishStockAdjusted(r.Context(), kafka.StockAdjustedEvent{
		ProductID:        record.ProductID,
		Kind:             string(record.Kind),
		Delta:            record.Delta,
		PreviousQuantity: record.PreviousQuantity,
		NewQuantity:      record.NewQuantity,
		Reason:           record.Reason,
		ActorID:          record.ActorID,
	})
	if err != nil {
		logger.Error(r.Context()).
			Err(err).
			Uint("product_id", record.ProductID).
			Msg("Failed to publish stock adjusted event")
	}
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/inventory", h.ListLevels).Methods("GET")
	router.HandleFunc("/api/inventory/{product_id}", h.GetLevel).Methods("GET")
	router.HandleFunc("/api/inventory/{product_id}/history", h.GetHistory).Methods("GET")
	router.HandleFunc("/api/admin/inventory/adjust", h.AdjustStock).Methods("POST")
	router.HandleFunc("/api/admin/inventory/bulk", h.BulkAdjust).Methods("POST")
	router.HandleFunc("/api/admin/inventory/{product_id}/verify", h.VerifyLedger).Methods("POST")
}

// RegisterHealthCheck registers health check endpoint
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Storefront service is healthy",
		})
	}).Methods("GET")
}

// productIDVar parses the product_id path variable, answering 400 itself
// when the value is not a positive integer.
func productIDVar(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["product_id"], 10, 32)
	if err != nil || id == 0 {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return 0, false
	}
	return uint(id), true
}

// respondError maps domain errors onto HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrReconcileRequired):
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
