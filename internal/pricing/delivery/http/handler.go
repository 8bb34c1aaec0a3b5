package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	catalog "github.com/fernholt/storefront/internal/catalog/domain"
	"github.com/fernholt/storefront/internal/pricing/domain"
	"github.com/fernholt/storefront/internal/pricing/engine"
	"github.com/fernholt/storefront/internal/pricing/resolver"
	"github.com/fernholt/storefront/internal/shipping"
	"github.com/fernholt/storefront/pkg/logger"
)

// PricingHandler handles discount validation and cart pricing previews
type PricingHandler struct {
	resolver *resolver.Resolver
	engine   *engine.Engine
	prices   catalog.PriceSource
	rates    shipping.RateSource
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(
	discountResolver *resolver.Resolver,
	pricingEngine *engine.Engine,
	prices catalog.PriceSource,
	rates shipping.RateSource,
) *PricingHandler {
	return &PricingHandler{
		resolver: discountResolver,
		engine:   pricingEngine,
		prices:   prices,
		rates:    rates,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ValidateDiscount handles GET /api/discounts/validate?code=X
func (h *PricingHandler) ValidateDiscount(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "code query parameter is required",
		})
		return
	}

	// Resolution always answers 200; validity lives in the descriptor so
	// the storefront can show the message inline.
	descriptor := h.resolver.Resolve(code)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    descriptor,
	})
}

type previewRequest struct {
	Items []struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	} `json:"items"`
	DiscountCode string               `json:"discount_code"`
	Destination  shipping.Destination `json:"destination"`
}

type previewResponse struct {
	Result      domain.PricingResult       `json:"result"`
	Formatted   map[string]string          `json:"formatted"`
	Discount    *domain.DiscountDescriptor `json:"discount,omitempty"`
	ShippingETA string                     `json:"shipping_eta,omitempty"`
}

// PreviewCart handles POST /api/pricing/preview
func (h *PricingHandler) PreviewCart(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	if len(req.Items) == 0 {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "cart has no items",
		})
		return
	}

	cart := domain.CartSnapshot{Lines: make([]domain.CartLine, 0, len(req.Items))}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "line quantity must be positive",
			})
			return
		}

		unitPrice, err := h.prices.UnitPrice(r.Context(), item.ProductID)
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   err.Error(),
			})
			return
		}
		if err != nil {
			logger.Error(r.Context()).Err(err).Uint("product_id", item.ProductID).Msg("Failed to price cart line")
			respondJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Failed to price cart",
			})
			return
		}

		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID: item.ProductID,
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
		})
	}

	var discount *domain.DiscountDescriptor
	if req.DiscountCode != "" {
		resolved := h.resolver.Resolve(req.DiscountCode)
		discount = &resolved
	}

	quote, err := h.rates.Quote(r.Context(), req.Destination)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to quote shipping for preview")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to quote shipping",
		})
		return
	}

	result := h.engine.ComputeTotal(cart, discount, quote)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: previewResponse{
			Result: result,
			Formatted: map[string]string{
				"subtotal":        result.Subtotal.Format(),
				"discount_amount": result.DiscountAmount.Format(),
				"shipping_cost":   result.ShippingCost.Format(),
				"tax_amount":      result.TaxAmount.Format(),
				"total":           result.Total.Format(),
			},
			Discount:    discount,
			ShippingETA: quote.ETADescription,
		},
	})
}

// RegisterRoutes registers all pricing routes
func (h *PricingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/discounts/validate", h.ValidateDiscount).Methods("GET")
	router.HandleFunc("/api/pricing/preview", h.PreviewCart).Methods("POST")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
