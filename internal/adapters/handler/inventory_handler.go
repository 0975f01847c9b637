package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type InventoryHandler struct {
	errorResponder
	groceries ports.GroceryService
	suppliers ports.SupplierService
}

func NewInventoryHandler(groceries ports.GroceryService, suppliers ports.SupplierService, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		errorResponder: errorResponder{log: log},
		groceries:      groceries,
		suppliers:      suppliers,
	}
}

type AddStockRequest struct {
	ItemName      string  `json:"itemName"`
	Quantity      float64 `json:"quantity" validate:"required,gt=0"`
	Unit          string  `json:"unit"`
	MinStockLevel float64 `json:"minStockLevel" validate:"gte=0"`
}

func (h *InventoryHandler) ListGroceries(w http.ResponseWriter, r *http.Request) {
	items, err := h.groceries.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// AddStock handles POST /api/grocery
func (h *InventoryHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	var req AddStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.groceries.AddStock(r.Context(), domain.StockDelta{
		ItemName:      req.ItemName,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.groceries.LowStock(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Requirements handles GET /api/grocery/requirements
func (h *InventoryHandler) Requirements(w http.ResponseWriter, r *http.Request) {
	req, err := h.groceries.Requirements(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *InventoryHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.suppliers.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, suppliers)
}

// CreateSupplier handles POST /api/suppliers
func (h *InventoryHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var in ports.SupplierInput
	if !decodeJSON(w, r, &in) {
		return
	}

	supplier, err := h.suppliers.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, supplier)
}
