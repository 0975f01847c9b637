package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/ports"
)

type MenuHandler struct {
	errorResponder
	menus ports.MenuService
}

func NewMenuHandler(menus ports.MenuService, log *zap.Logger) *MenuHandler {
	return &MenuHandler{errorResponder: errorResponder{log: log}, menus: menus}
}

// List handles GET /api/menu; it needs no token
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	menus, err := h.menus.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, menus)
}

// Upsert handles POST /api/menu
func (h *MenuHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in ports.MenuInput
	if !decodeJSON(w, r, &in) {
		return
	}

	menu, err := h.menus.Upsert(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, menu)
}
