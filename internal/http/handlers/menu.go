package handlers

import (
	"net/http"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// MenuHandler serves restaurant menus.
type MenuHandler struct {
	uc     menuUsecase
	logger logx.Logger
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(logger logx.Logger, uc menuUsecase) *MenuHandler {
	return &MenuHandler{uc: uc, logger: loggerOrNop(logger)}
}

// AddItem handles POST /restaurants/{id}/menu and answers with the full snapshot.
func (h *MenuHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req menuItemRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	m, err := h.uc.AddItem(r.Context(), id, domain.MenuItem{Name: req.Name, Price: req.Price})
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, m)
}

// Get handles GET /restaurants/{id}/menu.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, h.uc.Menu(id))
}
