package handlers

import (
	"net/http"

	"service-dispatch/internal/logx"
)

// HistoryHandler serves the recorded status history of orders.
type HistoryHandler struct {
	journal journalReader
	logger  logx.Logger
}

// NewHistoryHandler returns nil when there is no journal to read from.
func NewHistoryHandler(logger logx.Logger, j journalReader) *HistoryHandler {
	if j == nil {
		return nil
	}
	return &HistoryHandler{journal: j, logger: loggerOrNop(logger)}
}

// Get handles GET /orders/{id}/history.
// @Summary Recorded status changes of an order, oldest first
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {array} historyEntryResponse
// @Router /orders/{id}/history [get]
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	entries, err := h.journal.History(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, historyToResponse(entries))
}
