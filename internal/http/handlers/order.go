package handlers

import (
	"net/http"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// OrderHandler serves the order lifecycle commands of every actor.
type OrderHandler struct {
	uc     dispatchUsecase
	logger logx.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(logger logx.Logger, uc dispatchUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, logger: loggerOrNop(logger)}
}

// Place handles POST /orders.
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Param request body placeOrderRequest true "Order"
// @Success 201 {object} orderResponse
// @Failure 400 {object} ErrorResponse "invalid order"
// @Router /orders [post]
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.ClientID == "" {
		req.ClientID = r.Header.Get(ActorHeader)
	}

	o, err := h.uc.PlaceOrder(r.Context(), req.ClientID, req.RestaurantID, req.Items)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/orders/"+o.ID)
	writeJSON(h.logger, w, r, http.StatusCreated, orderToResponse(o))
}

// Get handles GET /orders/{id}.
// @Summary Order with its live decision window
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} orderResponse
// @Failure 404 {object} ErrorResponse "not found"
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	o, err := h.uc.Order(id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	resp := orderToResponse(o)
	if v, ok := h.uc.Window(id); ok {
		resp.Window = windowToResponse(v)
	}
	writeJSON(h.logger, w, r, http.StatusOK, resp)
}

// List handles GET /orders?status=&client_id=&restaurant_id=&courier_id=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.OrderFilter{
		Status:       domain.OrderStatus(q.Get("status")),
		ClientID:     q.Get("client_id"),
		RestaurantID: q.Get("restaurant_id"),
		CourierID:    q.Get("courier_id"),
	}
	if f.Status != "" && !f.Status.Valid() {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid status")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, ordersToResponse(h.uc.Orders(f)))
}

// Interests handles GET /couriers/{id}/interests: the open orders the courier
// offered on.
func (h *OrderHandler) Interests(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, ordersToResponse(h.uc.Interests(id)))
}

// Candidates handles GET /orders/{id}/candidates.
// @Summary Ranked courier candidates, best first
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} candidatesResponse
// @Failure 404 {object} ErrorResponse "not found"
// @Router /orders/{id}/candidates [get]
func (h *OrderHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	cs, err := h.uc.Candidates(id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, candidatesResponse{OrderID: id, Candidates: domain.CandidateViews(cs)})
}

// Ready handles POST /orders/{id}/ready, the restaurant's "preparation complete".
// @Summary Mark the order prepared and open the acceptance window
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} orderResponse
// @Failure 404 {object} ErrorResponse "not found"
// @Failure 409 {object} ErrorResponse "illegal transition"
// @Router /orders/{id}/ready [post]
func (h *OrderHandler) Ready(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	o, err := h.uc.OnOrderReady(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(o))
}

// Accept handles POST /orders/{id}/accept.
// @Summary Courier offers to deliver the order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body courierRequest true "Courier"
// @Success 200 {object} acceptResponse
// @Failure 404 {object} ErrorResponse "not found"
// @Failure 409 {object} ErrorResponse "window closed"
// @Router /orders/{id}/accept [post]
func (h *OrderHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, courier, ok := h.orderAndCourier(w, r)
	if !ok {
		return
	}
	ctx, cancel := withDirectoryTimeout(r.Context())
	defer cancel()

	c, err := h.uc.CourierAccept(ctx, id, courier)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, candidateToResponse(c, id))
}

// Assign handles POST /orders/{id}/assign, the manager's choice.
// @Summary Manager assigns a candidate courier
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body courierRequest true "Courier"
// @Success 200 {object} orderResponse
// @Failure 409 {object} ErrorResponse "illegal transition"
// @Failure 422 {object} ErrorResponse "courier is not a candidate"
// @Router /orders/{id}/assign [post]
func (h *OrderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req courierRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.CourierID == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "courier_id is required")
		return
	}

	o, err := h.uc.ManagerAssign(r.Context(), id, req.CourierID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(o))
}

// Pickup handles POST /orders/{id}/pickup.
func (h *OrderHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	id, courier, ok := h.orderAndCourier(w, r)
	if !ok {
		return
	}
	o, err := h.uc.StartDelivery(r.Context(), id, courier)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(o))
}

// Delivered handles POST /orders/{id}/delivered.
func (h *OrderHandler) Delivered(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	o, err := h.uc.MarkDelivered(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(o))
}

// Rate handles POST /orders/{id}/rating.
func (h *OrderHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req ratingRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	ctx, cancel := withDirectoryTimeout(r.Context())
	defer cancel()

	if err := h.uc.RateDelivery(ctx, id, req.Rating); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// orderAndCourier reads the order id and an optional {"courier_id"} body,
// falling back to the actor header for the courier.
func (h *OrderHandler) orderAndCourier(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return "", "", false
	}
	var req courierRequest
	if r.ContentLength != 0 {
		if ok := decodeJSON(h.logger, w, r, &req); !ok {
			return "", "", false
		}
	}
	courier := courierFrom(r, req.CourierID)
	if courier == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "courier_id is required")
		return "", "", false
	}
	return id, courier, true
}
