package handlers

import (
	"time"

	"service-dispatch/internal/domain"
)

type placeOrderRequest struct {
	ClientID     string   `json:"client_id"`
	RestaurantID string   `json:"restaurant_id"`
	Items        []string `json:"items"`
}

type courierRequest struct {
	CourierID string `json:"courier_id"`
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

type menuItemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type positionRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type registerCourierRequest struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

type courierResponse struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

type historyEntryResponse struct {
	Status     domain.OrderStatus `json:"status"`
	Message    string             `json:"message"`
	RecordedAt time.Time          `json:"recorded_at"`
}

type orderResponse struct {
	ID           string             `json:"id"`
	ClientID     string             `json:"client_id"`
	RestaurantID string             `json:"restaurant_id"`
	Items        []string           `json:"items"`
	Status       domain.OrderStatus `json:"status"`
	Message      string             `json:"message"`
	CourierID    string             `json:"courier_id,omitempty"`
	AutoAssigned bool               `json:"auto_assigned,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Window       *windowResponse    `json:"window,omitempty"`
}

type windowResponse struct {
	Phase       domain.Phase `json:"phase"`
	StartedAt   time.Time    `json:"started_at"`
	DurationSec float64      `json:"duration_seconds"`
	TimeLeftSec float64      `json:"time_left_seconds"`
}

type candidatesResponse struct {
	OrderID    string                 `json:"id_commande"`
	Candidates []domain.CandidateView `json:"candidats"`
}

type acceptResponse struct {
	OrderID        string  `json:"id_commande"`
	CourierID      string  `json:"livreur_id"`
	Score          float64 `json:"score"`
	DistanceKm     float64 `json:"distance_km"`
	Recommendation float64 `json:"recommendation"`
}

type noticeResponse struct {
	Status string `json:"status"`
	Notice string `json:"notice"`
}
