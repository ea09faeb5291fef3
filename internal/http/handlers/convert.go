package handlers

import (
	"service-dispatch/internal/domain"
	"service-dispatch/internal/repository"
)

func orderToResponse(o domain.Order) orderResponse {
	items := o.Items
	if items == nil {
		items = []string{}
	}
	return orderResponse{
		ID:           o.ID,
		ClientID:     o.ClientID,
		RestaurantID: o.RestaurantID,
		Items:        items,
		Status:       o.Status,
		Message:      o.Status.Message(),
		CourierID:    o.CourierID,
		AutoAssigned: o.AutoAssigned,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func ordersToResponse(list []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, orderToResponse(o))
	}
	return out
}

func windowToResponse(v domain.WindowView) *windowResponse {
	return &windowResponse{
		Phase:       v.Phase,
		StartedAt:   v.StartedAt,
		DurationSec: v.Duration.Seconds(),
		TimeLeftSec: v.TimeLeft.Seconds(),
	}
}

func candidateToResponse(c domain.Candidate, orderID string) acceptResponse {
	return acceptResponse{
		OrderID:        orderID,
		CourierID:      c.CourierID,
		Score:          c.Score,
		DistanceKm:     c.DistanceKm,
		Recommendation: c.Recommendation,
	}
}

func historyToResponse(entries []repository.JournalEntry) []historyEntryResponse {
	out := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntryResponse{Status: e.Status, Message: e.Message, RecordedAt: e.RecordedAt})
	}
	return out
}
