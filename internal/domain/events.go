package domain

// Role identifies a class of notification subscribers.
type Role string

// List of actor roles.
const (
	RoleClient     Role = "client"
	RoleRestaurant Role = "restaurant"
	RoleCourier    Role = "courier"
	RoleManager    Role = "manager"
)

// Event names consumed by the presentation layer.
const (
	EventOrderStatusUpdate     = "order_status_update"
	EventMenuUpdated           = "menu_updated"
	EventNewOrderForRestaurant = "new_order_for_restaurant"
	EventNewOrderForCourier    = "new_order_for_livreur"
	EventAcceptanceConfirmed   = "acceptance_confirmed"
	EventAcceptanceFailed      = "acceptance_failed"
	EventManagerActionRequired = "manager_action_required"
	EventManagerAutoAssigned   = "manager_auto_assigned"
	EventCourierAssigned       = "courier_assigned"
)

// Notification is a single state-change event addressed to a role.
type Notification struct {
	Role Role
	// Recipient is an actor id; empty means every subscriber of Role.
	Recipient string
	// OrderID is empty for events not tied to an order (menu updates).
	OrderID string
	Event   string
	Payload any
}

// OrderStatusUpdate is the payload of order_status_update.
type OrderStatusUpdate struct {
	ID      string      `json:"id"`
	Status  OrderStatus `json:"status"`
	Message string      `json:"message"`
}

// NewOrderForRestaurant is the payload of new_order_for_restaurant.
type NewOrderForRestaurant struct {
	ID       string      `json:"id"`
	Client   string      `json:"client"`
	Articles []string    `json:"articles"`
	Status   OrderStatus `json:"status"`
}

// NewOrderForCourier is the payload of new_order_for_livreur.
type NewOrderForCourier struct {
	ID         string   `json:"id"`
	Restaurant string   `json:"restaurant"`
	Articles   []string `json:"articles"`
}

// AcceptanceResult is the payload of acceptance_confirmed and acceptance_failed.
type AcceptanceResult struct {
	OrderID string `json:"id_commande"`
	Message string `json:"message,omitempty"`
}

// CandidateView is one entry of manager_action_required.candidats.
type CandidateView struct {
	ID             string  `json:"id"`
	Score          float64 `json:"score"`
	DistanceKm     float64 `json:"distance_km"`
	Recommendation float64 `json:"recommendation"`
}

// ManagerActionRequired is the payload of manager_action_required.
type ManagerActionRequired struct {
	OrderID    string          `json:"id_commande"`
	Candidates []CandidateView `json:"candidats"`
}

// CourierAssignment is the payload of manager_auto_assigned and courier_assigned.
type CourierAssignment struct {
	OrderID   string `json:"id_commande"`
	CourierID string `json:"livreur_id"`
}

// CandidateViews converts ranked candidates to their wire form, keeping the order.
func CandidateViews(cs []Candidate) []CandidateView {
	out := make([]CandidateView, 0, len(cs))
	for _, c := range cs {
		out = append(out, CandidateView{
			ID:             c.CourierID,
			Score:          c.Score,
			DistanceKm:     c.DistanceKm,
			Recommendation: c.Recommendation,
		})
	}
	return out
}
