package domain

import "time"

// CourierProfile is what the courier collaborator reports for a courier/order pair.
type CourierProfile struct {
	CourierID  string
	Score      float64
	DistanceKm float64
}

// Candidate is a courier who offered to deliver an order during its acceptance window.
type Candidate struct {
	CourierID      string
	Score          float64
	DistanceKm     float64
	Recommendation float64
	OfferedAt      time.Time
	// Seq is the arrival rank inside the pool, used to break recommendation ties.
	Seq uint64
}

// Phase tags a decision window.
type Phase string

// List of decision window phases.
const (
	PhaseAcceptance      Phase = "acceptance"
	PhaseManagerDecision Phase = "manager-decision"
)

// WindowView describes the live decision window of an order.
type WindowView struct {
	Phase     Phase
	StartedAt time.Time
	Duration  time.Duration
	TimeLeft  time.Duration
}

// GeoPoint is a WGS84 position.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Courier is the directory record of a courier. Score is the average delivery
// rating once Ratings > 0, the initial score before that.
type Courier struct {
	ID       string
	Score    float64
	Ratings  int
	Position GeoPoint
}

// Restaurant is the directory record of a restaurant location.
type Restaurant struct {
	ID       string
	Position GeoPoint
}
