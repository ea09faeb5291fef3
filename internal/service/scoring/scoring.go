// Package scoring ranks courier candidates.
package scoring

// Weights calibrate the recommendation formula.
type Weights struct {
	Score    float64
	Distance float64
}

// DefaultWeights weigh score and distance equally.
var DefaultWeights = Weights{Score: 1, Distance: 1}

// Recommendation returns score*w.Score - distanceKm*w.Distance. Higher is better.
func (w Weights) Recommendation(score, distanceKm float64) float64 {
	return score*w.Score - distanceKm*w.Distance
}
