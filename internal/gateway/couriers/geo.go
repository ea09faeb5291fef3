package couriers

import (
	"fmt"
	"math"
	"strings"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

const earthRadiusKm = 6371.0

// DefaultPosition is used for restaurants without a known location (Paris centre).
var DefaultPosition = domain.GeoPoint{Lat: 48.8566, Lon: 2.3522}

// DistanceKm returns the great-circle distance between a and b, rounded to metres.
func DistanceKm(a, b domain.GeoPoint) float64 {
	lat1, lat2 := rad(a.Lat), rad(b.Lat)
	dLat := lat2 - lat1
	dLon := rad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	d := 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
	return math.Round(d*1000) / 1000
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

func profileOf(c domain.Courier, restaurant domain.GeoPoint) domain.CourierProfile {
	return domain.CourierProfile{
		CourierID:  c.ID,
		Score:      c.Score,
		DistanceKm: DistanceKm(c.Position, restaurant),
	}
}

// runningAverage folds rating into an average of n previous ratings.
func runningAverage(avg float64, n int, rating float64) float64 {
	if n <= 0 {
		return math.Round(rating*100) / 100
	}
	return math.Round((avg*float64(n)+rating)/float64(n+1)*100) / 100
}

// MaxScore is the top of the rating scale.
const MaxScore = 5.0

func validateCourier(c domain.Courier) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: courier id is required", apperr.ErrInvalid)
	}
	if math.IsNaN(c.Score) || c.Score < 0 || c.Score > MaxScore {
		return fmt.Errorf("%w: score %v out of range", apperr.ErrInvalid, c.Score)
	}
	return nil
}
