// Package candidates collects courier offers during an acceptance window.
package candidates

import (
	"sort"
	"sync"
	"time"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/service/scoring"
)

// Pool is the set of candidates of one order. Offers are serialized against Close.
type Pool struct {
	orderID string
	weights scoring.Weights

	mu     sync.Mutex
	seq    uint64
	byID   map[string]struct{}
	items  []domain.Candidate
	closed bool
	ranked []domain.Candidate
}

// Open creates an empty pool bound to orderID.
func Open(orderID string, weights scoring.Weights) *Pool {
	return &Pool{
		orderID: orderID,
		weights: weights,
		byID:    make(map[string]struct{}),
	}
}

// OrderID returns the order the pool belongs to.
func (p *Pool) OrderID() string { return p.orderID }

// Offer records a candidate. It fails with apperr.ErrWindowClosed after Close
// and with apperr.ErrDuplicateCandidate when the courier already offered.
func (p *Pool) Offer(courierID string, score, distanceKm float64, at time.Time) (domain.Candidate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return domain.Candidate{}, apperr.ErrWindowClosed
	}
	if _, ok := p.byID[courierID]; ok {
		return domain.Candidate{}, apperr.ErrDuplicateCandidate
	}

	p.seq++
	c := domain.Candidate{
		CourierID:      courierID,
		Score:          score,
		DistanceKm:     distanceKm,
		Recommendation: p.weights.Recommendation(score, distanceKm),
		OfferedAt:      at,
		Seq:            p.seq,
	}
	p.byID[courierID] = struct{}{}
	p.items = append(p.items, c)
	return c, nil
}

// Close freezes the pool and returns the candidates by descending recommendation,
// earliest offer first on ties. Later calls return the same snapshot.
func (p *Pool) Close() []domain.Candidate {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.closed = true
		p.ranked = Rank(p.items)
		p.items = nil
	}
	return append([]domain.Candidate(nil), p.ranked...)
}

// Closed reports whether Close was called.
func (p *Pool) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Len returns the number of recorded candidates.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return len(p.ranked)
	}
	return len(p.items)
}

// Snapshot returns the current candidates ranked, without closing the pool.
func (p *Pool) Snapshot() []domain.Candidate {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return append([]domain.Candidate(nil), p.ranked...)
	}
	return Rank(p.items)
}

// Rank returns a sorted copy of cs: descending recommendation, then ascending Seq.
func Rank(cs []domain.Candidate) []domain.Candidate {
	out := append([]domain.Candidate(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Recommendation != out[j].Recommendation {
			return out[i].Recommendation > out[j].Recommendation
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}
