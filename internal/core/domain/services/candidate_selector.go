package services

import (
	"math"

	"cargo/internal/core/domain/model/driver"
	"cargo/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Target describes the shipment a driver is being selected for.
type Target struct {
	WeightKg decimal.Decimal
	// Origin is the origin zone reference point, nil when the zone has none.
	Origin *kernel.GeoPoint
}

// CandidateSelector picks one driver from a pool of candidates.
//
// Selection is advisory: the caller still has to claim the chosen driver under a row
// lock, and drops it from the pool and selects again when the claim fails.
// Select returns nil when no profile in the pool is eligible for target.
type CandidateSelector interface {
	Select(pool []*driver.Profile, target Target) *driver.Profile
}

// FirstFit returns the first eligible candidate in pool order.
// Known quality gap: distance to the pickup point is ignored.
type FirstFit struct{}

func NewFirstFit() FirstFit {
	return FirstFit{}
}

func (FirstFit) Select(pool []*driver.Profile, target Target) *driver.Profile {
	for _, p := range pool {
		if p.Validate() != nil {
			continue
		}
		if p.IsEligibleFor(target.WeightKg) {
			return p
		}
	}
	return nil
}

// Nearest ranks eligible candidates by great-circle distance from the origin zone.
//
// Selection criteria:
//   - candidates without a last-known location rank after every located one
//   - ties keep pool order
//   - without a target origin it behaves like FirstFit
type Nearest struct {
	fallback FirstFit
}

func NewNearest() Nearest {
	return Nearest{}
}

func (n Nearest) Select(pool []*driver.Profile, target Target) *driver.Profile {
	if target.Origin == nil {
		return n.fallback.Select(pool, target)
	}

	var (
		best     *driver.Profile
		bestDist = math.MaxFloat64
	)

	for _, p := range pool {
		if p.Validate() != nil || !p.IsEligibleFor(target.WeightKg) || p.Location() == nil {
			continue
		}

		dist, err := target.Origin.DistanceKm(*p.Location())
		if err != nil {
			continue
		}

		if dist < bestDist {
			bestDist = dist
			best = p
		}
	}

	if best == nil {
		return n.fallback.Select(pool, target)
	}
	return best
}
