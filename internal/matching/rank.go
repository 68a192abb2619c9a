package matching

import (
	"math"
	"slices"

	"vessel-match-service/internal/domain"
)

// Filters narrows an inventory before ranking. Every criterion is optional and
// all set criteria must hold. An offer lacking the attribute a set criterion
// tests is excluded.
type Filters struct {
	Statuses    []domain.OfferStatus `json:"statuses,omitempty"`
	VesselTypes []string             `json:"vessel_types,omitempty"`
	CargoType   string               `json:"cargo_type,omitempty"`
	Port        string               `json:"port,omitempty"`
	MinRate     *float64             `json:"min_rate,omitempty"`
	MaxRate     *float64             `json:"max_rate,omitempty"`
	MinDWT      *float64             `json:"min_dwt,omitempty"`
	MaxDWT      *float64             `json:"max_dwt,omitempty"`
	MaxAge      *float64             `json:"max_age,omitempty"`
	MinScore    *float64             `json:"min_score,omitempty"`
	Tags        []string             `json:"tags,omitempty"`
}

// Match reports whether offer satisfies every set criterion.
func (f Filters) Match(o domain.VesselOffer) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.Status) {
		return false
	}
	if len(f.VesselTypes) > 0 && !containsFold(f.VesselTypes, o.VesselType) {
		return false
	}
	if f.CargoType != "" && !looseMatch(f.CargoType, o.CargoType) {
		return false
	}
	if f.Port != "" && !looseMatch(f.Port, o.LoadPort) && !looseMatch(f.Port, o.OpenPort) && !looseMatch(f.Port, o.DischargePort) {
		return false
	}
	if !within(o.FreightRate, f.MinRate, f.MaxRate, positive) {
		return false
	}
	if !within(o.DWT, f.MinDWT, f.MaxDWT, tonnes) {
		return false
	}
	if !within(o.AgeYears, nil, f.MaxAge, number) {
		return false
	}
	if !within(o.MatchScore, f.MinScore, nil, number) {
		return false
	}
	for _, tag := range f.Tags {
		if !containsFold(o.Tags, tag) {
			return false
		}
	}
	return true
}

// within checks read(v) against optional inclusive bounds. Bounds go through
// the same reader so a "76" bound compares with a 76000 DWT offer.
func within(v, lo, hi *float64, read func(*float64) (float64, bool)) bool {
	if lo == nil && hi == nil {
		return true
	}
	x, ok := read(v)
	if !ok {
		return false
	}
	if b, ok := read(lo); ok && x < b {
		return false
	}
	if b, ok := read(hi); ok && x > b {
		return false
	}
	return true
}

func containsFold(list []string, s string) bool {
	s = domain.NormalizeName(s)
	if s == "" {
		return false
	}
	return slices.ContainsFunc(list, func(v string) bool { return domain.NormalizeName(v) == s })
}

// Filter returns copies of the offers that satisfy f, in input order.
func Filter(offers []domain.VesselOffer, f Filters) []domain.VesselOffer {
	out := make([]domain.VesselOffer, 0, len(offers))
	for _, o := range offers {
		if f.Match(o) {
			out = append(out, o.Clone())
		}
	}
	return out
}

// Rank filters the inventory and orders it by weighted score, highest first.
//
// With no cargo order to compare against, each factor is scored relative to the
// filtered inventory: largest vessel, earliest laycan, cheapest rate and
// youngest age score best. Geography and cargo use the offer's precomputed
// match score when present. Offers with equal scores keep their input order.
func (e *Engine) Rank(offers []domain.VesselOffer, weights domain.Weights, f Filters) []domain.RankedOffer {
	pool := Filter(offers, f)
	w := e.NormalizeWeights(weights)
	ref := inventoryReference(pool)

	ranked := make([]domain.RankedOffer, len(pool))
	for i, o := range pool {
		var total float64
		for _, fac := range domain.Factors() {
			total += w.Get(fac) * ref.score(fac, o)
		}
		ranked[i] = domain.RankedOffer{Score: math.Round(total*100) / 100, Offer: o}
	}
	return sortRanked(ranked)
}

// RankForOrder filters the inventory and orders it by MatchResult score
// against order. Each ranked offer is annotated with its match score.
func (e *Engine) RankForOrder(offers []domain.VesselOffer, order domain.CargoOrder, weights domain.Weights, f Filters) []domain.RankedOffer {
	pool := Filter(offers, f)
	ranked := make([]domain.RankedOffer, len(pool))
	for i, o := range pool {
		res := e.Score(o, order, weights)
		score := float64(res.Score)
		o.MatchScore = &score
		ranked[i] = domain.RankedOffer{Score: score, Offer: o, Match: &res}
	}
	return sortRanked(ranked)
}

func sortRanked(ranked []domain.RankedOffer) []domain.RankedOffer {
	slices.SortStableFunc(ranked, func(a, b domain.RankedOffer) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// reference holds the inventory-wide extremes relative scores are measured against.
type reference struct {
	maxDWT   float64
	minRate  float64
	earliest window
	hasDate  bool
}

func inventoryReference(offers []domain.VesselOffer) reference {
	var ref reference
	for _, o := range offers {
		if v, ok := tonnes(o.DWT); ok && v > ref.maxDWT {
			ref.maxDWT = v
		}
		if v, ok := positive(o.FreightRate); ok && (ref.minRate == 0 || v < ref.minRate) {
			ref.minRate = v
		}
		if w, ok := offerLaycan(o); ok && (!ref.hasDate || w.start.Before(ref.earliest.start)) {
			ref.earliest, ref.hasDate = w, true
		}
	}
	return ref
}

const unrankedScore = 50

func (r reference) score(f domain.Factor, o domain.VesselOffer) float64 {
	switch f {
	case domain.FactorSize:
		if v, ok := tonnes(o.DWT); ok && r.maxDWT > 0 {
			return 100 * v / r.maxDWT
		}
	case domain.FactorLaycan:
		if w, ok := offerLaycan(o); ok && r.hasDate {
			return math.Max(0, 100-3*float64(daysBetween(r.earliest.start, w.start)))
		}
	case domain.FactorRate:
		if v, ok := positive(o.FreightRate); ok && r.minRate > 0 {
			return 100 * r.minRate / v
		}
	case domain.FactorAge:
		if v, ok := number(o.AgeYears); ok && v >= 0 {
			return math.Max(0, 100-4*v)
		}
	case domain.FactorGeography, domain.FactorCargo:
		if v, ok := number(o.MatchScore); ok {
			return clamp(v, 0, 100)
		}
	}
	return unrankedScore
}
