package proximity

import "vessel-match-service/internal/domain"

type StaticPair struct {
	From, To string
	NM       float64
}

// StaticEstimator answers from a fixed list of port pairs. Lookups are
// symmetric and use normalized names. Used for offline runs and tests where a
// known distance is needed without coordinates.
type StaticEstimator struct {
	m map[string]float64
}

func NewStaticEstimator(pairs []StaticPair) *StaticEstimator {
	m := make(map[string]float64, len(pairs)*2)
	for _, p := range pairs {
		a, b := domain.NormalizeName(p.From), domain.NormalizeName(p.To)
		m[a+"|"+b] = p.NM
		m[b+"|"+a] = p.NM
	}
	return &StaticEstimator{m: m}
}

func (s *StaticEstimator) EstimateNM(from, to string) (float64, bool) {
	a, b := domain.NormalizeName(from), domain.NormalizeName(to)
	if a == "" || b == "" {
		return 0, false
	}
	if a == b {
		return 0, true
	}
	nm, ok := s.m[a+"|"+b]
	return nm, ok
}
