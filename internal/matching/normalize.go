package matching

import (
	"math"

	"vessel-match-service/internal/domain"
)

const sumTolerance = 1e-9

// NormalizeWeights scales w to sum to 1, falling back to the default vector
// when w carries no weight at all.
func NormalizeWeights(w domain.Weights) domain.Weights {
	return NormalizeWeightsOr(w, domain.DefaultWeights())
}

// NormalizeWeightsOr is NormalizeWeights with an injected fallback vector.
//
// Negative, NaN and infinite entries count as zero. A vector that already sums
// to 1 within tolerance is returned unchanged, which keeps normalization
// idempotent. If the fallback itself sums to zero the built-in defaults are used.
func NormalizeWeightsOr(w, fallback domain.Weights) domain.Weights {
	w = sanitize(w)
	sum := w.Sum()
	if math.IsInf(sum, 1) {
		w = scaleDown(w)
		sum = w.Sum()
	}
	if sum == 0 {
		fallback = sanitize(fallback)
		if fallback.Sum() == 0 {
			fallback = domain.DefaultWeights()
		}
		w, sum = fallback, fallback.Sum()
	}
	if math.Abs(sum-1) < sumTolerance {
		return w
	}

	var out domain.Weights
	for _, f := range domain.Factors() {
		out = out.With(f, w.Get(f)/sum)
	}
	return out
}

// scaleDown divides by the largest entry so a sum of huge finite weights
// cannot overflow.
func scaleDown(w domain.Weights) domain.Weights {
	var largest float64
	for _, f := range domain.Factors() {
		largest = math.Max(largest, w.Get(f))
	}
	var out domain.Weights
	for _, f := range domain.Factors() {
		out = out.With(f, w.Get(f)/largest)
	}
	return out
}

func sanitize(w domain.Weights) domain.Weights {
	for _, f := range domain.Factors() {
		v := w.Get(f)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			w = w.With(f, 0)
		}
	}
	return w
}
