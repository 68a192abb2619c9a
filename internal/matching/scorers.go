package matching

import (
	"fmt"
	"math"

	"vessel-match-service/internal/domain"
	"vessel-match-service/internal/ports"
)

// Neutral scores returned when inputs are missing or unparseable.
const (
	neutralScore     = 60
	neutralRateScore = 50
)

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func factor(f domain.Factor, score float64, reason string) domain.FactorScore {
	return domain.FactorScore{Factor: f, Score: clamp(score, 0, 100), Reason: reason}
}

func warn(fs domain.FactorScore, warning string) domain.FactorScore {
	fs.Warning = warning
	return fs
}

// ScoreSize rates the vessel's deadweight against the order's acceptable range.
//
// Inside the range the score starts at 100 on the midpoint and loses up to 50
// points toward either bound, floored at 80. Outside the range it starts at 70
// and drops one point per percent of shortfall or excess against the violated
// bound, floored at 0. An order with only one bound treats the other side as open.
func ScoreSize(offer domain.VesselOffer, order domain.CargoOrder) domain.FactorScore {
	size, ok := tonnes(offer.DWT)
	if !ok {
		return factor(domain.FactorSize, neutralScore, "Vessel size unknown")
	}
	lo, hasLo := tonnes(order.DWTMin)
	hi, hasHi := tonnes(order.DWTMax)
	if !hasLo && !hasHi {
		return factor(domain.FactorSize, neutralScore, "No size requirement on order")
	}
	if hasLo && hasHi && lo > hi {
		lo, hi = hi, lo
	}

	switch {
	case hasLo && size < lo:
		short := (lo - size) / lo
		return factor(domain.FactorSize, math.Max(0, 70-short*100),
			fmt.Sprintf("%s DWT is %.0f%% below the %s minimum", tons(size), short*100, tons(lo)))
	case hasHi && size > hi:
		excess := (size - hi) / hi
		return factor(domain.FactorSize, math.Max(0, 70-excess*100),
			fmt.Sprintf("%s DWT is %.0f%% above the %s maximum", tons(size), excess*100, tons(hi)))
	case hasLo && hasHi:
		half := (hi - lo) / 2
		if half == 0 {
			return factor(domain.FactorSize, 100, fmt.Sprintf("%s DWT matches the required size", tons(size)))
		}
		dev := math.Abs(size-(lo+half)) / half
		return factor(domain.FactorSize, math.Max(80, 100-dev*50),
			fmt.Sprintf("%s DWT within %s-%s range", tons(size), tons(lo), tons(hi)))
	default:
		return factor(domain.FactorSize, 90, fmt.Sprintf("%s DWT satisfies the open-ended size requirement", tons(size)))
	}
}

// ScoreLaycan rates how well the vessel's laycan fits the order's window.
//
// Overlapping windows score 80 plus up to 20 for the share of the order window
// covered. Disjoint windows lose five points per day of gap from 70 down to 35
// over the first week, then seven per day toward 0.
func ScoreLaycan(offer domain.VesselOffer, order domain.CargoOrder) domain.FactorScore {
	vessel, okV := offerLaycan(offer)
	want, okO := orderLaycan(order)
	if !okV || !okO {
		return factor(domain.FactorLaycan, neutralScore, "Laycan dates missing or unreadable")
	}

	if overlap, ok := overlapDays(vessel, want); ok {
		frac := math.Min(1, float64(overlap)/float64(want.days()))
		return factor(domain.FactorLaycan, 80+20*frac,
			fmt.Sprintf("Laycan overlaps %d of %d requested days", overlap, want.days()))
	}

	gap := gapDays(vessel, want)
	if gap <= 7 {
		return factor(domain.FactorLaycan, math.Max(35, 70-5*float64(gap)),
			fmt.Sprintf("Laycan misses the window by %d days", gap))
	}
	fs := factor(domain.FactorLaycan, math.Max(0, 35-7*float64(gap-7)),
		fmt.Sprintf("Laycan misses the window by %d days", gap))
	return warn(fs, fmt.Sprintf("Laycan gap of %d days exceeds one week", gap))
}

func overlapDays(a, b window) (int, bool) {
	start, end := a.start, a.end
	if b.start.After(start) {
		start = b.start
	}
	if b.end.Before(end) {
		end = b.end
	}
	if end.Before(start) {
		return 0, false
	}
	return daysBetween(start, end) + 1, true
}

// gapDays is the number of days between two disjoint windows, 0 if they overlap.
func gapDays(a, b window) int {
	switch {
	case a.end.Before(b.start):
		return daysBetween(a.end, b.start)
	case b.end.Before(a.start):
		return daysBetween(b.end, a.start)
	}
	return 0
}

// ScoreGeography rates the vessel's position against the order's ports.
//
// Textual port matches win outright. Otherwise the estimator's distance from
// the vessel's origin port to the order's load port is bucketed into tiers. An
// unknown distance falls back to comparing trade regions.
func ScoreGeography(offer domain.VesselOffer, order domain.CargoOrder, est ports.DistanceEstimator, cfg Config) domain.FactorScore {
	origin := originPort(offer)
	if origin == "" || order.LoadPort == "" {
		return factor(domain.FactorGeography, neutralScore, "Port information incomplete")
	}

	if looseMatch(origin, order.LoadPort) {
		if order.DischargePort == "" || looseMatch(offer.DischargePort, order.DischargePort) {
			return factor(domain.FactorGeography, 100, fmt.Sprintf("Ports match (%s)", order.LoadPort))
		}
		return factor(domain.FactorGeography, 85, fmt.Sprintf("Load port matches (%s), discharge differs", order.LoadPort))
	}

	if est != nil {
		if nm, ok := est.EstimateNM(origin, order.LoadPort); ok {
			return proximityTier(origin, order.LoadPort, nm)
		}
	}

	from, to := cfg.Region(origin), cfg.Region(order.LoadPort)
	if from != "" && from == to {
		fs := factor(domain.FactorGeography, 55, fmt.Sprintf("%s and %s are both in %s", origin, order.LoadPort, from))
		return warn(fs, fmt.Sprintf("Distance from %s to %s unknown; repositioning within %s likely", origin, order.LoadPort, from))
	}
	return factor(domain.FactorGeography, 30, fmt.Sprintf("%s is outside the %s trading area", origin, order.LoadPort))
}

func proximityTier(from, to string, nm float64) domain.FactorScore {
	reason := fmt.Sprintf("%s is about %.0f NM from %s", from, nm, to)
	switch {
	case nm <= 50:
		return factor(domain.FactorGeography, 80, reason)
	case nm <= 100:
		return factor(domain.FactorGeography, 70, reason)
	case nm <= 200:
		return warn(factor(domain.FactorGeography, 60, reason), "Short repositioning voyage required")
	case nm <= 500:
		return warn(factor(domain.FactorGeography, 40, reason), "Repositioning voyage required")
	default:
		return warn(factor(domain.FactorGeography, 20, reason), "Major repositioning voyage required")
	}
}

// ScoreRate compares the asking rate with the order's budget.
func ScoreRate(offer domain.VesselOffer, order domain.CargoOrder) domain.FactorScore {
	asking, okA := positive(offer.FreightRate)
	budget, okB := positive(order.BudgetRate)
	if !okA || !okB {
		return factor(domain.FactorRate, neutralRateScore, "Rate or budget not provided")
	}

	d := (budget - asking) / budget
	switch {
	case d >= 0.10:
		return factor(domain.FactorRate, 100, fmt.Sprintf("Rate %.2f is %.0f%% under budget", asking, d*100))
	case d >= 0:
		return factor(domain.FactorRate, 85, fmt.Sprintf("Rate %.2f is within budget %.2f", asking, budget))
	case d >= -0.05:
		return factor(domain.FactorRate, 70, fmt.Sprintf("Rate %.2f is slightly over budget %.2f", asking, budget))
	default:
		return factor(domain.FactorRate, 40, fmt.Sprintf("Rate %.2f is %.0f%% over budget", asking, -d*100))
	}
}

// ScoreAge rates vessel age against the order's maximum, using the configured
// assumptions for whichever side is missing.
func ScoreAge(offer domain.VesselOffer, order domain.CargoOrder, cfg Config) domain.FactorScore {
	age, knownAge := cfg.age(offer)
	limit, _ := cfg.maxAge(order)

	label := fmt.Sprintf("%.0f years", age)
	if !knownAge {
		label = fmt.Sprintf("assumed %.0f years", age)
	}

	ratio := age / limit
	switch {
	case ratio <= 0.6:
		return factor(domain.FactorAge, 100, fmt.Sprintf("Age %s, well within %.0f-year limit", label, limit))
	case ratio <= 1.0:
		return factor(domain.FactorAge, 80, fmt.Sprintf("Age %s, within %.0f-year limit", label, limit))
	case ratio <= 1.2:
		fs := factor(domain.FactorAge, 60, fmt.Sprintf("Age %s, slightly over %.0f-year limit", label, limit))
		return warn(fs, "Vessel slightly exceeds the maximum age")
	default:
		fs := factor(domain.FactorAge, 30, fmt.Sprintf("Age %s, over %.0f-year limit", label, limit))
		return warn(fs, "Vessel exceeds the maximum age")
	}
}

// ScoreCargo compares cargo descriptions. A mismatch scores 50 rather than 0
// because cargo terms are routinely renegotiated.
func ScoreCargo(offer domain.VesselOffer, order domain.CargoOrder, cfg Config) domain.FactorScore {
	a, b := domain.NormalizeName(offer.CargoType), domain.NormalizeName(order.CargoType)
	if a == "" || b == "" {
		return factor(domain.FactorCargo, neutralScore, "Cargo type not specified")
	}
	if a == b {
		return factor(domain.FactorCargo, 100, fmt.Sprintf("Cargo matches (%s)", order.CargoType))
	}
	if fam := cfg.Family(offer.CargoType); fam != "" && fam == cfg.Family(order.CargoType) {
		return factor(domain.FactorCargo, 85, fmt.Sprintf("%s and %s are both %s", offer.CargoType, order.CargoType, fam))
	}
	return factor(domain.FactorCargo, 50, fmt.Sprintf("Cargo %s vs %s needs review", offer.CargoType, order.CargoType))
}

func tons(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.1fk", v/1000)
	}
	return fmt.Sprintf("%.0f", v)
}
