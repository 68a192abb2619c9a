package matching

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"vessel-match-service/internal/domain"
	"vessel-match-service/internal/ports"
)

// Engine binds the factor scorers to a configuration and a distance estimator.
// It holds no mutable state, so one Engine is safe to share between goroutines.
type Engine struct {
	cfg       Config
	estimator ports.DistanceEstimator
}

// NewEngine returns an engine using cfg. A nil estimator makes every distance
// unknown, so geography falls back to the region classifier.
func NewEngine(cfg Config, estimator ports.DistanceEstimator) *Engine {
	return &Engine{cfg: cfg, estimator: estimator}
}

func (e *Engine) Config() Config { return e.cfg }

// NormalizeWeights normalizes w with the configured default vector as fallback.
func (e *Engine) NormalizeWeights(w domain.Weights) domain.Weights {
	return NormalizeWeightsOr(w, e.cfg.Weights)
}

// EstimateDistance returns the estimator's distance, or ok == false when either
// port is unknown.
func (e *Engine) EstimateDistance(from, to string) (nm float64, ok bool) {
	if e.estimator == nil {
		return 0, false
	}
	return e.estimator.EstimateNM(from, to)
}

// Factors runs every scorer in declaration order.
func (e *Engine) Factors(offer domain.VesselOffer, order domain.CargoOrder) []domain.FactorScore {
	return []domain.FactorScore{
		ScoreSize(offer, order),
		ScoreLaycan(offer, order),
		ScoreGeography(offer, order, e.estimator, e.cfg),
		ScoreRate(offer, order),
		ScoreAge(offer, order, e.cfg),
		ScoreCargo(offer, order, e.cfg),
	}
}

// Score evaluates one offer against one order.
//
// The result is a pure function of its inputs: the same offer, order and
// weights always produce an identical MatchResult.
func (e *Engine) Score(offer domain.VesselOffer, order domain.CargoOrder, weights domain.Weights) domain.MatchResult {
	w := e.NormalizeWeights(weights)
	factors := e.Factors(offer, order)

	var total float64
	reasons := make([]string, 0, len(factors))
	warnings := []string{}
	for _, fs := range factors {
		total += w.Get(fs.Factor) * fs.Score
		if fs.Reason != "" {
			reasons = append(reasons, fs.Reason)
		}
		if fs.Warning != "" {
			warnings = append(warnings, fs.Warning)
		}
	}
	warnings = append(warnings, preferenceWarnings(offer, order)...)

	score := int(math.Round(clamp(total, 0, 100)))
	return domain.MatchResult{
		OfferID:         offer.ID,
		OrderID:         order.ID,
		Score:           score,
		Confidence:      Confidence(score),
		Risk:            e.risk(offer, order, score),
		EstimatedProfit: e.profit(offer, order, score),
		Reasons:         reasons,
		Warnings:        warnings,
		Factors:         factors,
	}
}

// Confidence maps a 0-100 score onto [0.1, 0.95].
func Confidence(score int) float64 {
	return math.Min(0.95, 0.1+0.9*float64(score)/100)
}

// RiskFlags lists the risk conditions that hold for the pair.
func (e *Engine) RiskFlags(offer domain.VesselOffer, order domain.CargoOrder, score int) []string {
	var flags []string
	if score < e.cfg.RiskScoreThreshold {
		flags = append(flags, "low match score")
	}
	age, _ := e.cfg.age(offer)
	limit, _ := e.cfg.maxAge(order)
	if age > limit {
		flags = append(flags, "vessel over age limit")
	}
	if origin := originPort(offer); origin != "" && order.LoadPort != "" && !looseMatch(origin, order.LoadPort) {
		flags = append(flags, "load port mismatch")
	}
	vessel, okV := offerLaycan(offer)
	want, okO := orderLaycan(order)
	if okV && okO && gapDays(vessel, want) > e.cfg.RiskLaycanGapDays {
		flags = append(flags, "laycan gap over one week")
	}
	return flags
}

func (e *Engine) risk(offer domain.VesselOffer, order domain.CargoOrder, score int) domain.RiskLevel {
	switch n := len(e.RiskFlags(offer, order, score)); {
	case n >= 3:
		return domain.RiskHigh
	case n == 2:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// profit scales the reference profit by rate, score and size relative to the
// configured baselines. It is illustrative only and never negative.
func (e *Engine) profit(offer domain.VesselOffer, order domain.CargoOrder, score int) decimal.Decimal {
	b := e.cfg.Baselines
	if b.Rate <= 0 || b.DWT <= 0 || b.Profit <= 0 {
		return decimal.Zero
	}

	rate, ok := positive(order.BudgetRate)
	if !ok {
		if rate, ok = positive(offer.FreightRate); !ok {
			rate = b.Rate
		}
	}
	size, ok := tonnes(offer.DWT)
	if !ok {
		size = b.DWT
	}

	p := decimal.NewFromFloat(b.Profit).
		Mul(decimal.NewFromFloat(rate / b.Rate)).
		Mul(decimal.NewFromInt(int64(score)).Div(decimal.NewFromInt(100))).
		Mul(decimal.NewFromFloat(size / b.DWT)).
		Round(2)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// preferenceWarnings reports gear, ice class and flag preferences the offer
// does not meet. They never change the score.
func preferenceWarnings(offer domain.VesselOffer, order domain.CargoOrder) []string {
	var out []string
	if order.RequiresGear != nil && *order.RequiresGear {
		if offer.Geared == nil {
			out = append(out, "Order requires gear; vessel gear not stated")
		} else if !*offer.Geared {
			out = append(out, "Order requires gear; vessel is gearless")
		}
	}
	if want := strings.TrimSpace(order.IceClass); want != "" &&
		domain.NormalizeName(want) != domain.NormalizeName(offer.IceClass) {
		out = append(out, fmt.Sprintf("Order requires ice class %s", want))
	}
	if len(order.PreferredFlags) > 0 && offer.Flag != "" {
		flag := domain.NormalizeName(offer.Flag)
		if !slices.ContainsFunc(order.PreferredFlags, func(f string) bool { return domain.NormalizeName(f) == flag }) {
			out = append(out, fmt.Sprintf("Flag %s is not among the preferred flags", offer.Flag))
		}
	}
	return out
}
