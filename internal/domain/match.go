package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RiskLevel is an ordinal risk classification.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	default:
		return "Unknown"
	}
}

func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *RiskLevel) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "low":
		*r = RiskLow
	case "medium":
		*r = RiskMedium
	case "high":
		*r = RiskHigh
	default:
		return fmt.Errorf("unknown risk level %q", string(b))
	}
	return nil
}

// FactorScore is the output of one factor scorer.
type FactorScore struct {
	Factor  Factor  `json:"factor"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason"`
	Warning string  `json:"warning,omitempty"`
}

// Represents the evaluation of one offer against one order.
// A MatchResult is derived data: recomputing it from the same offer, order and
// weights yields an identical value.
type MatchResult struct {
	OfferID         string          `json:"offer_id"`
	OrderID         string          `json:"order_id,omitempty"`
	Score           int             `json:"score"`
	Confidence      float64         `json:"confidence"`
	Risk            RiskLevel       `json:"risk"`
	EstimatedProfit decimal.Decimal `json:"estimated_profit"`
	Reasons         []string        `json:"reasons"`
	Warnings        []string        `json:"warnings"`
	Factors         []FactorScore   `json:"factors"`
}

// Represents one entry of a ranked inventory. Offer is an annotated copy of the
// inventory record; Match is set only when ranking against a cargo order.
type RankedOffer struct {
	Rank  int          `json:"rank"`
	Score float64      `json:"score"`
	Offer VesselOffer  `json:"offer"`
	Match *MatchResult `json:"match,omitempty"`
}

// Clone returns a deep copy of the entry.
func (r RankedOffer) Clone() RankedOffer {
	out := r
	out.Offer = r.Offer.Clone()
	if r.Match != nil {
		m := *r.Match
		m.Reasons = append([]string(nil), r.Match.Reasons...)
		m.Warnings = append([]string(nil), r.Match.Warnings...)
		m.Factors = append([]FactorScore(nil), r.Match.Factors...)
		out.Match = &m
	}
	return out
}

// Pick names the winner of one recommendation category.
type Pick struct {
	OfferID string  `json:"offer_id"`
	Index   int     `json:"index"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason"`
}

// Recommendation holds the per-dimension winners and the consolidated pick.
// A nil Overall means no recommendation could be made. Votes is keyed by offer
// id, or by "#<index>" for offers with a missing or repeated id.
type Recommendation struct {
	BestValue    *Pick          `json:"best_value,omitempty"`
	BestSchedule *Pick          `json:"best_schedule,omitempty"`
	BestSpec     *Pick          `json:"best_spec,omitempty"`
	BestMatch    *Pick          `json:"best_match,omitempty"`
	Overall      *Pick          `json:"overall,omitempty"`
	Votes        map[string]int `json:"votes,omitempty"`
	Reason       string         `json:"reason"`
}

// Available reports whether an overall pick was made.
func (r Recommendation) Available() bool {
	return r.Overall != nil
}
