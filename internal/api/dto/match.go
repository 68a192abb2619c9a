package dto

import (
	"vessel-match-service/internal/domain"
	"vessel-match-service/internal/matching"
)

// Weights arrive as a factor-name map so partial vectors are easy to send;
// missing factors weigh zero before normalization.
type WeightsMap map[string]float64

// Vector returns nil when no weights were sent.
func (m WeightsMap) Vector() *domain.Weights {
	if m == nil {
		return nil
	}
	w := domain.WeightsFromMap(m)
	return &w
}

type MatchRequest struct {
	OfferID string              `json:"offer_id"`
	Offer   *domain.VesselOffer `json:"offer"`
	Order   domain.CargoOrder   `json:"order"`
	Weights WeightsMap          `json:"weights"`
}

type OrderMatchRequest struct {
	Order   domain.CargoOrder `json:"order"`
	Weights WeightsMap        `json:"weights"`
	Filters matching.Filters  `json:"filters"`
	Limit   int               `json:"limit"`
}

type RankRequest struct {
	Weights WeightsMap       `json:"weights"`
	Filters matching.Filters `json:"filters"`
	Limit   int              `json:"limit"`
}

type RankResponse struct {
	Results []domain.RankedOffer `json:"results"`
	Count   int                  `json:"count"`
}

type RecommendRequest struct {
	OfferIDs []string             `json:"offer_ids"`
	Offers   []domain.VesselOffer `json:"offers"`
}

type ComparisonResponse struct {
	Members        []domain.VesselOffer  `json:"members"`
	Capacity       int                   `json:"capacity"`
	Recommendation domain.Recommendation `json:"recommendation"`
}

type ComparisonAddResponse struct {
	Added   string              `json:"added"`
	Evicted *domain.VesselOffer `json:"evicted,omitempty"`
}

type WeightsResponse struct {
	Weights domain.Weights `json:"weights"`
}

type DistanceResponse struct {
	From          string   `json:"from"`
	To            string   `json:"to"`
	NauticalMiles *float64 `json:"nautical_miles"`
	Known         bool     `json:"known"`
}
