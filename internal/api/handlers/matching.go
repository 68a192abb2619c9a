package handlers

import (
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vessel-match-service/internal/api/dto"
	"vessel-match-service/internal/domain"
	"vessel-match-service/internal/services"
)

const maxLimit = 500

type MatchHandler struct {
	Svc *services.MatchingService
}

// Match scores a single offer against a cargo order.
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req dto.MatchRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	res, err := h.Svc.Match(r.Context(), services.MatchRequest{
		OfferID: req.OfferID,
		Offer:   req.Offer,
		Order:   req.Order,
		Weights: req.Weights.Vector(),
	})
	if err != nil {
		writeServiceError(w, r, "match", err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// MatchOrder ranks the inventory against a cargo order.
func (h *MatchHandler) MatchOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.OrderMatchRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if !validLimit(w, r, req.Limit) {
		return
	}

	ranked, err := h.Svc.Rank(r.Context(), services.RankRequest{
		Order:   &req.Order,
		Weights: req.Weights.Vector(),
		Filters: req.Filters,
		Limit:   req.Limit,
	})
	if err != nil {
		writeServiceError(w, r, "match order", err)
		return
	}
	writeRanked(w, r, ranked)
}

// Rank orders the inventory by weighted score without a cargo order.
func (h *MatchHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req dto.RankRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	if !validLimit(w, r, req.Limit) {
		return
	}

	ranked, err := h.Svc.Rank(r.Context(), services.RankRequest{
		Weights: req.Weights.Vector(),
		Filters: req.Filters,
		Limit:   req.Limit,
	})
	if err != nil {
		writeServiceError(w, r, "rank", err)
		return
	}
	writeRanked(w, r, ranked)
}

func (h *MatchHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req dto.RecommendRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if len(req.OfferIDs) > 0 && len(req.Offers) > 0 {
		writeError(w, r, http.StatusBadRequest, "send offer_ids or offers, not both")
		return
	}

	rec, err := h.Svc.Recommend(r.Context(), req.OfferIDs, req.Offers)
	if err != nil {
		writeServiceError(w, r, "recommend", err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (h *MatchHandler) NormalizeWeights(w http.ResponseWriter, r *http.Request) {
	var req dto.WeightsMap
	if !decodeJSON(w, r, &req, false) {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.WeightsResponse{Weights: h.Svc.NormalizeWeights(domain.WeightsFromMap(req))})
}

func (h *MatchHandler) GetPreferredWeights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.WeightsResponse{Weights: h.Svc.PreferredWeights()})
}

func (h *MatchHandler) SetPreferredWeights(w http.ResponseWriter, r *http.Request) {
	var req dto.WeightsMap
	if !decodeJSON(w, r, &req, false) {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.WeightsResponse{Weights: h.Svc.SetPreferredWeights(domain.WeightsFromMap(req))})
}

func (h *MatchHandler) Distance(w http.ResponseWriter, r *http.Request) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		writeError(w, r, http.StatusBadRequest, "from and to are required")
		return
	}

	res := dto.DistanceResponse{From: from, To: to}
	if nm, ok := h.Svc.EstimateDistance(from, to); ok {
		nm = math.Round(nm*10) / 10
		res.NauticalMiles = &nm
		res.Known = true
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *MatchHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	members, rec := h.Svc.Comparison()
	writeJSON(w, r, http.StatusOK, dto.ComparisonResponse{
		Members:        members,
		Capacity:       h.Svc.ComparisonCapacity(),
		Recommendation: rec,
	})
}

func (h *MatchHandler) AddToComparison(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	evicted, err := h.Svc.AddToComparison(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "add to comparison", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ComparisonAddResponse{Added: id, Evicted: evicted})
}

func (h *MatchHandler) RemoveFromComparison(w http.ResponseWriter, r *http.Request) {
	if !h.Svc.RemoveFromComparison(chi.URLParam(r, "id")) {
		writeError(w, r, http.StatusNotFound, "offer not in comparison set")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) ClearComparison(w http.ResponseWriter, r *http.Request) {
	h.Svc.ClearComparison()
	w.WriteHeader(http.StatusNoContent)
}

func validLimit(w http.ResponseWriter, r *http.Request, limit int) bool {
	if limit < 0 || limit > maxLimit {
		writeError(w, r, http.StatusBadRequest, "limit must be between 0 and 500")
		return false
	}
	return true
}

func writeRanked(w http.ResponseWriter, r *http.Request, ranked []domain.RankedOffer) {
	if ranked == nil {
		ranked = []domain.RankedOffer{}
	}
	writeJSON(w, r, http.StatusOK, dto.RankResponse{Results: ranked, Count: len(ranked)})
}
