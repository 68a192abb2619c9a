package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vessel-match-service/internal/api/dto"
	"vessel-match-service/internal/domain"
	"vessel-match-service/internal/services"
)

// OfferHandler exposes the vessel offer inventory.
type OfferHandler struct {
	Svc *services.MatchingService
}

func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	offers, err := h.Svc.ListOffers(r.Context())
	if err != nil {
		writeServiceError(w, r, "list offers", err)
		return
	}
	if offers == nil {
		offers = []domain.VesselOffer{}
	}
	writeJSON(w, r, http.StatusOK, dto.ListOffersResponse{Offers: offers, Count: len(offers)})
}

func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	offer, err := h.Svc.GetOffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "get offer", err)
		return
	}
	writeJSON(w, r, http.StatusOK, offer)
}

func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var offer domain.VesselOffer
	if !decodeJSON(w, r, &offer, false) {
		return
	}

	created, err := h.Svc.CreateOffer(r.Context(), offer)
	if err != nil {
		writeServiceError(w, r, "create offer", err)
		return
	}
	w.Header().Set("Location", "/offers/"+created.ID)
	writeJSON(w, r, http.StatusCreated, created)
}

func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	var offer domain.VesselOffer
	if !decodeJSON(w, r, &offer, false) {
		return
	}

	id := chi.URLParam(r, "id")
	if offer.ID != "" && offer.ID != id {
		writeError(w, r, http.StatusBadRequest, "id in body does not match path")
		return
	}

	updated, err := h.Svc.UpdateOffer(r.Context(), id, offer)
	if err != nil {
		writeServiceError(w, r, "update offer", err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteOffer(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, "delete offer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
