package dto

import "vessel-match-service/internal/domain"

type ListOffersResponse struct {
	Offers []domain.VesselOffer `json:"offers"`
	Count  int                  `json:"count"`
}
