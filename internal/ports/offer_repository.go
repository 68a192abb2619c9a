package ports

import (
	"context"

	"github.com/rotisserie/eris"

	"vessel-match-service/internal/domain"
)

var ErrOfferNotFound = eris.New("offer not found")

// Port: a boundary for reading and writing the vessel offer inventory.
type OfferRepository interface {
	// Retrieve every offer in insertion order.
	ListOffers(ctx context.Context) ([]domain.VesselOffer, error)
	// Retrieve one offer, or ErrOfferNotFound.
	GetOffer(ctx context.Context, id string) (domain.VesselOffer, error)
	// Insert or replace an offer by ID.
	SaveOffer(ctx context.Context, offer domain.VesselOffer) error
	// Remove an offer, or ErrOfferNotFound.
	DeleteOffer(ctx context.Context, id string) error
}
