package repositories

import (
	"context"
	"strings"
	"sync"

	"github.com/rotisserie/eris"

	"vessel-match-service/internal/domain"
	"vessel-match-service/internal/ports"
)

// In-memory OfferRepository used by tests and the CLI when no database is
// configured. Offers are cloned on the way in and out.
type MemoryOfferRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]domain.VesselOffer
}

func NewMemoryOfferRepository(offers ...domain.VesselOffer) *MemoryOfferRepository {
	r := &MemoryOfferRepository{byID: make(map[string]domain.VesselOffer, len(offers))}
	for _, o := range offers {
		_ = r.SaveOffer(context.Background(), o)
	}
	return r
}

func (r *MemoryOfferRepository) ListOffers(context.Context) ([]domain.VesselOffer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.VesselOffer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}

func (r *MemoryOfferRepository) GetOffer(_ context.Context, id string) (domain.VesselOffer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return domain.VesselOffer{}, eris.Wrapf(ports.ErrOfferNotFound, "get offer %s", id)
	}
	return o.Clone(), nil
}

func (r *MemoryOfferRepository) SaveOffer(_ context.Context, o domain.VesselOffer) error {
	if strings.TrimSpace(o.ID) == "" {
		return eris.New("save offer: empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[o.ID]; !exists {
		r.order = append(r.order, o.ID)
	}
	r.byID[o.ID] = o.Clone()
	return nil
}

func (r *MemoryOfferRepository) DeleteOffer(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return eris.Wrapf(ports.ErrOfferNotFound, "delete offer %s", id)
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
