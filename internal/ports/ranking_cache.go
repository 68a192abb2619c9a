package ports

import (
	"context"

	"vessel-match-service/internal/domain"
)

// Memo store for computed rankings, keyed by a hash of the ranking inputs.
type RankingCache interface {
	Get(ctx context.Context, key string) ([]domain.RankedOffer, bool, error)
	Set(ctx context.Context, key string, ranked []domain.RankedOffer) error
	// Drop every entry. Called after any inventory mutation.
	Purge(ctx context.Context) error
}
