package ports

import (
	"context"

	"vessel-match-service/internal/domain"
)

// Source of additional port anchors layered over the built-in table.
type PortAnchorStore interface {
	ListAnchors(ctx context.Context) ([]domain.PortAnchor, error)
	UpsertAnchor(ctx context.Context, anchor domain.PortAnchor) error
}
