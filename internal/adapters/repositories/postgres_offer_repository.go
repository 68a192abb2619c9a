package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"vessel-match-service/internal/domain"
	"vessel-match-service/internal/platform/obs"
	"vessel-match-service/internal/ports"
)

// pool is the slice of pgxpool.Pool the repository needs.
type pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ pool = (*pgxpool.Pool)(nil)

// Postgres-backed implementation of the OfferRepository port.
type PostgresOfferRepository struct {
	pool pool
}

func NewPostgresOfferRepository(p *pgxpool.Pool) *PostgresOfferRepository {
	return &PostgresOfferRepository{pool: p}
}

func newPostgresOfferRepository(p pool) *PostgresOfferRepository {
	return &PostgresOfferRepository{pool: p}
}

var (
	pgListOffersSQL  = `SELECT` + offerColumns + ` FROM offers ORDER BY seq;`
	pgGetOfferSQL    = `SELECT` + offerColumns + ` FROM offers WHERE id = $1;`
	pgDeleteOfferSQL = `DELETE FROM offers WHERE id = $1;`
	pgSaveOfferSQL   = `INSERT INTO offers (` + offerColumns + `)
	VALUES (` + placeholders(offerColumnCount, true) + `)
	ON CONFLICT (id) DO UPDATE SET ` + upsertAssignments() + `, updated_at = now();`
)

// Return all offers in insertion order.
func (r *PostgresOfferRepository) ListOffers(ctx context.Context) (_ []domain.VesselOffer, err error) {
	defer obs.Time(ctx, "postgres.offers.List")(&err)

	rows, err := r.pool.Query(ctx, pgListOffersSQL)
	if err != nil {
		return nil, eris.Wrap(err, "list offers: query offers table")
	}
	defer rows.Close()

	var offers []domain.VesselOffer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, eris.Wrap(err, "list offers: scan row")
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "list offers: row iteration")
	}
	return offers, nil
}

func (r *PostgresOfferRepository) GetOffer(ctx context.Context, id string) (domain.VesselOffer, error) {
	o, err := scanOffer(r.pool.QueryRow(ctx, pgGetOfferSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.VesselOffer{}, eris.Wrapf(ports.ErrOfferNotFound, "get offer %s", id)
	}
	if err != nil {
		return domain.VesselOffer{}, eris.Wrapf(err, "get offer %s", id)
	}
	return o, nil
}

// Insert or update an offer. Updates keep the row's seq, so listing order is
// stable across edits.
func (r *PostgresOfferRepository) SaveOffer(ctx context.Context, o domain.VesselOffer) (err error) {
	defer obs.Time(ctx, "postgres.offers.Save")(&err)

	if strings.TrimSpace(o.ID) == "" {
		return eris.New("save offer: empty id")
	}
	args, err := offerArgs(o)
	if err != nil {
		return eris.Wrapf(err, "save offer %s", o.ID)
	}
	if _, err := r.pool.Exec(ctx, pgSaveOfferSQL, args...); err != nil {
		return eris.Wrapf(err, "save offer %s", o.ID)
	}
	return nil
}

func (r *PostgresOfferRepository) DeleteOffer(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, pgDeleteOfferSQL, id)
	if err != nil {
		return eris.Wrapf(err, "delete offer %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ports.ErrOfferNotFound, "delete offer %s", id)
	}
	return nil
}
