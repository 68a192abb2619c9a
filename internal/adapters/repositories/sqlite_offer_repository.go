package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rotisserie/eris"

	"vessel-match-service/internal/domain"
	"vessel-match-service/internal/platform/obs"
	"vessel-match-service/internal/ports"
)

// SQLite-backed implementation of the OfferRepository port.
type SqliteOfferRepository struct{ DB *sql.DB }

func NewSqliteOfferRepository(db *sql.DB) *SqliteOfferRepository {
	return &SqliteOfferRepository{DB: db}
}

// Return all offers in insertion order.
func (s *SqliteOfferRepository) ListOffers(ctx context.Context) (_ []domain.VesselOffer, err error) {
	defer obs.Time(ctx, "sqlite.offers.List")(&err)

	if s.DB == nil {
		return nil, eris.New("sqlite offer repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT`+offerColumns+` FROM offers ORDER BY rowid;`)
	if err != nil {
		return nil, eris.Wrap(err, "list offers: query offers table")
	}
	defer rows.Close()

	offers := make([]domain.VesselOffer, 0, 64)
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

func (s *SqliteOfferRepository) GetOffer(ctx context.Context, id string) (domain.VesselOffer, error) {
	if s.DB == nil {
		return domain.VesselOffer{}, eris.New("sqlite offer repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `SELECT`+offerColumns+` FROM offers WHERE id = ?;`, id)
	o, err := scanOffer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.VesselOffer{}, eris.Wrapf(ports.ErrOfferNotFound, "get offer %s", id)
	}
	if err != nil {
		return domain.VesselOffer{}, eris.Wrapf(err, "get offer %s", id)
	}
	return o, nil
}

// Insert or update an offer. Updates keep the row's original position.
func (s *SqliteOfferRepository) SaveOffer(ctx context.Context, o domain.VesselOffer) (err error) {
	defer obs.Time(ctx, "sqlite.offers.Save")(&err)

	if s.DB == nil {
		return eris.New("sqlite offer repository: DB is nil")
	}
	if strings.TrimSpace(o.ID) == "" {
		return eris.New("save offer: empty id")
	}

	args, err := offerArgs(o)
	if err != nil {
		return eris.Wrapf(err, "save offer %s", o.ID)
	}
	q := `INSERT INTO offers (` + offerColumns + `)
	VALUES (` + placeholders(offerColumnCount, false) + `)
	ON CONFLICT(id) DO UPDATE SET ` + upsertAssignments() + `, updated_at = datetime('now');`

	if _, err := s.DB.ExecContext(ctx, q, args...); err != nil {
		return eris.Wrapf(err, "save offer %s", o.ID)
	}
	return nil
}

func (s *SqliteOfferRepository) DeleteOffer(ctx context.Context, id string) error {
	if s.DB == nil {
		return eris.New("sqlite offer repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM offers WHERE id = ?;`, id)
	if err != nil {
		return eris.Wrapf(err, "delete offer %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "delete offer %s: rows affected", id)
	}
	if n == 0 {
		return eris.Wrapf(ports.ErrOfferNotFound, "delete offer %s", id)
	}
	return nil
}

// upsertAssignments renders "col = excluded.col" for every non-key column.
// Both SQLite and Postgres accept this form.
func upsertAssignments() string {
	cols := strings.Split(offerColumns, ",")
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		c = strings.TrimSpace(c)
		if c == "id" {
			continue
		}
		parts = append(parts, c+" = excluded."+c)
	}
	return strings.Join(parts, ", ")
}
