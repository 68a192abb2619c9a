package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"

	"vessel-match-service/internal/domain"
)

// SQLite backed store of operator-maintained port anchors. Rows are layered
// over the built-in anchor table at startup and on refresh.
type SqliteAnchorStore struct {
	DB *sql.DB
}

func NewSqliteAnchorStore(db *sql.DB) *SqliteAnchorStore {
	return &SqliteAnchorStore{DB: db}
}

func (s *SqliteAnchorStore) ListAnchors(ctx context.Context) ([]domain.PortAnchor, error) {
	if s.DB == nil {
		return nil, eris.New("anchor store: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		name,
		region,
		aliases,
		lon,
		lat
	FROM port_anchors
	ORDER BY name;
	`)
	if err != nil {
		return nil, eris.Wrap(err, "list anchors: query port_anchors table")
	}
	defer rows.Close()

	return scanAnchors(rows)
}

func (s *SqliteAnchorStore) UpsertAnchor(ctx context.Context, a domain.PortAnchor) error {
	if s.DB == nil {
		return eris.New("anchor store: db is nil")
	}

	aliases, err := validAnchor(a)
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO port_anchors (
		name,
		region,
		aliases,
		lon,
		lat
	)
	VALUES (?, ?, ?, ?, ?);
	`, strings.TrimSpace(a.Name), a.Region, aliases, a.Coordinates.Lon, a.Coordinates.Lat)
	if err != nil {
		return eris.Wrapf(err, "upsert anchor %q", a.Name)
	}
	return nil
}
