package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"

	"vessel-match-service/internal/domain"
	"vessel-match-service/internal/platform/obs"
)

// Postgres-backed store of operator-maintained port anchors, read through
// database/sql with the pgx stdlib driver.
type PostgresAnchorStore struct {
	DB *sql.DB
}

func NewPostgresAnchorStore(db *sql.DB) *PostgresAnchorStore {
	return &PostgresAnchorStore{DB: db}
}

// Fetch every stored anchor ordered by name.
func (s *PostgresAnchorStore) ListAnchors(ctx context.Context) (_ []domain.PortAnchor, err error) {
	defer obs.Time(ctx, "postgres.anchors.List")(&err)

	if s.DB == nil {
		return nil, eris.New("anchor store: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT name, region, aliases, lon, lat
	FROM port_anchors
	ORDER BY name;
	`)
	if err != nil {
		return nil, eris.Wrap(err, "list anchors: query port_anchors table")
	}
	defer rows.Close()

	return scanAnchors(rows)
}

// Insert an anchor or replace the stored one with the same name.
func (s *PostgresAnchorStore) UpsertAnchor(ctx context.Context, a domain.PortAnchor) error {
	if s.DB == nil {
		return eris.New("anchor store: db is nil")
	}

	aliases, err := validAnchor(a)
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO port_anchors (name, region, aliases, lon, lat)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (name) DO UPDATE
	SET region = EXCLUDED.region,
		aliases = EXCLUDED.aliases,
		lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`, strings.TrimSpace(a.Name), a.Region, aliases, a.Coordinates.Lon, a.Coordinates.Lat)
	if err != nil {
		return eris.Wrapf(err, "upsert anchor %q", a.Name)
	}
	return nil
}

func scanAnchors(rows *sql.Rows) ([]domain.PortAnchor, error) {
	out := make([]domain.PortAnchor, 0, 16)
	for rows.Next() {
		var (
			a       domain.PortAnchor
			aliases string
		)
		if err := rows.Scan(&a.Name, &a.Region, &aliases, &a.Coordinates.Lon, &a.Coordinates.Lat); err != nil {
			return nil, eris.Wrap(err, "list anchors: scan rows")
		}
		list, err := decodeTags(aliases)
		if err != nil {
			return nil, eris.Wrapf(err, "list anchors: aliases of %q", a.Name)
		}
		a.Aliases = list
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "list anchors: row iteration")
	}
	return out, nil
}

// validAnchor checks name and coordinates and returns the JSON-encoded aliases.
func validAnchor(a domain.PortAnchor) (string, error) {
	if strings.TrimSpace(a.Name) == "" {
		return "", eris.New("upsert anchor: empty name")
	}
	if a.Coordinates.Lat < -90 || a.Coordinates.Lat > 90 || a.Coordinates.Lon < -180 || a.Coordinates.Lon > 180 {
		return "", eris.Errorf("upsert anchor %q: coordinates out of range", a.Name)
	}
	return encodeTags(a.Aliases)
}
