package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"vessel-match-service/internal/domain"
	"vessel-match-service/internal/ports"
)

var sqliteSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS offers (
		id TEXT PRIMARY KEY,
		vessel_name TEXT NOT NULL DEFAULT '',
		vessel_type TEXT NOT NULL DEFAULT '',
		dwt REAL,
		age_years REAL,
		flag TEXT NOT NULL DEFAULT '',
		load_port TEXT NOT NULL DEFAULT '',
		discharge_port TEXT NOT NULL DEFAULT '',
		open_port TEXT NOT NULL DEFAULT '',
		laycan_start TEXT NOT NULL DEFAULT '',
		laycan_end TEXT NOT NULL DEFAULT '',
		freight_rate REAL,
		rate_unit TEXT NOT NULL DEFAULT '',
		cargo_type TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		geared INTEGER,
		ice_class TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		match_score REAL,
		source TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS port_anchors (
		name TEXT PRIMARY KEY,
		region TEXT NOT NULL DEFAULT '',
		aliases TEXT NOT NULL DEFAULT '[]',
		lon REAL NOT NULL,
		lat REAL NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_offers_status
	ON offers(status);
	`,
}

// PostgresSchema creates the same tables for Postgres. seq keeps insertion order
// stable across upserts.
var PostgresSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS offers (
		seq BIGSERIAL,
		id TEXT PRIMARY KEY,
		vessel_name TEXT NOT NULL DEFAULT '',
		vessel_type TEXT NOT NULL DEFAULT '',
		dwt DOUBLE PRECISION,
		age_years DOUBLE PRECISION,
		flag TEXT NOT NULL DEFAULT '',
		load_port TEXT NOT NULL DEFAULT '',
		discharge_port TEXT NOT NULL DEFAULT '',
		open_port TEXT NOT NULL DEFAULT '',
		laycan_start TEXT NOT NULL DEFAULT '',
		laycan_end TEXT NOT NULL DEFAULT '',
		freight_rate DOUBLE PRECISION,
		rate_unit TEXT NOT NULL DEFAULT '',
		cargo_type TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		geared BOOLEAN,
		ice_class TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		match_score DOUBLE PRECISION,
		source TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS port_anchors (
		name TEXT PRIMARY KEY,
		region TEXT NOT NULL DEFAULT '',
		aliases TEXT NOT NULL DEFAULT '[]',
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_offers_status
	ON offers(status);
	`,
}

// Initialize the SQLite database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	return execSchema(ctx, db, sqliteSchema)
}

// Initialize the Postgres database schema through database/sql.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	return execSchema(ctx, db, PostgresSchema)
}

func execSchema(ctx context.Context, db *sql.DB, statements []string) error {
	if db == nil {
		return eris.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "init schema: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return eris.Wrapf(err, "init schema: exec statement #%d", i+1)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "init schema: commit tx")
	}
	return nil
}

// LoadSeedOffers reads offers from a JSON array file. Every record needs an id;
// everything else may be missing, as it would be from the ingestion feed.
func LoadSeedOffers(jsonPath string) ([]domain.VesselOffer, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, eris.Wrapf(err, "seed offers: read %q", jsonPath)
	}

	var offers []domain.VesselOffer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, eris.Wrap(err, "seed offers: parse json")
	}

	seen := make(map[string]struct{}, len(offers))
	for i := range offers {
		id := strings.TrimSpace(offers[i].ID)
		if id == "" {
			return nil, eris.Errorf("seed offers: item at index %d: id cannot be empty", i+1)
		}
		if _, dup := seen[id]; dup {
			return nil, eris.Errorf("seed offers: item at index %d: duplicate id %q", i+1, id)
		}
		seen[id] = struct{}{}
		offers[i].ID = id
		if offers[i].Status == "" {
			offers[i].Status = domain.StatusAvailable
		}
	}
	return offers, nil
}

// SeedFromJSON loads offers from jsonPath into repo, replacing records with the
// same id. It returns the number of offers written.
func SeedFromJSON(ctx context.Context, repo ports.OfferRepository, jsonPath string) (int, error) {
	offers, err := LoadSeedOffers(jsonPath)
	if err != nil {
		return 0, err
	}
	for _, o := range offers {
		if err := repo.SaveOffer(ctx, o); err != nil {
			return 0, eris.Wrapf(err, "seed offers: save %s", o.ID)
		}
	}
	return len(offers), nil
}
