package repositories

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"vessel-match-service/internal/domain"
)

// Column order shared by every SQL offer store. Nullable numeric and boolean
// columns scan into pointer fields so a missing value stays missing.
const offerColumns = `
	id,
	vessel_name,
	vessel_type,
	dwt,
	age_years,
	flag,
	load_port,
	discharge_port,
	open_port,
	laycan_start,
	laycan_end,
	freight_rate,
	rate_unit,
	cargo_type,
	status,
	geared,
	ice_class,
	tags,
	match_score,
	source`

const offerColumnCount = 20

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOffer(row rowScanner) (domain.VesselOffer, error) {
	var (
		o      domain.VesselOffer
		status string
		tags   string
	)
	err := row.Scan(
		&o.ID,
		&o.VesselName,
		&o.VesselType,
		&o.DWT,
		&o.AgeYears,
		&o.Flag,
		&o.LoadPort,
		&o.DischargePort,
		&o.OpenPort,
		&o.LaycanStart,
		&o.LaycanEnd,
		&o.FreightRate,
		&o.RateUnit,
		&o.CargoType,
		&status,
		&o.Geared,
		&o.IceClass,
		&tags,
		&o.MatchScore,
		&o.Source,
	)
	if err != nil {
		return domain.VesselOffer{}, err
	}
	o.Status = domain.OfferStatus(status)
	if o.Tags, err = decodeTags(tags); err != nil {
		return domain.VesselOffer{}, eris.Wrapf(err, "offer %s", o.ID)
	}
	return o, nil
}

// offerArgs returns bind values in offerColumns order.
func offerArgs(o domain.VesselOffer) ([]any, error) {
	tags, err := encodeTags(o.Tags)
	if err != nil {
		return nil, err
	}
	return []any{
		o.ID,
		o.VesselName,
		o.VesselType,
		o.DWT,
		o.AgeYears,
		o.Flag,
		o.LoadPort,
		o.DischargePort,
		o.OpenPort,
		o.LaycanStart,
		o.LaycanEnd,
		o.FreightRate,
		o.RateUnit,
		o.CargoType,
		string(o.Status),
		o.Geared,
		o.IceClass,
		tags,
		o.MatchScore,
		o.Source,
	}, nil
}

func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", eris.Wrap(err, "encode tags")
	}
	return string(b), nil
}

func decodeTags(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, eris.Wrap(err, "decode tags")
	}
	return tags, nil
}

// placeholders renders "$1, $2, ..." for Postgres or "?, ?, ..." for SQLite.
func placeholders(n int, dollar bool) string {
	parts := make([]string, n)
	for i := range parts {
		if dollar {
			parts[i] = "$" + strconv.Itoa(i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}
