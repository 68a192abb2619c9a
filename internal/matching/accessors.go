package matching

import (
	"math"
	"strings"
	"time"

	"vessel-match-service/internal/domain"
)

// Offers and orders are read only through these helpers. Each one reports
// whether the value was usable so scorers can fall back to a neutral score in
// one place instead of checking fields ad hoc.

// Sizes at or below this are read as thousands of tonnes.
const thousandsCutoff = 1000

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02/01/2006",
}

func number(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return 0, false
	}
	return *p, true
}

func positive(p *float64) (float64, bool) {
	v, ok := number(p)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// tonnes returns a size in metric tonnes, expanding "76" to 76000.
func tonnes(p *float64) (float64, bool) {
	v, ok := positive(p)
	if !ok {
		return 0, false
	}
	if v <= thousandsCutoff {
		v *= 1000
	}
	return v, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// window is an inclusive range of calendar days.
type window struct {
	start time.Time
	end   time.Time
}

// days is the inclusive length of the window.
func (w window) days() int {
	return daysBetween(w.start, w.end) + 1
}

func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// laycan parses a start/end pair. A missing end collapses the window to the
// start day and vice versa; reversed bounds are swapped.
func laycan(start, end string) (window, bool) {
	s, okS := parseDate(start)
	e, okE := parseDate(end)
	switch {
	case okS && okE:
	case okS:
		e = s
	case okE:
		s = e
	default:
		return window{}, false
	}
	if e.Before(s) {
		s, e = e, s
	}
	return window{start: s, end: e}, true
}

func offerLaycan(o domain.VesselOffer) (window, bool) { return laycan(o.LaycanStart, o.LaycanEnd) }

func orderLaycan(o domain.CargoOrder) (window, bool) { return laycan(o.LaycanStart, o.LaycanEnd) }

// originPort is where the vessel will be when it presents for loading.
func originPort(o domain.VesselOffer) string {
	if p := strings.TrimSpace(o.LoadPort); p != "" {
		return p
	}
	return strings.TrimSpace(o.OpenPort)
}

// looseMatch reports a case-insensitive substring match in either direction
// after accent and punctuation folding.
func looseMatch(a, b string) bool {
	na, nb := domain.NormalizeName(a), domain.NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

func (c Config) age(o domain.VesselOffer) (float64, bool) {
	if v, ok := number(o.AgeYears); ok && v >= 0 {
		return v, true
	}
	return c.AssumedAge, false
}

func (c Config) maxAge(o domain.CargoOrder) (float64, bool) {
	if v, ok := positive(o.MaxAge); ok {
		return v, true
	}
	if c.AssumedMaxAge > 0 {
		return c.AssumedMaxAge, false
	}
	return DefaultConfig().AssumedMaxAge, false
}
