package proximity

import (
	"bytes"
	"context"
	_ "embed"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"vessel-match-service/internal/domain"
	"vessel-match-service/internal/ports"
)

//go:embed ports.yaml
var defaultAnchorsYAML []byte

type anchorFile struct {
	Anchors []domain.PortAnchor `yaml:"anchors"`
}

// DefaultAnchors returns the built-in anchor table.
func DefaultAnchors() ([]domain.PortAnchor, error) {
	return decodeAnchors(defaultAnchorsYAML)
}

// LoadAnchorsFile reads an anchor table in the same YAML layout as the
// built-in one.
func LoadAnchorsFile(path string) ([]domain.PortAnchor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "proximity: read anchors %s", path)
	}
	anchors, err := decodeAnchors(data)
	if err != nil {
		return nil, eris.Wrapf(err, "proximity: anchors %s", path)
	}
	return anchors, nil
}

func decodeAnchors(data []byte) ([]domain.PortAnchor, error) {
	var f anchorFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, eris.Wrap(err, "proximity: decode anchors")
	}
	for i, a := range f.Anchors {
		if strings.TrimSpace(a.Name) == "" {
			return nil, eris.Errorf("proximity: anchor %d has no name", i)
		}
		if a.Coordinates.Lat < -90 || a.Coordinates.Lat > 90 || a.Coordinates.Lon < -180 || a.Coordinates.Lon > 180 {
			return nil, eris.Errorf("proximity: anchor %q has out-of-range coordinates", a.Name)
		}
	}
	return f.Anchors, nil
}

// TableEstimator estimates sea distance as the great-circle distance between
// known port anchors. It is a coarse heuristic: it knows nothing about land,
// canals or routing, and a port missing from the table is reported as unknown.
type TableEstimator struct {
	mu    sync.RWMutex
	index map[string]domain.PortAnchor
}

// NewTableEstimator indexes the given anchor sets in order; a later set
// overrides an earlier one for the same name or alias.
func NewTableEstimator(sets ...[]domain.PortAnchor) *TableEstimator {
	t := &TableEstimator{index: make(map[string]domain.PortAnchor)}
	for _, s := range sets {
		t.Add(s)
	}
	return t
}

// Add indexes anchors under their normalized name and aliases.
func (t *TableEstimator) Add(anchors []domain.PortAnchor) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, a := range anchors {
		for _, key := range append([]string{a.Name}, a.Aliases...) {
			if k := domain.NormalizeName(key); k != "" {
				t.index[k] = a
			}
		}
	}
}

// Refresh layers anchors from store over the current table.
func (t *TableEstimator) Refresh(ctx context.Context, store ports.PortAnchorStore) error {
	anchors, err := store.ListAnchors(ctx)
	if err != nil {
		return eris.Wrap(err, "proximity: refresh anchors")
	}
	t.Add(anchors)
	zap.L().Debug("proximity: anchors refreshed", zap.Int("count", len(anchors)))
	return nil
}

// Lookup resolves a free-text port name to an anchor. An exact match on the
// normalized name or an alias wins; otherwise the longest anchor key that
// appears as whole words inside the name is used, so "Port of Santos, BR"
// resolves to Santos.
func (t *TableEstimator) Lookup(name string) (domain.PortAnchor, bool) {
	n := domain.NormalizeName(name)
	if n == "" {
		return domain.PortAnchor{}, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if a, ok := t.index[n]; ok {
		return a, true
	}

	padded := " " + n + " "
	best := ""
	for k := range t.index {
		if !strings.Contains(padded, " "+k+" ") {
			continue
		}
		if len(k) > len(best) || (len(k) == len(best) && k < best) {
			best = k
		}
	}
	if best == "" {
		return domain.PortAnchor{}, false
	}
	return t.index[best], true
}

// EstimateNM implements ports.DistanceEstimator.
func (t *TableEstimator) EstimateNM(from, to string) (float64, bool) {
	a, b := domain.NormalizeName(from), domain.NormalizeName(to)
	if a == "" || b == "" {
		return 0, false
	}
	if a == b {
		return 0, true
	}

	pa, ok := t.Lookup(from)
	if !ok {
		return 0, false
	}
	pb, ok := t.Lookup(to)
	if !ok {
		return 0, false
	}
	return pa.Coordinates.GreatCircleNM(pb.Coordinates), true
}

// Anchors returns the distinct anchors in the table sorted by name.
func (t *TableEstimator) Anchors() []domain.PortAnchor {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[string]struct{}, len(t.index))
	out := make([]domain.PortAnchor, 0, len(t.index))
	for _, a := range t.index {
		if canonical, ok := t.index[domain.NormalizeName(a.Name)]; ok {
			a = canonical
		}
		if _, dup := seen[a.Name]; dup {
			continue
		}
		seen[a.Name] = struct{}{}
		out = append(out, a)
	}
	slices.SortFunc(out, func(x, y domain.PortAnchor) int { return strings.Compare(x.Name, y.Name) })
	return out
}
