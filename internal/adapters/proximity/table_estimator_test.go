package proximity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vessel-match-service/internal/domain"
)

func defaultEstimator(t *testing.T) *TableEstimator {
	t.Helper()
	anchors, err := DefaultAnchors()
	require.NoError(t, err)
	return NewTableEstimator(anchors)
}

func TestDefaultAnchors(t *testing.T) {
	anchors, err := DefaultAnchors()
	require.NoError(t, err)
	assert.Greater(t, len(anchors), 50)

	for _, a := range anchors {
		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.Region, a.Name)
	}
}

func TestTableEstimator_EstimateNM(t *testing.T) {
	est := defaultEstimator(t)

	tests := []struct {
		name     string
		from, to string
		wantOK   bool
		minNM    float64
		maxNM    float64
	}{
		{"same port", "Santos", "santos", true, 0, 0},
		{"same unknown port", "Timbuktu-on-Sea", "TIMBUKTU ON SEA", true, 0, 0},
		{"neighbours", "Santos", "Paranagua", true, 120, 180},
		{"alias and accent", "Port of Santos", "Paranaguá", true, 120, 180},
		{"free text", "Santos, Brazil", "Rio Grande do Sul", true, 450, 650},
		{"ocean crossing", "Santos", "Qingdao", true, 9000, 11000},
		{"symmetric", "Qingdao", "Santos", true, 9000, 11000},
		{"unknown origin", "Timbuktu-on-Sea", "Santos", false, 0, 0},
		{"unknown destination", "Santos", "Atlantis", false, 0, 0},
		{"blank", "", "Santos", false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nm, ok := est.EstimateNM(tt.from, tt.to)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Zero(t, nm, "unknown distances are never fabricated")
				return
			}
			assert.GreaterOrEqual(t, nm, tt.minNM)
			assert.LessOrEqual(t, nm, tt.maxNM)
		})
	}
}

func TestTableEstimator_Lookup(t *testing.T) {
	est := defaultEstimator(t)

	a, ok := est.Lookup("Vizag")
	require.True(t, ok)
	assert.Equal(t, "Visakhapatnam", a.Name)

	a, ok = est.Lookup("Port of Rio de Janeiro")
	require.True(t, ok)
	assert.Equal(t, "Rio de Janeiro", a.Name)

	_, ok = est.Lookup("Parana")
	assert.False(t, ok)
}

func TestTableEstimator_LaterSetsOverride(t *testing.T) {
	base := []domain.PortAnchor{{Name: "Alpha", Coordinates: domain.Coordinates{Lat: 0, Lon: 0}}}
	override := []domain.PortAnchor{
		{Name: "Alpha", Coordinates: domain.Coordinates{Lat: 1, Lon: 0}},
		{Name: "Beta", Aliases: []string{"B Port"}, Coordinates: domain.Coordinates{Lat: 2, Lon: 0}},
	}
	est := NewTableEstimator(base, override)

	nm, ok := est.EstimateNM("Alpha", "B Port")
	require.True(t, ok)
	assert.InDelta(t, 60, nm, 0.5)

	names := []string{}
	for _, a := range est.Anchors() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Alpha", "Beta"}, names)
}

type fakeAnchorStore struct {
	anchors []domain.PortAnchor
	err     error
}

func (f *fakeAnchorStore) ListAnchors(context.Context) ([]domain.PortAnchor, error) {
	return f.anchors, f.err
}

func (f *fakeAnchorStore) UpsertAnchor(_ context.Context, a domain.PortAnchor) error {
	f.anchors = append(f.anchors, a)
	return f.err
}

func TestTableEstimator_Refresh(t *testing.T) {
	est := defaultEstimator(t)
	_, ok := est.EstimateNM("Timbuktu-on-Sea", "Santos")
	require.False(t, ok)

	store := &fakeAnchorStore{anchors: []domain.PortAnchor{
		{Name: "Timbuktu-on-Sea", Coordinates: domain.Coordinates{Lat: -23.96, Lon: -46.0}},
	}}
	require.NoError(t, est.Refresh(context.Background(), store))

	nm, ok := est.EstimateNM("Timbuktu-on-Sea", "Santos")
	require.True(t, ok)
	assert.Less(t, nm, 50.0)

	err := est.Refresh(context.Background(), &fakeAnchorStore{err: eris.New("boom")})
	assert.ErrorContains(t, err, "refresh anchors")
}

func TestLoadAnchorsFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`anchors:
  - name: Ust-Luga
    region: Baltic
    lat: 59.68
    lon: 28.40
    aliases: [Ust Luga]
`), 0o644))
	anchors, err := LoadAnchorsFile(good)
	require.NoError(t, err)
	require.Len(t, anchors, 1)
	assert.Equal(t, "Ust-Luga", anchors[0].Name)
	assert.InDelta(t, 59.68, anchors[0].Coordinates.Lat, 1e-9)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("anchors:\n  - {name: Nowhere, lat: 123, lon: 0}\n"), 0o644))
	_, err = LoadAnchorsFile(bad)
	assert.ErrorContains(t, err, "out-of-range")

	_, err = LoadAnchorsFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestStaticEstimator(t *testing.T) {
	est := NewStaticEstimator([]StaticPair{{From: "Santos", To: "Paranagua", NM: 150}})

	nm, ok := est.EstimateNM("PARANAGUÁ", "santos")
	require.True(t, ok)
	assert.Equal(t, 150.0, nm)

	nm, ok = est.EstimateNM("Santos", "Santos")
	assert.True(t, ok)
	assert.Zero(t, nm)

	_, ok = est.EstimateNM("Santos", "Houston")
	assert.False(t, ok)
}
