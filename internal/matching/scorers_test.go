package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vessel-match-service/internal/domain"
)

func ptrFloat64(v float64) *float64 { return &v }

func ptrBool(v bool) *bool { return &v }

// mapEstimator resolves distances from a fixed table keyed "from|to".
type mapEstimator map[string]float64

func (m mapEstimator) EstimateNM(from, to string) (float64, bool) {
	if nm, ok := m[domain.NormalizeName(from)+"|"+domain.NormalizeName(to)]; ok {
		return nm, true
	}
	nm, ok := m[domain.NormalizeName(to)+"|"+domain.NormalizeName(from)]
	return nm, ok
}

func TestScoreSize(t *testing.T) {
	order := domain.CargoOrder{DWTMin: ptrFloat64(70000), DWTMax: ptrFloat64(80000)}

	tests := []struct {
		name  string
		dwt   *float64
		order domain.CargoOrder
		want  float64
	}{
		{"midpoint", ptrFloat64(75000), order, 100},
		{"thousands shorthand", ptrFloat64(76), order, 90},
		{"on the bound", ptrFloat64(80000), order, 80},
		{"ten percent over", ptrFloat64(88000), order, 60},
		{"far over", ptrFloat64(200000), order, 0},
		{"min only satisfied", ptrFloat64(76000), domain.CargoOrder{DWTMin: ptrFloat64(70)}, 90},
		{"max only exceeded", ptrFloat64(84000), domain.CargoOrder{DWTMax: ptrFloat64(80000)}, 65},
		{"reversed bounds", ptrFloat64(75000), domain.CargoOrder{DWTMin: ptrFloat64(80000), DWTMax: ptrFloat64(70000)}, 100},
		{"vessel size missing", nil, order, neutralScore},
		{"no requirement", ptrFloat64(76000), domain.CargoOrder{}, neutralScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreSize(domain.VesselOffer{DWT: tt.dwt}, tt.order)
			assert.Equal(t, domain.FactorSize, got.Factor)
			assert.InDelta(t, tt.want, got.Score, 0.01)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestScoreSize_ShortfallIsProportional(t *testing.T) {
	order := domain.CargoOrder{DWTMin: ptrFloat64(70000), DWTMax: ptrFloat64(80000)}

	got := ScoreSize(domain.VesselOffer{DWT: ptrFloat64(40)}, order)
	assert.InDelta(t, 70-100*30.0/70.0, got.Score, 0.01)
	assert.Less(t, got.Score, 40.0)
}

func TestScoreLaycan(t *testing.T) {
	order := domain.CargoOrder{LaycanStart: "2025-06-15", LaycanEnd: "2025-06-25"}

	tests := []struct {
		name        string
		start, end  string
		order       domain.CargoOrder
		want        float64
		wantWarning bool
	}{
		{"full cover", "2025-06-10", "2025-06-30", order, 100, false},
		{"partial overlap", "2025-06-15", "2025-06-22", order, 80 + 20*8.0/11.0, false},
		{"single day order", "2025-06-15", "2025-06-22", domain.CargoOrder{LaycanStart: "2025-06-20"}, 100, false},
		{"three day gap", "2025-06-01", "2025-06-12", order, 55, false},
		{"seven day gap", "2025-06-01", "2025-06-08", order, 35, false},
		{"ten day gap", "2025-06-01", "2025-06-05", order, 14, true},
		{"after the window", "2025-06-27", "2025-07-02", order, 60, false},
		{"long gap floors at zero", "2025-01-01", "2025-01-05", order, 0, true},
		{"alternate layout", "15 Jun 2025", "Jun 22, 2025", order, 80 + 20*8.0/11.0, false},
		{"unparseable", "next week", "", order, neutralScore, false},
		{"order dates missing", "2025-06-15", "2025-06-22", domain.CargoOrder{}, neutralScore, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreLaycan(domain.VesselOffer{LaycanStart: tt.start, LaycanEnd: tt.end}, tt.order)
			assert.InDelta(t, tt.want, got.Score, 0.01)
			assert.Equal(t, tt.wantWarning, got.Warning != "")
		})
	}
}

func TestScoreGeography(t *testing.T) {
	cfg := DefaultConfig()
	est := mapEstimator{
		"paranagua|santos":     150,
		"rio grande|santos":    480,
		"sao sebastiao|santos": 45,
		"itaguai|santos":       90,
		"houston|santos":       5400,
	}
	order := domain.CargoOrder{LoadPort: "Santos"}

	tests := []struct {
		name        string
		offer       domain.VesselOffer
		order       domain.CargoOrder
		est         mapEstimator
		want        float64
		wantWarning bool
	}{
		{"load match, no discharge on order", domain.VesselOffer{LoadPort: "SANTOS"}, order, est, 100, false},
		{"substring match", domain.VesselOffer{LoadPort: "Port of Santos, BR"}, order, est, 100, false},
		{"accent folded", domain.VesselOffer{LoadPort: "Paranaguá"}, domain.CargoOrder{LoadPort: "PARANAGUA"}, est, 100, false},
		{"both ports match", domain.VesselOffer{LoadPort: "Santos", DischargePort: "Qingdao"},
			domain.CargoOrder{LoadPort: "Santos", DischargePort: "Qingdao"}, est, 100, false},
		{"discharge differs", domain.VesselOffer{LoadPort: "Santos", DischargePort: "Rotterdam"},
			domain.CargoOrder{LoadPort: "Santos", DischargePort: "Qingdao"}, est, 85, false},
		{"open port fallback", domain.VesselOffer{OpenPort: "Santos"}, order, est, 100, false},
		{"within 50nm", domain.VesselOffer{LoadPort: "Sao Sebastiao"}, order, est, 80, false},
		{"within 100nm", domain.VesselOffer{LoadPort: "Itaguai"}, order, est, 70, false},
		{"within 200nm", domain.VesselOffer{LoadPort: "Paranagua"}, order, est, 60, true},
		{"within 500nm", domain.VesselOffer{LoadPort: "Rio Grande"}, order, est, 40, true},
		{"beyond 500nm", domain.VesselOffer{LoadPort: "Houston"}, order, est, 20, true},
		{"unknown distance same region", domain.VesselOffer{LoadPort: "Rosario"}, order, nil, 55, true},
		{"unknown distance different region", domain.VesselOffer{LoadPort: "Novorossiysk"}, order, nil, 30, false},
		{"unclassified port", domain.VesselOffer{LoadPort: "Timbuktu-on-Sea"}, order, est, 30, false},
		{"vessel port missing", domain.VesselOffer{}, order, est, neutralScore, false},
		{"order port missing", domain.VesselOffer{LoadPort: "Santos"}, domain.CargoOrder{}, est, neutralScore, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.FactorScore
			if tt.est == nil {
				got = ScoreGeography(tt.offer, tt.order, nil, cfg)
			} else {
				got = ScoreGeography(tt.offer, tt.order, tt.est, cfg)
			}
			assert.Equal(t, tt.want, got.Score)
			assert.Equal(t, tt.wantWarning, got.Warning != "", "warning: %q", got.Warning)
		})
	}
}

func TestScoreRate(t *testing.T) {
	tests := []struct {
		name   string
		asking *float64
		budget *float64
		want   float64
	}{
		{"well under budget", ptrFloat64(17), ptrFloat64(20), 100},
		{"just under budget", ptrFloat64(19.5), ptrFloat64(20), 85},
		{"on budget", ptrFloat64(20), ptrFloat64(20), 85},
		{"slightly over", ptrFloat64(20.8), ptrFloat64(20), 70},
		{"well over", ptrFloat64(22), ptrFloat64(20), 40},
		{"no asking rate", nil, ptrFloat64(20), neutralRateScore},
		{"no budget", ptrFloat64(20), nil, neutralRateScore},
		{"zero budget", ptrFloat64(20), ptrFloat64(0), neutralRateScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreRate(domain.VesselOffer{FreightRate: tt.asking}, domain.CargoOrder{BudgetRate: tt.budget})
			assert.Equal(t, tt.want, got.Score)
		})
	}
}

func TestScoreAge(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name        string
		age         *float64
		maxAge      *float64
		want        float64
		wantWarning bool
	}{
		{"young", ptrFloat64(5), ptrFloat64(10), 100, false},
		{"within limit", ptrFloat64(8), ptrFloat64(10), 80, false},
		{"at limit", ptrFloat64(10), ptrFloat64(10), 80, false},
		{"slightly over", ptrFloat64(11), ptrFloat64(10), 60, true},
		{"well over", ptrFloat64(15), ptrFloat64(10), 30, true},
		{"both missing uses assumptions", nil, nil, 100, false},
		{"threshold missing", ptrFloat64(20), nil, 80, false},
		{"age missing", nil, ptrFloat64(9), 60, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreAge(domain.VesselOffer{AgeYears: tt.age}, domain.CargoOrder{MaxAge: tt.maxAge}, cfg)
			assert.Equal(t, tt.want, got.Score)
			assert.Equal(t, tt.wantWarning, got.Warning != "")
		})
	}
}

func TestScoreAge_ReasonMentionsAssumption(t *testing.T) {
	got := ScoreAge(domain.VesselOffer{}, domain.CargoOrder{}, DefaultConfig())
	assert.Contains(t, got.Reason, "assumed 10 years")
}

func TestScoreAge_UnsetLimitFallsBackToDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AssumedMaxAge = 0

	got := ScoreAge(domain.VesselOffer{AgeYears: ptrFloat64(20)}, domain.CargoOrder{}, cfg)
	want := ScoreAge(domain.VesselOffer{AgeYears: ptrFloat64(20)}, domain.CargoOrder{}, DefaultConfig())
	assert.Equal(t, want, got)
	assert.Contains(t, got.Reason, "25-year limit")
}

func TestScoreCargo(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		offer, order string
		want         float64
	}{
		{"Grain", "grain", 100},
		{"Wheat", "Corn", 85},
		{"Soybean meal", "Maize", 85},
		{"Urea", "Potash", 85},
		{"Coal", "Grain", 50},
		{"Mystery", "Grain", 50},
		{"", "Grain", neutralScore},
		{"Coal", "", neutralScore},
	}
	for _, tt := range tests {
		t.Run(tt.offer+"/"+tt.order, func(t *testing.T) {
			got := ScoreCargo(domain.VesselOffer{CargoType: tt.offer}, domain.CargoOrder{CargoType: tt.order}, cfg)
			assert.Equal(t, tt.want, got.Score)
		})
	}
}

func TestClassify(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "ECSA", cfg.Region("Port of Santos, Brazil"))
	assert.Equal(t, "ECSA", cfg.Region("RIO GRANDE"))
	assert.Equal(t, "USG", cfg.Region("Houston"))
	assert.Equal(t, "Far East", cfg.Region("Qingdao"))
	assert.Empty(t, cfg.Region("Timbuktu-on-Sea"))
	assert.Empty(t, cfg.Region("Paraná"), "keywords match whole words only")
	assert.Empty(t, cfg.Region(""))

	assert.Equal(t, "grain", cfg.Family("Soybean Meal"))
	assert.Equal(t, "fertilizer", cfg.Family("granular urea"))
	assert.Empty(t, cfg.Family("containers"))
}

func TestClassify_ConfigurableRegions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Regions = []KeywordGroup{{Name: "Sahel", Keywords: []string{"timbuktu"}}}

	assert.Equal(t, "Sahel", cfg.Region("Timbuktu-on-Sea"))
	assert.Empty(t, cfg.Region("Santos"))
}
