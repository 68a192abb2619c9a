package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vessel-match-service/internal/domain"
)

func perfectOffer() domain.VesselOffer {
	return domain.VesselOffer{
		ID:          "v-76",
		VesselName:  "Star Grain",
		DWT:         ptrFloat64(76),
		LaycanStart: "2025-06-15",
		LaycanEnd:   "2025-06-22",
		LoadPort:    "Santos",
		AgeYears:    ptrFloat64(5),
		FreightRate: ptrFloat64(19.5),
		CargoType:   "Grain",
	}
}

func grainOrder() domain.CargoOrder {
	return domain.CargoOrder{
		ID:          "o-1",
		DWTMin:      ptrFloat64(70000),
		DWTMax:      ptrFloat64(80000),
		LaycanStart: "2025-06-15",
		LaycanEnd:   "2025-06-25",
		LoadPort:    "Santos",
		MaxAge:      ptrFloat64(10),
		BudgetRate:  ptrFloat64(20),
		CargoType:   "Grain",
	}
}

func testEngine() *Engine {
	return NewEngine(DefaultConfig(), mapEstimator{"paranagua|santos": 150})
}

func TestScore_PerfectMatch(t *testing.T) {
	res := testEngine().Score(perfectOffer(), grainOrder(), domain.DefaultWeights())

	assert.GreaterOrEqual(t, res.Score, 90)
	assert.Equal(t, 94, res.Score)
	assert.Equal(t, domain.RiskLow, res.Risk)
	assert.Equal(t, "v-76", res.OfferID)
	assert.Equal(t, "o-1", res.OrderID)
	assert.InDelta(t, 0.1+0.9*0.94, res.Confidence, 1e-9)
	assert.Equal(t, "47626.67", res.EstimatedProfit.StringFixed(2))
	assert.Len(t, res.Reasons, 6)
	assert.Empty(t, res.Warnings)

	require.Len(t, res.Factors, 6)
	for i, f := range domain.Factors() {
		assert.Equal(t, f, res.Factors[i].Factor, "factors follow declaration order")
	}
}

func TestScore_SizeViolation(t *testing.T) {
	e := testEngine()
	perfect := e.Score(perfectOffer(), grainOrder(), domain.DefaultWeights())

	small := perfectOffer()
	small.DWT = ptrFloat64(40)
	res := e.Score(small, grainOrder(), domain.DefaultWeights())

	require.Equal(t, domain.FactorSize, res.Factors[0].Factor)
	assert.Less(t, res.Factors[0].Score, 40.0)
	assert.GreaterOrEqual(t, perfect.Score-res.Score, 15)
	assert.GreaterOrEqual(t, res.Score, 0)
}

func TestScore_UnknownPortsFallBackToRegions(t *testing.T) {
	e := testEngine()
	offer := perfectOffer()
	offer.LoadPort = "Timbuktu-on-Sea"

	_, known := e.EstimateDistance(offer.LoadPort, "Santos")
	assert.False(t, known)

	res := e.Score(offer, grainOrder(), domain.DefaultWeights())
	geo := res.Factors[2]
	require.Equal(t, domain.FactorGeography, geo.Factor)
	assert.LessOrEqual(t, geo.Score, 55.0)
}

func TestScore_Deterministic(t *testing.T) {
	e := testEngine()
	offer := perfectOffer()
	offer.LoadPort = "Paranagua"
	order := grainOrder()
	order.RequiresGear = ptrBool(true)
	w := domain.Weights{Size: 3, Laycan: 1, Geography: 2, Rate: 0.5, Age: 0, Cargo: 1}

	first := e.Score(offer, order, w)
	for range 5 {
		assert.Equal(t, first, e.Score(offer, order, w))
	}
}

func TestScore_Bounds(t *testing.T) {
	e := testEngine()

	offers := []domain.VesselOffer{
		{},
		perfectOffer(),
		{DWT: ptrFloat64(500000), AgeYears: ptrFloat64(40), FreightRate: ptrFloat64(99), LoadPort: "Houston", LaycanStart: "2024-01-01"},
		{DWT: ptrFloat64(1), LaycanStart: "garbage", LoadPort: "Timbuktu-on-Sea", CargoType: "coal"},
	}
	orders := []domain.CargoOrder{
		{},
		grainOrder(),
		{DWTMin: ptrFloat64(5000), BudgetRate: ptrFloat64(1), MaxAge: ptrFloat64(1), LoadPort: "Qingdao", LaycanStart: "2026-12-01"},
	}
	weights := []domain.Weights{
		{},
		domain.DefaultWeights(),
		{Size: 1},
		{Geography: -4, Rate: 2},
	}

	for _, o := range offers {
		for _, ord := range orders {
			for _, w := range weights {
				res := e.Score(o, ord, w)
				assert.GreaterOrEqual(t, res.Score, 0)
				assert.LessOrEqual(t, res.Score, 100)
				assert.GreaterOrEqual(t, res.Confidence, 0.1)
				assert.LessOrEqual(t, res.Confidence, 0.95)
				assert.False(t, res.EstimatedProfit.IsNegative())
				for _, f := range res.Factors {
					assert.GreaterOrEqual(t, f.Score, 0.0)
					assert.LessOrEqual(t, f.Score, 100.0)
				}
			}
		}
	}
}

func TestScore_MonotonicInRate(t *testing.T) {
	e := testEngine()
	order := grainOrder()

	// asking rates move steadily closer to (then under) the 20.0 budget
	rates := []float64{30, 22, 20.8, 20, 19, 15}
	prev := -1
	for _, r := range rates {
		offer := perfectOffer()
		offer.FreightRate = ptrFloat64(r)
		got := e.Score(offer, order, domain.DefaultWeights()).Score
		assert.GreaterOrEqual(t, got, prev, "rate %.1f", r)
		prev = got
	}
}

func TestScore_MonotonicInSize(t *testing.T) {
	e := testEngine()
	order := grainOrder()

	sizes := []float64{10000, 40000, 60000, 69000, 72000, 75000}
	prev := -1
	for _, s := range sizes {
		offer := perfectOffer()
		offer.DWT = ptrFloat64(s)
		got := e.Score(offer, order, domain.Weights{Size: 1, Rate: 1}).Score
		assert.GreaterOrEqual(t, got, prev, "size %.0f", s)
		prev = got
	}
}

func TestScore_RiskLevels(t *testing.T) {
	e := testEngine()

	t.Run("two flags is medium", func(t *testing.T) {
		offer := perfectOffer()
		offer.AgeYears = ptrFloat64(12)
		offer.LoadPort = "Paranagua"
		res := e.Score(offer, grainOrder(), domain.DefaultWeights())

		assert.GreaterOrEqual(t, res.Score, 70)
		assert.Len(t, e.RiskFlags(offer, grainOrder(), res.Score), 2)
		assert.Equal(t, domain.RiskMedium, res.Risk)
	})

	t.Run("every flag is high", func(t *testing.T) {
		offer := perfectOffer()
		offer.AgeYears = ptrFloat64(30)
		offer.LoadPort = "Houston"
		offer.DWT = ptrFloat64(30000)
		offer.LaycanStart, offer.LaycanEnd = "2025-05-01", "2025-05-05"
		res := e.Score(offer, grainOrder(), domain.DefaultWeights())

		assert.Less(t, res.Score, 70)
		assert.Len(t, e.RiskFlags(offer, grainOrder(), res.Score), 4)
		assert.Equal(t, domain.RiskHigh, res.Risk)
	})
}

func TestScore_ProfitMonotonic(t *testing.T) {
	e := testEngine()
	base := e.Score(perfectOffer(), grainOrder(), domain.DefaultWeights())

	richer := grainOrder()
	richer.BudgetRate = ptrFloat64(25)
	higherRate := e.Score(perfectOffer(), richer, domain.DefaultWeights())
	assert.True(t, higherRate.EstimatedProfit.GreaterThanOrEqual(base.EstimatedProfit))

	bigger := perfectOffer()
	bigger.DWT = ptrFloat64(78000)
	biggerShip := e.Score(bigger, grainOrder(), domain.Weights{Rate: 1})
	sameWeights := e.Score(perfectOffer(), grainOrder(), domain.Weights{Rate: 1})
	assert.True(t, biggerShip.EstimatedProfit.GreaterThan(sameWeights.EstimatedProfit))
}

func TestScore_PreferenceWarnings(t *testing.T) {
	e := testEngine()
	offer := perfectOffer()
	offer.Geared = ptrBool(false)
	offer.Flag = "Panama"

	order := grainOrder()
	order.RequiresGear = ptrBool(true)
	order.IceClass = "1A"
	order.PreferredFlags = []string{"Liberia", "Marshall Islands"}

	plain := e.Score(perfectOffer(), grainOrder(), domain.DefaultWeights())
	res := e.Score(offer, order, domain.DefaultWeights())

	assert.Equal(t, plain.Score, res.Score, "preferences never change the score")
	assert.Len(t, res.Warnings, 3)
	assert.Contains(t, res.Warnings[0], "gearless")
}

func TestScore_WarningsFollowScorerOrder(t *testing.T) {
	e := testEngine()
	offer := perfectOffer()
	offer.LoadPort = "Paranagua"
	offer.AgeYears = ptrFloat64(15)
	offer.LaycanStart, offer.LaycanEnd = "2025-05-01", "2025-05-05"

	res := e.Score(offer, grainOrder(), domain.DefaultWeights())
	require.Len(t, res.Warnings, 3)
	assert.Contains(t, res.Warnings[0], "Laycan")
	assert.Contains(t, res.Warnings[1], "repositioning")
	assert.Contains(t, res.Warnings[2], "maximum age")
}

func TestConfidence(t *testing.T) {
	assert.InDelta(t, 0.1, Confidence(0), 1e-9)
	assert.InDelta(t, 0.55, Confidence(50), 1e-9)
	assert.InDelta(t, 0.95, Confidence(100), 1e-9)
	for s := 1; s <= 94; s++ {
		assert.Greater(t, Confidence(s), Confidence(s-1))
	}
}

func TestEngine_NilEstimator(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	_, ok := e.EstimateDistance("Santos", "Santos")
	assert.False(t, ok)

	offer := perfectOffer()
	offer.LoadPort = "Paranagua"
	res := e.Score(offer, grainOrder(), domain.DefaultWeights())
	assert.Equal(t, 55.0, res.Factors[2].Score)
}
