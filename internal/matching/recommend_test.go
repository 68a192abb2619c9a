package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vessel-match-service/internal/domain"
)

func comparisonOffers() []domain.VesselOffer {
	return []domain.VesselOffer{
		{ID: "A", FreightRate: ptrFloat64(20), DWT: ptrFloat64(60), AgeYears: ptrFloat64(15),
			LaycanStart: "2025-06-10", LaycanEnd: "2025-06-18", MatchScore: ptrFloat64(70)},
		{ID: "B", VesselName: "Ocean Bulk", FreightRate: ptrFloat64(18), DWT: ptrFloat64(80000), AgeYears: ptrFloat64(5),
			LaycanStart: "2025-06-15", LaycanEnd: "2025-06-20", MatchScore: ptrFloat64(90)},
		{ID: "C", FreightRate: ptrFloat64(22), DWT: ptrFloat64(70000), AgeYears: ptrFloat64(10),
			LaycanStart: "2025-06-01", LaycanEnd: "2025-06-03"},
	}
}

func TestRecommend(t *testing.T) {
	rec := testEngine().Recommend(comparisonOffers())

	require.True(t, rec.Available())
	require.NotNil(t, rec.BestValue)
	require.NotNil(t, rec.BestSchedule)
	require.NotNil(t, rec.BestSpec)
	require.NotNil(t, rec.BestMatch)

	assert.Equal(t, "B", rec.BestValue.OfferID)
	assert.Equal(t, "C", rec.BestSchedule.OfferID)
	assert.Equal(t, "B", rec.BestSpec.OfferID)
	assert.Equal(t, "B", rec.BestMatch.OfferID)

	assert.Equal(t, "B", rec.Overall.OfferID)
	assert.Equal(t, 1, rec.Overall.Index)
	assert.Equal(t, map[string]int{"B": 5, "C": 1}, rec.Votes)
	assert.Contains(t, rec.Reason, "Ocean Bulk")
}

func TestRecommend_ScheduleScores(t *testing.T) {
	rec := testEngine().Recommend(comparisonOffers())

	// C starts first but its three-day window is penalized as too tight
	assert.Equal(t, 90.0, rec.BestSchedule.Score)
}

func TestRecommend_TooFewOffers(t *testing.T) {
	e := testEngine()

	for _, offers := range [][]domain.VesselOffer{nil, {}, {comparisonOffers()[0]}} {
		rec := e.Recommend(offers)
		assert.False(t, rec.Available())
		assert.Nil(t, rec.BestValue)
		assert.NotEmpty(t, rec.Reason)
	}
}

func TestRecommend_NoData(t *testing.T) {
	rec := testEngine().Recommend([]domain.VesselOffer{{ID: "x"}, {ID: "y"}})

	assert.False(t, rec.Available())
	assert.Nil(t, rec.BestValue)
	assert.Nil(t, rec.BestSchedule)
	assert.Nil(t, rec.BestSpec)
	assert.Nil(t, rec.BestMatch)
	assert.Nil(t, rec.Votes)
}

func TestRecommend_TiesGoToFirst(t *testing.T) {
	offer := comparisonOffers()[1]
	twin := offer.Clone()
	twin.ID = "B2"

	rec := testEngine().Recommend([]domain.VesselOffer{offer, twin})
	require.True(t, rec.Available())
	assert.Equal(t, "B", rec.Overall.OfferID)
	assert.Equal(t, 6, rec.Votes["B"])
	assert.Zero(t, rec.Votes["B2"])
}

func TestRecommend_MatchAndValueOutvoteScheduleAndSpec(t *testing.T) {
	offers := []domain.VesselOffer{
		// earliest and biggest, but expensive and unscored
		{ID: "big", FreightRate: ptrFloat64(30), DWT: ptrFloat64(180000), AgeYears: ptrFloat64(2),
			LaycanStart: "2025-06-01", LaycanEnd: "2025-06-08"},
		{ID: "cheap", FreightRate: ptrFloat64(12), DWT: ptrFloat64(60000), AgeYears: ptrFloat64(8),
			LaycanStart: "2025-06-20", LaycanEnd: "2025-06-27", MatchScore: ptrFloat64(88)},
	}

	rec := testEngine().Recommend(offers)
	require.True(t, rec.Available())
	assert.Equal(t, "big", rec.BestSchedule.OfferID)
	assert.Equal(t, "big", rec.BestSpec.OfferID)
	assert.Equal(t, "cheap", rec.BestMatch.OfferID)
	assert.Equal(t, "cheap", rec.BestValue.OfferID)
	assert.Equal(t, "cheap", rec.Overall.OfferID)
}

func TestScheduleScore_WindowBounds(t *testing.T) {
	earliest, ok := laycan("2025-06-01", "2025-06-01")
	require.True(t, ok)

	tests := []struct {
		name string
		end  string
		want float64
	}{
		{"4 days is too tight", "2025-06-04", 90},
		{"5 days", "2025-06-05", 100},
		{"15 days", "2025-06-15", 100},
		{"16 days is too loose", "2025-06-16", 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := scheduleScore(domain.VesselOffer{LaycanStart: "2025-06-01", LaycanEnd: tt.end}, earliest)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecommend_VotesForUnnamedAndRepeatedIDs(t *testing.T) {
	offers := comparisonOffers()
	offers[0].ID = ""
	offers[1].ID = ""
	offers[2].ID = "C"

	rec := testEngine().Recommend(offers)
	require.True(t, rec.Available())
	assert.Equal(t, map[string]int{"#1": 5, "C": 1}, rec.Votes)
	assert.Equal(t, 1, rec.Overall.Index)

	offers = comparisonOffers()
	offers[2].ID = "B"
	rec = testEngine().Recommend(offers)
	assert.Equal(t, map[string]int{"B": 5, "#2": 1}, rec.Votes)
}
