package matching

import (
	"fmt"
	"math"
	"strings"

	"vessel-match-service/internal/domain"
)

// Points each category win is worth in the overall vote.
const (
	valueVotes    = 2
	matchVotes    = 2
	scheduleVotes = 1
	specVotes     = 1
)

// Laycan windows outside this many days are penalized as too tight or too loose.
const (
	minFlexDays = 5
	maxFlexDays = 15
)

// Recommend picks the best offer per dimension from a free-standing comparison
// set and consolidates them by weighted vote. Fewer than two offers, or no
// offer carrying data for any dimension, yields a Recommendation without an
// Overall pick.
func (e *Engine) Recommend(offers []domain.VesselOffer) domain.Recommendation {
	if len(offers) < 2 {
		return domain.Recommendation{Reason: "At least two offers are needed for a recommendation"}
	}

	avgRate, avgDWT := averages(offers)
	earliest, hasEarliest := earliestStart(offers)

	var rec domain.Recommendation
	rec.BestValue = best(offers, "lowest cost for size, age and match", func(o domain.VesselOffer) (float64, bool) {
		return e.valueScore(o, avgRate, avgDWT)
	})
	if hasEarliest {
		rec.BestSchedule = best(offers, "earliest laycan with a workable window", func(o domain.VesselOffer) (float64, bool) {
			return scheduleScore(o, earliest)
		})
	}
	rec.BestSpec = best(offers, "largest and youngest vessel", func(o domain.VesselOffer) (float64, bool) {
		return e.specScore(o)
	})
	rec.BestMatch = best(offers, "highest match score", func(o domain.VesselOffer) (float64, bool) {
		return number(o.MatchScore)
	})

	points := make([]int, len(offers))
	wins := make([][]string, len(offers))
	tally := func(p *domain.Pick, n int, label string) {
		if p == nil {
			return
		}
		points[p.Index] += n
		wins[p.Index] = append(wins[p.Index], label)
	}
	tally(rec.BestValue, valueVotes, "best value")
	tally(rec.BestSchedule, scheduleVotes, "best schedule")
	tally(rec.BestSpec, specVotes, "best specification")
	tally(rec.BestMatch, matchVotes, "best match")

	winner := -1
	for i, p := range points {
		if p > 0 && (winner < 0 || p > points[winner]) {
			winner = i
		}
	}
	if winner < 0 {
		rec.Reason = "No offer carries enough data to recommend"
		return rec
	}

	keys := voteKeys(offers)
	rec.Votes = make(map[string]int, len(offers))
	for i, p := range points {
		if p > 0 {
			rec.Votes[keys[i]] = p
		}
	}
	rec.Overall = &domain.Pick{
		OfferID: offers[winner].ID,
		Index:   winner,
		Score:   float64(points[winner]),
		Reason:  "Wins " + strings.Join(wins[winner], ", "),
	}
	rec.Reason = fmt.Sprintf("%s recommended with %d points", label(offers[winner]), points[winner])
	return rec
}

// best returns the offer with the highest score, first occurrence winning ties.
// Offers the scorer cannot rate are skipped; nil means none could be rated.
func best(offers []domain.VesselOffer, reason string, score func(domain.VesselOffer) (float64, bool)) *domain.Pick {
	winner, top := -1, 0.0
	for i, o := range offers {
		s, ok := score(o)
		if !ok {
			continue
		}
		if winner < 0 || s > top {
			winner, top = i, s
		}
	}
	if winner < 0 {
		return nil
	}
	return &domain.Pick{
		OfferID: offers[winner].ID,
		Index:   winner,
		Score:   math.Round(top*100) / 100,
		Reason:  reason,
	}
}

func averages(offers []domain.VesselOffer) (rate, dwt float64) {
	var nRate, nDWT int
	for _, o := range offers {
		if v, ok := positive(o.FreightRate); ok {
			rate += v
			nRate++
		}
		if v, ok := tonnes(o.DWT); ok {
			dwt += v
			nDWT++
		}
	}
	if nRate > 0 {
		rate /= float64(nRate)
	}
	if nDWT > 0 {
		dwt /= float64(nDWT)
	}
	return rate, dwt
}

func earliestStart(offers []domain.VesselOffer) (earliest window, ok bool) {
	for _, o := range offers {
		if w, has := offerLaycan(o); has && (!ok || w.start.Before(earliest.start)) {
			earliest, ok = w, true
		}
	}
	return earliest, ok
}

// valueScore rewards a below-average rate, above-average size, low age and a
// high match score. It needs at least a rate or a size to rate the offer.
func (e *Engine) valueScore(o domain.VesselOffer, avgRate, avgDWT float64) (float64, bool) {
	rate, hasRate := positive(o.FreightRate)
	size, hasSize := tonnes(o.DWT)
	if !hasRate && !hasSize {
		return 0, false
	}

	v := 50.0
	if hasRate && avgRate > 0 {
		v += (avgRate - rate) / avgRate * 100
	}
	if hasSize && avgDWT > 0 {
		v += (size - avgDWT) / avgDWT * 50
	}
	if age, ok := number(o.AgeYears); ok && age >= 0 {
		v += math.Max(0, 20-age)
	}
	if ms, ok := number(o.MatchScore); ok {
		v += 0.3 * clamp(ms, 0, 100)
	}
	return v, true
}

// scheduleScore penalizes days after the earliest laycan in the set and
// windows that are too tight or too loose to plan around.
func scheduleScore(o domain.VesselOffer, earliest window) (float64, bool) {
	w, ok := offerLaycan(o)
	if !ok {
		return 0, false
	}
	s := 100 - 2*float64(daysBetween(earliest.start, w.start))

	_, hasStart := parseDate(o.LaycanStart)
	_, hasEnd := parseDate(o.LaycanEnd)
	if hasStart && hasEnd {
		if span := w.days(); span < minFlexDays || span > maxFlexDays {
			s -= 10
		}
	}
	return s, true
}

// specScore favors capacity and penalizes age, assuming the configured age
// when the offer does not state one.
func (e *Engine) specScore(o domain.VesselOffer) (float64, bool) {
	size, ok := tonnes(o.DWT)
	if !ok {
		return 0, false
	}
	age, _ := e.cfg.age(o)
	return size/1000 - 1.5*age, true
}

// voteKeys names each offer in the vote tally by its id. Offers without an id,
// or repeating an earlier offer's id, are named by position ("#2").
func voteKeys(offers []domain.VesselOffer) []string {
	keys := make([]string, len(offers))
	seen := make(map[string]struct{}, len(offers))
	for i, o := range offers {
		id := strings.TrimSpace(o.ID)
		if _, dup := seen[id]; id == "" || dup {
			keys[i] = fmt.Sprintf("#%d", i)
			continue
		}
		seen[id] = struct{}{}
		keys[i] = id
	}
	return keys
}

func label(o domain.VesselOffer) string {
	if o.VesselName != "" {
		return o.VesselName
	}
	if o.ID != "" {
		return o.ID
	}
	return "Offer"
}
