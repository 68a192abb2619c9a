package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"vessel-match-service/internal/domain"
	"vessel-match-service/internal/matching"
	"vessel-match-service/internal/platform/debounce"
	"vessel-match-service/internal/platform/metrics"
	"vessel-match-service/internal/platform/obs"
	"vessel-match-service/internal/ports"
)

var (
	ErrInvalidRequest = eris.New("invalid request")
	ErrOfferExists    = eris.New("offer already exists")
)

// Options tunes a MatchingService. Zero values pick defaults.
type Options struct {
	ComparisonCapacity int
	WarmupDelay        time.Duration
	Logger             *zap.Logger
}

// MatchingService runs the matching core over the stored inventory.
//
// Rankings are memoized in a RankingCache under a hash of their inputs and the
// inventory version; every inventory mutation bumps the version and purges the
// cache. Identical concurrent rankings are computed once.
type MatchingService struct {
	repo   ports.OfferRepository
	cache  ports.RankingCache
	engine *matching.Engine
	log    *zap.Logger

	flight  singleflight.Group
	version atomic.Int64

	mu         sync.Mutex
	comparison *domain.ComparisonSet
	preferred  *domain.Weights

	warmup *debounce.Debouncer
}

func NewMatchingService(
	repo ports.OfferRepository,
	cache ports.RankingCache,
	engine *matching.Engine,
	opts Options,
) *MatchingService {
	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}
	delay := opts.WarmupDelay
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &MatchingService{
		repo:       repo,
		cache:      cache,
		engine:     engine,
		log:        logger,
		comparison: domain.NewComparisonSet(opts.ComparisonCapacity),
		warmup:     debounce.New(delay),
	}
}

// Close cancels a pending cache warm-up.
func (s *MatchingService) Close() {
	s.warmup.Cancel()
}

func (s *MatchingService) ListOffers(ctx context.Context) ([]domain.VesselOffer, error) {
	offers, err := s.repo.ListOffers(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "matching service: list offers")
	}
	return offers, nil
}

func (s *MatchingService) GetOffer(ctx context.Context, id string) (domain.VesselOffer, error) {
	return s.repo.GetOffer(ctx, id)
}

// CreateOffer stores a new offer, assigning an id when none is given.
func (s *MatchingService) CreateOffer(ctx context.Context, offer domain.VesselOffer) (_ domain.VesselOffer, err error) {
	defer obs.Time(ctx, "service.CreateOffer")(&err)

	offer.ID = strings.TrimSpace(offer.ID)
	if offer.ID == "" {
		offer.ID = uuid.NewString()
	} else if _, err := s.repo.GetOffer(ctx, offer.ID); err == nil {
		return domain.VesselOffer{}, eris.Wrapf(ErrOfferExists, "create offer %s", offer.ID)
	} else if !eris.Is(err, ports.ErrOfferNotFound) {
		return domain.VesselOffer{}, eris.Wrapf(err, "create offer %s", offer.ID)
	}
	if offer.Status == "" {
		offer.Status = domain.StatusAvailable
	}

	if err := s.repo.SaveOffer(ctx, offer); err != nil {
		return domain.VesselOffer{}, eris.Wrap(err, "matching service: create offer")
	}
	s.invalidate(ctx)
	return offer, nil
}

// UpdateOffer replaces an existing offer.
func (s *MatchingService) UpdateOffer(ctx context.Context, id string, offer domain.VesselOffer) (domain.VesselOffer, error) {
	if _, err := s.repo.GetOffer(ctx, id); err != nil {
		return domain.VesselOffer{}, err
	}
	offer.ID = id
	if err := s.repo.SaveOffer(ctx, offer); err != nil {
		return domain.VesselOffer{}, eris.Wrapf(err, "matching service: update offer %s", id)
	}
	s.invalidate(ctx)

	// keep the comparison copy current
	s.mu.Lock()
	if s.comparison.Contains(id) {
		members := s.comparison.Members()
		s.comparison.Clear()
		for i := len(members) - 1; i >= 0; i-- {
			if members[i].ID == id {
				members[i] = offer
			}
			s.comparison.Add(members[i])
		}
	}
	s.mu.Unlock()

	return offer, nil
}

func (s *MatchingService) DeleteOffer(ctx context.Context, id string) error {
	if err := s.repo.DeleteOffer(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)

	s.mu.Lock()
	s.comparison.Remove(id)
	metrics.ComparisonSetSize.Set(float64(s.comparison.Len()))
	s.mu.Unlock()
	return nil
}

// invalidate bumps the inventory version and drops memoized rankings. A failed
// purge is logged only: the version bump already makes old keys unreachable.
func (s *MatchingService) invalidate(ctx context.Context) {
	v := s.version.Add(1)
	if err := s.cache.Purge(ctx); err != nil {
		s.log.Warn("ranking cache purge failed", zap.Int64("version", v), zap.Error(err))
	}
}

// InventoryVersion counts inventory mutations since start.
func (s *MatchingService) InventoryVersion() int64 { return s.version.Load() }

type MatchRequest struct {
	OfferID string
	Offer   *domain.VesselOffer
	Order   domain.CargoOrder
	Weights *domain.Weights
}

// Match scores one offer, given inline or by id, against an order.
func (s *MatchingService) Match(ctx context.Context, req MatchRequest) (domain.MatchResult, error) {
	var offer domain.VesselOffer
	switch {
	case req.Offer != nil:
		offer = *req.Offer
	case strings.TrimSpace(req.OfferID) != "":
		o, err := s.repo.GetOffer(ctx, req.OfferID)
		if err != nil {
			return domain.MatchResult{}, err
		}
		offer = o
	default:
		return domain.MatchResult{}, eris.Wrap(ErrInvalidRequest, "match: offer or offer_id is required")
	}

	res := s.engine.Score(offer, req.Order, s.weightsOr(req.Weights))
	metrics.MatchScores.Observe(float64(res.Score))
	return res, nil
}

type RankRequest struct {
	// Nil ranks the inventory against itself.
	Order   *domain.CargoOrder
	Weights *domain.Weights
	Filters matching.Filters
	// Zero or negative returns every ranked offer.
	Limit int
}

type rankKey struct {
	Version int64              `json:"v"`
	Order   *domain.CargoOrder `json:"order,omitempty"`
	Weights domain.Weights     `json:"weights"`
	Filters matching.Filters   `json:"filters"`
}

// Rank ranks the stored inventory, serving repeated requests from the cache.
func (s *MatchingService) Rank(ctx context.Context, req RankRequest) (_ []domain.RankedOffer, err error) {
	defer obs.Time(ctx, "service.Rank")(&err)

	weights := s.engine.NormalizeWeights(s.weightsOr(req.Weights))
	key, err := hashKey(rankKey{
		Version: s.version.Load(),
		Order:   req.Order,
		Weights: weights,
		Filters: req.Filters,
	})
	if err != nil {
		return nil, eris.Wrap(err, "rank: cache key")
	}

	ranked, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("ranking cache read failed", zap.Error(err))
	}
	if ok {
		metrics.CacheHit()
		return limit(ranked, req.Limit), nil
	}
	metrics.CacheMiss()

	// The shared computation outlives any single caller's cancellation.
	v, err, shared := s.flight.Do(key, func() (any, error) {
		return s.computeRanking(context.WithoutCancel(ctx), key, req.Order, weights, req.Filters)
	})
	if err != nil {
		return nil, err
	}
	ranked = v.([]domain.RankedOffer)
	if shared {
		ranked = cloneRanked(ranked)
	}
	return limit(ranked, req.Limit), nil
}

func (s *MatchingService) computeRanking(
	ctx context.Context,
	key string,
	order *domain.CargoOrder,
	weights domain.Weights,
	filters matching.Filters,
) ([]domain.RankedOffer, error) {
	offers, err := s.repo.ListOffers(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "rank: list offers")
	}

	var ranked []domain.RankedOffer
	if order != nil {
		ranked = s.engine.RankForOrder(offers, *order, weights, filters)
		metrics.OffersRanked.WithLabelValues("order").Add(float64(len(ranked)))
		for _, r := range ranked {
			metrics.MatchScores.Observe(r.Score)
		}
	} else {
		ranked = s.engine.Rank(offers, weights, filters)
		metrics.OffersRanked.WithLabelValues("inventory").Add(float64(len(ranked)))
	}

	if err := s.cache.Set(ctx, key, ranked); err != nil {
		s.log.Warn("ranking cache write failed", zap.Error(err))
	}
	return ranked, nil
}

// Recommend compares offers given inline, or loaded by id when ids are set.
func (s *MatchingService) Recommend(ctx context.Context, ids []string, offers []domain.VesselOffer) (domain.Recommendation, error) {
	if len(ids) > 0 {
		offers = make([]domain.VesselOffer, 0, len(ids))
		for _, id := range ids {
			o, err := s.repo.GetOffer(ctx, id)
			if err != nil {
				return domain.Recommendation{}, err
			}
			offers = append(offers, o)
		}
	}
	return s.engine.Recommend(offers), nil
}

// AddToComparison puts a stored offer at the front of the comparison set and
// returns the member evicted to make room, if any.
func (s *MatchingService) AddToComparison(ctx context.Context, id string) (*domain.VesselOffer, error) {
	offer, err := s.repo.GetOffer(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := s.comparison.Add(offer)
	metrics.ComparisonSetSize.Set(float64(s.comparison.Len()))
	if evicted != nil {
		s.log.Debug("comparison set full; evicted oldest", zap.String("offer_id", evicted.ID))
	}
	return evicted, nil
}

func (s *MatchingService) RemoveFromComparison(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.comparison.Remove(id)
	metrics.ComparisonSetSize.Set(float64(s.comparison.Len()))
	return removed
}

func (s *MatchingService) ClearComparison() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comparison.Clear()
	metrics.ComparisonSetSize.Set(0)
}

// Comparison returns the members, most recent first, and their recommendation.
func (s *MatchingService) Comparison() ([]domain.VesselOffer, domain.Recommendation) {
	s.mu.Lock()
	members := s.comparison.Members()
	s.mu.Unlock()

	return members, s.engine.Recommend(members)
}

func (s *MatchingService) ComparisonCapacity() int { return s.comparison.Capacity() }

func (s *MatchingService) NormalizeWeights(w domain.Weights) domain.Weights {
	return s.engine.NormalizeWeights(w)
}

// SetPreferredWeights stores the broker's weights, normalized, as the default
// for requests without weights. Bursts of changes are coalesced into one cache
// warm-up once the weights stop changing.
func (s *MatchingService) SetPreferredWeights(w domain.Weights) domain.Weights {
	n := s.engine.NormalizeWeights(w)

	s.mu.Lock()
	s.preferred = &n
	s.mu.Unlock()

	s.warmup.Schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.Rank(ctx, RankRequest{Weights: &n}); err != nil {
			s.log.Warn("ranking warm-up failed", zap.Error(err))
			return
		}
		s.log.Debug("ranking warm-up done", zap.Any("weights", n))
	})
	return n
}

// PreferredWeights returns the stored preference or the configured default.
func (s *MatchingService) PreferredWeights() domain.Weights {
	return s.weightsOr(nil)
}

func (s *MatchingService) weightsOr(w *domain.Weights) domain.Weights {
	if w != nil {
		return *w
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preferred != nil {
		return *s.preferred
	}
	return s.engine.Config().Weights
}

func (s *MatchingService) EstimateDistance(from, to string) (float64, bool) {
	return s.engine.EstimateDistance(from, to)
}

// hashKey returns a SHA-256 hex digest of v's JSON form.
func hashKey(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

func limit(ranked []domain.RankedOffer, n int) []domain.RankedOffer {
	if n > 0 && len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}

func cloneRanked(in []domain.RankedOffer) []domain.RankedOffer {
	out := make([]domain.RankedOffer, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
