package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/antelcha/itsm-playground/internal/domain"
	"github.com/antelcha/itsm-playground/internal/events"
	"github.com/antelcha/itsm-playground/internal/policy"
	"github.com/antelcha/itsm-playground/internal/repository"
	apperrors "github.com/antelcha/itsm-playground/pkg/util"
)

const (
	overviewCacheKey = "dashboard:overview"
	metricsCacheKey  = "dashboard:metrics"
)

// DashboardMetrics groups rollups per classification kind, each
// ordered by the entity's sort order.
type DashboardMetrics struct {
	ByStatus   []repository.LabelCount `json:"tickets_by_status"`
	ByPriority []repository.LabelCount `json:"tickets_by_priority"`
	ByCategory []repository.LabelCount `json:"tickets_by_category"`
}

// DashboardService serves reporting rollups over the entire ticket
// store. It bypasses per-ticket visibility on purpose: authorization
// is a coarse role gate at this boundary. Results are cached in Redis
// for a short TTL and invalidated on ticket mutations.
type DashboardService struct {
	rollups repository.DashboardRepository
	cache   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
}

// NewDashboardService constructs the service. cache may be nil, in
// which case every call hits the store.
func NewDashboardService(rollups repository.DashboardRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *DashboardService {
	return &DashboardService{rollups: rollups, cache: cache, ttl: ttl, logger: logger}
}

// RegisterInvalidation drops cached rollups whenever a ticket mutates.
func (s *DashboardService) RegisterInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range events.TicketMutations() {
		dispatcher.Subscribe(eventType, func(ctx context.Context, _ events.Event) error {
			s.invalidate(ctx)
			return nil
		})
	}
}

// Overview counts the whole store partitioned by status.is_closed.
func (s *DashboardService) Overview(ctx context.Context, p domain.Principal) (*repository.Overview, error) {
	if !policy.CanViewDashboard(p.Role) {
		return nil, apperrors.NewForbidden("staff role required")
	}

	var cached repository.Overview
	if s.readCache(ctx, overviewCacheKey, &cached) {
		return &cached, nil
	}

	overview, err := s.rollups.Overview(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.writeCache(ctx, overviewCacheKey, overview)
	return overview, nil
}

// Metrics returns by-status, by-priority and by-category counts.
func (s *DashboardService) Metrics(ctx context.Context, p domain.Principal) (*DashboardMetrics, error) {
	if !policy.CanViewDashboard(p.Role) {
		return nil, apperrors.NewForbidden("staff role required")
	}

	var cached DashboardMetrics
	if s.readCache(ctx, metricsCacheKey, &cached) {
		return &cached, nil
	}

	metrics := &DashboardMetrics{}
	var err error
	if metrics.ByStatus, err = s.rollups.CountsByKind(ctx, domain.KindStatus); err != nil {
		return nil, apperrors.MapError(err)
	}
	if metrics.ByPriority, err = s.rollups.CountsByKind(ctx, domain.KindPriority); err != nil {
		return nil, apperrors.MapError(err)
	}
	if metrics.ByCategory, err = s.rollups.CountsByKind(ctx, domain.KindCategory); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.writeCache(ctx, metricsCacheKey, metrics)
	return metrics, nil
}

func (s *DashboardService) readCache(ctx context.Context, key string, dest any) bool {
	if s.cache == nil || s.ttl <= 0 {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

func (s *DashboardService) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil && s.logger != nil {
		s.logger.Debug("dashboard cache write failed", zap.Error(err))
	}
}

func (s *DashboardService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, overviewCacheKey, metricsCacheKey).Err(); err != nil && s.logger != nil {
		s.logger.Debug("dashboard cache invalidation failed", zap.Error(err))
	}
}
