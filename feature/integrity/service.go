package integrity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"media-catalog/core/reconcile"
	"media-catalog/core/storage"
	"media-catalog/feature/integrity/checks"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ReportPrefix is the object prefix uploaded reports are stored under.
const ReportPrefix = "integrity/"

// ErrStorageDisabled is returned by upload operations when no storage client is set.
var ErrStorageDisabled = errors.New("object storage is not configured")

// Report is the combined result of every integrity check.
type Report struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Healthy     bool                  `json:"healthy"`
	Schema      *checks.SchemaReport  `json:"schema"`
	Orders      []*checks.OrderReport `json:"orders"`
}

// Gaps returns every gap of the report.
func (r *Report) Gaps() []checks.Gap {
	var out []checks.Gap
	for _, o := range r.Orders {
		out = append(out, o.Gaps()...)
	}
	return out
}

// RepairResult summarizes a repair run.
type RepairResult struct {
	Groups int      `json:"groups"`
	Moved  int      `json:"moved"`
	Errors []string `json:"errors"`
}

// Service runs the integrity checks over the association kinds.
type Service struct {
	db       *gorm.DB
	engine   *reconcile.Engine
	registry *reconcile.Registry
	client   storage.Client
	bucket   string
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.RWMutex
	cached *Report
	built  time.Time
	sf     singleflight.Group
}

// NewService creates a new integrity service. client may be nil, in which case
// uploads fail with ErrStorageDisabled. A zero ttl disables report caching.
func NewService(db *gorm.DB, engine *reconcile.Engine, registry *reconcile.Registry, client storage.Client, bucket string, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		db:       db,
		engine:   engine,
		registry: registry,
		client:   client,
		bucket:   bucket,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Check runs every check against the database, bypassing the cache.
func (s *Service) Check(ctx context.Context) (*Report, error) {
	kinds := s.registry.All()

	schema, err := checks.CheckSchema(s.db.WithContext(ctx), kinds)
	if err != nil {
		return nil, fmt.Errorf("schema check: %w", err)
	}

	report := &Report{
		GeneratedAt: s.now(),
		Healthy:     schema.Matched,
		Schema:      schema,
		Orders:      make([]*checks.OrderReport, 0, len(kinds)),
	}

	for _, kind := range kinds {
		// Order checks read columns a broken table may not have.
		if tbl, ok := schema.Tables[kind.Table]; ok && tbl.Status != "ok" {
			continue
		}
		orders, err := checks.CheckOrders(ctx, s.db, kind)
		if err != nil {
			return nil, err
		}
		if orders.Status != "ok" {
			report.Healthy = false
			s.logger.Warn("Order gaps detected",
				zap.String("kind", kind.Name),
				zap.Int("owner_gaps", len(orders.OwnerGaps)),
				zap.Int("child_gaps", len(orders.ChildGaps)),
			)
		}
		report.Orders = append(report.Orders, orders)
	}

	return report, nil
}

// Report returns the cached report while it is fresh, otherwise runs Check. Concurrent
// callers share a single run.
func (s *Service) Report(ctx context.Context) (*Report, error) {
	s.mu.RLock()
	cached, built := s.cached, s.built
	s.mu.RUnlock()

	if cached != nil && s.ttl > 0 && s.now().Sub(built) < s.ttl {
		return cached, nil
	}

	v, err, _ := s.sf.Do("report", func() (any, error) {
		report, err := s.Check(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cached = report
		s.built = s.now()
		s.mu.Unlock()
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Report), nil
}

// Invalidate drops the cached report.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Repair compacts every group listed in report. Each group runs in its own
// transaction; a failing group is recorded and the rest still run.
func (s *Service) Repair(ctx context.Context, report *Report) (*RepairResult, error) {
	result := &RepairResult{Errors: []string{}}

	for _, gap := range report.Gaps() {
		kind, err := s.registry.Get(gap.Kind)
		if err != nil {
			return nil, err
		}
		scope := reconcile.ScopeOwner
		if gap.Scope == reconcile.ScopeChild.String() {
			scope = reconcile.ScopeChild
		}

		moved, err := s.engine.Compact(ctx, s.db, kind, scope, gap.Group)
		if err != nil {
			s.logger.Error("Failed to compact group",
				zap.String("kind", gap.Kind),
				zap.String("group", gap.Group.String()),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, fmt.Sprintf("%s %s %s: %v", gap.Kind, gap.Scope, gap.Group, err))
			continue
		}
		result.Groups++
		result.Moved += moved
	}

	s.Invalidate()
	s.logger.Info("Repair finished", zap.Int("groups", result.Groups), zap.Int("moved", result.Moved))
	return result, nil
}

// Upload stores report as JSON in the reports bucket and returns the object name.
func (s *Service) Upload(ctx context.Context, report *Report) (string, error) {
	if s.client == nil {
		return "", ErrStorageDisabled
	}
	if err := storage.EnsureBucket(ctx, s.client, s.bucket); err != nil {
		return "", err
	}

	name := ReportPrefix + report.GeneratedAt.UTC().Format("20060102T150405.000000000Z") + ".json"
	if _, err := storage.PutJSON(ctx, s.client, s.bucket, name, report); err != nil {
		return "", err
	}
	s.logger.Info("Uploaded integrity report", zap.String("bucket", s.bucket), zap.String("object", name))
	return name, nil
}

// Download fetches an uploaded report by its name relative to ReportPrefix.
func (s *Service) Download(ctx context.Context, name string) (*Report, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	var report Report
	if err := storage.GetJSON(ctx, s.client, s.bucket, ReportPrefix+name, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListUploads returns the names of the uploaded reports.
func (s *Service) ListUploads(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	return storage.ListNames(ctx, s.client, s.bucket, ReportPrefix)
}
