package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"zonewatch/internal/logger"
	"zonewatch/internal/models"
	"zonewatch/internal/simulation"
	"zonewatch/internal/stats"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var ErrTravellerNotFound = errors.New("traveller not found")

// RefreshRecorder receives the summary of every published batch.
type RefreshRecorder interface {
	RecordRefresh(trigger string, s models.Summary)
}

// ZoneLister supplies the static zone configuration for the dashboard view.
type ZoneLister interface {
	List(ctx context.Context) ([]models.Zone, error)
}

type TrackerConfig struct {
	Generator simulation.GeneratorConfig
	Canvas    models.Canvas
	// Now and Rand are overridable for tests.
	Now  func() time.Time
	Rand *rand.Rand
}

// TrackerService owns the current traveller batch. Refresh swaps the batch
// pointer atomically, so readers see either the old or the new batch in full.
type TrackerService struct {
	cfg     TrackerConfig
	zones   ZoneLister
	metrics RefreshRecorder
	logr    *logger.Logger

	current atomic.Pointer[models.Batch]

	// rand.Rand is not safe for concurrent use; refreshes and layouts share it.
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewTrackerService(cfg TrackerConfig, zones ZoneLister, metrics RefreshRecorder, logr *logger.Logger) *TrackerService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logr == nil {
		logr = logger.NewNop()
	}
	if cfg.Rand == nil {
		cfg.Rand = simulation.NewRand()
	}
	if cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0 {
		cfg.Canvas = stats.DefaultCanvas
	}

	s := &TrackerService{cfg: cfg, zones: zones, metrics: metrics, logr: logr, rng: cfg.Rand}
	s.current.Store(&models.Batch{Entities: []models.Entity{}})
	return s
}

// Refresh generates a new batch and publishes it.
func (s *TrackerService) Refresh(ctx context.Context, trigger string) *models.Batch {
	_, span := otel.Tracer("zonewatch/services").Start(ctx, "tracker.refresh",
		trace.WithAttributes(attribute.String("batch.trigger", trigger)))
	defer span.End()

	now := s.cfg.Now()

	s.rngMu.Lock()
	entities := simulation.Generate(s.cfg.Generator, now, s.rng)
	s.rngMu.Unlock()

	batch := &models.Batch{
		ID:          uuid.New().String(),
		GeneratedAt: now,
		Trigger:     trigger,
		Entities:    entities,
	}
	s.current.Store(batch)

	summary := stats.Summarize(entities, now)
	if s.metrics != nil {
		s.metrics.RecordRefresh(trigger, summary)
	}

	span.SetAttributes(
		attribute.String("batch.id", batch.ID),
		attribute.Int("batch.size", len(entities)),
	)
	s.logr.Debug("traveller batch refreshed",
		zap.String("batch_id", batch.ID),
		zap.String("trigger", trigger),
		zap.Int("travellers", summary.Total),
		zap.Int("restricted", summary.Restricted))

	return batch
}

// Run refreshes on every tick until ctx is cancelled. A non-positive
// interval disables the loop.
func (s *TrackerService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.logr.Warn("refresh loop disabled", zap.Duration("interval", interval))
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logr.Info("refresh loop started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logr.Info("refresh loop stopped")
			return
		case <-ticker.C:
			s.Refresh(ctx, models.TriggerTimer)
		}
	}
}

// Current returns the published batch; before the first refresh it is empty.
func (s *TrackerService) Current() *models.Batch {
	return s.current.Load()
}

// Dashboard assembles every derived view from the current batch.
func (s *TrackerService) Dashboard(ctx context.Context) (*models.DashboardView, error) {
	return s.DashboardFor(ctx, s.Current())
}

// DashboardFor assembles the views of a given batch, e.g. the one a manual
// refresh just published, even if a timer tick has replaced it since.
func (s *TrackerService) DashboardFor(ctx context.Context, batch *models.Batch) (*models.DashboardView, error) {
	if batch == nil {
		batch = s.Current()
	}
	now := s.cfg.Now()

	zoneList := []models.Zone{}
	if s.zones != nil {
		list, err := s.zones.List(ctx)
		if err != nil {
			return nil, err
		}
		zoneList = list
	}

	return &models.DashboardView{
		BatchID:            batch.ID,
		LastUpdated:        batch.GeneratedAt,
		Trigger:            batch.Trigger,
		Summary:            stats.Summarize(batch.Entities, now),
		ZoneDistribution:   stats.ZoneDistribution(batch.Entities, now),
		StatusDistribution: stats.StatusDistribution(batch.Entities),
		Canvas:             s.cfg.Canvas,
		Markers:            s.layout(batch.Entities),
		Zones:              zoneList,
	}, nil
}

func (s *TrackerService) Summary() models.Summary {
	return stats.Summarize(s.Current().Entities, s.cfg.Now())
}

func (s *TrackerService) ZoneDistribution() []models.DistributionEntry {
	return stats.ZoneDistribution(s.Current().Entities, s.cfg.Now())
}

func (s *TrackerService) StatusDistribution() []models.DistributionEntry {
	return stats.StatusDistribution(s.Current().Entities)
}

// Markers lays out the current batch; positions differ between calls.
func (s *TrackerService) Markers() []models.Marker {
	return s.layout(s.Current().Entities)
}

// TravellerQuery narrows the activity table.
type TravellerQuery struct {
	Search   string
	Zones    []string
	Statuses []string
}

// Travellers returns the activity table rows matching q.
func (s *TrackerService) Travellers(q TravellerQuery) *models.TravellersResponse {
	batch := s.Current()
	rows := stats.Filter(stats.Search(batch.Entities, q.Search), q.Zones, q.Statuses)
	return &models.TravellersResponse{
		Data:        rows,
		Total:       len(rows),
		LastUpdated: batch.GeneratedAt,
	}
}

func (s *TrackerService) Traveller(id string) (models.Entity, error) {
	for _, e := range s.Current().Entities {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Entity{}, ErrTravellerNotFound
}

func (s *TrackerService) layout(entities []models.Entity) []models.Marker {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return stats.Layout(entities, s.cfg.Canvas, s.rng)
}
