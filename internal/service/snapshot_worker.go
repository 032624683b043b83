package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
	"github.com/noah-isme/kyoto-flow-api/pkg/jobs"
)

type snapshotStore interface {
	Load(ctx context.Context) (*models.TripSnapshot, error)
	Save(ctx context.Context, snapshot models.TripSnapshot) error
}

// SnapshotWorker bridges queued snapshots to the persistence store.
type SnapshotWorker struct {
	store   snapshotStore
	metrics *MetricsService
	logger  *zap.Logger
	timeout time.Duration
}

// NewSnapshotWorker constructs a worker.
func NewSnapshotWorker(store snapshotStore, metrics *MetricsService, logger *zap.Logger) *SnapshotWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotWorker{store: store, metrics: metrics, logger: logger, timeout: 10 * time.Second}
}

// Handle processes a queue job. Returning an error asks the queue to retry.
func (w *SnapshotWorker) Handle(ctx context.Context, job jobs.Job[models.TripSnapshot]) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	err := w.store.Save(ctx, job.Payload)
	w.metrics.ObserveSnapshotSave(err == nil, time.Since(start))
	if err != nil {
		w.logger.Warn("snapshot save failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
		return err
	}
	w.logger.Debug("snapshot saved", zap.String("job_id", job.ID), zap.Int64("version", job.Payload.Version))
	return nil
}

// LoadInto restores the last persisted snapshot into svc. A missing
// snapshot leaves the seeded state in place.
func LoadInto(ctx context.Context, store snapshotStore, svc *ItineraryService) (bool, error) {
	snapshot, err := store.Load(ctx)
	if err != nil {
		return false, err
	}
	if snapshot == nil || len(snapshot.Days) == 0 {
		return false, nil
	}
	if err := svc.Restore(*snapshot); err != nil {
		return false, err
	}
	return true, nil
}
