package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"menuboard/internal"
	"menuboard/internal/menu"
	"menuboard/internal/storage"
)

// LastSyncKey is the metadata key holding the time of the last successful sync.
const LastSyncKey = "menu.last_sync"

// SyncService refreshes the published menu and records every attempt.
type SyncService struct {
	db     *storage.DB
	menus  *menu.Service
	logger *zap.Logger
}

type SyncResult struct {
	TraceID string
	RunID   int64
	Menu    *menu.Menu
}

func NewSyncService(db *storage.DB, menus *menu.Service, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{db: db, menus: menus, logger: logger}
}

// Sync runs one fetch cycle. A failed fetch is still recorded, and the fetch
// error is returned unchanged.
func (s *SyncService) Sync(ctx context.Context) (SyncResult, error) {
	start := time.Now()
	traceID := uuid.NewString()
	logger := s.logger.With(zap.String("trace_id", traceID))

	m, fetchErr := s.menus.Refresh(ctx)
	elapsed := time.Since(start)

	run := internal.SyncRunRow{TraceID: traceID, DurationMs: elapsed.Milliseconds()}
	if fetchErr != nil {
		run.Status = internal.RunFailed
		run.Error = fetchErr.Error()
		if _, err := s.db.InsertRun(run, map[string]float64{"totalMs": float64(elapsed.Milliseconds())}); err != nil {
			logger.Error("record failed run", zap.Error(err))
		}
		return SyncResult{TraceID: traceID}, fetchErr
	}

	categories := m.Categories()
	run.Status = internal.RunOK
	run.RawCount = len(m.Items())
	run.ItemCount = m.ItemCount()
	run.CategoryCount = len(categories)

	storeStart := time.Now()
	timings := map[string]float64{"totalMs": float64(elapsed.Milliseconds())}
	runID, err := s.db.RecordSuccessfulRun(run, timings, categories)
	if err != nil {
		logger.Error("record menu snapshot", zap.Error(err))
		failed := internal.SyncRunRow{
			TraceID:    traceID,
			Status:     internal.RunFailed,
			RawCount:   run.RawCount,
			Error:      err.Error(),
			DurationMs: run.DurationMs,
		}
		if _, ferr := s.db.InsertRun(failed, timings); ferr != nil {
			logger.Error("record failed run", zap.Error(ferr))
		}
		return SyncResult{TraceID: traceID, Menu: m}, err
	}
	if err := s.db.SetMetadata(LastSyncKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		logger.Warn("record last sync time", zap.Error(err))
	}

	logger.Info("menu synced",
		zap.Int64("run_id", runID),
		zap.Int("items", run.ItemCount),
		zap.Int("categories", run.CategoryCount),
		zap.Duration("store", time.Since(storeStart)))
	return SyncResult{TraceID: traceID, RunID: runID, Menu: m}, nil
}
