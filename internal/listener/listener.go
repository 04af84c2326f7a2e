package listener

import (
	"context"
	"time"

	"go.uber.org/zap"

	"menuboard/internal/catalog"
)

type Syncer interface {
	Sync(ctx context.Context) (catalog.SyncResult, error)
}

// Service re-runs the menu sync on a fixed interval until ctx is done. Cycle
// errors are logged and the previous menu stays published.
type Service struct {
	syncer   Syncer
	interval time.Duration
	logger   *zap.Logger
}

func NewService(syncer Syncer, interval time.Duration, logger *zap.Logger) *Service {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{syncer: syncer, interval: interval, logger: logger}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		s.runCycle(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.interval):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) {
	res, err := s.syncer.Sync(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("listener cycle error", zap.String("trace_id", res.TraceID), zap.Error(err))
		return
	}
	s.logger.Info("listener cycle done",
		zap.String("trace_id", res.TraceID),
		zap.Int("categories", len(res.Menu.CategoryNames())),
		zap.Int("items", res.Menu.ItemCount()))
}
