package menu

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"menuboard/internal"
	"menuboard/internal/config"
)

// Fetcher retrieves the unordered raw records from the menu backend.
type Fetcher interface {
	FetchRawMenuItems(ctx context.Context) ([]internal.RawMenuItem, error)
}

// Builder runs normalize, group and order over one batch of raw records.
type Builder struct {
	normalizer *Normalizer
	orderer    *Orderer
}

func NewBuilder(normalizer *Normalizer, orderer *Orderer) *Builder {
	return &Builder{normalizer: normalizer, orderer: orderer}
}

func NewBuilderFromConfig(cfg config.Config) *Builder {
	return NewBuilder(
		NewNormalizer(cfg.DefaultDescription, cfg.DescriptionPlaceholders),
		NewOrderer(cfg.CategoryPriority, cfg.Locale),
	)
}

func (b *Builder) Build(raw []internal.RawMenuItem) *Menu {
	items := b.normalizer.NormalizeAll(raw)
	categories := b.orderer.Order(GroupByCategory(items))
	return newMenu(items, categories)
}

// Service owns the currently published menu. Refresh replaces it wholesale
// only after a fetch and build complete; a failed refresh keeps the old one.
type Service struct {
	fetcher Fetcher
	builder *Builder
	logger  *zap.Logger
	current atomic.Pointer[Menu]
}

func NewService(fetcher Fetcher, builder *Builder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{fetcher: fetcher, builder: builder, logger: logger}
	s.current.Store(Empty())
	return s
}

// Refresh fetches, assembles and publishes a new menu. Fetch errors are
// returned as-is.
func (s *Service) Refresh(ctx context.Context) (*Menu, error) {
	start := time.Now()
	raw, err := s.fetcher.FetchRawMenuItems(ctx)
	if err != nil {
		s.logger.Warn("menu fetch failed", zap.Error(err))
		return nil, err
	}

	m := s.builder.Build(raw)
	s.current.Store(m)
	s.logger.Info("menu refreshed",
		zap.Int("raw", len(raw)),
		zap.Int("categories", len(m.categories)),
		zap.Duration("took", time.Since(start)))
	return m, nil
}

// Current returns the last published menu, never nil.
func (s *Service) Current() *Menu {
	return s.current.Load()
}
