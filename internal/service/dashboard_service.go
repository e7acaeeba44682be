package service

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/andresuchdata/vendsight/internal/analytics"
	"github.com/andresuchdata/vendsight/internal/cache"
	"github.com/andresuchdata/vendsight/internal/domain"
	"github.com/andresuchdata/vendsight/internal/ingest"
	"github.com/rs/zerolog/log"
)

// ErrNotLoaded is returned when a view is requested before the first batch
// has been loaded.
var ErrNotLoaded = errors.New("analytics snapshot not loaded")

// DashboardService owns the current analytics snapshot and answers the
// query interface the presentation layer calls. The snapshot is swapped
// atomically on reload, so readers either see the old batch or the new one,
// never a partially rebuilt chain.
type DashboardService struct {
	snap   atomic.Pointer[analytics.Snapshot]
	loader ingest.Loader
	cache  cache.ViewCache

	selectorKey     domain.SelectorKey
	strictSelectors bool
}

func NewDashboardService(loader ingest.Loader, selectorKey domain.SelectorKey, strictSelectors bool, cacheImpl cache.ViewCache) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopViewCache()
	}
	return &DashboardService{
		loader:          loader,
		cache:           cacheImpl,
		selectorKey:     selectorKey,
		strictSelectors: strictSelectors,
	}
}

// Reload pulls a fresh batch, rebuilds the whole derived chain and swaps the
// snapshot in one step. On any error the previous snapshot stays live.
func (s *DashboardService) Reload(ctx context.Context) error {
	records, err := s.loader(ctx)
	if err != nil {
		return err
	}

	snap, err := analytics.Build(records, s.selectorKey)
	if err != nil {
		return err
	}

	s.snap.Store(snap)

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("vending: cache invalidation failed")
	}

	log.Info().
		Int("records", len(snap.Records)).
		Int("summaries", len(snap.Summaries)).
		Int("orders", len(snap.Orders)).
		Msg("vending: snapshot rebuilt")

	return nil
}

// Snapshot returns the live snapshot, or ErrNotLoaded before the first load.
func (s *DashboardService) Snapshot() (*analytics.Snapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// ListSelectors returns the dropdown entries: the ALL rollup first, then
// each distinct machine selector in first-appearance order.
func (s *DashboardService) ListSelectors() ([]domain.MachineSelector, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	values := snap.SelectorValues()
	selectors := make([]domain.MachineSelector, 0, len(values)+1)
	selectors = append(selectors, domain.MachineSelector{Label: "ALL MACHINES", Value: domain.SelectorAll})
	for _, v := range values {
		selectors = append(selectors, domain.MachineSelector{Label: v, Value: v})
	}
	return selectors, nil
}

// GetOverallView resolves the ALL rollup.
func (s *DashboardService) GetOverallView(ctx context.Context) (domain.ViewResult, error) {
	return s.getView(ctx, domain.SelectorAll)
}

// GetMachineView resolves the single-machine slice for a selector.
func (s *DashboardService) GetMachineView(ctx context.Context, selector string) (domain.ViewResult, error) {
	return s.getView(ctx, selector)
}

func (s *DashboardService) getView(ctx context.Context, selector string) (domain.ViewResult, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return domain.ViewResult{}, err
	}

	if view, ok, err := s.cache.GetView(ctx, s.selectorKey, selector); err == nil && ok {
		return view, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("vending: cache get view failed")
	}

	view, err := analytics.View(snap, selector, s.strictSelectors)
	if err != nil {
		return domain.ViewResult{}, err
	}

	if err := s.cache.SetView(ctx, s.selectorKey, selector, view); err != nil {
		log.Warn().Err(err).Msg("vending: cache set view failed")
	}

	return view, nil
}

// Orders returns the order table, optionally filtered to one selector.
func (s *DashboardService) Orders(selector string) ([]domain.OrderLine, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	if selector == "" || selector == domain.SelectorAll {
		return snap.Orders, nil
	}

	if s.strictSelectors && !snap.HasSelector(selector) {
		return nil, &domain.UnknownSelectorError{Selector: selector}
	}

	filtered := make([]domain.OrderLine, 0)
	for _, line := range snap.Orders {
		if line.SelectorValue(s.selectorKey) == selector {
			filtered = append(filtered, line)
		}
	}
	return filtered, nil
}
