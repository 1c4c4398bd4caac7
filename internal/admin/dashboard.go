package admin

import (
	"context"
	"sync"

	"github.com/wolfman30/mhrs-booking/internal/domain"
)

// SummaryLoader is the subset of Service the dashboard needs.
type SummaryLoader interface {
	DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error)
}

// Dashboard caches the last loaded counters for the admin home screen.
type Dashboard struct {
	loader SummaryLoader

	mu      sync.RWMutex
	summary *domain.DashboardSummary
}

func NewDashboard(loader SummaryLoader) *Dashboard {
	return &Dashboard{loader: loader}
}

func (d *Dashboard) Load(ctx context.Context) (*domain.DashboardSummary, error) {
	s, err := d.loader.DashboardSummary(ctx)
	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.summary = nil
		return nil, err
	}
	d.summary = s
	cp := *s
	return &cp, nil
}

// Summary returns the last loaded counters, or nil.
func (d *Dashboard) Summary() *domain.DashboardSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.summary == nil {
		return nil
	}
	cp := *d.summary
	return &cp
}
