package ai

import (
	"sync"
	"time"
)

// Panel tracks the loading and error state of one AI tools panel. It keeps
// the last successful result so a failed run never clears what is shown.
type Panel struct {
	feature Feature

	mu        sync.Mutex
	loading   bool
	err       string
	lastTier  Tier
	lastRunAt time.Time
	result    any
}

type PanelSnapshot struct {
	Feature   Feature    `json:"feature"`
	Loading   bool       `json:"loading"`
	Error     string     `json:"error,omitempty"`
	LastTier  Tier       `json:"last_tier,omitempty"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	Result    any        `json:"result,omitempty"`
}

func NewPanel(feature Feature) *Panel {
	return &Panel{feature: feature}
}

// Run marks the panel as loading for the duration of fn. The loading flag is
// cleared however fn returns.
func (p *Panel) Run(fn func() (any, Tier, error)) error {
	p.mu.Lock()
	p.loading = true
	p.err = ""
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.loading = false
		p.lastRunAt = time.Now()
		p.mu.Unlock()
	}()

	result, tier, err := fn()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.err = err.Error()
		return err
	}
	p.result = result
	p.lastTier = tier
	return nil
}

func (p *Panel) ClearError() {
	p.mu.Lock()
	p.err = ""
	p.mu.Unlock()
}

func (p *Panel) Snapshot() PanelSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := PanelSnapshot{
		Feature:  p.feature,
		Loading:  p.loading,
		Error:    p.err,
		LastTier: p.lastTier,
		Result:   p.result,
	}
	if !p.lastRunAt.IsZero() {
		t := p.lastRunAt
		s.LastRunAt = &t
	}
	return s
}

// Panels holds one Panel per feature.
type Panels map[Feature]*Panel

func NewPanels() Panels {
	ps := make(Panels, len(Features))
	for _, f := range Features {
		ps[f] = NewPanel(f)
	}
	return ps
}

func (ps Panels) Snapshots() []PanelSnapshot {
	out := make([]PanelSnapshot, 0, len(Features))
	for _, f := range Features {
		if p, ok := ps[f]; ok {
			out = append(out, p.Snapshot())
		}
	}
	return out
}
