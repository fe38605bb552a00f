package engine

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// DefaultMonitorInterval is the tick period of the background monitor.
const DefaultMonitorInterval = time.Second

// Monitor is the single background worker that drives every time-based
// session transition: warning events while the deadline approaches and
// auto-submission once it passes. One monitor runs for the process lifetime.
type Monitor struct {
	registry *Registry
	interval time.Duration
	log      zerolog.Logger
}

// NewMonitor creates a monitor over the given registry. A non-positive
// interval falls back to DefaultMonitorInterval.
func NewMonitor(registry *Registry, interval time.Duration, log zerolog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	return &Monitor{
		registry: registry,
		interval: interval,
		log:      log.With().Str("component", "session_monitor").Logger(),
	}
}

// Start begins the tick loop. Call in a goroutine; it returns when ctx is
// cancelled.
func (m *Monitor) Start(ctx context.Context) {
	m.log.Info().Dur("interval", m.interval).Msg("monitor started")

	ticker := m.registry.clk.Ticker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info().Msg("monitor stopped")
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// tick inspects every registered session once. Paused sessions are skipped
// entirely — their clock is frozen, so no transition can be due. A failure
// on one session never prevents the rest of the scan.
func (m *Monitor) tick() {
	for _, s := range m.registry.snapshot() {
		warnings, expired := s.dueTransitions()
		for _, e := range warnings {
			s.emit(e)
		}
		if !expired {
			continue
		}
		if _, err := m.registry.finalize(s, completionAuto); err != nil {
			// A manual submit can win the race between dueTransitions and
			// finalize; that is the expected terminal outcome.
			if !errors.Is(err, ErrSessionInactive) {
				m.log.Error().Err(err).Str("session_id", s.ID()).Msg("auto-submit failed")
			}
		}
	}
}
