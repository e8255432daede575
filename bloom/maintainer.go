package bloom

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/relistan/shorten"
)

// Growable is the part of a Filter driven by a Maintainer.
type Growable interface {
	NeedsResize() bool
	Resize() bool
	Stats() shorten.FilterStats
}

// Maintainer periodically grows a filter whose newest segment has become
// too inaccurate. Creating one starts nothing: call Start and Stop, or run
// Run under a caller-owned goroutine.
type Maintainer struct {
	filter   Growable
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMaintainer returns a Maintainer that checks filter every interval.
// A nil logger discards output.
func NewMaintainer(filter Growable, interval time.Duration, logger *slog.Logger) *Maintainer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Maintainer{
		filter:   filter,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the maintenance loop in a new goroutine until Stop is called
// or ctx is canceled. Returns ECONFLICT if the loop is already running.
func (m *Maintainer) Start(ctx context.Context) error {
	if m.interval <= 0 {
		return shorten.Errorf(shorten.EINVALID, "maintenance interval must be positive, got %s", m.interval)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done != nil {
		return shorten.Errorf(shorten.ECONFLICT, "filter maintenance already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done

	go func() {
		defer close(done)
		_ = m.Run(ctx)

		// Forget this run if ctx ended it, so Start works again.
		m.mu.Lock()
		if m.done == done {
			m.cancel, m.done = nil, nil
		}
		m.mu.Unlock()
		cancel()
	}()
	return nil
}

// Stop cancels the loop started by Start and waits for it to exit.
// Stop is a no-op if the loop is not running.
func (m *Maintainer) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Run blocks, checking the filter every interval, until ctx is canceled.
func (m *Maintainer) Run(ctx context.Context) error {
	if m.interval <= 0 {
		return shorten.Errorf(shorten.EINVALID, "maintenance interval must be positive, got %s", m.interval)
	}

	m.logger.Info("filter maintenance started", "interval", m.interval)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("filter maintenance stopped")
			return nil
		case <-ticker.C:
			m.Check()
		}
	}
}

// Check runs a single maintenance cycle and reports whether the filter grew.
// A panic during growth is logged and swallowed; the filter keeps serving
// from its previous snapshot.
func (m *Maintainer) Check() (grown bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("filter maintenance failed", "panic", r)
			grown = false
		}
	}()

	if !m.filter.NeedsResize() {
		return false
	}

	before := m.filter.Stats()
	begin := time.Now()
	evicted := m.filter.Resize()
	after := m.filter.Stats()

	m.logger.Info("filter resized",
		"segments", after.Segments,
		"capacity", after.LastCapacity,
		"fpp", before.NewestFPP,
		"duration", time.Since(begin),
	)
	if evicted {
		m.logger.Warn("filter segment evicted",
			"evictions", after.Evictions,
			"maxSegments", after.MaxSegments,
		)
	}
	return true
}
