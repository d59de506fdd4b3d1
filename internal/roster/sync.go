package roster

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SyncState is the synchronizer's terminal (or intermediate) state.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncNavigateRequested
	SyncPolling
	SyncStable
	SyncTimedOut
)

func (s SyncState) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncNavigateRequested:
		return "navigate_requested"
	case SyncPolling:
		return "polling"
	case SyncStable:
		return "stable"
	case SyncTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Clock abstracts waiting so tests can drive the synchronizer without real
// wall-clock delays.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RealClock returns a Clock backed by the wall clock.
func RealClock() Clock { return realClock{} }

// SyncConfig tunes the poll loop.
type SyncConfig struct {
	PollInterval    time.Duration
	SettleDelay     time.Duration
	StableThreshold int
	MaxAttempts     int
}

// DefaultSyncConfig mirrors the cadence the live scheduler needs in practice.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		PollInterval:    500 * time.Millisecond,
		SettleDelay:     time.Second,
		StableThreshold: 3,
		MaxAttempts:     30,
	}
}

// SyncResult describes how a navigation concluded.
type SyncResult struct {
	State    SyncState
	Attempts int
	// Navigated is false when the view already displayed the anchor and the
	// whole cycle was skipped.
	Navigated bool
}

// Synchronizer drives the view to a requested week anchor and waits for it
// to stabilize. It runs strictly sequentially, one anchor at a time.
type Synchronizer struct {
	view  View
	cfg   SyncConfig
	clock Clock
	log   *zap.Logger
}

// NewSynchronizer builds a synchronizer. A nil clock falls back to the wall
// clock; a nil logger to a no-op one.
func NewSynchronizer(view View, cfg SyncConfig, clock Clock, log *zap.Logger) *Synchronizer {
	if clock == nil {
		clock = realClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.StableThreshold <= 0 {
		cfg.StableThreshold = DefaultSyncConfig().StableThreshold
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultSyncConfig().MaxAttempts
	}
	return &Synchronizer{view: view, cfg: cfg, clock: clock, log: log}
}

// Sync navigates the view to anchor and polls until the rendered week is
// stable or the attempt budget runs out. A timeout is soft: the caller is
// expected to extract whatever is rendered and keep going.
func (s *Synchronizer) Sync(ctx context.Context, anchor time.Time) (SyncResult, error) {
	anchor = DayOf(anchor)

	current, err := s.view.CurrentWeek(ctx)
	if err == nil && DayOf(current).Equal(anchor) {
		s.log.Debug("view already on anchor, skipping navigation",
			zap.String("anchor", anchor.Format(ExportDateLayout)))
		return SyncResult{State: SyncStable}, nil
	}

	if err := s.view.NavigateTo(ctx, anchor); err != nil {
		return SyncResult{State: SyncNavigateRequested}, fmt.Errorf("navigate to %s: %w", anchor.Format(ExportDateLayout), err)
	}

	result := SyncResult{State: SyncPolling, Navigated: true}
	lastCount := -1
	stableRuns := 0

	for result.Attempts < s.cfg.MaxAttempts {
		if err := s.clock.Sleep(ctx, s.cfg.PollInterval); err != nil {
			return result, err
		}
		result.Attempts++

		snap, err := s.view.Snapshot(ctx)
		if err != nil {
			s.log.Debug("readiness snapshot failed", zap.Int("attempt", result.Attempts), zap.Error(err))
			lastCount = -1
			stableRuns = 0
			continue
		}

		structural := snap.ResourceCount > 0 && snap.SectionHeaderPresent
		if snap.ItemCount == lastCount && snap.ItemCount > 0 && structural {
			stableRuns++
		} else {
			stableRuns = 0
		}
		lastCount = snap.ItemCount

		if stableRuns >= s.cfg.StableThreshold {
			result.State = SyncStable
			break
		}
	}

	if result.State != SyncStable {
		result.State = SyncTimedOut
		s.log.Warn("view did not stabilize, extracting what is rendered",
			zap.String("anchor", anchor.Format(ExportDateLayout)),
			zap.Int("attempts", result.Attempts))
	}

	// Absorb trailing rendering effects before handing the view back.
	if s.cfg.SettleDelay > 0 {
		if err := s.clock.Sleep(ctx, s.cfg.SettleDelay); err != nil {
			return result, err
		}
	}
	return result, nil
}
