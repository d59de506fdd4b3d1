package roster

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Runner walks every week anchor in order: synchronize, extract, merge.
// There is no parallelism across anchors; the single live view is shared
// session state and concurrent navigation would corrupt it.
type Runner struct {
	view  View
	sync  *Synchronizer
	clock Clock
	log   *zap.Logger

	// InterAnchorDelay is a courtesy pause between week navigations.
	InterAnchorDelay time.Duration
}

// NewRunner wires the per-anchor loop.
func NewRunner(view View, sync *Synchronizer, clock Clock, log *zap.Logger) *Runner {
	if clock == nil {
		clock = realClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{view: view, sync: sync, clock: clock, log: log}
}

// Extract runs the whole pipeline for the range and returns the accumulated
// run state. On error the returned Run still carries everything merged from
// prior anchors, so the caller can offer a partial export. An otherwise
// clean run with zero staff records returns ErrEmptyResult.
func (r *Runner) Extract(ctx context.Context, dr DateRange) (*Run, error) {
	run := NewRun(dr, r.log)
	anchors := WeekAnchors(dr)
	r.log.Info("extraction starting",
		zap.String("run", run.ID),
		zap.String("range", dr.String()),
		zap.Int("weeks", len(anchors)))

	for i, anchor := range anchors {
		r.log.Info("processing week",
			zap.Int("week", i+1),
			zap.Int("of", len(anchors)),
			zap.String("anchor", anchor.Format(ExportDateLayout)))

		res, err := r.sync.Sync(ctx, anchor)
		if err != nil {
			return run, fmt.Errorf("week %s: %w", anchor.Format(ExportDateLayout), err)
		}
		if res.State == SyncTimedOut {
			run.Warn(fmt.Sprintf("week %s did not stabilize after %d polls; extracted as rendered",
				anchor.Format(ExportDateLayout), res.Attempts))
		}

		resources, err := r.view.Resources(ctx)
		if err != nil {
			return run, fmt.Errorf("week %s: list resources: %w", anchor.Format(ExportDateLayout), err)
		}
		events, err := r.view.Events(ctx)
		if err != nil {
			return run, fmt.Errorf("week %s: list events: %w", anchor.Format(ExportDateLayout), err)
		}

		written := run.IngestWeek(resources, events)
		if written > 0 {
			run.WeeksProcessed++
		}
		r.log.Info("week merged",
			zap.String("anchor", anchor.Format(ExportDateLayout)),
			zap.Int("assignments", written),
			zap.Int("staff_total", run.StaffCount()))

		if r.InterAnchorDelay > 0 && i < len(anchors)-1 {
			if err := r.clock.Sleep(ctx, r.InterAnchorDelay); err != nil {
				return run, err
			}
		}
	}

	if run.StaffCount() == 0 {
		return run, ErrEmptyResult
	}
	return run, nil
}
