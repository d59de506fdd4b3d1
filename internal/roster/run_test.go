package roster

import (
	"context"
	"errors"
	"testing"
)

func readySnaps(n int) []Readiness {
	snaps := make([]Readiness, n)
	for i := range snaps {
		snaps[i] = Readiness{ItemCount: 12, ResourceCount: 2, SectionHeaderPresent: true}
	}
	return snaps
}

func newTestRunner(view View) *Runner {
	sync := NewSynchronizer(view, testSyncConfig(), &fakeClock{}, nil)
	return NewRunner(view, sync, &fakeClock{}, nil)
}

func TestExtractMergesAllWeeks(t *testing.T) {
	view := &scriptedView{
		current:   day(t, "18/08/2025"), // far from the range, forces navigation
		snaps:     readySnaps(4),
		resources: []Resource{{ID: "p1", Name: "Alice", Team: "Blue"}},
		events: []RawShiftEvent{
			onDay(t, "01/09/2025", 7, RawShiftEvent{PersonID: "p1", Title: "Early", IsEffective: true}),
			onDay(t, "08/09/2025", 13, RawShiftEvent{PersonID: "p1", Title: "Late", IsEffective: true}),
		},
	}
	runner := newTestRunner(view)

	run, err := runner.Extract(context.Background(), mustRange(t, "01/09/2025", "14/09/2025"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if run.StaffCount() != 1 {
		t.Errorf("staff count = %d, want 1", run.StaffCount())
	}
	// Both anchors get navigated; the static view re-serves the same events
	// on the second pass, so only the first week produces new writes.
	if got := len(view.navigated); got != 2 {
		t.Errorf("navigations = %d, want 2", got)
	}
	if run.WeeksProcessed != 1 {
		t.Errorf("weeks processed = %d, want 1", run.WeeksProcessed)
	}

	rec := run.Records()[0]
	if len(rec.Days) != 2 {
		t.Errorf("resolved days = %d, want 2", len(rec.Days))
	}
}

func TestExtractEmptyResult(t *testing.T) {
	view := &scriptedView{
		current: day(t, "18/08/2025"),
		snaps:   readySnaps(4),
	}
	runner := newTestRunner(view)

	run, err := runner.Extract(context.Background(), mustRange(t, "01/09/2025", "07/09/2025"))
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("err = %v, want ErrEmptyResult", err)
	}
	if run == nil || run.StaffCount() != 0 {
		t.Error("empty run state must still be returned")
	}
}

func TestExtractTimeoutRecordsWarningAndContinues(t *testing.T) {
	// Snapshots never settle; every anchor times out, but extraction still
	// harvests the rendered data.
	var snaps []Readiness
	for i := 0; i < 30; i++ {
		snaps = append(snaps, Readiness{ItemCount: i + 1, ResourceCount: 1, SectionHeaderPresent: true})
	}
	view := &scriptedView{
		current:   day(t, "18/08/2025"),
		snaps:     snaps,
		resources: []Resource{{ID: "p1", Name: "Alice", Team: "Blue"}},
		events: []RawShiftEvent{
			onDay(t, "01/09/2025", 7, RawShiftEvent{PersonID: "p1", Title: "Early", IsEffective: true}),
		},
	}
	runner := newTestRunner(view)

	run, err := runner.Extract(context.Background(), mustRange(t, "01/09/2025", "07/09/2025"))
	if err != nil {
		t.Fatalf("timeouts are soft, Extract must not fail: %v", err)
	}
	if len(run.Warnings) == 0 {
		t.Error("expected a timeout warning on the run")
	}
	if run.StaffCount() != 1 {
		t.Errorf("staff count = %d, want 1", run.StaffCount())
	}
}

// flakyView serves the first week normally, then starts failing Events.
type flakyView struct {
	scriptedView
	eventCalls int
}

func (v *flakyView) Events(ctx context.Context) ([]RawShiftEvent, error) {
	v.eventCalls++
	if v.eventCalls > 1 {
		return nil, errors.New("session expired")
	}
	return v.scriptedView.Events(ctx)
}

func TestExtractPreservesPartialStateOnFailure(t *testing.T) {
	view := &flakyView{scriptedView: scriptedView{
		current:   day(t, "18/08/2025"),
		snaps:     readySnaps(4),
		resources: []Resource{{ID: "p1", Name: "Alice", Team: "Blue"}},
		events: []RawShiftEvent{
			onDay(t, "01/09/2025", 7, RawShiftEvent{PersonID: "p1", Title: "Early", IsEffective: true}),
		},
	}}
	runner := newTestRunner(view)

	run, err := runner.Extract(context.Background(), mustRange(t, "01/09/2025", "14/09/2025"))
	if err == nil {
		t.Fatal("expected mid-run failure")
	}
	if run.StaffCount() != 1 {
		t.Errorf("partial staff data must be preserved, got %d records", run.StaffCount())
	}
	if len(run.Records()[0].Days) != 1 {
		t.Errorf("first week's assignments must survive the failure")
	}
}
