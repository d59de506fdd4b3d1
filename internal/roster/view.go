package roster

import (
	"context"
	"time"
)

// Readiness is the load-progress snapshot the view reports while a navigated
// week is still rendering.
type Readiness struct {
	ItemCount            int
	ResourceCount        int
	SectionHeaderPresent bool
}

// View is the external scheduler surface. Exactly one live view exists per
// run; navigation mutates shared session state, so callers must never drive
// two anchors concurrently.
type View interface {
	// Resources lists the staff rows currently rendered, with their teams.
	Resources(ctx context.Context) ([]Resource, error)

	// Events lists the raw shift events currently rendered.
	Events(ctx context.Context) ([]RawShiftEvent, error)

	// CurrentWeek returns the Monday of the week the view displays now.
	CurrentWeek(ctx context.Context) (time.Time, error)

	// NavigateTo asks the view to display the week of the given Monday.
	// Fire-and-continue: completion is observed only through Snapshot.
	NavigateTo(ctx context.Context, anchor time.Time) error

	// Snapshot reports the readiness of the currently rendering week.
	Snapshot(ctx context.Context) (Readiness, error)
}
