package roster

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CombinedLabelSeparator joins the titles of multiple same-day events.
const CombinedLabelSeparator = " / "

// UnknownTeam is the fallback team label when the view reports none.
const UnknownTeam = "Unknown Team"

// Run is the run-scoped accumulator: staff records, the signature frequency
// table, and warnings. It is owned exclusively by one extraction run and is
// never shared across goroutines.
type Run struct {
	ID    string
	Range DateRange

	staff map[StaffKey]*StaffRecord
	sigs  map[VariantSignature]*SignatureStats

	Warnings       []string
	WeeksProcessed int

	log *zap.Logger
}

// NewRun creates the accumulator for one extraction run.
func NewRun(r DateRange, log *zap.Logger) *Run {
	if log == nil {
		log = zap.NewNop()
	}
	return &Run{
		ID:    uuid.NewString(),
		Range: r,
		staff: make(map[StaffKey]*StaffRecord),
		sigs:  make(map[VariantSignature]*SignatureStats),
		log:   log,
	}
}

// Warn records a non-fatal problem for the end-of-run report.
func (r *Run) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
	r.log.Warn(msg)
}

// StaffCount returns the number of roster rows collected so far.
func (r *Run) StaffCount() int { return len(r.staff) }

// Records returns staff records sorted ascending by (team, name).
func (r *Run) Records() []*StaffRecord {
	out := make([]*StaffRecord, 0, len(r.staff))
	for _, rec := range r.staff {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Team != out[j].Key.Team {
			return out[i].Key.Team < out[j].Key.Team
		}
		return out[i].Key.Name < out[j].Key.Name
	})
	return out
}

// Signatures returns the frequency table for canonicalization.
func (r *Run) Signatures() []SignatureStats {
	out := make([]SignatureStats, 0, len(r.sigs))
	for _, s := range r.sigs {
		out = append(out, *s)
	}
	return out
}

// IngestWeek merges one stabilized week's resources and events into the run.
// Returns the number of (staff, day) slots newly written.
//
// Writes are first-write-wins: re-visiting a week, or overlapping weeks at
// range boundaries, never changes an already-resolved day.
func (r *Run) IngestWeek(resources []Resource, events []RawShiftEvent) int {
	byPerson := make(map[string]StaffKey, len(resources))
	for _, res := range resources {
		key := StaffKey{Name: res.Name, Team: res.Team}
		if key.Team == "" {
			key.Team = UnknownTeam
		}
		if key.Name == "" {
			continue
		}
		byPerson[res.ID] = key
		if _, ok := r.staff[key]; !ok {
			r.staff[key] = &StaffRecord{Key: key, Days: make(map[time.Time]Assignment)}
		}
	}

	// Bucket events per staff per day, preserving discovery order.
	type dayBucket struct {
		key    StaffKey
		day    time.Time
		events []RawShiftEvent
	}
	buckets := make(map[StaffKey]map[time.Time]*dayBucket)
	var order []*dayBucket

	for _, ev := range events {
		key, ok := byPerson[ev.PersonID]
		if !ok {
			r.log.Debug("event for unknown resource, skipping", zap.String("person", ev.PersonID), zap.String("title", ev.Title))
			continue
		}
		for _, day := range ev.EffectiveDays() {
			if !r.Range.Contains(day) {
				continue
			}
			days := buckets[key]
			if days == nil {
				days = make(map[time.Time]*dayBucket)
				buckets[key] = days
			}
			b := days[day]
			if b == nil {
				b = &dayBucket{key: key, day: day}
				days[day] = b
				order = append(order, b)
			}
			b.events = append(b.events, ev)
		}
	}

	written := 0
	for _, b := range order {
		rec := r.staff[b.key]
		if _, taken := rec.Days[b.day]; taken {
			continue
		}
		a := resolveDay(b.events)
		rec.Days[b.day] = a
		r.tally(a.Signature)
		written++
	}
	return written
}

// resolveDay collapses a day's bucket into one assignment. Effective events
// take precedence: when at least one exists, non-effective ones are dropped.
func resolveDay(events []RawShiftEvent) Assignment {
	var effective []RawShiftEvent
	for _, ev := range events {
		if ev.IsEffective {
			effective = append(effective, ev)
		}
	}
	if len(effective) > 0 {
		events = effective
	}

	if len(events) == 1 {
		return Assignment{Label: events[0].Title, Signature: events[0].Signature()}
	}

	titles := make([]string, len(events))
	fulls := make([]string, len(events))
	for i, ev := range events {
		titles[i] = ev.Title
		fulls[i] = ev.Signature().FullTitle
	}
	label := strings.Join(titles, CombinedLabelSeparator)
	return Assignment{
		Label: label,
		Signature: VariantSignature{
			Title:     label,
			FullTitle: strings.Join(fulls, CombinedLabelSeparator),
			StartTime: events[0].StartTime,
			EndTime:   events[len(events)-1].EndTime,
		},
	}
}

func (r *Run) tally(sig VariantSignature) {
	if s, ok := r.sigs[sig]; ok {
		s.Count++
		return
	}
	r.sigs[sig] = &SignatureStats{Sig: sig, Count: 1}
}
