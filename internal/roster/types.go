// Package roster implements the extraction pipeline: planning which weeks a
// date range spans, synchronizing with the live scheduler view, merging raw
// shift events into one resolved label per staff per day, and canonicalizing
// near-duplicate shift-type variants into stable display names.
package roster

import (
	"fmt"
	"strings"
	"time"
)

// InputDateLayout is the layout the user supplies dates in.
const InputDateLayout = "02/01/2006"

// ExportDateLayout is the layout dates are rendered with in exports.
const ExportDateLayout = "02-01-2006"

// DateRange is an inclusive calendar date range, times stripped.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDate parses a DD/MM/YYYY date string into a UTC-midnight date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &InputError{Reason: "date is required"}
	}
	t, err := time.ParseInLocation(InputDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, &InputError{Reason: fmt.Sprintf("invalid date %q, expected DD/MM/YYYY", s)}
	}
	return t, nil
}

// NewDateRange validates start <= end and returns the range.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = DayOf(start)
	end = DayOf(end)
	if start.After(end) {
		return DateRange{}, &InputError{Reason: "start date must not be after end date"}
	}
	return DateRange{Start: start, End: end}, nil
}

// Contains reports whether d (truncated to a day) lies within the range.
func (r DateRange) Contains(d time.Time) bool {
	d = DayOf(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns every calendar day in the range, ascending.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (r DateRange) String() string {
	return r.Start.Format(ExportDateLayout) + "_" + r.End.Format(ExportDateLayout)
}

// DayOf strips the time-of-day, normalizing to UTC midnight.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MondayOf returns the Monday of the week containing d.
func MondayOf(d time.Time) time.Time {
	d = DayOf(d)
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday belongs to the preceding Monday's week
	}
	return d.AddDate(0, 0, -offset)
}

// Resource is one staff row as reported by the view for the current week.
type Resource struct {
	ID   string
	Name string
	Team string
}

// RawShiftEvent is a single scheduler event for one staff member. It may span
// multiple days and lives only during extraction of one week.
type RawShiftEvent struct {
	PersonID    string
	Title       string
	FullTitle   string
	StartTime   string // HH:MM, empty when the view omits it
	EndTime     string
	IsEffective bool
	SpanStart   time.Time
	SpanEnd     time.Time
}

// EffectiveDays expands the event's span into calendar days. An end at
// midnight strictly after the start means the last effective day is the day
// before the end date; any other end is inclusive as given.
func (e RawShiftEvent) EffectiveDays() []time.Time {
	start := DayOf(e.SpanStart)
	end := e.SpanEnd
	if end.IsZero() {
		end = e.SpanStart
	}
	if end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 && end.After(e.SpanStart) {
		end = end.AddDate(0, 0, -1)
	}
	end = DayOf(end)
	if end.Before(start) {
		end = start
	}
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Signature returns the identity tuple distinguishing this event's flavor.
// A missing full title defaults to the title so downstream consumers never
// see an empty one.
func (e RawShiftEvent) Signature() VariantSignature {
	full := e.FullTitle
	if full == "" {
		full = e.Title
	}
	return VariantSignature{
		Title:     e.Title,
		FullTitle: full,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
	}
}

// StaffKey identifies a roster row for the lifetime of a run.
type StaffKey struct {
	Name string
	Team string
}

func (k StaffKey) String() string { return k.Name + "|" + k.Team }

// Assignment is the resolved label for one staff member on one day.
type Assignment struct {
	Label     string
	Signature VariantSignature
}

// StaffRecord accumulates resolved assignments per day. A day's entry is
// written at most once; later passes over overlapping weeks never overwrite.
type StaffRecord struct {
	Key  StaffKey
	Days map[time.Time]Assignment
}

// VariantSignature identifies a distinct raw shift flavor.
type VariantSignature struct {
	Title     string
	FullTitle string
	StartTime string
	EndTime   string
}

// SignatureStats tracks how often a signature was used across the whole run.
type SignatureStats struct {
	Sig   VariantSignature
	Count int
}
