package export

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"rosterhound/internal/roster"
)

// Metadata is the companion JSON document describing one extraction run.
type Metadata struct {
	RunID          string          `json:"runId"`
	ExtractedAt    time.Time       `json:"extractedAt"`
	RangeStart     string          `json:"rangeStart"`
	RangeEnd       string          `json:"rangeEnd"`
	StaffCount     int             `json:"staffCount"`
	WeeksProcessed int             `json:"weeksProcessed"`
	ShiftTypeCount int             `json:"shiftTypeCount"`
	ShiftTypes     []ShiftTypeMeta `json:"shiftTypes"`
	Warnings       []string        `json:"warnings,omitempty"`
}

// ShiftTypeMeta describes one canonical shift type.
type ShiftTypeMeta struct {
	Title           string `json:"title"`
	FullTitle       string `json:"fullTitle"`
	StartTime       string `json:"startTime,omitempty"`
	EndTime         string `json:"endTime,omitempty"`
	CanonicalLabel  string `json:"canonicalLabel"`
	Frequency       int    `json:"frequency"`
	CrossesMidnight bool   `json:"crossesMidnight"`
}

// BuildMetadata assembles the metadata document from a run and its
// canonicalized shift types, sorted ascending by canonical label.
func BuildMetadata(run *roster.Run, variants []roster.CanonicalVariant, now time.Time) Metadata {
	types := make([]ShiftTypeMeta, 0, len(variants))
	for _, v := range variants {
		types = append(types, ShiftTypeMeta{
			Title:           v.Sig.Title,
			FullTitle:       v.Sig.FullTitle,
			StartTime:       v.Sig.StartTime,
			EndTime:         v.Sig.EndTime,
			CanonicalLabel:  v.Label,
			Frequency:       v.Frequency,
			CrossesMidnight: crossesMidnight(v.Sig.StartTime, v.Sig.EndTime),
		})
	}
	sort.Slice(types, func(i, j int) bool { return types[i].CanonicalLabel < types[j].CanonicalLabel })

	return Metadata{
		RunID:          run.ID,
		ExtractedAt:    now,
		RangeStart:     run.Range.Start.Format(roster.ExportDateLayout),
		RangeEnd:       run.Range.End.Format(roster.ExportDateLayout),
		StaffCount:     run.StaffCount(),
		WeeksProcessed: run.WeeksProcessed,
		ShiftTypeCount: len(types),
		ShiftTypes:     types,
		Warnings:       run.Warnings,
	}
}

// WriteMetadata renders the metadata document as indented JSON.
func WriteMetadata(w io.Writer, m Metadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// crossesMidnight reports whether a shift's time window wraps past midnight:
// the end hour is numerically less than the start hour.
func crossesMidnight(start, end string) bool {
	sh, ok1 := hourOf(start)
	eh, ok2 := hourOf(end)
	return ok1 && ok2 && eh < sh
}

func hourOf(hhmm string) (int, bool) {
	h, _, found := strings.Cut(hhmm, ":")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(h)
	if err != nil || n < 0 || n > 23 {
		return 0, false
	}
	return n, true
}
