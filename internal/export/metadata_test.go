package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosterhound/internal/roster"
)

func TestBuildMetadata(t *testing.T) {
	run, _ := testRun(t)
	run.WeeksProcessed = 1
	variants := roster.Canonicalize(run.Signatures())
	now := time.Date(2025, 9, 8, 12, 0, 0, 0, time.UTC)

	m := BuildMetadata(run, variants, now)

	assert.Equal(t, run.ID, m.RunID)
	assert.Equal(t, "01-09-2025", m.RangeStart)
	assert.Equal(t, "07-09-2025", m.RangeEnd)
	assert.Equal(t, 2, m.StaffCount)
	assert.Equal(t, 2, m.ShiftTypeCount)
	require.Len(t, m.ShiftTypes, 2)

	// Sorted ascending by canonical label.
	for i := 1; i < len(m.ShiftTypes); i++ {
		assert.LessOrEqual(t, m.ShiftTypes[i-1].CanonicalLabel, m.ShiftTypes[i].CanonicalLabel)
	}
}

func TestWriteMetadataRoundTrip(t *testing.T) {
	run, _ := testRun(t)
	variants := roster.Canonicalize(run.Signatures())
	m := BuildMetadata(run, variants, time.Now())

	var sb strings.Builder
	require.NoError(t, WriteMetadata(&sb, m))

	var decoded Metadata
	require.NoError(t, json.Unmarshal([]byte(sb.String()), &decoded))
	assert.Equal(t, m.RunID, decoded.RunID)
	assert.Equal(t, m.ShiftTypeCount, decoded.ShiftTypeCount)
}

func TestCrossesMidnight(t *testing.T) {
	tests := []struct {
		start, end string
		want       bool
	}{
		{"22:00", "06:00", true},
		{"07:00", "15:00", false},
		{"00:00", "00:00", false},
		{"", "06:00", false}, // unknown window never flags
		{"22:00", "", false},
	}
	for _, tc := range tests {
		if got := crossesMidnight(tc.start, tc.end); got != tc.want {
			t.Errorf("crossesMidnight(%q, %q) = %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestShiftTypeMetaCarriesWindowAndFrequency(t *testing.T) {
	run, _ := testRun(t)
	variants := roster.Canonicalize(run.Signatures())
	m := BuildMetadata(run, variants, time.Now())

	var early *ShiftTypeMeta
	for i := range m.ShiftTypes {
		if m.ShiftTypes[i].Title == "Early" {
			early = &m.ShiftTypes[i]
		}
	}
	require.NotNil(t, early)
	assert.Equal(t, "07:00", early.StartTime)
	assert.Equal(t, "15:00", early.EndTime)
	assert.Equal(t, 1, early.Frequency)
	assert.Equal(t, "Early", early.FullTitle, "missing full title defaults to title")
}
