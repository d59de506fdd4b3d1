// Package export serializes a completed extraction run into its output
// documents: the tabular roster (CSV, optionally XLSX) and the run metadata
// (JSON).
package export

import (
	"fmt"
	"io"
	"strings"

	"rosterhound/internal/roster"
)

// BaseName derives the shared output file base from the requested range,
// e.g. "roster_01-09-2025_28-09-2025".
func BaseName(r roster.DateRange) string {
	return "roster_" + r.String()
}

// WriteCSV writes the tabular export: a Name,Team header followed by every
// date in the range ascending, then one row per staff sorted by (team,
// name). Data fields are always quoted; a day with no resolved assignment
// is an empty quoted field. Day cells carry the canonical label for the
// assignment's signature.
func WriteCSV(w io.Writer, run *roster.Run, labels map[roster.VariantSignature]string) error {
	days := run.Range.Days()

	header := make([]string, 0, len(days)+2)
	header = append(header, "Name", "Team")
	for _, d := range days {
		header = append(header, d.Format(roster.ExportDateLayout))
	}
	if _, err := io.WriteString(w, strings.Join(header, ",")+"\n"); err != nil {
		return err
	}

	for _, rec := range run.Records() {
		row := make([]string, 0, len(days)+2)
		row = append(row, quote(rec.Key.Name), quote(rec.Key.Team))
		for _, d := range days {
			cell := ""
			if a, ok := rec.Days[d]; ok {
				cell = displayLabel(a, labels)
			}
			row = append(row, quote(cell))
		}
		if _, err := io.WriteString(w, strings.Join(row, ",")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// quote wraps a field in double quotes unconditionally, doubling any quotes
// inside it. encoding/csv only quotes when forced, and this format requires
// empty cells to render as "" too.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func displayLabel(a roster.Assignment, labels map[roster.VariantSignature]string) string {
	if l, ok := labels[a.Signature]; ok {
		return l
	}
	return a.Label
}

// Summary is the one-line completion notification for the user.
func Summary(run *roster.Run, shiftTypes int) string {
	return fmt.Sprintf("Extracted %d staff across %d weeks (%d shift types)",
		run.StaffCount(), run.WeeksProcessed, shiftTypes)
}
