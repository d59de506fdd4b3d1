package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"rosterhound/internal/roster"
)

const rosterSheet = "Roster"

// WriteXLSX writes the same table as WriteCSV into a single-sheet workbook.
func WriteXLSX(w io.Writer, run *roster.Run, labels map[roster.VariantSignature]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), rosterSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	days := run.Range.Days()
	header := make([]interface{}, 0, len(days)+2)
	header = append(header, "Name", "Team")
	for _, d := range days {
		header = append(header, d.Format(roster.ExportDateLayout))
	}
	if err := f.SetSheetRow(rosterSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range run.Records() {
		row := make([]interface{}, 0, len(days)+2)
		row = append(row, rec.Key.Name, rec.Key.Team)
		for _, d := range days {
			cell := ""
			if a, ok := rec.Days[d]; ok {
				cell = displayLabel(a, labels)
			}
			row = append(row, cell)
		}
		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(rosterSheet, anchor, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
