package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSXMirrorsCSVTable(t *testing.T) {
	run, labels := testRun(t)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, run, labels))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(rosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, "Team", rows[0][1])
	assert.Equal(t, "01-09-2025", rows[0][2])
	assert.Equal(t, "Alice", rows[1][0])
	assert.Equal(t, "Early", rows[1][2])
	assert.Equal(t, "Bob", rows[2][0])
}
