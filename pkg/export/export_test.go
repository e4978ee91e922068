package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Personnel Roster",
		Headers: []string{"Army ID", "Name", "Points"},
		Rows: [][]string{
			{"A-1", "Jäger, Max", "1183"},
			{"A-2", "Müller, Anna", "0"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Army ID,Name,Points\nA-1,\"Jäger, Max\",1183\nA-2,\"Müller, Anna\",0\n", string(out))
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	data := sampleDataset()
	data.Rows = append(data.Rows, []string{"only-one"})

	for _, f := range []Format{FormatCSV, FormatPDF, FormatXLSX} {
		r, err := RendererFor(f)
		require.NoError(t, err)
		_, err = r.Render(data)
		assert.Error(t, err, f)
	}
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.ErrorIs(t, err, errNoHeaders)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Personnel Roster", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Army ID", header)

	name, err := f.GetCellValue("Personnel Roster", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Jäger, Max", name)

	points, err := f.GetCellValue("Personnel Roster", "C2")
	require.NoError(t, err)
	assert.Equal(t, "1183", points)
}

func TestSheetNameTruncates(t *testing.T) {
	assert.Equal(t, "Entries 20240101", sheetName("Entries 2024/01/01"))
	assert.Len(t, []rune(sheetName("a very long workbook title that keeps going")), 31)
}
