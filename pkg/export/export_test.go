package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Dataset {
	return Dataset{
		Title:   "Enrollments",
		Headers: []string{"ID", "Student"},
		Rows: [][]string{
			{"1", "Ana García"},
			{"2", "Luis, Pérez"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"csv": FormatCSV, " PDF ": FormatPDF, "Table": FormatTable} {
		got, err := ParseFormat(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sample())
	require.NoError(t, err)
	assert.Equal(t, "ID,Student\n1,Ana García\n2,\"Luis, Pérez\"\n", string(out))
}

func TestRenderersRejectMissingHeaders(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatPDF, FormatTable} {
		r, err := RendererFor(format)
		require.NoError(t, err)
		_, err = r.Render(Dataset{})
		assert.Error(t, err, format)
	}
}

func TestRenderersRejectRaggedRows(t *testing.T) {
	data := sample()
	data.Rows = append(data.Rows, []string{"3"})
	_, err := NewCSVExporter().Render(data)
	assert.ErrorContains(t, err, "row 3")
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sample())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestTableExporterRender(t *testing.T) {
	out, err := NewTableExporter().Render(sample())
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "Enrollments\n")
	assert.Contains(t, text, "Student")
	assert.Contains(t, text, "Luis, Pérez")
}
