package export

import (
	"bytes"

	"github.com/olekukonko/tablewriter"
)

// TableExporter renders datasets as bordered plain-text tables.
type TableExporter struct{}

// NewTableExporter constructs a text table exporter.
func NewTableExporter() *TableExporter {
	return &TableExporter{}
}

// Render writes the title line, if any, followed by the table.
func (e *TableExporter) Render(data Dataset) ([]byte, error) {
	if err := data.check("table"); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if data.Title != "" {
		buf.WriteString(data.Title)
		buf.WriteByte('\n')
	}
	table := tablewriter.NewWriter(buf)
	table.SetHeader(data.Headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(data.Rows)
	table.Render()
	return buf.Bytes(), nil
}
