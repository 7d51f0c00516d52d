package export

import (
	"fmt"
	"strings"
)

// Dataset defines tabular export content. Every row carries one cell per header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Format names a rendering of a dataset.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatPDF   Format = "pdf"
	FormatTable Format = "table"
)

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatCSV, FormatPDF, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", raw)
	}
}

// Renderer turns a dataset into bytes.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
}

// RendererFor returns the renderer of the given format.
func RendererFor(format Format) (Renderer, error) {
	switch format {
	case FormatCSV:
		return NewCSVExporter(), nil
	case FormatPDF:
		return NewPDFExporter(), nil
	case FormatTable:
		return NewTableExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

func (d Dataset) check(kind string) error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("%s requires at least one header", kind)
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("%s row %d has %d cells, want %d", kind, i+1, len(row), len(d.Headers))
		}
	}
	return nil
}
