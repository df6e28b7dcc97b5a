package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExportFormat is a target serialization.
type ExportFormat string

const (
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
)

const (
	MIMECSV   = "text/csv"
	MIMEExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// ExcelSheet is the name of the single exported sheet.
	ExcelSheet = "Sheet1"
)

// ParseExportFormat accepts "csv", "excel" or "xlsx" in any case.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidFormat, s)
}

// Extension returns the file extension for the format.
func (f ExportFormat) Extension() string {
	if f == FormatExcel {
		return ExtXLSX
	}
	return ExtCSV
}

// MIMEType returns the content type for the format.
func (f ExportFormat) MIMEType() string {
	if f == FormatExcel {
		return MIMEExcel
	}
	return MIMECSV
}

// ExportArtifact is a serialized table ready for download.
type ExportArtifact struct {
	Data     []byte
	Filename string
	MIMEType string
}

// Export serializes t without an index column.
func Export(t *Table, format ExportFormat, originalFilename, originalExtension string) (ExportArtifact, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatCSV:
		data, err = encodeCSV(t)
	case FormatExcel:
		data, err = encodeXLSX(t)
	default:
		return ExportArtifact{}, fmt.Errorf("%w %q", ErrInvalidFormat, string(format))
	}
	if err != nil {
		return ExportArtifact{}, fmt.Errorf("export %s: %w", format, err)
	}

	return ExportArtifact{
		Data:     data,
		Filename: OutputFilename(originalFilename, originalExtension, format.Extension()),
		MIMEType: format.MIMEType(),
	}, nil
}

// OutputFilename swaps the trailing oldExt of name for newExt. Only a final
// suffix is replaced, so "data.csv.backup.csv" becomes
// "data.csv.backup.xlsx". When name does not end in oldExt, newExt is
// appended.
func OutputFilename(name, oldExt, newExt string) string {
	if oldExt != "" && len(name) >= len(oldExt) &&
		strings.EqualFold(name[len(name)-len(oldExt):], oldExt) {
		return name[:len(name)-len(oldExt)] + newExt
	}
	return name + newExt
}

func encodeCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns()); err != nil {
		return nil, err
	}

	record := make([]string, t.NumCols())
	for _, row := range t.rows {
		for c, v := range row {
			record[c] = v.String()
		}
		// A lone empty field would otherwise be written as a blank line,
		// which readers skip.
		if len(record) == 1 && record[0] == "" {
			w.Flush()
			buf.WriteString("\"\"\n")
			continue
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeXLSX(t *Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(ExcelSheet)
	if err != nil {
		return nil, err
	}

	header := make([]interface{}, t.NumCols())
	for i, name := range t.columns {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}

	for r, row := range t.rows {
		cells := make([]interface{}, len(row))
		for c, v := range row {
			switch v.Kind {
			case KindNumber:
				cells[c] = v.Num
			case KindText:
				cells[c] = v.Text
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return nil, err
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
