package core

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

// UploadedFile is an immutable upload: name, lowercased extension, and bytes.
type UploadedFile struct {
	Filename  string
	Extension string
	Data      []byte
	Size      int64
}

// NewUploadedFile captures a file as uploaded. The extension is derived
// from the name and lowercased.
func NewUploadedFile(filename string, data []byte) UploadedFile {
	return UploadedFile{
		Filename:  filename,
		Extension: strings.ToLower(filepath.Ext(filename)),
		Data:      data,
		Size:      int64(len(data)),
	}
}

// Supported reports whether the extension has a loader.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ExtCSV, ExtXLSX:
		return true
	}
	return false
}

// Load parses an uploaded file into a Table, dispatching on extension.
func Load(file UploadedFile) (*Table, error) {
	ext := strings.ToLower(file.Extension)
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(file.Filename))
	}

	switch ext {
	case ExtCSV:
		return loadCSV(file.Filename, bytes.NewReader(file.Data))
	case ExtXLSX:
		return loadXLSX(file.Filename, bytes.NewReader(file.Data))
	default:
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, file.Filename, displayExt(ext))
	}
}

func displayExt(ext string) string {
	if ext == "" {
		return "no extension"
	}
	return ext
}

func loadCSV(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(WrapForDecoding(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		line := 0
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			line = pe.Line
			err = pe.Err
		}
		return nil, &ParseError{Filename: name, Format: "csv", Line: line, Err: err}
	}
	if len(records) == 0 {
		return nil, &ParseError{Filename: name, Format: "csv", Err: ErrEmptyFile}
	}

	return buildTable(name, "csv", records)
}

func loadXLSX(name string, r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Filename: name, Format: "xlsx", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Filename: name, Format: "xlsx", Err: errors.New("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Filename: name, Format: "xlsx", Err: fmt.Errorf("sheet %q: %w", sheets[0], err)}
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		records = append(records, row)
	}
	if len(records) == 0 {
		return nil, &ParseError{Filename: name, Format: "xlsx", Err: ErrEmptyFile}
	}

	return buildTable(name, "xlsx", records)
}

// buildTable turns records (header first) into a Table.
func buildTable(name, format string, records [][]string) (*Table, error) {
	header := normalizeHeader(records[0])
	rows, bad := buildRows(records[1:], len(header))
	if bad > 0 {
		// +1 for the header record
		return nil, &ParseError{
			Filename: name,
			Format:   format,
			Line:     bad + 1,
			Err:      fmt.Errorf("expected %d fields, saw %d", len(header), len(records[bad])),
		}
	}
	t, err := NewTable(header, rows)
	if err != nil {
		return nil, &ParseError{Filename: name, Format: format, Err: err}
	}
	return t, nil
}
