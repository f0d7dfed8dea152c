package ingestion

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ProfileStructured extracts column headers and a data row count from a
// structured file. CSV and spreadsheet formats yield a real profile;
// json and xml files are cataloged without one since they carry no fixed
// tabular schema.
func ProfileStructured(file ClassifiedFile, data []byte) (*Profile, error) {
	switch file.Extension {
	case "csv":
		return profileCSV(data)
	case "xlsx", "xls":
		return profileSpreadsheet(data)
	case "json", "xml":
		return &Profile{}, nil
	default:
		return nil, fmt.Errorf("%w: no profiler for .%s", ErrProfileFailed, file.Extension)
	}
}

func profileCSV(data []byte) (*Profile, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("%w: read csv header: %v", ErrProfileFailed, err)
	}

	rows := 0
	for {
		_, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read csv row %d: %v", ErrProfileFailed, rows+1, err)
		}
		rows++
	}

	return &Profile{
		ColumnHeaders: trimHeaders(headers),
		RowCount:      rows,
	}, nil
}

func profileSpreadsheet(data []byte) (*Profile, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open spreadsheet: %v", ErrProfileFailed, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return &Profile{}, nil
	}

	// Only the first sheet is profiled.
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", ErrProfileFailed, sheets[0], err)
	}
	if len(rows) == 0 {
		return &Profile{}, nil
	}

	return &Profile{
		ColumnHeaders: trimHeaders(rows[0]),
		RowCount:      len(rows) - 1,
	}, nil
}

func trimHeaders(headers []string) []string {
	trimmed := make([]string, 0, len(headers))
	for _, h := range headers {
		trimmed = append(trimmed, strings.TrimSpace(h))
	}
	return trimmed
}
