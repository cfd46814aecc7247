package booking

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrNoSheet           = errors.New("no sheet in workbook")
	ErrUnknownFileFormat = errors.New("unknown source file format")
)

// ReadCSV loads a comma separated source table whose first record is the header
func ReadCSV(name string, r io.Reader) (*RawTable, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read csv %s, %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s, %w", name, ErrEmptyHeader)
	}
	return NewRawTable(name, records[0], records[1:])
}

// ReadXLSX loads a source table from a workbook sheet. If sheet is empty the first sheet is
// used. Short rows are padded since trailing empty cells are not stored in the workbook.
func ReadXLSX(name, path, sheet string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open workbook %s, %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s, %w", path, ErrNoSheet)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet %s of %s, %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s, %w", name, ErrEmptyHeader)
	}
	header := rows[0]
	body := rows[1:]
	for i, row := range body {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			body[i] = padded
		}
	}
	return NewRawTable(name, header, body)
}

// ReadFile loads a source table picking the reader from the file extension
func ReadFile(name, path string) (*RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(name, f)
	case ".xlsx":
		return ReadXLSX(name, path, "")
	}
	return nil, fmt.Errorf("%s, %w", path, ErrUnknownFileFormat)
}
