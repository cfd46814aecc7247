package booking

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrRowLenMismatch = errors.New("row has a different number of cells than the header")
	ErrEmptyHeader    = errors.New("no header in source table")
)

// MissingTokens are the cell values treated as missing after trimming whitespace
var MissingTokens = []string{"", "NULL", "NA", "NaN", "nan", "null"}

// IsMissing returns true if the cell holds one of the MissingTokens
func IsMissing(v string) bool {
	return slices.Contains(MissingTokens, strings.TrimSpace(v))
}

// IDSet is a set of booking row identifiers
type IDSet map[int]struct{}

// NewIDSet creates a set from the given identifiers
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts an identifier into the set
func (s IDSet) Add(id int) {
	s[id] = struct{}{}
}

// Contains returns true if the identifier is in the set
func (s IDSet) Contains(id int) bool {
	_, exists := s[id]
	return exists
}

// Len returns the number of identifiers in the set
func (s IDSet) Len() int {
	return len(s)
}

// Union returns a new set holding the identifiers of s and all other sets
func (s IDSet) Union(others ...IDSet) IDSet {
	res := make(IDSet, len(s))
	for id := range s {
		res[id] = struct{}{}
	}
	for _, o := range others {
		for id := range o {
			res[id] = struct{}{}
		}
	}
	return res
}

// Sorted returns the identifiers in ascending order
func (s IDSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// RawTable is a source table as loaded from file where every cell is still a string. IDs
// holds the original row position for every row so identifiers stay stable after rows are
// dropped.
type RawTable struct {
	Name   string
	Header []string
	Rows   [][]string
	IDs    []int

	index map[string]int
}

// NewRawTable validates the shape of the rows and assigns each row its position as ID
func NewRawTable(name string, header []string, rows [][]string) (*RawTable, error) {
	if len(header) == 0 {
		return nil, ErrEmptyHeader
	}
	hdr := make([]string, len(header))
	for i, h := range header {
		hdr[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	for i, row := range rows {
		if len(row) != len(hdr) {
			return nil, fmt.Errorf("row %d has %d cells and header has %d, %w", i, len(row), len(hdr), ErrRowLenMismatch)
		}
	}
	ids := make([]int, len(rows))
	for i := range rows {
		ids[i] = i
	}
	t := &RawTable{
		Name:   name,
		Header: hdr,
		Rows:   rows,
		IDs:    ids,
	}
	t.buildIndex()
	return t, nil
}

func (t *RawTable) buildIndex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		t.index[h] = i
	}
}

// Len returns the number of rows
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of a column in the header
func (t *RawTable) ColumnIndex(name string) (int, bool) {
	if t.index == nil {
		t.buildIndex()
	}
	idx, exists := t.index[name]
	return idx, exists
}

// Column returns the raw cells of a column
func (t *RawTable) Column(name string) ([]string, error) {
	idx, exists := t.ColumnIndex(name)
	if !exists {
		return nil, fmt.Errorf("%s in %s, %w", name, t.Name, ErrMissingColumn)
	}
	col := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[idx]
	}
	return col, nil
}

// Float returns a numeric view of a column where any cell that cannot be parsed is NaN
func (t *RawTable) Float(name string) ([]float64, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			v = math.NaN()
		}
		vals[i] = v
	}
	return vals, nil
}

// Drop returns a new table without the rows whose identifiers are in ids. The receiver is
// left untouched.
func (t *RawTable) Drop(ids IDSet) *RawTable {
	rows := make([][]string, 0, len(t.Rows))
	keep := make([]int, 0, len(t.Rows))
	for i, row := range t.Rows {
		if ids.Contains(t.IDs[i]) {
			continue
		}
		rows = append(rows, row)
		keep = append(keep, t.IDs[i])
	}
	res := &RawTable{
		Name:   t.Name,
		Header: t.Header,
		Rows:   rows,
		IDs:    keep,
	}
	res.buildIndex()
	return res
}
