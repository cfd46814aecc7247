package booking

import (
	"fmt"
	"strings"
)

// Normalize casts every cell of the raw table onto a typed Booking and tags each row with
// the origin label. Categorical codes are trimmed of surrounding whitespace. Any cell that
// cannot be cast aborts normalization with an ErrSchema error naming the row and column.
func Normalize(raw *RawTable, origin string) (Table, error) {
	if raw == nil {
		return nil, fmt.Errorf("nil source table, %w", ErrSchema)
	}
	colIdx := make([]int, len(Schema))
	for i, col := range Schema {
		idx, exists := raw.ColumnIndex(col.Name)
		if !exists {
			return nil, fmt.Errorf("%s in %s, %w, %w", col.Name, raw.Name, ErrMissingColumn, ErrSchema)
		}
		colIdx[i] = idx
	}

	label := strings.TrimSpace(origin)
	tbl := make(Table, len(raw.Rows))
	for r, row := range raw.Rows {
		b := &tbl[r]
		b.ID = raw.IDs[r]
		b.Hotel = label
		for i, col := range Schema {
			cell := row[colIdx[i]]
			if err := col.set(b, cell); err != nil {
				return nil, fmt.Errorf(
					"unable to cast %s row %d column %s value %q to %s, %v, %w",
					raw.Name, b.ID, col.Name, cell, col.Kind, err, ErrSchema,
				)
			}
		}
	}
	return tbl, nil
}

// Combine concatenates tables preserving the row order within each table and appending each
// table after the previous one.
func Combine(tables ...Table) Table {
	var n int
	for _, t := range tables {
		n += len(t)
	}
	res := make(Table, 0, n)
	for _, t := range tables {
		res = append(res, t...)
	}
	return res
}

// Hotels returns the distinct origin labels in order of first appearance
func (t Table) Hotels() []string {
	seen := make(map[string]struct{})
	var hotels []string
	for _, b := range t {
		if _, exists := seen[b.Hotel]; exists {
			continue
		}
		seen[b.Hotel] = struct{}{}
		hotels = append(hotels, b.Hotel)
	}
	return hotels
}
