package dataset

import (
	"fmt"
)

// Grouping selects whether both hotels are modelled jointly or one model is fit per hotel
type Grouping string

const (
	GroupingCombined Grouping = "combined"
	GroupingPerHotel Grouping = "per_hotel"
)

// CombinedGroup is the name of the single group holding every row
const CombinedGroup = "combined"

// Group is a named partition of the dataset rows
type Group struct {
	Name  string
	Index []int
}

// Groups partitions the rows of the dataset. Per hotel groups are ordered by first
// appearance of the hotel.
func (d *Dataset) Groups(mode Grouping) ([]Group, error) {
	switch mode {
	case GroupingCombined, "":
		idx := make([]int, d.Len())
		for i := range idx {
			idx[i] = i
		}
		return []Group{{Name: CombinedGroup, Index: idx}}, nil
	case GroupingPerHotel:
		var groups []Group
		pos := make(map[string]int)
		for i, day := range d.Table.Days {
			g, exists := pos[day.Hotel]
			if !exists {
				g = len(groups)
				pos[day.Hotel] = g
				groups = append(groups, Group{Name: day.Hotel})
			}
			groups[g].Index = append(groups[g].Index, i)
		}
		return groups, nil
	}
	return nil, fmt.Errorf("%q, %w", mode, ErrUnknownGrouping)
}
