package pricefactor

import (
	"fmt"
	"os"

	"github.com/aouyang1/go-pricefactor/simulate"
)

func ExamplePipeline() {
	sources := make([]Source, 0, 2)
	for i, origin := range []string{"Resort", "City"} {
		opt := simulate.NewDefaultOptions()
		opt.Name = origin
		opt.Seed = uint64(i + 1)
		raw, err := simulate.Bookings(2000, opt)
		if err != nil {
			panic(err)
		}
		sources = append(sources, Source{Origin: origin, Raw: raw})
	}

	opt := NewDefaultOptions()
	opt.Grouping = "per_hotel"
	p, err := New(opt)
	if err != nil {
		panic(err)
	}
	res, err := p.Run(sources...)
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "bookings: %d, stay days: %d\n", res.Bookings, res.StayDays)
	for _, g := range res.Groups {
		if err := g.Model.TablePrint(os.Stderr, "", "  "); err != nil {
			panic(err)
		}
	}
}
