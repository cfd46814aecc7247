package dataset

import (
	"github.com/aouyang1/go-pricefactor/booking"
	"github.com/aouyang1/go-pricefactor/feature"
	"gonum.org/v1/gonum/mat"
)

// PriceFactorFeatures returns the ordered inputs of the price factor formula. The position of
// each feature is the position of its weight.
func PriceFactorFeatures() []feature.Feature {
	return []feature.Feature{
		feature.NewNumeric(booking.ColAdults),
		feature.NewNumeric(booking.ColChildren),
		feature.NewNumeric(booking.ColTotalOfSpecialRequests),
		feature.NewIndicator(ColIsHoliday),
		feature.NewIndicator(ColIsNearHoliday),
		feature.NewIndicator(ColIsLowSeason),
		feature.NewIndicator(ColIsHighSeason),
		feature.NewIndicator(ColIsLastMinute),
		feature.NewIndicator(ColShortLeadTime),
		feature.NewIndicator(ColLongLeadTime),
		feature.NewIndicator(ColIsPremiumRoom),
	}
}

// Indicators returns the price factor features of every observation as a matrix
func (d *Dataset) Indicators() (*mat.Dense, error) {
	return d.Features.Columns(PriceFactorFeatures()...)
}
