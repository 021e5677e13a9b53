// Package lidarclass labels whatever is in front of the vehicle from a
// single lidar range image.
package lidarclass

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

type Detection string

const (
	DetectionNone       Detection = "none"
	DetectionPedestrian Detection = "pedestrian"
	DetectionCar        Detection = "car"
)

// Summary describes one classified scan. Lasers is the number of
// samples that actually returned (finite ranges); MinRange is +Inf and
// MeanRange is NaN when nothing returned.
type Summary struct {
	Lasers    int
	MinRange  float64
	MeanRange float64
	Detection Detection
}

// Classify labels a range image by its finite sample count: no returns
// means nothing ahead, fewer than pedestrianMaxLasers means a
// pedestrian-sized target, anything wider is a car. The result depends
// only on the counts and extrema, never on sample order.
func Classify(ranges []float64, pedestrianMaxLasers int) Summary {
	finite := make([]float64, 0, len(ranges))
	minRange := math.Inf(1)
	for _, r := range ranges {
		if math.IsInf(r, 0) || math.IsNaN(r) {
			continue
		}
		finite = append(finite, r)
		if r < minRange {
			minRange = r
		}
	}

	summary := Summary{
		Lasers:    len(finite),
		MinRange:  minRange,
		MeanRange: stat.Mean(finite, nil),
	}

	switch {
	case summary.Lasers == 0:
		summary.Detection = DetectionNone
	case summary.Lasers < pedestrianMaxLasers:
		summary.Detection = DetectionPedestrian
	default:
		summary.Detection = DetectionCar
	}
	return summary
}
