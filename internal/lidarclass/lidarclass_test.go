package lidarclass

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func scanOf(count int, value float64) []float64 {
	ranges := make([]float64, count)
	for i := range ranges {
		ranges[i] = value
	}
	return ranges
}

func TestClassify(t *testing.T) {
	tests := map[string]struct {
		ranges   []float64
		expected Detection
	}{
		"empty scan":          {nil, DetectionNone},
		"all infinite":        {scanOf(512, math.Inf(1)), DetectionNone},
		"single return":       {scanOf(1, 4.2), DetectionPedestrian},
		"just under cutoff":   {scanOf(149, 4.2), DetectionPedestrian},
		"at cutoff":           {scanOf(150, 4.2), DetectionCar},
		"wide target":         {scanOf(400, 4.2), DetectionCar},
		"negative infHidden":  {append(scanOf(10, 3.0), math.Inf(-1)), DetectionPedestrian},
		"nan samples ignored": {append(scanOf(10, 3.0), math.NaN()), DetectionPedestrian},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, Classify(test.ranges, 150).Detection)
		})
	}
}

func TestClassifySummary(t *testing.T) {
	summary := Classify([]float64{5.0, math.Inf(1), 3.0, 7.0, math.NaN()}, 150)
	assert.Equal(t, 3, summary.Lasers)
	assert.InDelta(t, 3.0, summary.MinRange, 0.000001)
	assert.InDelta(t, 5.0, summary.MeanRange, 0.000001)
	assert.Equal(t, DetectionPedestrian, summary.Detection)
}

func TestClassifyEmptyExtrema(t *testing.T) {
	summary := Classify(scanOf(64, math.Inf(1)), 150)
	assert.Equal(t, 0, summary.Lasers)
	assert.True(t, math.IsInf(summary.MinRange, 1))
	assert.True(t, math.IsNaN(summary.MeanRange))
}

func TestClassifyOrderIndependent(t *testing.T) {
	forward := []float64{1.0, 2.0, math.Inf(1), 3.0, 4.0, 5.0}
	reversed := []float64{5.0, 4.0, 3.0, math.Inf(1), 2.0, 1.0}

	a := Classify(forward, 3)
	b := Classify(reversed, 3)
	assert.Equal(t, a.Detection, b.Detection)
	assert.Equal(t, a.Lasers, b.Lasers)
	assert.Equal(t, a.MinRange, b.MinRange)
	assert.InDelta(t, a.MeanRange, b.MeanRange, 0.000001)
}
