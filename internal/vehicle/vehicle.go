package vehicle

import (
	"context"
	"math"
)

type DriverCommand struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
}

type CommandDriverIFace interface {
	Init() error
	Set(DriverCommand) error
	SetMany([]DriverCommand) error
	Stop() error
}

type Vehicle interface {
	Init() error
	Start(context.Context) error
}

// MapSteering maps a normalized input in [-1,1] to a steering angle.
// Inputs inside the dead zone map to exactly zero; everything outside
// scales linearly to maxAngle.
func MapSteering(value, deadZone, maxAngle float64) float64 {
	if value > 1.0 {
		value = 1.0
	} else if value < -1.0 {
		value = -1.0
	}

	if math.Abs(value) <= deadZone {
		return 0.0
	}
	return maxAngle * value
}

func MapToRange(value, min, max, minReturn, maxReturn float64) float64 {
	mappedValue := (maxReturn-minReturn)*(value-min)/(max-min) + minReturn

	if mappedValue > maxReturn {
		return maxReturn
	} else if mappedValue < minReturn {
		return minReturn
	} else {
		return mappedValue
	}
}

func GetValueWithMidDeadZone(value, midValue, deadZone float64) float64 {
	if value > midValue && midValue+deadZone > value {
		return midValue
	} else if value < midValue && midValue-deadZone < value {
		return midValue
	}
	return value
}

func GetValueWithLowDeadZone(value, lowValue, deadZone float64) float64 {
	if value > lowValue && lowValue+deadZone > value {
		return lowValue
	}
	return value
}

// Creates 32 uints each with only 1 bit. 1,2,4,8,16,32...
func BuildButtonMasks() []uint32 {
	buttonMasks := make([]uint32, 32)
	for i := 0; i < 32; i++ {
		buttonMasks[i] = uint32(1) << i
	}
	return buttonMasks
}

func ParseButtons(bitButton uint32, masks []uint32) []bool {
	returnValue := make([]bool, 32)
	for i := range masks {
		returnValue[i] = ((bitButton & masks[i]) != 0)
	}
	return returnValue
}
