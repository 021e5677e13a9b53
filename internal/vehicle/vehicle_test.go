package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equipo13/navauto_client/internal/models"
)

func TestMapSteering(t *testing.T) {
	tests := map[string]struct {
		value    float64
		deadZone float64
		maxAngle float64
		expected float64
	}{
		"zero input":            {0.0, 0.05, 0.28, 0.0},
		"inside dead zone":      {0.04, 0.05, 0.28, 0.0},
		"inside dead zone neg":  {-0.04, 0.05, 0.28, 0.0},
		"dead zone boundary":    {0.05, 0.05, 0.28, 0.0},
		"outside dead zone":     {0.5, 0.05, 0.28, 0.14},
		"outside dead zone neg": {-0.5, 0.05, 0.28, -0.14},
		"full lock":             {1.0, 0.05, 0.28, 0.28},
		"clamped above":         {1.5, 0.05, 0.28, 0.28},
		"clamped below":         {-1.5, 0.05, 0.28, -0.28},
		"unit max angle":        {0.75, 0.05, 1.0, 0.75},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, test.expected, MapSteering(test.value, test.deadZone, test.maxAngle), 0.000001)
		})
	}
}

func TestMapSteeringMonotonic(t *testing.T) {
	last := MapSteering(-1.0, 0.05, 0.28)
	for value := -0.99; value <= 1.0; value += 0.01 {
		mapped := MapSteering(value, 0.05, 0.28)
		assert.GreaterOrEqual(t, mapped, last)
		last = mapped
	}
}

func TestMapToRange(t *testing.T) {
	tests := map[string]struct {
		value    float64
		expected float64
	}{
		"min":          {-1.0, 0.0},
		"mid":          {0.0, 50.0},
		"max":          {1.0, 100.0},
		"clamped low":  {-2.0, 0.0},
		"clamped high": {2.0, 100.0},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, test.expected, MapToRange(test.value, -1.0, 1.0, 0.0, 100.0), 0.000001)
		})
	}
}

func TestDeadZoneHelpers(t *testing.T) {
	assert.Equal(t, 0.0, GetValueWithMidDeadZone(0.03, 0.0, 0.05))
	assert.Equal(t, 0.0, GetValueWithMidDeadZone(-0.03, 0.0, 0.05))
	assert.Equal(t, 0.5, GetValueWithMidDeadZone(0.5, 0.0, 0.05))
	assert.Equal(t, 0.0, GetValueWithLowDeadZone(0.03, 0.0, 0.05))
	assert.Equal(t, 0.5, GetValueWithLowDeadZone(0.5, 0.0, 0.05))
}

func TestParseButtons(t *testing.T) {
	masks := BuildButtonMasks()
	require.Len(t, masks, 32)
	assert.Equal(t, uint32(1), masks[0])
	assert.Equal(t, uint32(1<<31), masks[31])

	buttons := ParseButtons(0b1011, masks)
	require.Len(t, buttons, 32)
	assert.True(t, buttons[0])
	assert.True(t, buttons[1])
	assert.False(t, buttons[2])
	assert.True(t, buttons[3])
	for i := 4; i < 32; i++ {
		assert.False(t, buttons[i])
	}
}

func TestNewPress(t *testing.T) {
	masks := BuildButtonMasks()
	oldState := models.ControlState{Buttons: ParseButtons(0, masks)}
	newState := models.ControlState{Buttons: ParseButtons(1, masks)}

	pressed := false
	wasPressed, err := NewPress(oldState, newState, 0, func() { pressed = true })
	require.NoError(t, err)
	assert.True(t, wasPressed)
	assert.True(t, pressed)

	// held button is not a new press
	wasPressed, err = NewPress(newState, newState, 0, func() { t.Fatal("should not fire") })
	require.NoError(t, err)
	assert.False(t, wasPressed)

	_, err = NewPress(oldState, newState, 99, func() {})
	assert.Error(t, err)
}
