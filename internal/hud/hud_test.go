package hud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equipo13/navauto_client/internal/models"
	"github.com/equipo13/navauto_client/internal/sim"
)

type drawRecorder struct {
	ops []models.DisplayOp
}

func (r *drawRecorder) Emit(event string, payload any) error {
	if op, ok := payload.(models.DisplayOp); ok {
		r.ops = append(r.ops, op)
	}
	return nil
}

func TestDraw(t *testing.T) {
	recorder := &drawRecorder{}
	robot := sim.NewRobot(recorder, 32)
	robot.HandleDisplayInfo(models.DisplayOp{Device: "display", Width: 256, Height: 128})

	require.NoError(t, Draw(robot.Display("display"), 25.0, 0.14))

	require.Len(t, recorder.ops, 5)
	assert.Equal(t, "fill_rectangle", recorder.ops[0].Op)
	assert.Equal(t, uint32(ColorBackground), recorder.ops[0].Color)
	assert.Equal(t, 256, recorder.ops[0].Width)
	assert.Equal(t, 128, recorder.ops[0].Height)

	assert.Equal(t, "draw_text", recorder.ops[1].Op)
	assert.Equal(t, uint32(ColorLabel), recorder.ops[1].Color)
	assert.Equal(t, "Speed: ", recorder.ops[1].Text)
	assert.Equal(t, 5, recorder.ops[1].X)
	assert.Equal(t, 10, recorder.ops[1].Y)

	assert.Equal(t, "Steering Angle: ", recorder.ops[2].Text)

	assert.Equal(t, uint32(ColorValue), recorder.ops[3].Color)
	assert.Equal(t, "25.00 km/h", recorder.ops[3].Text)
	assert.Equal(t, 50, recorder.ops[3].X)

	assert.Equal(t, "0.14000 rad", recorder.ops[4].Text)
	assert.Equal(t, 100, recorder.ops[4].X)
	assert.Equal(t, 30, recorder.ops[4].Y)
}

func TestDrawWaitsForDisplayInfo(t *testing.T) {
	recorder := &drawRecorder{}
	robot := sim.NewRobot(recorder, 32)

	// no display_info yet, so nothing should be painted
	require.NoError(t, Draw(robot.Display("display"), 25.0, 0.14))
	assert.Empty(t, recorder.ops)

	robot.HandleDisplayInfo(models.DisplayOp{Device: "display", Width: 256, Height: 128})
	require.NoError(t, Draw(robot.Display("display"), 25.0, 0.14))
	assert.Len(t, recorder.ops, 5)
}

func TestLines(t *testing.T) {
	lines := Lines(30.0, -0.28)
	require.Len(t, lines, 2)
	assert.Equal(t, "Speed: 30.00 km/h", lines[0])
	assert.Equal(t, "Steering Angle: -0.28000 rad", lines[1])
}
