package simdrive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equipo13/navauto_client/internal/models"
	"github.com/equipo13/navauto_client/internal/sim"
	"github.com/equipo13/navauto_client/internal/vehicle"
)

type driveRecorder struct {
	cmds []models.DriveCommand
}

func (r *driveRecorder) Emit(event string, payload any) error {
	if cmd, ok := payload.(models.DriveCommand); ok {
		r.cmds = append(r.cmds, cmd)
	}
	return nil
}

func newTestCommand() (*Command, *driveRecorder) {
	recorder := &driveRecorder{}
	robot := sim.NewRobot(recorder, 32)
	return NewCommand(robot.Driver()), recorder
}

func TestInitCentersVehicle(t *testing.T) {
	command, recorder := newTestCommand()
	require.NoError(t, command.Init())
	require.Len(t, recorder.cmds, 1)
	assert.Equal(t, models.DriveCommand{}, recorder.cmds[0])
}

func TestSetManyWritesBothAxes(t *testing.T) {
	command, recorder := newTestCommand()

	err := command.SetMany([]vehicle.DriverCommand{
		{Name: CommandSteer, Value: 0.14, Min: -0.28, Max: 0.28},
		{Name: CommandSpeed, Value: 25.0, Min: 0, Max: 120},
	})
	require.NoError(t, err)
	require.Len(t, recorder.cmds, 1)
	assert.Equal(t, models.DriveCommand{SteeringAngle: 0.14, CruisingSpeed: 25.0}, recorder.cmds[0])
}

func TestSetClampsToRange(t *testing.T) {
	command, recorder := newTestCommand()

	require.NoError(t, command.Set(vehicle.DriverCommand{Name: CommandSteer, Value: 2.0, Min: -0.28, Max: 0.28}))
	require.Len(t, recorder.cmds, 1)
	assert.Equal(t, 0.28, recorder.cmds[0].SteeringAngle)
}

func TestSetRejectsUnknownCommand(t *testing.T) {
	command, _ := newTestCommand()
	assert.Error(t, command.Set(vehicle.DriverCommand{Name: "pan"}))
}

func TestStopZeroesState(t *testing.T) {
	command, recorder := newTestCommand()

	require.NoError(t, command.Set(vehicle.DriverCommand{Name: CommandSpeed, Value: 25.0, Min: 0, Max: 120}))
	require.NoError(t, command.Stop())
	require.Len(t, recorder.cmds, 2)
	assert.Equal(t, models.DriveCommand{}, recorder.cmds[1])
}
