package sim

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equipo13/navauto_client/internal/models"
)

type recordedEmit struct {
	event   string
	payload any
}

// recordingTransport captures emits in place of the socket client.
type recordingTransport struct {
	lock  sync.Mutex
	emits []recordedEmit
}

func (t *recordingTransport) Emit(event string, payload any) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.emits = append(t.emits, recordedEmit{event: event, payload: payload})
	return nil
}

func (t *recordingTransport) all() []recordedEmit {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]recordedEmit(nil), t.emits...)
}

func TestStepReturnsTickAndTelemetry(t *testing.T) {
	robot := NewRobot(&recordingTransport{}, 32)
	robot.HandleStep(models.StepEvent{TimeStepMS: 32, SimTime: 1.5, SpeedKPH: 25.0, SteeringAngle: 0.1})

	step, err := robot.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 32, step)

	telemetry := robot.Telemetry()
	assert.Equal(t, 25.0, telemetry.SpeedKPH)
	assert.Equal(t, 0.1, telemetry.SteeringAngle)
}

func TestStepEndOfRun(t *testing.T) {
	robot := NewRobot(&recordingTransport{}, 32)
	robot.HandleStep(models.StepEvent{TimeStepMS: -1})

	step, err := robot.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EndOfRun, step)
}

func TestStepCancelled(t *testing.T) {
	robot := NewRobot(&recordingTransport{}, 32)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	step, err := robot.Step(ctx)
	assert.Error(t, err)
	assert.Equal(t, EndOfRun, step)
}

func TestStepDropsTicksWhenFull(t *testing.T) {
	robot := NewRobot(&recordingTransport{}, 32)
	for i := 0; i < stepBuffer+10; i++ {
		robot.HandleStep(models.StepEvent{TimeStepMS: 32, SimTime: float64(i)})
	}

	// only the buffered ticks survive
	for i := 0; i < stepBuffer; i++ {
		_, err := robot.Step(context.Background())
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := robot.Step(ctx)
	assert.Error(t, err)
}

func TestCameraKeepsLatestFrame(t *testing.T) {
	transport := &recordingTransport{}
	robot := NewRobot(transport, 32)
	camera := robot.Camera("camera")

	_, err := camera.Image()
	assert.ErrorIs(t, err, ErrNoReading)

	robot.HandleCameraFrame(models.CameraFrame{Device: "camera", Width: 2, Height: 1, SimTime: 1.0})
	robot.HandleCameraFrame(models.CameraFrame{Device: "camera", Width: 2, Height: 1, SimTime: 2.0})

	frame, err := camera.Image()
	require.NoError(t, err)
	assert.Equal(t, 2.0, frame.SimTime)
}

func TestDeviceHandlesAreSingletons(t *testing.T) {
	robot := NewRobot(&recordingTransport{}, 32)
	assert.Same(t, robot.Camera("camera"), robot.Camera("camera"))
	assert.Same(t, robot.Lidar("lidar"), robot.Lidar("lidar"))
	assert.NotSame(t, robot.Camera("camera"), robot.Camera("rear_camera"))
}

func TestEnableEmitsDeviceEnable(t *testing.T) {
	transport := &recordingTransport{}
	robot := NewRobot(transport, 32)

	require.NoError(t, robot.Camera("camera").Enable(32))
	require.NoError(t, robot.Lidar("lidar").EnablePointCloud())

	emits := transport.all()
	require.Len(t, emits, 2)
	assert.Equal(t, EventDeviceEnable, emits[0].event)
	assert.Equal(t, models.DeviceEnable{Device: "camera", PeriodMS: 32}, emits[0].payload)
	assert.Equal(t, EventPointCloudEnable, emits[1].event)
}

func TestDriverDriveEmits(t *testing.T) {
	transport := &recordingTransport{}
	robot := NewRobot(transport, 32)

	cmd := models.DriveCommand{SteeringAngle: 0.14, CruisingSpeed: 25.0}
	require.NoError(t, robot.Driver().Drive(cmd))

	emits := transport.all()
	require.Len(t, emits, 1)
	assert.Equal(t, EventDrive, emits[0].event)
	assert.Equal(t, cmd, emits[0].payload)
}

func TestCameraSaveImageEmits(t *testing.T) {
	transport := &recordingTransport{}
	robot := NewRobot(transport, 32)

	require.NoError(t, robot.Camera("camera").SaveImage("train_images/M-2024-06-22_15-04-0.png", 1))

	emits := transport.all()
	require.Len(t, emits, 1)
	assert.Equal(t, EventSaveImage, emits[0].event)
	assert.Equal(t, models.SaveImageReq{
		Device:  "camera",
		Path:    "train_images/M-2024-06-22_15-04-0.png",
		Quality: 1,
	}, emits[0].payload)
}

func TestDisplayDrawOps(t *testing.T) {
	transport := &recordingTransport{}
	robot := NewRobot(transport, 32)
	display := robot.Display("display")

	display.SetColor(0x7FFFD4)
	require.NoError(t, display.FillRectangle(0, 0, 120, 50))
	require.NoError(t, display.DrawText("Speed (km/h):", 5, 10))

	emits := transport.all()
	require.Len(t, emits, 2)

	rect, ok := emits[0].payload.(models.DisplayOp)
	require.True(t, ok)
	assert.Equal(t, "fill_rectangle", rect.Op)
	assert.Equal(t, uint32(0x7FFFD4), rect.Color)
	assert.Equal(t, 120, rect.Width)

	text, ok := emits[1].payload.(models.DisplayOp)
	require.True(t, ok)
	assert.Equal(t, "draw_text", text.Op)
	assert.Equal(t, "Speed (km/h):", text.Text)
	assert.Equal(t, 5, text.X)
	assert.Equal(t, 10, text.Y)
}

func TestDisplayInfoSetsDimensions(t *testing.T) {
	robot := NewRobot(&recordingTransport{}, 32)
	robot.HandleDisplayInfo(models.DisplayOp{Device: "display", Width: 256, Height: 128})

	display := robot.Display("display")
	assert.Equal(t, 256, display.Width())
	assert.Equal(t, 128, display.Height())
}
