package sim

import (
	"context"
	"log"
	"sync"

	"github.com/equipo13/navauto_client/internal/models"
)

// EndOfRun is the sentinel Step returns when the simulator signals the
// end of the run.
const EndOfRun = -1

const stepBuffer = 16

// Transport sends events to the simulator bridge. The socket.io client
// satisfies it in app wiring; tests use a recording fake.
type Transport interface {
	Emit(event string, payload any) error
}

// Robot mirrors the simulator's device-handle API across the bridge:
// devices are obtained by name, enabled with a polling interval, and fed
// by the bridge's sensor events. Step blocks until the next simulation
// tick the way the simulator's own step call does.
type Robot struct {
	transport Transport

	lock      sync.RWMutex
	steps     chan models.StepEvent
	telemetry models.StepEvent

	cameras  map[string]*Camera
	lidars   map[string]*Lidar
	gps      map[string]*GPS
	displays map[string]*Display
	driver   *Driver

	basicTimeStepMS int
}

func NewRobot(transport Transport, basicTimeStepMS int) *Robot {
	r := &Robot{
		transport:       transport,
		steps:           make(chan models.StepEvent, stepBuffer),
		cameras:         make(map[string]*Camera),
		lidars:          make(map[string]*Lidar),
		gps:             make(map[string]*GPS),
		displays:        make(map[string]*Display),
		basicTimeStepMS: basicTimeStepMS,
	}
	r.driver = &Driver{robot: r}
	return r
}

func (r *Robot) BasicTimeStep() int {
	return r.basicTimeStepMS
}

// Step blocks until the next simulation tick and returns its time step in
// milliseconds, or EndOfRun once the bridge reports the run is over.
func (r *Robot) Step(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return EndOfRun, ctx.Err()
	case ev := <-r.steps:
		if ev.TimeStepMS < 0 {
			return EndOfRun, nil
		}

		r.lock.Lock()
		r.telemetry = ev
		r.lock.Unlock()
		return ev.TimeStepMS, nil
	}
}

// HandleStep feeds one bridge tick into the step stream. Ticks are
// dropped when the control loop falls behind; the simulator clock is
// authoritative, not this client.
func (r *Robot) HandleStep(ev models.StepEvent) {
	select {
	case r.steps <- ev:
	default:
		log.Println("step channel full, dropping tick")
	}
}

func (r *Robot) Telemetry() models.StepEvent {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.telemetry
}

func (r *Robot) Driver() *Driver {
	return r.driver
}

func (r *Robot) Camera(name string) *Camera {
	r.lock.Lock()
	defer r.lock.Unlock()

	cam, ok := r.cameras[name]
	if !ok {
		cam = &Camera{name: name, transport: r.transport}
		r.cameras[name] = cam
	}
	return cam
}

func (r *Robot) Lidar(name string) *Lidar {
	r.lock.Lock()
	defer r.lock.Unlock()

	lidar, ok := r.lidars[name]
	if !ok {
		lidar = &Lidar{name: name, transport: r.transport}
		r.lidars[name] = lidar
	}
	return lidar
}

func (r *Robot) GPS(name string) *GPS {
	r.lock.Lock()
	defer r.lock.Unlock()

	gps, ok := r.gps[name]
	if !ok {
		gps = &GPS{name: name, transport: r.transport}
		r.gps[name] = gps
	}
	return gps
}

func (r *Robot) Display(name string) *Display {
	r.lock.Lock()
	defer r.lock.Unlock()

	display, ok := r.displays[name]
	if !ok {
		display = &Display{name: name, transport: r.transport}
		r.displays[name] = display
	}
	return display
}

// HandleCameraFrame routes a bridge camera event to its device handle.
func (r *Robot) HandleCameraFrame(frame models.CameraFrame) {
	r.Camera(frame.Device).handleFrame(frame)
}

func (r *Robot) HandleLidarScan(scan models.LidarScan) {
	r.Lidar(scan.Device).handleScan(scan)
}

func (r *Robot) HandleGPSFix(fix models.GPSFix) {
	r.GPS(fix.Device).handleFix(fix)
}

func (r *Robot) HandleDisplayInfo(info models.DisplayOp) {
	r.Display(info.Device).handleInfo(info.Width, info.Height)
}
