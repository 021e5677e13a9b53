// Package capture is the manual driving vehicle: an operator steers
// through the seat link while camera frames and steering angles are
// logged for behavioral-cloning training.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/prometheus/procfs"
	"golang.org/x/sync/errgroup"

	"github.com/equipo13/navauto_client/internal/config"
	"github.com/equipo13/navauto_client/internal/hud"
	"github.com/equipo13/navauto_client/internal/models"
	"github.com/equipo13/navauto_client/internal/sim"
	"github.com/equipo13/navauto_client/internal/trainlog"
	"github.com/equipo13/navauto_client/internal/vehicle"
)

const (
	ButtonEndRun = 0

	SteerAxis = 0

	MaxSpeedKPH = 120.0

	saveQuality = 1
)

type CaptureState struct {
	Steering float64
	SpeedKPH float64
	Done     bool
}

type Capture struct {
	cfg config.CaptureConfig

	robot   *sim.Robot
	camera  *sim.Camera
	gps     *sim.GPS
	display *sim.Display

	commandDriver vehicle.CommandDriverIFace
	seat          *vehicle.VehicleSeat[CaptureState]
	trainLog      *trainlog.Log

	proc procfs.Proc

	lock  sync.Mutex
	state CaptureState
}

func NewCapture(cfg config.CaptureConfig, deviceCfg config.DeviceConfig, robot *sim.Robot,
	commandDriver vehicle.CommandDriverIFace, seat *models.Seat, trainLog *trainlog.Log) *Capture {
	log.Println("setting up capture vehicle")

	c := &Capture{
		cfg:           cfg,
		robot:         robot,
		camera:        robot.Camera(deviceCfg.Camera),
		gps:           robot.GPS(deviceCfg.GPS),
		display:       robot.Display(deviceCfg.Display),
		commandDriver: commandDriver,
		trainLog:      trainLog,
		state: CaptureState{
			SpeedKPH: cfg.SpeedKPH,
		},
	}
	c.seat = vehicle.NewVehicleSeat[CaptureState](seat, c.driverParser, driverCenter, c.seatHud)
	return c
}

func (c *Capture) Init() error {
	err := c.commandDriver.Init()
	if err != nil {
		return fmt.Errorf("error: failed initializing capture command driver: %w", err)
	}

	timestep := c.robot.BasicTimeStep()
	if err := c.camera.Enable(timestep); err != nil {
		return fmt.Errorf("failed enabling camera: %w", err)
	}
	if err := c.gps.Enable(timestep); err != nil {
		return fmt.Errorf("failed enabling gps: %w", err)
	}

	proc, err := procfs.Self()
	if err != nil {
		return fmt.Errorf("error: procfs could not get process: %w", err)
	}
	c.proc = proc

	if err := c.seat.Init(); err != nil {
		return err
	}

	//Center up before the first tick
	return c.applyState(c.state)
}

func (c *Capture) Stop() error {
	log.Println("stopping capture vehicle")
	if err := c.trainLog.Close(); err != nil {
		return fmt.Errorf("error: failed closing training log: %w", err)
	}
	if err := c.commandDriver.Stop(); err != nil {
		return fmt.Errorf("error: failed stopping command driver: %w", err)
	}
	return nil
}

func (c *Capture) Start(ctx context.Context) error {
	log.Println("starting capture vehicle")

	// the seat syncer only stops on context cancel, so a clean end of
	// run has to cancel for it
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errGroup, errGroupCtx := errgroup.WithContext(ctx)

	defer c.Stop()

	errGroup.Go(func() error {
		return c.seat.Start(errGroupCtx)
	})

	errGroup.Go(func() error {
		defer cancel()
		defer c.logFinalPosition()

		stepCounter := 0
		for {
			step, err := c.robot.Step(errGroupCtx)
			if err != nil {
				return err
			}
			if step == sim.EndOfRun {
				log.Println("simulator signaled end of run")
				return nil
			}

			newState := c.seat.ApplyCommand(c.state).(CaptureState)
			if newState.Done {
				log.Println("run ended by operator")
				return nil
			}

			stepCounter++
			if c.trainLog.Enabled() && stepCounter >= c.cfg.StepsPerRow {
				path, wrote, err := c.trainLog.Record(time.Now(), newState.Steering)
				if err != nil {
					return fmt.Errorf("failed recording training row: %w", err)
				}
				if wrote {
					if err := c.camera.SaveImage(path, saveQuality); err != nil {
						return fmt.Errorf("failed saving camera image: %w", err)
					}
					log.Printf("image saved: %s, steering angle: %f\n", path, newState.Steering)
				}
				stepCounter = 0
			}

			if err := c.applyState(newState); err != nil {
				return fmt.Errorf("failed applying capture state: %w", err)
			}
		}
	})

	err := errGroup.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("capture vehicle error group closed: %w", err)
	}
	return nil
}

func (c *Capture) driverParser(oldCommand, newCommand models.ControlState, state vehicle.VehicleStateIFace[CaptureState]) vehicle.VehicleStateIFace[CaptureState] {
	newState := state.(CaptureState)

	vehicle.NewPress(oldCommand, newCommand, ButtonEndRun, func() {
		newState.Done = true
	})

	if len(newCommand.Axes) > SteerAxis {
		newState.Steering = vehicle.MapSteering(newCommand.Axes[SteerAxis], c.cfg.DeadZone, c.cfg.MaxSteering)
	}
	return newState
}

func driverCenter(state vehicle.VehicleStateIFace[CaptureState]) vehicle.VehicleStateIFace[CaptureState] {
	newState := state.(CaptureState)
	newState.Steering = 0.0
	return newState
}

func (c *Capture) seatHud(state vehicle.VehicleStateIFace[CaptureState]) models.Hud {
	telemetry := c.robot.Telemetry()
	lines := hud.Lines(telemetry.SpeedKPH, telemetry.SteeringAngle)

	netDev, err := c.proc.NetDev()
	if err == nil {
		total := netDev.Total()
		lines = append(lines, fmt.Sprintf("Link: rx %d KB tx %d KB", total.RxBytes/1024, total.TxBytes/1024))
	}
	return models.Hud{Lines: lines}
}

func (c *Capture) applyState(state CaptureState) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.state = state

	err := c.commandDriver.SetMany(c.buildCommands(c.state))
	if err != nil {
		return fmt.Errorf("failed setting capture commands: %w", err)
	}

	telemetry := c.robot.Telemetry()
	if err := hud.Draw(c.display, telemetry.SpeedKPH, telemetry.SteeringAngle); err != nil {
		return err
	}
	c.seat.UpdateHud(c.state)
	return nil
}

func (c *Capture) buildCommands(state CaptureState) []vehicle.DriverCommand {
	return []vehicle.DriverCommand{
		{
			Name:  "steer",
			Value: state.Steering,
			Min:   -c.cfg.MaxSteering,
			Max:   c.cfg.MaxSteering,
		},
		{
			Name:  "speed",
			Value: state.SpeedKPH,
			Min:   0,
			Max:   MaxSpeedKPH,
		},
	}
}

func (c *Capture) logFinalPosition() {
	fix, err := c.gps.Position()
	if err != nil {
		return
	}
	log.Printf("final position: (%.2f, %.2f, %.2f)\n", fix.X, fix.Y, fix.Z)
}
