// Package cruiser is the model-only driving vehicle: the trained
// steering model drives from camera frames at a fixed cruising speed.
package cruiser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/equipo13/navauto_client/internal/config"
	"github.com/equipo13/navauto_client/internal/hud"
	"github.com/equipo13/navauto_client/internal/infer"
	"github.com/equipo13/navauto_client/internal/sim"
	"github.com/equipo13/navauto_client/internal/vehicle"
	"github.com/equipo13/navauto_client/internal/vision"
)

const MaxSpeedKPH = 120.0

type CruiserState struct {
	Steering float64
	SpeedKPH float64
}

type Cruiser struct {
	cfg config.CruiserConfig

	robot   *sim.Robot
	camera  *sim.Camera
	gps     *sim.GPS
	display *sim.Display

	commandDriver vehicle.CommandDriverIFace
	predictor     infer.Predictor

	lock  sync.Mutex
	state CruiserState
}

func NewCruiser(cfg config.CruiserConfig, deviceCfg config.DeviceConfig, robot *sim.Robot,
	commandDriver vehicle.CommandDriverIFace, predictor infer.Predictor) *Cruiser {
	log.Println("setting up cruiser vehicle")

	return &Cruiser{
		cfg:           cfg,
		robot:         robot,
		camera:        robot.Camera(deviceCfg.Camera),
		gps:           robot.GPS(deviceCfg.GPS),
		display:       robot.Display(deviceCfg.Display),
		commandDriver: commandDriver,
		predictor:     predictor,
		state: CruiserState{
			SpeedKPH: cfg.SpeedKPH,
		},
	}
}

func (c *Cruiser) Init() error {
	err := c.commandDriver.Init()
	if err != nil {
		return fmt.Errorf("error: failed initializing cruiser command driver: %w", err)
	}

	timestep := c.robot.BasicTimeStep()
	if err := c.camera.Enable(timestep); err != nil {
		return fmt.Errorf("failed enabling camera: %w", err)
	}
	if err := c.gps.Enable(timestep); err != nil {
		return fmt.Errorf("failed enabling gps: %w", err)
	}

	return c.applyState(c.state)
}

func (c *Cruiser) Stop() error {
	log.Println("stopping cruiser vehicle")
	err := c.commandDriver.Stop()
	if err != nil {
		return fmt.Errorf("error: failed stopping command driver: %w", err)
	}
	return nil
}

func (c *Cruiser) Start(ctx context.Context) error {
	log.Println("starting cruiser vehicle")
	errGroup, errGroupCtx := errgroup.WithContext(ctx)

	defer c.Stop()

	errGroup.Go(func() error {
		counter := 0
		for {
			step, err := c.robot.Step(errGroupCtx)
			if err != nil {
				return err
			}
			if step == sim.EndOfRun {
				log.Println("simulator signaled end of run")
				return nil
			}

			counter++
			if counter < c.cfg.InferTick {
				continue
			}
			counter = 0

			newState, err := c.inferCycle(errGroupCtx, c.state)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				if !errors.Is(err, sim.ErrNoReading) {
					// keep the previous steering for this cycle;
					// the model server link redials on the next one
					log.Printf("inference cycle failed: %s\n", err.Error())
				}
				continue
			}

			if err := c.applyState(newState); err != nil {
				return fmt.Errorf("failed applying cruiser state: %w", err)
			}
		}
	})

	err := errGroup.Wait()
	if err != nil {
		return fmt.Errorf("cruiser vehicle error group closed: %w", err)
	}
	return nil
}

func (c *Cruiser) inferCycle(ctx context.Context, state CruiserState) (CruiserState, error) {
	frame, err := c.camera.Image()
	if err != nil {
		return state, err
	}

	tensor, err := vision.Preprocess(frame)
	if err != nil {
		return state, fmt.Errorf("failed preprocessing camera frame: %w", err)
	}

	predicted, err := c.predictor.Predict(ctx, tensor)
	if err != nil {
		return state, fmt.Errorf("failed predicting steering angle: %w", err)
	}
	log.Printf("predicted steering angle: %f\n", predicted)

	state.Steering = vehicle.MapSteering(predicted, c.cfg.DeadZone, c.cfg.MaxAngle)
	state.SpeedKPH = c.cfg.SpeedKPH
	return state, nil
}

func (c *Cruiser) applyState(state CruiserState) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.state = state

	err := c.commandDriver.SetMany(buildCommands(c.state, c.cfg.MaxAngle))
	if err != nil {
		return fmt.Errorf("failed setting cruiser commands: %w", err)
	}

	telemetry := c.robot.Telemetry()
	return hud.Draw(c.display, telemetry.SpeedKPH, telemetry.SteeringAngle)
}

func buildCommands(state CruiserState, maxAngle float64) []vehicle.DriverCommand {
	return []vehicle.DriverCommand{
		{
			Name:  "steer",
			Value: state.Steering,
			Min:   -maxAngle,
			Max:   maxAngle,
		},
		{
			Name:  "speed",
			Value: state.SpeedKPH,
			Min:   0,
			Max:   MaxSpeedKPH,
		},
	}
}
