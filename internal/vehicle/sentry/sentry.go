// Package sentry is the model + lidar driving vehicle: the steering
// model drives while the lidar classifier gates the cruising speed,
// stopping for pedestrians and for cars that get too close.
package sentry

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
	"github.com/equipo13/navauto_client/internal/lidarclass"
	"github.com/equipo13/navauto_client/internal/sim"
	"github.com/equipo13/navauto_client/internal/vehicle"
	"github.com/equipo13/navauto_client/internal/vision"
)

const MaxSpeedKPH = 120.0

type SentryState struct {
	Steering  float64
	SpeedKPH  float64
	Detection lidarclass.Detection
}

type Sentry struct {
	cfg config.SentryConfig

	robot   *sim.Robot
	camera  *sim.Camera
	lidar   *sim.Lidar
	gps     *sim.GPS
	display *sim.Display

	commandDriver vehicle.CommandDriverIFace
	predictor     infer.Predictor

	lock  sync.Mutex
	state SentryState
}

func NewSentry(cfg config.SentryConfig, deviceCfg config.DeviceConfig, robot *sim.Robot,
	commandDriver vehicle.CommandDriverIFace, predictor infer.Predictor) *Sentry {
	log.Println("setting up sentry vehicle")

	return &Sentry{
		cfg:           cfg,
		robot:         robot,
		camera:        robot.Camera(deviceCfg.Camera),
		lidar:         robot.Lidar(deviceCfg.Lidar),
		gps:           robot.GPS(deviceCfg.GPS),
		display:       robot.Display(deviceCfg.Display),
		commandDriver: commandDriver,
		predictor:     predictor,
		state: SentryState{
			SpeedKPH:  cfg.SpeedKPH,
			Detection: lidarclass.DetectionNone,
		},
	}
}

func (c *Sentry) Init() error {
	err := c.commandDriver.Init()
	if err != nil {
		return fmt.Errorf("error: failed initializing sentry command driver: %w", err)
	}

	timestep := c.robot.BasicTimeStep()
	if err := c.camera.Enable(timestep); err != nil {
		return fmt.Errorf("failed enabling camera: %w", err)
	}
	if err := c.lidar.Enable(timestep); err != nil {
		return fmt.Errorf("failed enabling lidar: %w", err)
	}
	if err := c.lidar.EnablePointCloud(); err != nil {
		return fmt.Errorf("failed enabling lidar point cloud: %w", err)
	}
	if err := c.gps.Enable(timestep); err != nil {
		return fmt.Errorf("failed enabling gps: %w", err)
	}

	return c.applyState(c.state)
}

func (c *Sentry) Stop() error {
	log.Println("stopping sentry vehicle")
	err := c.commandDriver.Stop()
	if err != nil {
		return fmt.Errorf("error: failed stopping command driver: %w", err)
	}
	return nil
}

func (c *Sentry) Start(ctx context.Context) error {
	log.Println("starting sentry vehicle")
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
				return fmt.Errorf("failed applying sentry state: %w", err)
			}
			log.Printf("vehicle speed: %.0f km/h, steering angle: %f rad, detected: %s\n",
				newState.SpeedKPH, newState.Steering, newState.Detection)
		}
	})

	err := errGroup.Wait()
	if err != nil {
		return fmt.Errorf("sentry vehicle error group closed: %w", err)
	}
	return nil
}

func (c *Sentry) inferCycle(ctx context.Context, state SentryState) (SentryState, error) {
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

	ranges, err := c.lidar.RangeImage()
	if err != nil {
		return state, err
	}
	summary := lidarclass.Classify(ranges, c.cfg.PedestrianMaxLasers)
	log.Printf("num lasers: %d, detected: %s\n", summary.Lasers, summary.Detection)

	state.Steering = vehicle.MapSteering(predicted, c.cfg.DeadZone, c.cfg.MaxAngle)
	state.SpeedKPH = decideSpeed(summary, c.cfg)
	state.Detection = summary.Detection
	return state, nil
}

// decideSpeed gates the cruising speed on the lidar classification:
// pedestrians always stop the vehicle, cars only inside the stop range.
func decideSpeed(summary lidarclass.Summary, cfg config.SentryConfig) float64 {
	switch summary.Detection {
	case lidarclass.DetectionPedestrian:
		return 0
	case lidarclass.DetectionCar:
		if summary.MinRange < cfg.CarStopRangeM {
			return 0
		}
		return cfg.CruiseSpeedKPH
	default:
		return cfg.CruiseSpeedKPH
	}
}

func (c *Sentry) applyState(state SentryState) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.state = state

	err := c.commandDriver.SetMany(buildCommands(c.state, c.cfg.MaxAngle))
	if err != nil {
		return fmt.Errorf("failed setting sentry commands: %w", err)
	}

	telemetry := c.robot.Telemetry()
	return hud.Draw(c.display, telemetry.SpeedKPH, telemetry.SteeringAngle)
}

func buildCommands(state SentryState, maxAngle float64) []vehicle.DriverCommand {
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
