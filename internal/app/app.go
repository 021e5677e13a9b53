package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	socketio "github.com/googollee/go-socket.io"
	"golang.org/x/sync/errgroup"

	"github.com/equipo13/navauto_client/internal/command/pca9685"
	"github.com/equipo13/navauto_client/internal/command/pipwm"
	"github.com/equipo13/navauto_client/internal/command/simdrive"
	"github.com/equipo13/navauto_client/internal/config"
	"github.com/equipo13/navauto_client/internal/infer"
	"github.com/equipo13/navauto_client/internal/models"
	"github.com/equipo13/navauto_client/internal/sim"
	"github.com/equipo13/navauto_client/internal/trainlog"
	"github.com/equipo13/navauto_client/internal/vehicle"
	"github.com/equipo13/navauto_client/internal/vehicle/capture"
	"github.com/equipo13/navauto_client/internal/vehicle/cruiser"
	"github.com/equipo13/navauto_client/internal/vehicle/sentry"
)

type App struct {
	ctx       context.Context
	ctxCancel context.CancelFunc

	car vehicle.Vehicle

	carInfo   models.Car
	worldInfo models.World

	client *socketio.Client
	robot  *sim.Robot
	Cfg    config.Config

	seats     []models.Seat
	userConns map[int]*Connection
}

func NewApp(cfg config.Config, client *socketio.Client) (*App, error) {
	if cfg.ServerCfg.SeatCount < 1 {
		return nil, fmt.Errorf("unsupported seat count: %d", cfg.ServerCfg.SeatCount)
	}

	ctx, cancel := context.WithCancel(context.Background())

	robot := sim.NewRobot(socketTransport{client: client}, cfg.DeviceCfg.TimeStepMS)

	seats := make([]models.Seat, cfg.ServerCfg.SeatCount)
	for i := range seats {
		seats[i] = models.Seat{
			Index:          i,
			CommandChannel: make(chan models.ControlState, 100),
			HudChannel:     make(chan models.Hud, 100),
		}
	}

	a := &App{
		Cfg:       cfg,
		client:    client,
		ctx:       ctx,
		ctxCancel: cancel,
		robot:     robot,
		seats:     seats,
		userConns: make(map[int]*Connection, len(seats)),
	}

	car, err := a.buildVehicle()
	if err != nil {
		cancel()
		return nil, err
	}
	a.car = car
	return a, nil
}

func (a *App) buildVehicle() (vehicle.Vehicle, error) {
	commandDriver, err := a.buildCommandDriver()
	if err != nil {
		return nil, err
	}

	switch a.Cfg.ServerCfg.VehicleType {
	case "capture":
		trainLog, err := trainlog.New(a.Cfg.CaptureCfg)
		if err != nil {
			return nil, fmt.Errorf("error creating training log: %w", err)
		}
		return capture.NewCapture(a.Cfg.CaptureCfg, a.Cfg.DeviceCfg, a.robot, commandDriver, &a.seats[0], trainLog), nil
	case "cruiser":
		return cruiser.NewCruiser(a.Cfg.CruiserCfg, a.Cfg.DeviceCfg, a.robot, commandDriver, infer.NewRemote(a.Cfg.InferCfg)), nil
	case "sentry":
		return sentry.NewSentry(a.Cfg.SentryCfg, a.Cfg.DeviceCfg, a.robot, commandDriver, infer.NewRemote(a.Cfg.InferCfg)), nil
	default:
		return nil, fmt.Errorf("unsupported vehicle type: %s", a.Cfg.ServerCfg.VehicleType)
	}
}

func (a *App) buildCommandDriver() (vehicle.CommandDriverIFace, error) {
	switch a.Cfg.CommandCfg.CommandDriver {
	case "sim":
		return simdrive.NewCommand(a.robot.Driver()), nil
	case "pca9685":
		return pca9685.NewCommand(a.Cfg.CommandCfg), nil
	case "pipwm":
		return pipwm.NewCommand(a.Cfg.CommandCfg), nil
	default:
		return nil, fmt.Errorf("unsupported command driver: %s", a.Cfg.CommandCfg.CommandDriver)
	}
}

func (a *App) RegisterHandlers() error {
	log.Println("registering handlers")
	a.client.OnEvent("reply", func(s socketio.Conn, msg string) {
		log.Println("Receive Message /reply: ", "reply", msg)
	})

	a.client.OnEvent("offer", a.onOffer)

	a.client.OnEvent("candidate", a.onICECandidate)

	a.client.OnEvent("register_success", a.onRegisterSuccess)

	a.client.OnEvent("sim_step", a.onSimStep)

	a.client.OnEvent("camera_frame", a.onCameraFrame)

	a.client.OnEvent("lidar_scan", a.onLidarScan)

	a.client.OnEvent("gps_fix", a.onGPSFix)

	a.client.OnEvent("display_info", a.onDisplayInfo)

	log.Println("attemping to connect to server...")
	err := a.client.Connect() //Client must have atleast 1 event handler to work
	if err != nil {
		return fmt.Errorf("error connecting to server - %w", err)
	}
	log.Println("connected to server")
	return nil
}

func (a *App) Start() error {
	group, groupCtx := errgroup.WithContext(a.ctx)
	log.Println("starting...")

	defer func() {
		log.Println("stopping...")
		a.client.Close()
	}()

	//kill listener
	group.Go(func() error {
		signalChannel := make(chan os.Signal, 1)
		signal.Notify(signalChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-signalChannel:
			log.Printf("received signal: %s\n", sig)
			a.ctxCancel()
			return fmt.Errorf("received signal: %s", sig)
		case <-groupCtx.Done():
			log.Println("closing signal goroutine")
			return groupCtx.Err()
		}
	})

	//Start car
	group.Go(func() error {
		err := a.car.Init()
		if err != nil {
			return fmt.Errorf("error initializing vehicle: %w", err)
		}
		err = a.car.Start(groupCtx)
		if err != nil {
			return err
		}
		log.Println("vehicle run complete")
		a.ctxCancel()
		return nil
	})

	//Send connect and send healthchecks
	group.Go(func() error {
		encodedMsg, _ := encode(models.ConnectReq{
			Key:       a.Cfg.ServerCfg.Key,
			Password:  a.Cfg.ServerCfg.Password,
			SeatCount: a.Cfg.ServerCfg.SeatCount,
		})
		a.client.Emit("car_connect", encodedMsg)

		healthTicker := time.NewTicker(30 * time.Second)

		for {
			select {
			case <-groupCtx.Done():
				log.Println("health checker stopped")
				return groupCtx.Err()
			case <-healthTicker.C:
				log.Println("healthcheck: healthy")
				a.client.Emit("car_healthy", "")
			}
		}
	})

	err := group.Wait()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Println("context was cancelled")
			return nil
		} else {
			return fmt.Errorf("client stopping due to error - %w", err)
		}
	}

	log.Println("shutting down")
	return a.client.Close()
}
