// Package simdrive is the default command driver: it writes steering
// and cruising speed back to the simulated vehicle over the bridge.
package simdrive

import (
	"fmt"
	"sync"

	"github.com/equipo13/navauto_client/internal/models"
	"github.com/equipo13/navauto_client/internal/sim"
	"github.com/equipo13/navauto_client/internal/vehicle"
)

const (
	CommandSteer = "steer"
	CommandSpeed = "speed"
)

type Command struct {
	driver *sim.Driver

	lock  sync.Mutex
	state models.DriveCommand
}

func NewCommand(driver *sim.Driver) *Command {
	return &Command{driver: driver}
}

func (c *Command) Init() error {
	// Center steering and hold the vehicle before the first cycle.
	return c.driver.Drive(models.DriveCommand{})
}

func (c *Command) Set(cmd vehicle.DriverCommand) error {
	return c.SetMany([]vehicle.DriverCommand{cmd})
}

func (c *Command) SetMany(cmds []vehicle.DriverCommand) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	for _, cmd := range cmds {
		switch cmd.Name {
		case CommandSteer:
			c.state.SteeringAngle = clamp(cmd.Value, cmd.Min, cmd.Max)
		case CommandSpeed:
			c.state.CruisingSpeed = clamp(cmd.Value, cmd.Min, cmd.Max)
		default:
			return fmt.Errorf("unsupported sim drive command: %s", cmd.Name)
		}
	}
	return c.driver.Drive(c.state)
}

func (c *Command) Stop() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.state = models.DriveCommand{}
	return c.driver.Drive(c.state)
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
