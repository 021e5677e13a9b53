package sim

import (
	"fmt"
	"sync"

	"github.com/equipo13/navauto_client/internal/models"
)

// Bridge event names for device traffic.
const (
	EventDeviceEnable     = "device_enable"
	EventPointCloudEnable = "lidar_pointcloud"
	EventDrive            = "drive"
	EventSaveImage        = "save_image"
	EventDisplayDraw      = "display_draw"
)

var ErrNoReading = fmt.Errorf("device has no reading yet")

// Camera is the handle for one simulator camera. The bridge pushes raw
// BGRA frames; the handle keeps only the latest one.
type Camera struct {
	name      string
	transport Transport

	lock     sync.RWMutex
	frame    models.CameraFrame
	hasFrame bool
}

func (c *Camera) Name() string {
	return c.name
}

func (c *Camera) Enable(periodMS int) error {
	return c.transport.Emit(EventDeviceEnable, models.DeviceEnable{Device: c.name, PeriodMS: periodMS})
}

func (c *Camera) handleFrame(frame models.CameraFrame) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.frame = frame
	c.hasFrame = true
}

// Image returns the most recent raw frame.
func (c *Camera) Image() (models.CameraFrame, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if !c.hasFrame {
		return models.CameraFrame{}, ErrNoReading
	}
	return c.frame, nil
}

// SaveImage asks the simulator to write its current camera image to
// disk itself; the frame bytes never pass through the client.
func (c *Camera) SaveImage(path string, quality int) error {
	return c.transport.Emit(EventSaveImage, models.SaveImageReq{Device: c.name, Path: path, Quality: quality})
}

type Lidar struct {
	name      string
	transport Transport

	lock    sync.RWMutex
	scan    models.LidarScan
	hasScan bool
}

func (l *Lidar) Name() string {
	return l.name
}

func (l *Lidar) Enable(periodMS int) error {
	return l.transport.Emit(EventDeviceEnable, models.DeviceEnable{Device: l.name, PeriodMS: periodMS})
}

func (l *Lidar) EnablePointCloud() error {
	return l.transport.Emit(EventPointCloudEnable, models.DeviceEnable{Device: l.name})
}

func (l *Lidar) handleScan(scan models.LidarScan) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.scan = scan
	l.hasScan = true
}

// RangeImage returns the most recent range image. +Inf samples mean no
// return at that scan angle.
func (l *Lidar) RangeImage() ([]float64, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	if !l.hasScan {
		return nil, ErrNoReading
	}
	return l.scan.Ranges, nil
}

type GPS struct {
	name      string
	transport Transport

	lock   sync.RWMutex
	fix    models.GPSFix
	hasFix bool
}

func (g *GPS) Name() string {
	return g.name
}

func (g *GPS) Enable(periodMS int) error {
	return g.transport.Emit(EventDeviceEnable, models.DeviceEnable{Device: g.name, PeriodMS: periodMS})
}

func (g *GPS) handleFix(fix models.GPSFix) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.fix = fix
	g.hasFix = true
}

func (g *GPS) Position() (models.GPSFix, error) {
	g.lock.RLock()
	defer g.lock.RUnlock()
	if !g.hasFix {
		return models.GPSFix{}, ErrNoReading
	}
	return g.fix, nil
}

// Display proxies draw calls to the simulator display device. Draw state
// (the current color) lives client side like it does on the simulator.
type Display struct {
	name      string
	transport Transport

	lock   sync.RWMutex
	color  uint32
	width  int
	height int
}

func (d *Display) Name() string {
	return d.name
}

func (d *Display) handleInfo(width, height int) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.width = width
	d.height = height
}

func (d *Display) Width() int {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.width
}

func (d *Display) Height() int {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.height
}

func (d *Display) SetColor(color uint32) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.color = color
}

func (d *Display) FillRectangle(x, y, width, height int) error {
	d.lock.RLock()
	color := d.color
	d.lock.RUnlock()
	return d.transport.Emit(EventDisplayDraw, models.DisplayOp{
		Device: d.name,
		Op:     "fill_rectangle",
		Color:  color,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	})
}

func (d *Display) DrawText(text string, x, y int) error {
	d.lock.RLock()
	color := d.color
	d.lock.RUnlock()
	return d.transport.Emit(EventDisplayDraw, models.DisplayOp{
		Device: d.name,
		Op:     "draw_text",
		Color:  color,
		X:      x,
		Y:      y,
		Text:   text,
	})
}

// Driver writes actuator commands back to the simulated vehicle and
// reads current speed and steering from step telemetry.
type Driver struct {
	robot *Robot
}

func (d *Driver) Drive(cmd models.DriveCommand) error {
	return d.robot.transport.Emit(EventDrive, cmd)
}

func (d *Driver) CurrentSpeed() float64 {
	return d.robot.Telemetry().SpeedKPH
}

func (d *Driver) SteeringAngle() float64 {
	return d.robot.Telemetry().SteeringAngle
}
