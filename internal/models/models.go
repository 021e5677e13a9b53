package models

import (
	"github.com/google/uuid"
	"github.com/pion/webrtc/v3"
)

const ClientAxesCount = 10

type ConnectReq struct {
	Key       string `json:"key"`
	Password  string `json:"password"`
	SeatCount int    `json:"seat_count"`
}

type ConnectResp struct {
	Car   Car
	World World
}

type Car struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"short_name"`
	Type      string    `json:"type"`
}

type World struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"short_name"`
	Type      string    `json:"type"`
}

type IceCandidate struct {
	Candidate    webrtc.ICECandidateInit `json:"candidate"`
	CarShortName string                  `json:"car_name"`
	SeatNum      int                     `json:"seat_number"`
	UserId       uuid.UUID               `json:"user_id"`
}

type Offer struct {
	Offer        webrtc.SessionDescription `json:"offer"`
	CarShortName string                    `json:"car_name"`
	SeatNumber   int                       `json:"seat_number"`
	UserId       uuid.UUID                 `json:"user_id"`
}

type Answer struct {
	Answer     *webrtc.SessionDescription `json:"answer"`
	SeatNumber int                        `json:"seat_number"`
}

type ControlState struct {
	Axes      []float64 `json:"axes"`
	BitButton uint32    `json:"bit_buttons"`
	TimeStamp int64     `json:"time_stamp"`
	Buttons   []bool
}

type Hud struct {
	Lines []string `json:"lines"`
}

type Ping struct {
	Source    string `json:"source"`
	TimeStamp int64  `json:"time_stamp"`
}

type Seat struct {
	Index          int
	CommandChannel chan ControlState
	HudChannel     chan Hud
}

// StepEvent is the simulator bridge's per-tick telemetry. A negative
// TimeStepMS marks end-of-run.
type StepEvent struct {
	TimeStepMS    int     `json:"time_step_ms"`
	SimTime       float64 `json:"sim_time"`
	SpeedKPH      float64 `json:"speed_kph"`
	SteeringAngle float64 `json:"steering_angle"`
}

// CameraFrame is a raw BGRA image as the simulator camera delivers it.
type CameraFrame struct {
	Device  string  `json:"device"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	BGRA    []byte  `json:"bgra"`
	SimTime float64 `json:"sim_time"`
}

// LidarScan is one range image. +Inf samples mean no return.
type LidarScan struct {
	Device  string    `json:"device"`
	Ranges  []float64 `json:"ranges"`
	SimTime float64   `json:"sim_time"`
}

type GPSFix struct {
	Device  string  `json:"device"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	SimTime float64 `json:"sim_time"`
}

// DeviceEnable asks the bridge to start polling a named device.
type DeviceEnable struct {
	Device   string `json:"device"`
	PeriodMS int    `json:"period_ms"`
}

// DriveCommand is the actuator write-back for one control cycle.
type DriveCommand struct {
	SteeringAngle float64 `json:"steering_angle"`
	CruisingSpeed float64 `json:"cruising_speed"`
}

// SaveImageReq asks the simulator to write the camera's current image
// itself; the client never touches the pixels for captures.
type SaveImageReq struct {
	Device  string `json:"device"`
	Path    string `json:"path"`
	Quality int    `json:"quality"`
}

// DisplayOp is a single draw call on the simulator display device.
type DisplayOp struct {
	Device string `json:"device"`
	Op     string `json:"op"`
	Color  uint32 `json:"color"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Text   string `json:"text"`
}
