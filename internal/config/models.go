package config

const (
	MaxSupportedServos = 16
	AppEnvBase         = "NAVAUTO_"

	DefaultServer      = "127.0.0.1:8181"
	DefaultCarKey      = "7f7a62a3-3c1d-4e89-b0d2-55f0c8ac41e6" //TODO Remove after testing
	DefaultPassword    = ""
	DefaultSeatCount   = 1
	DefaultVehicleType = "capture"

	// Default simulator device names and polling interval
	DefaultTimeStepMS    = 32
	DefaultCameraDevice  = "camera"
	DefaultLidarDevice   = "lidar"
	DefaultGPSDevice     = "gps"
	DefaultDisplayDevice = "display"

	// Default Command Options
	DefaultCommandDriver = "sim"
	DefaultAddress       = 0x40
	DefaultI2CDevice     = "/dev/i2c-1"
	DefaultMaxPulse      = 2250
	DefaultMinPulse      = 750
	DefaultInverted      = false
	DefaultOffset        = 0

	// Default Capture Options
	DefaultCaptureFolder      = "train_images"
	DefaultCaptureCSV         = "images.csv"
	DefaultCaptureSaveImages  = false
	DefaultCaptureStepsPerRow = 5
	DefaultCaptureDeadZone    = 0.05
	DefaultCaptureMaxSteering = 1.0
	DefaultCaptureSpeedKPH    = 30.0

	// Default Pilot Options (cruiser and sentry)
	DefaultPilotDeadZone  = 0.06
	DefaultPilotMaxAngle  = 0.28
	DefaultPilotSpeedKPH  = 25.0
	DefaultPilotInferTick = 30

	// Default Sentry Options
	DefaultSentryPedestrianLasers = 150
	DefaultSentryCarStopRange     = 6.5
	DefaultSentryCruiseSpeedKPH   = 30.0

	// Default Inference Options
	DefaultInferServer    = "127.0.0.1:9797"
	DefaultInferTimeoutMS = 500
)

type Config struct {
	ServerCfg  ServerConfig
	CommandCfg CommandConfig
	DeviceCfg  DeviceConfig
	InferCfg   InferConfig

	// Vehicle specific configs
	CaptureCfg CaptureConfig
	CruiserCfg CruiserConfig
	SentryCfg  SentryConfig
}

type ServerConfig struct {
	Server      string
	Key         string
	Password    string
	SeatCount   int
	VehicleType string
}

type CommandConfig struct {
	CommandDriver string
	Address       byte
	I2CDevice     string
	ServoCfgs     []ServoConfig
}

type ServoConfig struct {
	Name     string
	Inverted bool
	Channel  int
	MaxPulse float64
	MinPulse float64
	Offset   int
}

type DeviceConfig struct {
	TimeStepMS int
	Camera     string
	Lidar      string
	GPS        string
	Display    string
}

type InferConfig struct {
	Server    string
	TimeoutMS int
}

// PilotConfig is the steering mapping shared by the model-driven vehicles.
type PilotConfig struct {
	DeadZone  float64
	MaxAngle  float64
	SpeedKPH  float64
	InferTick int
}

type CaptureConfig struct {
	Folder      string
	CSVPath     string
	SaveImages  bool
	StepsPerRow int
	DeadZone    float64
	MaxSteering float64
	SpeedKPH    float64
}

type CruiserConfig struct {
	PilotConfig
}

type SentryConfig struct {
	PilotConfig
	PedestrianMaxLasers int
	CarStopRangeM       float64
	CruiseSpeedKPH      float64
}
