package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

func GetConfig() Config {
	cfg := Config{
		ServerCfg:  GetServerConfig(),
		CommandCfg: GetCommandConfig(),
		DeviceCfg:  GetDeviceConfig(),
		InferCfg:   GetInferConfig(),

		//Vehicle specific configs
		CaptureCfg: GetCaptureConfig(),
		CruiserCfg: GetCruiserConfig(),
		SentryCfg:  GetSentryConfig(),
	}

	log.Printf("app Config: \n%+v\n", cfg)
	return cfg
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Server:      GetStringEnv("SERVER", DefaultServer),
		Key:         GetStringEnv("CARKEY", DefaultCarKey),
		Password:    GetStringEnv("CARPASSWORD", DefaultPassword),
		SeatCount:   GetIntEnv("SEATCOUNT", DefaultSeatCount),
		VehicleType: GetStringEnv("VEHICLETYPE", DefaultVehicleType),
	}
}

func GetCommandConfig() CommandConfig {
	commandCfg := CommandConfig{
		CommandDriver: GetStringEnv("COMMANDDRIVER", DefaultCommandDriver),
		Address:       DefaultAddress,
		I2CDevice:     GetStringEnv("I2CDEVICE", DefaultI2CDevice),
		ServoCfgs:     make([]ServoConfig, 0, MaxSupportedServos),
	}

	for i := 0; i < MaxSupportedServos; i++ {
		envPrefix := fmt.Sprintf("SERVO%d_", i)
		servoCfg := ServoConfig{
			Name:     GetStringEnv(envPrefix+"NAME", ""),
			Channel:  GetIntEnv(envPrefix+"CHANNEL", i),
			MaxPulse: float64(GetIntEnv(envPrefix+"MAXPULSE", DefaultMaxPulse)),
			MinPulse: float64(GetIntEnv(envPrefix+"MINPULSE", DefaultMinPulse)),
			Inverted: GetBoolEnv(envPrefix+"INVERTED", DefaultInverted),
			Offset:   GetIntEnv(envPrefix+"MIDOFFSET", DefaultOffset),
		}

		if servoCfg.Name != "" {
			log.Printf("found config for servo: %s\n", servoCfg.Name)
			commandCfg.ServoCfgs = append(commandCfg.ServoCfgs, servoCfg)
		}
	}
	return commandCfg
}

func GetDeviceConfig() DeviceConfig {
	envPrefix := "DEVICE_"
	return DeviceConfig{
		TimeStepMS: GetIntEnv(envPrefix+"TIMESTEP", DefaultTimeStepMS),
		Camera:     GetStringEnv(envPrefix+"CAMERA", DefaultCameraDevice),
		Lidar:      GetStringEnv(envPrefix+"LIDAR", DefaultLidarDevice),
		GPS:        GetStringEnv(envPrefix+"GPS", DefaultGPSDevice),
		Display:    GetStringEnv(envPrefix+"DISPLAY", DefaultDisplayDevice),
	}
}

func GetInferConfig() InferConfig {
	envPrefix := "INFER_"
	return InferConfig{
		Server:    GetStringEnv(envPrefix+"SERVER", DefaultInferServer),
		TimeoutMS: GetIntEnv(envPrefix+"TIMEOUT", DefaultInferTimeoutMS),
	}
}

func GetCaptureConfig() CaptureConfig {
	envPrefix := "CAPTURE_"
	return CaptureConfig{
		Folder:      GetPathEnv(envPrefix+"FOLDER", DefaultCaptureFolder),
		CSVPath:     GetPathEnv(envPrefix+"CSV", DefaultCaptureCSV),
		SaveImages:  GetBoolEnv(envPrefix+"SAVEIMAGES", DefaultCaptureSaveImages),
		StepsPerRow: GetIntEnv(envPrefix+"STEPSPERROW", DefaultCaptureStepsPerRow),
		DeadZone:    GetFloatEnv(envPrefix+"DEADZONE", DefaultCaptureDeadZone),
		MaxSteering: GetFloatEnv(envPrefix+"MAXSTEERING", DefaultCaptureMaxSteering),
		SpeedKPH:    GetFloatEnv(envPrefix+"SPEED", DefaultCaptureSpeedKPH),
	}
}

func GetCruiserConfig() CruiserConfig {
	return CruiserConfig{
		PilotConfig: GetPilotConfig("CRUISER_"),
	}
}

func GetSentryConfig() SentryConfig {
	envPrefix := "SENTRY_"
	return SentryConfig{
		PilotConfig:         GetPilotConfig(envPrefix),
		PedestrianMaxLasers: GetIntEnv(envPrefix+"PEDESTRIANLASERS", DefaultSentryPedestrianLasers),
		CarStopRangeM:       GetFloatEnv(envPrefix+"CARSTOPRANGE", DefaultSentryCarStopRange),
		CruiseSpeedKPH:      GetFloatEnv(envPrefix+"CRUISESPEED", DefaultSentryCruiseSpeedKPH),
	}
}

func GetPilotConfig(envPrefix string) PilotConfig {
	return PilotConfig{
		DeadZone:  GetFloatEnv(envPrefix+"DEADZONE", DefaultPilotDeadZone),
		MaxAngle:  GetFloatEnv(envPrefix+"MAXANGLE", DefaultPilotMaxAngle),
		SpeedKPH:  GetFloatEnv(envPrefix+"SPEED", DefaultPilotSpeedKPH),
		InferTick: GetIntEnv(envPrefix+"INFERTICK", DefaultPilotInferTick),
	}
}

func GetIntEnv(env string, defaultValue int) int {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseInt(strings.Trim(envValue, "\r"), 10, 32)
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		} else {
			return int(value)
		}
	}
}

func GetBoolEnv(env string, defaultValue bool) bool {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseBool(strings.Trim(envValue, "\r"))
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		} else {
			return value
		}
	}
}

func GetStringEnv(env string, defaultValue string) string {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		return strings.ToLower(strings.Trim(envValue, "\r"))
	}
}

// GetPathEnv keeps the value's casing, unlike GetStringEnv.
func GetPathEnv(env string, defaultValue string) string {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		return strings.Trim(envValue, "\r")
	}
}

func GetFloatEnv(env string, defaultValue float64) float64 {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseFloat(envValue, 64)
		if err != nil {
			return defaultValue
		}
		return value
	}
}
