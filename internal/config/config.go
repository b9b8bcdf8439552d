package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Variant selects the GPS report cadence.
const (
	VariantSimple   = "simple"
	VariantExtended = "extended"
)

// ConsoleDevice makes the debug channel use the process terminal.
const ConsoleDevice = "stdio"

type Config struct {
	Variant  string         `yaml:"variant"`
	Log      LogConfig      `yaml:"log"`
	Debug    SerialConfig   `yaml:"debug"`
	Modem    ModemConfig    `yaml:"modem"`
	GPS      GPSConfig      `yaml:"gps"`
	GPIO     GPIOConfig     `yaml:"gpio"`
	Power    PowerConfig    `yaml:"power"`
	Bridge   BridgeConfig   `yaml:"bridge"`
	Button   ButtonConfig   `yaml:"button"`
	SelfTest SelfTestConfig `yaml:"selftest"`
	Loop     LoopConfig     `yaml:"loop"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

type ModemConfig struct {
	Device  string        `yaml:"device"`
	Baud    int           `yaml:"baud"`
	Timeout time.Duration `yaml:"timeout"`
	Trace   bool          `yaml:"trace"`
}

type GPSConfig struct {
	Device         string        `yaml:"device"`
	Baud           int           `yaml:"baud"`
	Echo           bool          `yaml:"echo"`
	ReportInterval time.Duration `yaml:"report_interval"`
	Grace          time.Duration `yaml:"grace"`
	MinChars       int           `yaml:"min_chars"`
	WarnPause      time.Duration `yaml:"warn_pause"`
}

// GPIOConfig holds line offsets on Chip. A negative offset disables an
// optional line.
type GPIOConfig struct {
	Chip       string `yaml:"chip"`
	PowerOn    int    `yaml:"power_on"`
	Reset      int    `yaml:"reset"`
	ModemPower int    `yaml:"modem_power"`
	Button     int    `yaml:"button"`
	ModemDTR   *int   `yaml:"modem_dtr"`
	GPSWakeup  *int   `yaml:"gps_wakeup"`
}

type PowerConfig struct {
	PulseLow  time.Duration `yaml:"pulse_low"`
	PulseHigh time.Duration `yaml:"pulse_high"`
	Settle    time.Duration `yaml:"settle"`
}

type BridgeConfig struct {
	MaxLine int `yaml:"max_line"`
}

type ButtonConfig struct {
	Enable   bool          `yaml:"enable"`
	Debounce time.Duration `yaml:"debounce"`
}

type SelfTestConfig struct {
	APN            string        `yaml:"apn"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	SIMPin         string        `yaml:"sim_pin"`
	Host           string        `yaml:"host"`
	Path           string        `yaml:"path"`
	NetworkTimeout time.Duration `yaml:"network_timeout"`
	BodyLimit      int           `yaml:"body_limit"`
	Progress       bool          `yaml:"progress"`
}

type LoopConfig struct {
	Yield time.Duration `yaml:"yield"`
}

// Load reads and validates the YAML file at path.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes a YAML document, rejects unknown fields, validates it and
// fills defaults.
func Parse(b []byte) (Config, error) {
	// The LilyGO T-A7670G R2 pin map is preset so a configured offset of 0
	// stays 0.
	cfg := Config{GPIO: GPIOConfig{Chip: "gpiochip0", PowerOn: 12, Reset: 5, ModemPower: 4}}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		if strings.Contains(err.Error(), "not found in type") {
			return Config{}, fmt.Errorf("config contains unknown fields: %w", err)
		}
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Modem.Device) == "" {
		return Config{}, fmt.Errorf("modem.device is required")
	}
	if strings.TrimSpace(cfg.GPS.Device) == "" {
		return Config{}, fmt.Errorf("gps.device is required")
	}

	cfg.Variant = strings.ToLower(strings.TrimSpace(cfg.Variant))
	switch cfg.Variant {
	case "":
		cfg.Variant = VariantSimple
	case VariantSimple, VariantExtended:
	default:
		return Config{}, fmt.Errorf("variant must be 'simple' or 'extended'")
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "":
		cfg.Log.Level = "info"
	case "debug", "info", "warn", "error":
		cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	default:
		return Config{}, fmt.Errorf("log.level must be one of debug, info, warn, error")
	}

	if cfg.Debug.Device == "" {
		cfg.Debug.Device = ConsoleDevice
	}
	if cfg.Debug.Baud == 0 {
		cfg.Debug.Baud = 115200
	}
	if cfg.Modem.Baud == 0 {
		cfg.Modem.Baud = 115200
	}
	if cfg.Modem.Timeout <= 0 {
		cfg.Modem.Timeout = 5 * time.Second
	}
	if cfg.GPS.Baud == 0 {
		cfg.GPS.Baud = 9600
	}
	if cfg.Debug.Baud < 0 || cfg.Modem.Baud < 0 || cfg.GPS.Baud < 0 {
		return Config{}, fmt.Errorf("baud rates must be > 0")
	}
	if cfg.GPS.ReportInterval <= 0 {
		cfg.GPS.ReportInterval = 5 * time.Second
	}
	if cfg.GPS.Grace <= 0 {
		cfg.GPS.Grace = 30 * time.Second
	}
	if cfg.GPS.MinChars <= 0 {
		cfg.GPS.MinChars = 10
	}
	if cfg.GPS.WarnPause <= 0 {
		cfg.GPS.WarnPause = time.Second
	}

	if cfg.GPIO.Chip == "" {
		cfg.GPIO.Chip = "gpiochip0"
	}
	if cfg.GPIO.PowerOn < 0 || cfg.GPIO.Reset < 0 || cfg.GPIO.ModemPower < 0 || cfg.GPIO.Button < 0 {
		return Config{}, fmt.Errorf("gpio offsets must be >= 0")
	}

	if cfg.Power.PulseLow <= 0 {
		cfg.Power.PulseLow = 100 * time.Millisecond
	}
	if cfg.Power.PulseHigh <= 0 {
		cfg.Power.PulseHigh = 1000 * time.Millisecond
	}
	if cfg.Power.Settle <= 0 {
		cfg.Power.Settle = 2 * time.Second
	}

	if cfg.Bridge.MaxLine == 0 {
		cfg.Bridge.MaxLine = 256
	}
	if cfg.Bridge.MaxLine < 2 {
		return Config{}, fmt.Errorf("bridge.max_line must be >= 2")
	}

	if cfg.Button.Debounce <= 0 {
		cfg.Button.Debounce = 50 * time.Millisecond
	}

	if cfg.Button.Enable {
		if strings.TrimSpace(cfg.SelfTest.APN) == "" {
			return Config{}, fmt.Errorf("selftest.apn is required when button.enable is true")
		}
		if strings.TrimSpace(cfg.SelfTest.Host) == "" {
			return Config{}, fmt.Errorf("selftest.host is required when button.enable is true")
		}
	}
	if cfg.SelfTest.Path == "" {
		cfg.SelfTest.Path = "/"
	}
	if !strings.HasPrefix(cfg.SelfTest.Path, "/") {
		return Config{}, fmt.Errorf("selftest.path must start with '/'")
	}
	if cfg.SelfTest.NetworkTimeout <= 0 {
		cfg.SelfTest.NetworkTimeout = 30 * time.Second
	}
	if cfg.SelfTest.BodyLimit <= 0 {
		cfg.SelfTest.BodyLimit = 500
	}

	if cfg.Loop.Yield <= 0 {
		cfg.Loop.Yield = time.Millisecond
	}

	return cfg, nil
}
