// Package config holds the throttle HAL's board configuration.
//
// Values come from Default (or a named Preset), then an optional YAML file,
// then THROTTLE_* environment variables. Pin numbers are logical GPIO
// numbers; -1 means the board has no such pin.
package config

import (
	"strings"

	"throttlehal-go/errcode"
)

type HALConfig struct {
	Sensor  SensorConfig  `yaml:"sensor" envPrefix:"SENSOR_"`
	PWM     PWMConfig     `yaml:"pwm" envPrefix:"PWM_"`
	Pins    PinsConfig    `yaml:"pins" envPrefix:"PINS_"`
	Buzzer  BuzzerConfig  `yaml:"buzzer" envPrefix:"BUZZER_"`
	ADC     ADCConfig     `yaml:"adc" envPrefix:"ADC_"`
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOG_"`
	Poll    PollConfig    `yaml:"poll" envPrefix:"POLL_"`
}

// SensorConfig selects the throttle sensor model and the bus it sits on.
type SensorConfig struct {
	Model string `yaml:"model" env:"MODEL"`
	Bus   string `yaml:"bus" env:"BUS"`       // e.g. "i2c0", or "/dev/i2c-1" on Linux
	BusHz uint32 `yaml:"bus_hz" env:"BUS_HZ"` // I²C clock
}

// PWMConfig drives the two half-bridge inputs of the motor stage.
type PWMConfig struct {
	FreqHz         uint32 `yaml:"freq_hz" env:"FREQ_HZ"`
	ResolutionBits uint8  `yaml:"resolution_bits" env:"RESOLUTION_BITS"`
	InPin          int    `yaml:"in_pin" env:"IN_PIN"`
	InhPin         int    `yaml:"inh_pin" env:"INH_PIN"`
}

// Top is the largest duty value at the configured resolution.
func (p PWMConfig) Top() uint16 {
	if p.ResolutionBits == 0 || p.ResolutionBits > 16 {
		return 0xFFFF
	}
	return uint16(uint32(1)<<p.ResolutionBits - 1)
}

type PinsConfig struct {
	Buzzer        int `yaml:"buzzer" env:"BUZZER"`
	LED           int `yaml:"led" env:"LED"`
	TriggerButton int `yaml:"trigger_button" env:"TRIGGER_BUTTON"`
	EncoderButton int `yaml:"encoder_button" env:"ENCODER_BUTTON"`
}

type BuzzerConfig struct {
	KeySoundMs uint32 `yaml:"key_sound_ms" env:"KEY_SOUND_MS"`
}

// ADCConfig describes the converter's full scale and which pins feed the
// named inputs.
type ADCConfig struct {
	RangeMV  uint32 `yaml:"range_mv" env:"RANGE_MV"`
	Steps    uint32 `yaml:"steps" env:"STEPS"`
	Throttle int    `yaml:"throttle" env:"THROTTLE"`
	Battery  int    `yaml:"battery" env:"BATTERY"`
}

// Pins maps ADC input names to pins, skipping absent ones.
func (a ADCConfig) Pins() map[string]int {
	m := make(map[string]int, 2)
	if a.Throttle >= 0 {
		m["throttle"] = a.Throttle
	}
	if a.Battery >= 0 {
		m["battery"] = a.Battery
	}
	return m
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"FORMAT"` // json or text
	Output string `yaml:"output" env:"OUTPUT"` // stdout or stderr
}

type PollConfig struct {
	IntervalMs uint32 `yaml:"interval_ms" env:"INTERVAL_MS"`
}

// Default is the dual-axis Hall board at 1 MHz on i2c0 with Pico pin-out.
func Default() HALConfig {
	return HALConfig{
		Sensor: SensorConfig{Model: "tle493d-w2b6", Bus: "i2c0", BusHz: 1_000_000},
		PWM:    PWMConfig{FreqHz: 20_000, ResolutionBits: 8, InPin: 16, InhPin: 17},
		Pins:   PinsConfig{Buzzer: 15, LED: 25, TriggerButton: 14, EncoderButton: 13},
		Buzzer: BuzzerConfig{KeySoundMs: 20},
		ADC:    ADCConfig{RangeMV: 3300, Steps: 4096, Throttle: 26, Battery: 27},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Poll: PollConfig{IntervalMs: 10},
	}
}

// Preset returns a named board configuration.
func Preset(name string) (HALConfig, error) {
	cfg := Default()
	switch strings.ToLower(name) {
	case "", "espeed32-w2b6":
	case "espeed32-p3b6":
		cfg.Sensor.Model = "tle493d-p3b6"
	case "pico-as5600":
		cfg.Sensor.Model = "as5600"
		cfg.Sensor.BusHz = 400_000
	case "pico-analog":
		cfg.Sensor.Model = "analog"
		cfg.Sensor.Bus = ""
		cfg.Sensor.BusHz = 0
	default:
		return HALConfig{}, &errcode.E{C: errcode.NotFound, Op: "config.Preset", Msg: name}
	}
	return cfg, nil
}

// Presets lists the names Preset accepts.
func Presets() []string {
	return []string{"espeed32-w2b6", "espeed32-p3b6", "pico-as5600", "pico-analog"}
}
