package config

import (
	"strings"

	"throttlehal-go/errcode"
	"throttlehal-go/services/hal/sensor"
	"throttlehal-go/x/mathx"
)

// Validate reports the first problem found in cfg. It never modifies cfg.
func Validate(cfg HALConfig) error {
	m, err := sensor.Lookup(cfg.Sensor.Model)
	if err != nil {
		return err
	}
	if m.Variant != sensor.VariantAnalog && cfg.Sensor.Bus == "" {
		return invalid("sensor.bus is required for " + m.Name)
	}
	if m.Variant == sensor.VariantAnalog && cfg.ADC.Throttle < 0 {
		return invalid("adc.throttle is required for analog sensors")
	}
	if cfg.PWM.FreqHz == 0 {
		return invalid("pwm.freq_hz must be > 0")
	}
	if !mathx.Between(cfg.PWM.ResolutionBits, 1, 16) {
		return invalid("pwm.resolution_bits must be 1..16")
	}
	if cfg.PWM.InPin >= 0 && cfg.PWM.InPin == cfg.PWM.InhPin {
		return invalid("pwm.in_pin and pwm.inh_pin must differ")
	}
	if cfg.ADC.Steps == 0 {
		return invalid("adc.steps must be > 0")
	}
	if cfg.ADC.RangeMV == 0 {
		return invalid("adc.range_mv must be > 0")
	}
	if cfg.Poll.IntervalMs == 0 {
		return invalid("poll.interval_ms must be > 0")
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "", "json", "text":
	default:
		return invalid("logging.format must be json or text")
	}
	return nil
}

func invalid(msg string) error {
	return &errcode.E{C: errcode.InvalidParams, Op: "config.Validate", Msg: msg}
}
