// services/hal/internal/halcore/types.go
package halcore

import (
	"tinygo.org/x/drivers"
)

// ---- Buses ----

// I2C is the TinyGo drivers.I2C shape: one write-then-read transaction.
// A zero-length write with no read is an address-only probe.
type I2C = drivers.I2C

// I2CBusFactory injects configured I²C instances by id ("i2c0", "i2c1").
type I2CBusFactory interface {
	ByID(id string) (drivers.I2C, bool)
}

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

func PullToString(p Pull) string {
	switch p {
	case PullUp:
		return "up"
	case PullDown:
		return "down"
	default:
		return "none"
	}
}

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// PinFactory supplies GPIO pins by the configured number scheme.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

// ---- PWM ----

// PWM is one output channel. Configure sets the carrier frequency and the
// logical resolution; Set takes a level in [0, top].
type PWM interface {
	Configure(freqHz uint64, top uint16) error
	Set(level uint16)
}

// PWMFactory hands out PWM channels by pin number.
type PWMFactory interface {
	ByPin(n int) (PWM, bool)
}

// ---- ADC ----

// ADC is a single analog input. Get returns a 16-bit left-aligned sample
// (TinyGo machine.ADC convention).
type ADC interface {
	Get() uint16
}

// ADCFactory resolves named analog inputs ("throttle", "battery").
type ADCFactory interface {
	ByName(name string) (ADC, bool)
}
