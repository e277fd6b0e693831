//go:build !tinygo

// Package periphio runs the throttle HAL on Linux single-board computers
// through periph.io: /dev/i2c-* buses, sysfs/gpiomem pins and the host's
// PWM-capable pins.
package periphio

import (
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"throttlehal-go/errcode"
	"throttlehal-go/services/hal"
	"throttlehal-go/services/hal/config"
	"throttlehal-go/services/hal/internal/halcore"
	"throttlehal-go/x/conv"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init loads the periph.io host drivers once per process.
func Init() error {
	initOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			initErr = errcode.Wrap(errcode.Unsupported, "periphio.Init", err)
		}
	})
	return initErr
}

// OpenI2C opens a bus by periph name ("1", "/dev/i2c-1", "I2C1") and, when
// hz is non-zero, asks for that clock. Not every kernel driver accepts a
// speed change; that is not an error.
func OpenI2C(name string, hz uint32) (i2c.BusCloser, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, errcode.Wrap(errcode.UnknownBus, "periphio.OpenI2C", err)
	}
	if hz > 0 {
		_ = b.SetSpeed(physic.Frequency(hz) * physic.Hertz)
	}
	return b, nil
}

// Open builds HAL resources for cfg. The caller closes the returned bus
// (nil for analog sensors). Linux boards have no generic ADC, so analog
// inputs read as absent.
func Open(cfg config.HALConfig) (hal.Resources, i2c.BusCloser, error) {
	if err := Init(); err != nil {
		return hal.Resources{}, nil, err
	}
	res := hal.Resources{
		Pins: PinFactory{},
		PWM:  PWMFactory{},
	}
	if cfg.Sensor.Bus == "" {
		return res, nil, nil
	}
	b, err := OpenI2C(cfg.Sensor.Bus, cfg.Sensor.BusHz)
	if err != nil {
		return hal.Resources{}, nil, err
	}
	res.I2C = b
	return res, b, nil
}

func pinByNumber(n int) gpio.PinIO {
	if n < 0 {
		return nil
	}
	var buf [20]byte
	return gpioreg.ByName("GPIO" + string(conv.Itoa(buf[:], int64(n))))
}

// ---- GPIO ----

// PinFactory resolves BCM-style numbers through gpioreg ("GPIO17").
type PinFactory struct{}

func (PinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	p := pinByNumber(n)
	if p == nil {
		return nil, false
	}
	return &pin{p: p, n: n}, true
}

type pin struct {
	p gpio.PinIO
	n int
}

func (x *pin) ConfigureInput(pull halcore.Pull) error {
	var gp gpio.Pull
	switch pull {
	case halcore.PullUp:
		gp = gpio.PullUp
	case halcore.PullDown:
		gp = gpio.PullDown
	default:
		gp = gpio.Float
	}
	return x.p.In(gp, gpio.NoEdge)
}

func (x *pin) ConfigureOutput(initial bool) error { return x.p.Out(gpio.Level(initial)) }
func (x *pin) Set(level bool)                     { _ = x.p.Out(gpio.Level(level)) }
func (x *pin) Get() bool                          { return x.p.Read() == gpio.High }
func (x *pin) Number() int                        { return x.n }

// ---- PWM ----

// PWMFactory drives pins through gpio.PinOut.PWM. Pins without hardware PWM
// fail at Configure time.
type PWMFactory struct{}

func (PWMFactory) ByPin(n int) (halcore.PWM, bool) {
	p := pinByNumber(n)
	if p == nil {
		return nil, false
	}
	return &pwm{p: p}, true
}

type pwm struct {
	mu   sync.Mutex
	p    gpio.PinIO
	freq physic.Frequency
	top  uint16
}

func (x *pwm) Configure(freqHz uint64, top uint16) error {
	if freqHz == 0 || top == 0 {
		return errcode.InvalidParams
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.freq = physic.Frequency(freqHz) * physic.Hertz
	x.top = top
	if err := x.p.PWM(0, x.freq); err != nil {
		return errcode.Wrap(errcode.Unsupported, "periphio.pwm.Configure", err)
	}
	return nil
}

func (x *pwm) Set(level uint16) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.top == 0 {
		return
	}
	if level > x.top {
		level = x.top
	}
	_ = x.p.PWM(duty(level, x.top), x.freq)
}

// duty maps [0, top] onto periph's [0, gpio.DutyMax].
func duty(level, top uint16) gpio.Duty {
	return gpio.Duty(uint64(level) * uint64(gpio.DutyMax) / uint64(top))
}
