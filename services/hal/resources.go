package hal

import (
	"io"
	"time"

	"tinygo.org/x/drivers"

	"throttlehal-go/errcode"
	"throttlehal-go/services/hal/config"
	"throttlehal-go/services/hal/internal/halcore"
	"throttlehal-go/services/hal/internal/platform"
)

// Capability interfaces, re-exported for callers outside services/hal.
type (
	ADCFactory = halcore.ADCFactory
	PinFactory = halcore.PinFactory
	PWMFactory = halcore.PWMFactory
)

// Resources is the hardware a HAL is built on. I2C may be nil for analog
// sensors; Sleep defaults to time.Sleep.
type Resources struct {
	I2C   drivers.I2C
	ADC   ADCFactory
	Pins  PinFactory
	PWM   PWMFactory
	Sleep func(time.Duration)
}

// DefaultResources opens the platform's peripherals for cfg: the RP2
// machine package on TinyGo, the simulator elsewhere.
func DefaultResources(cfg config.HALConfig) (Resources, error) {
	res := Resources{
		ADC:  platform.DefaultADCFactory(cfg.ADC.Pins()),
		Pins: platform.DefaultPinFactory(),
		PWM:  platform.DefaultPWMFactory(),
	}
	if cfg.Sensor.Bus == "" {
		return res, nil
	}
	b, ok := platform.DefaultI2CFactory(cfg.Sensor.BusHz).ByID(cfg.Sensor.Bus)
	if !ok {
		return Resources{}, &errcode.E{C: errcode.UnknownBus, Op: "hal.DefaultResources", Msg: cfg.Sensor.Bus}
	}
	res.I2C = b
	return res, nil
}

// DiagWriter is the platform's diagnostic console, or nil if it has none.
func DiagWriter() io.Writer { return platform.DiagWriter() }
