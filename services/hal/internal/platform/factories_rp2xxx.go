// services/hal/internal/platform/factories_rp2xxx.go
//go:build rp2040 || rp2350

package platform

import (
	"io"
	"machine"
	"sync"

	"github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"

	"throttlehal-go/errcode"
	"throttlehal-go/services/hal/internal/halcore"
	"throttlehal-go/x/mathx"
	"throttlehal-go/x/timex"
)

// -----------------------------------------------------------------------------
// Defaults used by the HAL on Raspberry Pi Pico / Pico 2 (RP2 family)
// -----------------------------------------------------------------------------

// DefaultI2CFactory configures i2c0 and i2c1 with board-default pins at hz.
// The sensor runs in fast-mode plus, so callers normally pass 1 MHz.
func DefaultI2CFactory(hz uint32) halcore.I2CBusFactory {
	if hz == 0 {
		hz = 400 * machine.KHz
	}
	f := &rp2I2CFactory{buses: make(map[string]drivers.I2C)}

	b0 := machine.I2C0
	_ = b0.Configure(machine.I2CConfig{
		Frequency: hz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	})
	f.buses["i2c0"] = NewAckBus(b0)

	b1 := machine.I2C1
	_ = b1.Configure(machine.I2CConfig{
		Frequency: hz,
		SDA:       machine.I2C1_SDA_PIN,
		SCL:       machine.I2C1_SCL_PIN,
	})
	f.buses["i2c1"] = NewAckBus(b1)

	return f
}

// DefaultPinFactory maps logical numbers directly to machine.Pin(n)
// (Pico/Pico 2 GP numbering).
func DefaultPinFactory() halcore.PinFactory { return rp2PinFactory{} }

// DefaultPWMFactory resolves a pin to its PWM slice and channel.
func DefaultPWMFactory() halcore.PWMFactory { return rp2PWMFactory{} }

// DefaultADCFactory binds named inputs to ADC-capable pins (GP26..GP29).
func DefaultADCFactory(pins map[string]int) halcore.ADCFactory {
	machine.InitADC()
	f := &rp2ADCFactory{adcs: make(map[string]halcore.ADC)}
	for name, n := range pins {
		if n < 26 || n > 29 {
			continue
		}
		a := machine.ADC{Pin: machine.Pin(n)}
		a.Configure(machine.ADCConfig{})
		f.adcs[name] = a
	}
	return f
}

var (
	diagOnce sync.Once
	diagUART *uartx.UART
)

// DiagWriter returns UART0 at 115200 baud on the default pins.
func DiagWriter() io.Writer {
	diagOnce.Do(func() {
		diagUART = uartx.UART0
		_ = diagUART.Configure(uartx.UARTConfig{
			BaudRate: 115200,
			TX:       machine.UART0_TX_PIN,
			RX:       machine.UART0_RX_PIN,
		})
	})
	return diagUART
}

// ---- I²C implementation ----

type rp2I2CFactory struct {
	buses map[string]drivers.I2C
}

func (f *rp2I2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	return b, ok
}

// ---- GPIO implementation ----

type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	// Constrain to RP2's user GPIOs (GP0..GP28).
	if n < 0 || n > 28 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull halcore.Pull) error {
	var mode machine.PinMode
	switch pull {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Number() int    { return r.n }

// ---- PWM implementation ----

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Top() uint32
	Set(channel uint8, value uint32)
}

// Select controller handle for a given slice number (0..7).
func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

// Both channels of a slice share one period.
var slices struct {
	mu   sync.Mutex
	freq [8]uint64
	pins [8]int // pin that last set the period, -1 when none
}

func init() {
	for i := range slices.pins {
		slices.pins[i] = -1
	}
}

type rp2PWMFactory struct{}

func (rp2PWMFactory) ByPin(n int) (halcore.PWM, bool) {
	if n < 0 || n > 28 {
		return nil, false
	}
	s, err := machine.PWMPeripheral(machine.Pin(n))
	if err != nil {
		return nil, false
	}
	// Even pin => channel A, odd => B.
	return &rp2PWM{pin: n, slice: s, ctrl: pwmGroupBySlice(s), ch: uint8(n & 1)}, true
}

type rp2PWM struct {
	mu    sync.Mutex
	pin   int
	slice uint8
	ctrl  pwmCtrl
	ch    uint8

	reqTop uint16
	hwTop  uint32
}

// Configure sets the slice period. Reconfiguring a slice at a different
// frequency is refused while its other channel owns the period.
func (p *rp2PWM) Configure(freqHz uint64, top uint16) error {
	top = mathx.Max(top, 1)
	freqHz = mathx.Clamp(freqHz, 1, 1_000_000_000)

	slices.mu.Lock()
	cur, owner := slices.freq[p.slice], slices.pins[p.slice]
	if cur != 0 && cur != freqHz && owner != p.pin {
		slices.mu.Unlock()
		return errcode.InvalidParams
	}
	if cur != freqHz {
		period := timex.PeriodFromHz(uint32(freqHz))
		if err := p.ctrl.Configure(machine.PWMConfig{Period: period}); err != nil {
			slices.mu.Unlock()
			return err
		}
		slices.freq[p.slice] = freqHz
		slices.pins[p.slice] = p.pin
	}
	slices.mu.Unlock()

	machine.Pin(p.pin).Configure(machine.PinConfig{Mode: machine.PinPWM})

	p.mu.Lock()
	p.reqTop = top
	p.hwTop = p.ctrl.Top()
	p.mu.Unlock()
	return nil
}

// Set scales a logical level in [0, top] onto the hardware counter.
func (p *rp2PWM) Set(level uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hwTop == 0 || p.reqTop == 0 {
		return
	}
	level = mathx.Min(level, p.reqTop)
	p.ctrl.Set(p.ch, uint32(level)*p.hwTop/uint32(p.reqTop))
}

// ---- ADC implementation ----

type rp2ADCFactory struct {
	adcs map[string]halcore.ADC
}

func (f *rp2ADCFactory) ByName(name string) (halcore.ADC, bool) {
	a, ok := f.adcs[name]
	return a, ok
}
