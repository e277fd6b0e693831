// services/hal/hal.go

// Package hal is the throttle controller's hardware abstraction layer: the
// trigger sensor, the half-bridge PWM outputs, buttons, buzzer, LED and
// battery voltage sense.
package hal

import (
	"context"
	"sync"
	"time"

	"throttlehal-go/diag"
	"throttlehal-go/services/hal/config"
	"throttlehal-go/services/hal/internal/halcore"
	"throttlehal-go/services/hal/sensor"
	"throttlehal-go/x/mathx"
)

// Channel selects a PWM output for AnalogWrite.
type Channel uint8

const (
	ChannelIN  Channel = iota // half-bridge input
	ChannelINH                // half-bridge inhibit
)

// Button identifies an active-low push button.
type Button uint8

const (
	ButtonTrigger Button = iota
	ButtonEncoder
)

// HAL owns every peripheral the controller uses. Methods are safe for
// concurrent use.
type HAL struct {
	cfg    config.HALConfig
	res    Resources
	log    diag.Logger
	reader *sensor.Reader
	top    uint16

	mu      sync.Mutex
	pwmIn   halcore.PWM
	pwmInh  halcore.PWM
	buzzer  halcore.PWM
	led     halcore.GPIOPin
	buttons [2]halcore.GPIOPin
}

// New validates cfg and binds the sensor reader to res. Nothing is touched
// on the wire until InitHW or the first ReadTriggerRaw.
func New(cfg config.HALConfig, res Resources, log diag.Logger) (*HAL, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	log = diag.OrNop(log)
	if res.Sleep == nil {
		res.Sleep = time.Sleep
	}

	var adc halcore.ADC
	if res.ADC != nil {
		adc, _ = res.ADC.ByName("throttle")
	}
	r, err := sensor.Open(cfg.Sensor.Model, res.I2C, adc, log)
	if err != nil {
		return nil, err
	}
	return &HAL{cfg: cfg, res: res, log: log, reader: r, top: cfg.PWM.Top()}, nil
}

// InitHW detects and configures the trigger sensor and attaches the PWM
// outputs. Hardware faults are logged and startup continues.
func (h *HAL) InitHW(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.log.Info("throttle hal starting", "model", h.cfg.Sensor.Model, "bus", h.cfg.Sensor.Bus)

	st := h.reader.Init()
	h.log.Info("trigger sensor ready", "state", st.String(), "addr", h.reader.Address().String())

	h.mu.Lock()
	h.pwmIn = h.attachPWM("in", h.cfg.PWM.InPin)
	h.pwmInh = h.attachPWM("inh", h.cfg.PWM.InhPin)
	h.mu.Unlock()
	return nil
}

func (h *HAL) attachPWM(name string, pin int) halcore.PWM {
	if pin < 0 || h.res.PWM == nil {
		return nil
	}
	p, ok := h.res.PWM.ByPin(pin)
	if !ok {
		h.log.Error("pwm unavailable", "channel", name, "pin", pin)
		return nil
	}
	if err := p.Configure(uint64(h.cfg.PWM.FreqHz), h.top); err != nil {
		h.log.Error("pwm configure failed", "channel", name, "pin", pin, "err", err)
		return nil
	}
	p.Set(0)
	return p
}

// ReadTriggerRaw returns the current trigger position. It never fails.
func (h *HAL) ReadTriggerRaw() int16 { return h.reader.ReadRaw() }

// Reader exposes the trigger sensor for status reporting.
func (h *HAL) Reader() *sensor.Reader { return h.reader }

func (h *HAL) Config() config.HALConfig { return h.cfg }

// AnalogWrite sets the duty of a half-bridge channel, clamped to the
// configured resolution. Other channels are ignored.
func (h *HAL) AnalogWrite(ch Channel, value uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var p halcore.PWM
	switch ch {
	case ChannelIN:
		p = h.pwmIn
	case ChannelINH:
		p = h.pwmInh
	}
	if p == nil {
		return
	}
	p.Set(uint16(mathx.Min(value, uint32(h.top))))
}

// PinSetup configures the buzzer and LED as outputs (low) and both buttons
// as pulled-up inputs.
func (h *HAL) PinSetup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.res.Pins == nil {
		return
	}
	if p := h.pin("buzzer", h.cfg.Pins.Buzzer); p != nil {
		_ = p.ConfigureOutput(false)
	}
	if p := h.pin("led", h.cfg.Pins.LED); p != nil {
		_ = p.ConfigureOutput(false)
		h.led = p
	}
	for i, n := range [2]int{h.cfg.Pins.TriggerButton, h.cfg.Pins.EncoderButton} {
		if p := h.pin("button", n); p != nil {
			_ = p.ConfigureInput(halcore.PullUp)
			h.buttons[i] = p
			h.log.Debug("button input", "pin", n, "pull", halcore.PullToString(halcore.PullUp))
		}
	}
}

func (h *HAL) pin(name string, n int) halcore.GPIOPin {
	if n < 0 {
		return nil
	}
	p, ok := h.res.Pins.ByNumber(n)
	if !ok {
		h.log.Warn("pin unavailable", "name", name, "pin", n)
		return nil
	}
	return p
}

// ButtonPressed reports whether b is held. Buttons are active low; an
// unconfigured button reads as released.
func (h *HAL) ButtonPressed(b Button) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if int(b) >= len(h.buttons) || h.buttons[b] == nil {
		return false
	}
	return !h.buttons[b].Get()
}

// SetLED drives the status LED if PinSetup found one.
func (h *HAL) SetLED(on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.led != nil {
		h.led.Set(on)
	}
}

// ReadVoltageDivider samples the named ADC input and returns the voltage at
// the top of a divider in millivolts: rLow is the resistor to ground, rHigh
// the one to the measured rail. Unknown inputs and rLow == 0 read 0.
func (h *HAL) ReadVoltageDivider(adc string, rLow, rHigh uint32) uint16 {
	if rLow == 0 || h.res.ADC == nil {
		return 0
	}
	a, ok := h.res.ADC.ByName(adc)
	if !ok {
		return 0
	}
	steps := uint64(h.cfg.ADC.Steps)
	raw := uint64(a.Get()) * steps >> 16
	v := uint64(h.cfg.ADC.RangeMV) * raw / steps
	v = v * (uint64(rLow) + uint64(rHigh)) / uint64(rLow)
	return uint16(mathx.Min(v, 0xFFFF))
}
