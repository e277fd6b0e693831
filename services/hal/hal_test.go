package hal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"throttlehal-go/diag"
	"throttlehal-go/drivers/tle493d"
	"throttlehal-go/errcode"
	"throttlehal-go/services/hal/config"
	"throttlehal-go/services/hal/internal/halcore"
	"throttlehal-go/services/hal/internal/platform"
	"throttlehal-go/services/hal/sensor"
)

type rig struct {
	bus    *platform.SimI2C
	pins   *platform.HostPinFactory
	pwm    *platform.SimPWMFactory
	adc    *platform.SimADCFactory
	sleeps []time.Duration
	log    bytes.Buffer
}

func newRig(t *testing.T, cfg config.HALConfig) (*HAL, *rig) {
	t.Helper()
	r := &rig{
		bus:  platform.NewSimI2C(),
		pins: &platform.HostPinFactory{},
		pwm:  &platform.SimPWMFactory{},
		adc: &platform.SimADCFactory{ADCs: map[string]*platform.SimADC{
			"throttle": {},
			"battery":  {},
		}},
	}
	res := Resources{
		I2C:   r.bus,
		ADC:   r.adc,
		Pins:  r.pins,
		PWM:   r.pwm,
		Sleep: func(d time.Duration) { r.sleeps = append(r.sleeps, d) },
	}
	h, err := New(cfg, res, diag.NewPrint(&r.log, diag.LevelDebug))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h, r
}

func (r *rig) pwmAt(t *testing.T, pin int) *platform.SimPWM {
	t.Helper()
	p, _ := r.pwm.Get(pin)
	return p
}

func TestInitHWBindsSensorAndAttachesPWM(t *testing.T) {
	cfg := config.Default()
	h, r := newRig(t, cfg)
	r.bus.Attach(0x1F, &platform.SimTLE493D{Sample: tle493d.Sample{X: 0, Y: 300}})

	if err := h.InitHW(context.Background()); err != nil {
		t.Fatalf("InitHW: %v", err)
	}
	if h.Reader().State() != sensor.StateBound {
		t.Fatalf("state = %v", h.Reader().State())
	}
	for _, pin := range []int{cfg.PWM.InPin, cfg.PWM.InhPin} {
		p := r.pwmAt(t, pin)
		if p.FreqHz != 20_000 || p.Top != 255 || p.Last() != 0 || len(p.Levels) != 1 {
			t.Fatalf("pwm %d = %+v", pin, p)
		}
	}
	if got := h.ReadTriggerRaw(); got != 900 {
		t.Fatalf("ReadTriggerRaw = %d, want 900", got)
	}
	if !strings.Contains(r.log.String(), "INFO throttle hal starting") {
		t.Fatalf("missing start banner: %q", r.log.String())
	}
}

func TestInitHWCancelled(t *testing.T) {
	h, r := newRig(t, config.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.InitHW(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("InitHW = %v", err)
	}
	if len(r.bus.Transcript()) != 0 {
		t.Fatal("cancelled InitHW touched the bus")
	}
}

func TestReadTriggerRawFallbackNeverFails(t *testing.T) {
	h, _ := newRig(t, config.Default())
	if got := h.ReadTriggerRaw(); got != 0 {
		t.Fatalf("ReadTriggerRaw = %d, want 0", got)
	}
	if h.Reader().State() != sensor.StateFallback || h.Reader().Address() != 0x1F {
		t.Fatalf("state %v addr %v", h.Reader().State(), h.Reader().Address())
	}
}

func TestAnalogWrite(t *testing.T) {
	cfg := config.Default()
	h, r := newRig(t, cfg)

	// Before InitHW there is nothing to drive.
	h.AnalogWrite(ChannelIN, 10)
	if err := h.InitHW(context.Background()); err != nil {
		t.Fatal(err)
	}
	in, inh := r.pwmAt(t, cfg.PWM.InPin), r.pwmAt(t, cfg.PWM.InhPin)

	h.AnalogWrite(ChannelIN, 1000)
	h.AnalogWrite(ChannelINH, 77)
	if in.Last() != 255 {
		t.Fatalf("IN = %d, want clamp to 255", in.Last())
	}
	if inh.Last() != 77 {
		t.Fatalf("INH = %d, want 77", inh.Last())
	}

	nIn, nInh := len(in.Levels), len(inh.Levels)
	h.AnalogWrite(Channel(9), 12)
	if len(in.Levels) != nIn || len(inh.Levels) != nInh {
		t.Fatal("unknown channel touched a PWM")
	}
}

func TestPWMConfigureFailureIsNotFatal(t *testing.T) {
	cfg := config.Default()
	h, r := newRig(t, cfg)
	r.pwmAt(t, cfg.PWM.InPin).FailConfigure(errcode.InvalidParams)

	if err := h.InitHW(context.Background()); err != nil {
		t.Fatalf("InitHW: %v", err)
	}
	if !strings.Contains(r.log.String(), "ERROR pwm configure failed channel=in") {
		t.Fatalf("log: %q", r.log.String())
	}
	h.AnalogWrite(ChannelIN, 5)
	if n := len(r.pwmAt(t, cfg.PWM.InPin).Levels); n != 0 {
		t.Fatalf("failed channel received %d writes", n)
	}
	h.AnalogWrite(ChannelINH, 5)
	if r.pwmAt(t, cfg.PWM.InhPin).Last() != 5 {
		t.Fatal("INH should still work")
	}
}

func TestPinSetupAndButtons(t *testing.T) {
	cfg := config.Default()
	h, r := newRig(t, cfg)

	if h.ButtonPressed(ButtonTrigger) {
		t.Fatal("unconfigured button reads pressed")
	}
	h.PinSetup()

	for _, n := range []int{cfg.Pins.Buzzer, cfg.Pins.LED} {
		p, _ := r.pins.Get(n)
		if out, _ := p.Mode(); !out || p.Get() {
			t.Fatalf("pin %d should be a low output", n)
		}
	}
	trig, _ := r.pins.Get(cfg.Pins.TriggerButton)
	enc, _ := r.pins.Get(cfg.Pins.EncoderButton)
	for _, p := range []*platform.FakePin{trig, enc} {
		if out, pull := p.Mode(); out || pull != halcore.PullUp {
			t.Fatalf("button pin %d not a pulled-up input", p.Number())
		}
	}

	if h.ButtonPressed(ButtonTrigger) || h.ButtonPressed(ButtonEncoder) {
		t.Fatal("idle buttons read pressed")
	}
	trig.Set(false)
	if !h.ButtonPressed(ButtonTrigger) || h.ButtonPressed(ButtonEncoder) {
		t.Fatal("active-low trigger not detected")
	}

	h.SetLED(true)
	if led, _ := r.pins.Get(cfg.Pins.LED); !led.Get() {
		t.Fatal("LED not driven")
	}
}

func TestReadVoltageDivider(t *testing.T) {
	h, r := newRig(t, config.Default())
	r.adc.ADCs["battery"].Set(0x8000) // 2048 of 4096

	if got := h.ReadVoltageDivider("battery", 10_000, 100_000); got != 18150 {
		t.Fatalf("divider = %d mV, want 18150", got)
	}
	if got := h.ReadVoltageDivider("solar", 10_000, 100_000); got != 0 {
		t.Fatalf("unknown input = %d", got)
	}
	if got := h.ReadVoltageDivider("battery", 0, 100_000); got != 0 {
		t.Fatalf("rLow 0 = %d", got)
	}
}

func TestCalibSound(t *testing.T) {
	cfg := config.Default()
	h, r := newRig(t, cfg)
	h.CalibSound()

	bz := r.pwmAt(t, cfg.Pins.Buzzer)
	wantHz := []uint64{2093, 3136, 3520}
	if len(bz.Freqs) != len(wantHz) {
		t.Fatalf("freqs = %v, want %v", bz.Freqs, wantHz)
	}
	for i := range wantHz {
		if bz.Freqs[i] != wantHz[i] {
			t.Fatalf("freqs = %v, want %v", bz.Freqs, wantHz)
		}
	}
	wantLv := []uint16{128, 0, 128, 0, 128, 0}
	for i := range wantLv {
		if bz.Levels[i] != wantLv[i] {
			t.Fatalf("levels = %v, want %v", bz.Levels, wantLv)
		}
	}
	if len(r.sleeps) != 5 {
		t.Fatalf("sleeps = %v", r.sleeps)
	}
	for _, d := range r.sleeps {
		if d != 60*time.Millisecond {
			t.Fatalf("sleeps = %v", r.sleeps)
		}
	}
}

func TestOnOffAndKeySounds(t *testing.T) {
	cfg := config.Default()
	h, r := newRig(t, cfg)
	bz := r.pwmAt(t, cfg.Pins.Buzzer)

	h.OnSound()
	h.OffSound()
	h.KeySound()

	wantHz := []uint64{2093, 2637, 2637, 2093, 2349}
	if len(bz.Freqs) != len(wantHz) {
		t.Fatalf("freqs = %v, want %v", bz.Freqs, wantHz)
	}
	for i := range wantHz {
		if bz.Freqs[i] != wantHz[i] {
			t.Fatalf("freqs = %v, want %v", bz.Freqs, wantHz)
		}
	}
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	wantSleep := []time.Duration{ms(30), ms(30), ms(60), ms(60), ms(60), ms(20)}
	if len(r.sleeps) != len(wantSleep) {
		t.Fatalf("sleeps = %v, want %v", r.sleeps, wantSleep)
	}
	for i := range wantSleep {
		if r.sleeps[i] != wantSleep[i] {
			t.Fatalf("sleeps = %v, want %v", r.sleeps, wantSleep)
		}
	}
}

func TestNoteHz(t *testing.T) {
	if NoteC.Hz() != 2093 || NoteB.Hz() != 3951 || Note(7).Hz() != 0 {
		t.Fatal("octave 7 table wrong")
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Sensor.Model = "hx711"
	if _, err := New(cfg, Resources{}, nil); errcode.Of(err) != errcode.UnknownModel {
		t.Fatalf("want unknown_model, got %v", err)
	}
	if _, err := New(config.Default(), Resources{}, nil); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("missing bus: want invalid_params, got %v", err)
	}
}

func TestAnalogSensorUsesThrottleADC(t *testing.T) {
	cfg, _ := config.Preset("pico-analog")
	h, r := newRig(t, cfg)
	r.adc.ADCs["throttle"].Set(0x1230)
	if err := h.InitHW(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := h.ReadTriggerRaw(); got != 0x123 {
		t.Fatalf("ReadTriggerRaw = %#x, want 0x123", got)
	}
	if len(r.bus.Transcript()) != 0 {
		t.Fatal("analog sensor touched the bus")
	}
}

func TestDefaultResourcesSimulatedSensor(t *testing.T) {
	cfg := config.Default()
	res, err := DefaultResources(cfg)
	if err != nil {
		t.Fatalf("DefaultResources: %v", err)
	}
	res.Sleep = func(time.Duration) {}
	h, err := New(cfg, res, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := h.InitHW(context.Background()); err != nil {
		t.Fatal(err)
	}
	if h.Reader().Address() != 0x22 {
		t.Fatalf("bound to %v, want 0x22", h.Reader().Address())
	}
	if got := h.ReadTriggerRaw(); got != 266 {
		t.Fatalf("ReadTriggerRaw = %d, want 266", got)
	}

	cfg.Sensor.Bus = "spi0"
	if _, err := DefaultResources(cfg); errcode.Of(err) != errcode.UnknownBus {
		t.Fatalf("want unknown_bus, got %v", err)
	}
}
