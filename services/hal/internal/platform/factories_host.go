// services/hal/internal/platform/factories_host.go
//go:build !rp2040 && !rp2350

package platform

import (
	"io"
	"sync"
	"sync/atomic"

	"throttlehal-go/drivers/tle493d"
	"throttlehal-go/services/hal/internal/halcore"

	"tinygo.org/x/drivers"
)

// ----------------------------- I²C (host) ------------------------------------

// DefaultI2CFactory provides "i2c0" with a simulated TLE493D-W2B6 strapped as
// A1 (so detection has to skip past A0) and an empty "i2c1".
func DefaultI2CFactory(hz uint32) halcore.I2CBusFactory {
	i2c0 := NewSimI2C()
	i2c0.Hz = hz
	i2c0.Attach(tle493d.AddressW2B6A1, &SimTLE493D{Sample: tle493d.Sample{X: 1024, Y: 512}})
	i2c1 := NewSimI2C()
	i2c1.Hz = hz
	return &hostI2CFactory{
		buses: map[string]drivers.I2C{
			"i2c0": i2c0,
			"i2c1": i2c1,
		},
	}
}

type hostI2CFactory struct {
	buses map[string]drivers.I2C
}

func (f *hostI2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	return b, ok
}

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements GPIOPin for host-side tests.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
	pull    halcore.Pull
}

func (p *FakePin) ConfigureInput(pull halcore.Pull) error {
	p.mu.Lock()
	p.modeOut = false
	p.pull = pull
	// An idle pulled-up input reads high.
	p.level = pull == halcore.PullUp
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

func (p *FakePin) Number() int { return p.number }

// Mode reports the configured direction and pull for assertions.
func (p *FakePin) Mode() (output bool, pull halcore.Pull) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modeOut, p.pull
}

// HostPinFactory returns stable *FakePin instances per number.
type HostPinFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func (f *HostPinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	if n < 0 {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = &FakePin{number: n}
		f.pins[n] = p
	}
	return p, true
}

// Get exposes the underlying *FakePin for tests.
func (f *HostPinFactory) Get(n int) (*FakePin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	return p, ok
}

// DefaultPinFactory provides a host GPIO factory.
func DefaultPinFactory() halcore.PinFactory {
	return &HostPinFactory{pins: make(map[int]*FakePin)}
}

// ----------------------------- PWM (host) ------------------------------------

// SimPWM records configuration and every level written.
type SimPWM struct {
	mu     sync.Mutex
	Pin    int
	FreqHz uint64
	Top    uint16
	Freqs  []uint64 // every successful Configure, in order
	Levels []uint16
	err    error
}

func (p *SimPWM) Configure(freqHz uint64, top uint16) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.FreqHz = freqHz
	p.Top = top
	p.Freqs = append(p.Freqs, freqHz)
	return nil
}

func (p *SimPWM) Set(level uint16) {
	p.mu.Lock()
	p.Levels = append(p.Levels, level)
	p.mu.Unlock()
}

// FailConfigure makes subsequent Configure calls return err.
func (p *SimPWM) FailConfigure(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// Last returns the most recent level (0 if never set).
func (p *SimPWM) Last() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Levels) == 0 {
		return 0
	}
	return p.Levels[len(p.Levels)-1]
}

// SimPWMFactory hands out one *SimPWM per pin.
type SimPWMFactory struct {
	mu   sync.Mutex
	pwms map[int]*SimPWM
}

func (f *SimPWMFactory) ByPin(n int) (halcore.PWM, bool) {
	p, ok := f.Get(n)
	return p, ok
}

// Get returns (creating on first use) the *SimPWM for pin n.
func (f *SimPWMFactory) Get(n int) (*SimPWM, bool) {
	if n < 0 {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pwms == nil {
		f.pwms = make(map[int]*SimPWM)
	}
	p, ok := f.pwms[n]
	if !ok {
		p = &SimPWM{Pin: n}
		f.pwms[n] = p
	}
	return p, true
}

func DefaultPWMFactory() halcore.PWMFactory { return &SimPWMFactory{} }

// ----------------------------- ADC (host) ------------------------------------

// SimADC returns whatever was last stored with Set.
type SimADC struct{ v atomic.Uint32 }

func (a *SimADC) Get() uint16  { return uint16(a.v.Load()) }
func (a *SimADC) Set(v uint16) { a.v.Store(uint32(v)) }

// SimADCFactory resolves a fixed set of named inputs.
type SimADCFactory struct {
	ADCs map[string]*SimADC
}

func (f *SimADCFactory) ByName(name string) (halcore.ADC, bool) {
	a, ok := f.ADCs[name]
	if !ok {
		return nil, false
	}
	return a, true
}

// DefaultADCFactory provides "throttle" at mid-scale and "battery" at ~1.2 V.
func DefaultADCFactory(pins map[string]int) halcore.ADCFactory {
	f := &SimADCFactory{ADCs: make(map[string]*SimADC)}
	for name := range pins {
		f.ADCs[name] = &SimADC{}
	}
	if a, ok := f.ADCs["throttle"]; ok {
		a.Set(0x8000)
	}
	if a, ok := f.ADCs["battery"]; ok {
		a.Set(0x5D00)
	}
	return f
}

// ----------------------------- Diagnostics (host) ----------------------------

// DiagWriter is nil on host builds: callers fall back to their own sink.
func DiagWriter() io.Writer { return nil }
