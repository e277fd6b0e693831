// Package sensor turns a throttle position sensor into a single raw number.
//
// A Reader binds once: it probes the model's candidate addresses, settles on
// the first that answers (Bound) or on the model's default (Fallback), sends
// the part its configuration and from then on only reads. Reads never fail.
package sensor

import (
	"sync"

	"tinygo.org/x/drivers"

	"throttlehal-go/diag"
	"throttlehal-go/services/hal/internal/halcore"
	"throttlehal-go/types"
	"throttlehal-go/x/timex"
)

// State of a Reader. Bound and Fallback are terminal.
type State uint8

const (
	StateUninitialized State = iota
	StateBound
	StateFallback
)

func (s State) String() string {
	switch s {
	case StateBound:
		return "bound"
	case StateFallback:
		return "fallback"
	default:
		return "uninitialized"
	}
}

// Reader owns the detected address for one sensor.
type Reader struct {
	mu      sync.Mutex
	backend Backend
	bus     drivers.I2C
	log     diag.Logger

	state State
	addr  Address
	label string
}

// NewReader wraps b. bus is used for probing and may be nil for analog
// models.
func NewReader(b Backend, bus drivers.I2C, log diag.Logger) *Reader {
	return &Reader{backend: b, bus: bus, log: diag.OrNop(log), addr: Unbound}
}

// Open looks up model by name and builds its Reader.
func Open(model string, bus drivers.I2C, adc halcore.ADC, log diag.Logger) (*Reader, error) {
	m, err := Lookup(model)
	if err != nil {
		return nil, err
	}
	b, err := NewBackend(m, bus, adc)
	if err != nil {
		return nil, err
	}
	return NewReader(b, bus, log), nil
}

// Init detects and configures the sensor. Only the first call does work.
func (r *Reader) Init() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initLocked()
	return r.state
}

func (r *Reader) initLocked() {
	if r.state != StateUninitialized {
		return
	}
	m := r.backend.Model()
	if m.Variant == VariantAnalog {
		r.state = StateBound
		r.log.Info("sensor bound", "model", m.Name, "variant", m.Variant.String())
		return
	}

	if c, ok := Probe(r.bus, m.Candidates, r.log); ok {
		r.state, r.addr, r.label = StateBound, c.Addr, c.Label
	} else {
		r.state, r.addr = StateFallback, m.Fallback
		r.log.Warn("using fallback address", "model", m.Name, "addr", r.addr.String())
	}

	if err := r.backend.Configure(r.addr); err != nil {
		r.log.Error("sensor configuration failed", "addr", r.addr.String(), "err", err)
		return
	}
	r.log.Info("sensor configured", "model", m.Name, "addr", r.addr.String())
}

// ReadRaw returns the current trigger position in the backend's units,
// initialising first if needed.
func (r *Reader) ReadRaw() int16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initLocked()
	return r.backend.ReadRaw(r.addr)
}

func (r *Reader) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Address is the bound address, or Unbound before Init and for analog.
func (r *Reader) Address() Address {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addr
}

func (r *Reader) Model() Model { return r.backend.Model() }

// Snapshot reports the binding for the state topic.
func (r *Reader) Snapshot() types.SensorState {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.backend.Model()
	s := types.SensorState{
		Model:   m.Name,
		Variant: m.Variant.String(),
		State:   r.state.String(),
		Label:   r.label,
		TS:      timex.NowMs(),
	}
	if r.addr != Unbound {
		s.Addr = uint8(r.addr)
	}
	switch r.state {
	case StateBound:
		s.Link = types.LinkUp
	case StateFallback:
		s.Link = types.LinkDegraded
	default:
		s.Link = types.LinkDown
	}
	return s
}
