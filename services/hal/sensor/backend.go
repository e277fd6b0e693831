package sensor

import (
	"tinygo.org/x/drivers"

	"throttlehal-go/drivers/as5600"
	"throttlehal-go/drivers/mt6701"
	"throttlehal-go/drivers/tle493d"
	"throttlehal-go/errcode"
	"throttlehal-go/services/hal/internal/halcore"
)

// Backend reads one sensor family. ReadRaw never fails: whatever goes wrong
// on the wire surfaces as a value, usually 0.
type Backend interface {
	Model() Model
	// Configure prepares the part at addr. The error is advisory.
	Configure(addr Address) error
	ReadRaw(addr Address) int16
}

// NewBackend selects the implementation for m. Bus-attached variants need a
// bus; the analog variant needs only adc, which may be nil (reads 0).
func NewBackend(m Model, bus drivers.I2C, adc halcore.ADC) (Backend, error) {
	if m.Variant != VariantAnalog && bus == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "sensor.NewBackend", Msg: "no i2c bus for " + m.Name}
	}
	switch m.Variant {
	case VariantDualAxisHall:
		return &hallBackend{m: m, dev: tle493d.New(bus, uint16(m.Fallback))}, nil
	case VariantRotaryA:
		return &rotaryABackend{m: m, dev: as5600.New(bus, uint16(m.Fallback))}, nil
	case VariantRotaryB:
		return &rotaryBBackend{m: m, dev: mt6701.New(bus, uint16(m.Fallback))}, nil
	case VariantAnalog:
		return &analogBackend{m: m, adc: adc}, nil
	}
	return nil, &errcode.E{C: errcode.UnknownVariant, Op: "sensor.NewBackend", Msg: m.Variant.String()}
}

// ---- dual-axis Hall (TLE493D) ----

type hallBackend struct {
	m   Model
	dev *tle493d.Device
}

func (b *hallBackend) Model() Model { return b.m }

func (b *hallBackend) Configure(addr Address) error {
	b.dev.Address = uint16(addr)
	return b.dev.ConfigureDefault()
}

func (b *hallBackend) ReadRaw(addr Address) int16 {
	b.dev.Address = uint16(addr)
	s := b.dev.ReadXY()
	return int16(Angle(s.X, s.Y))
}

// ---- rotary A (AS5600) ----

type rotaryABackend struct {
	m   Model
	dev *as5600.Device
}

func (b *rotaryABackend) Model() Model { return b.m }

// Configure checks the magnet; the part needs no register setup.
func (b *rotaryABackend) Configure(addr Address) error {
	b.dev.Address = uint16(addr)
	st, err := b.dev.Status()
	if err != nil {
		return errcode.Wrap(errcode.ConfigWriteFailed, "as5600.Status", err)
	}
	switch {
	case !st.Detected():
		return &errcode.E{C: errcode.NotFound, Op: "as5600.Status", Msg: "magnet not detected"}
	case st.TooWeak():
		return &errcode.E{C: errcode.Error, Op: "as5600.Status", Msg: "magnet too weak"}
	case st.TooStrong():
		return &errcode.E{C: errcode.Error, Op: "as5600.Status", Msg: "magnet too strong"}
	}
	return nil
}

func (b *rotaryABackend) ReadRaw(addr Address) int16 {
	b.dev.Address = uint16(addr)
	v, err := b.dev.Angle()
	if err != nil {
		return 0
	}
	return int16(v)
}

// ---- rotary B (MT6701) ----

type rotaryBBackend struct {
	m   Model
	dev *mt6701.Device
}

func (b *rotaryBBackend) Model() Model { return b.m }

func (b *rotaryBBackend) Configure(Address) error { return nil }

func (b *rotaryBBackend) ReadRaw(addr Address) int16 {
	b.dev.Address = uint16(addr)
	v, err := b.dev.AngleDegrees()
	if err != nil {
		return 0
	}
	return int16(v)
}

// ---- analog ----

type analogBackend struct {
	m   Model
	adc halcore.ADC
}

func (b *analogBackend) Model() Model { return b.m }

func (b *analogBackend) Configure(Address) error { return nil }

// ReadRaw returns one sample reduced from 16 to 12 bits.
func (b *analogBackend) ReadRaw(Address) int16 {
	if b.adc == nil {
		return 0
	}
	return int16(b.adc.Get() >> 4)
}
