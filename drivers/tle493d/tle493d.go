// Package tle493d provides a minimal driver for the Infineon TLE493D 3D Hall
// sensor family (W2B6, P3B6) used as a contactless throttle.
//
// Only the in-plane components are read: a 4-byte burst from Bx. Reads are
// best-effort and never fail; a bus error or short transfer yields zero bytes
// for whatever was not delivered.
package tle493d

import (
	"tinygo.org/x/drivers"

	"throttlehal-go/errcode"
)

// PartialReader is implemented by buses that can report how many bytes a
// read actually delivered (Arduino-style requestFrom).
type PartialReader interface {
	ReadPartial(addr uint16, r []byte) (int, error)
}

// Device wraps an I2C connection to a TLE493D.
type Device struct {
	bus     drivers.I2C
	Address uint16

	w   [3]byte
	buf [dataSize]byte
	n   int // bytes delivered by the last burst
}

// New creates a Device bound to addr. The I2C bus must already be configured.
// It does not touch the device.
func New(bus drivers.I2C, addr uint16) *Device {
	if addr == 0 {
		addr = AddressPrimary
	}
	return &Device{bus: bus, Address: addr}
}

// Configure writes MOD1 and MOD2 in one transaction (the register pointer
// auto-increments). The error is reported but the device remains usable.
func (d *Device) Configure(mod1, mod2 byte) error {
	d.w[0] = regMOD1
	d.w[1] = mod1
	d.w[2] = mod2
	if err := d.bus.Tx(d.Address, d.w[:3], nil); err != nil {
		return errcode.Wrap(errcode.ConfigWriteFailed, "tle493d.Configure", err)
	}
	return nil
}

// ConfigureDefault applies the throttle HAL settings (master-controlled fast
// mode, temperature off).
func (d *Device) ConfigureDefault() error {
	return d.Configure(MOD1MasterFast, MOD2TempOff)
}

// ReadXY performs the 4-byte burst and decodes it.
func (d *Device) ReadXY() Sample {
	d.buf = [dataSize]byte{}
	d.n = 0
	if pr, ok := d.bus.(PartialReader); ok {
		n, err := pr.ReadPartial(d.Address, d.buf[:])
		if err == nil {
			d.n = clampLen(n)
		}
	} else if err := d.bus.Tx(d.Address, nil, d.buf[:]); err == nil {
		d.n = dataSize
	}
	// Anything not delivered is zero.
	for i := d.n; i < dataSize; i++ {
		d.buf[i] = 0
	}
	return DecodeAxis(d.buf[:d.n])
}

// LastReadLen reports how many payload bytes the last ReadXY received.
func (d *Device) LastReadLen() int { return d.n }

func clampLen(n int) int {
	if n < 0 {
		return 0
	}
	if n > dataSize {
		return dataSize
	}
	return n
}
