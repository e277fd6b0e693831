// Package mt6701 reads the MagnTek MT6701 14-bit magnetic angle encoder over
// I²C.
package mt6701

import (
	"tinygo.org/x/drivers"
)

// Address is the factory I²C address.
const Address = 0x06

const (
	regAngleHi = 0x03 // ANGLE[13:6]
	// 0x04 holds ANGLE[5:0] in bits 7:2.

	CountsPerTurn = 1 << 14
)

// Device wraps an I2C connection to an MT6701.
type Device struct {
	bus     drivers.I2C
	Address uint16

	w [1]byte
	r [2]byte
}

// New creates a Device; it does not touch the bus.
func New(bus drivers.I2C, addr uint16) *Device {
	if addr == 0 {
		addr = Address
	}
	return &Device{bus: bus, Address: addr}
}

// RawAngle returns the 14-bit angle count (0..16383).
func (d *Device) RawAngle() (uint16, error) {
	d.w[0] = regAngleHi
	if err := d.bus.Tx(d.Address, d.w[:], d.r[:]); err != nil {
		return 0, err
	}
	return uint16(d.r[0])<<6 | uint16(d.r[1])>>2, nil
}

// AngleDegrees returns the angle truncated to whole degrees (0..359).
func (d *Device) AngleDegrees() (uint16, error) {
	raw, err := d.RawAngle()
	if err != nil {
		return 0, err
	}
	return uint16(uint32(raw) * 360 / CountsPerTurn), nil
}
