// Package as5600 reads the AS5600 / AS5600L 12-bit contactless rotary
// position sensors over I²C. The two parts share a register map and differ
// only in their fixed address.
package as5600

import (
	"tinygo.org/x/drivers"
)

// I2C addresses.
const (
	Address  = 0x36 // AS5600
	AddressL = 0x40 // AS5600L factory default
)

const (
	regStatus   = 0x0B
	regRawAngle = 0x0C // RAW ANGLE[11:8], [7:0]
	regAngle    = 0x0E // scaled ANGLE[11:8], [7:0]

	statusMH = 0x08 // magnet too strong
	statusML = 0x10 // magnet too weak
	statusMD = 0x20 // magnet detected

	angleMask = 0x0FFF
)

// Status is the magnet status register.
type Status byte

func (s Status) Detected() bool  { return s&statusMD != 0 }
func (s Status) TooWeak() bool   { return s&statusML != 0 }
func (s Status) TooStrong() bool { return s&statusMH != 0 }

// Device wraps an I2C connection to an AS5600.
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

// Status reads the magnet status register.
func (d *Device) Status() (Status, error) {
	d.w[0] = regStatus
	if err := d.bus.Tx(d.Address, d.w[:], d.r[:1]); err != nil {
		return 0, err
	}
	return Status(d.r[0]), nil
}

// Angle returns the scaled output angle (0..4095 over the programmed range).
func (d *Device) Angle() (uint16, error) { return d.read12(regAngle) }

// RawAngle returns the unscaled angle (0..4095 per turn).
func (d *Device) RawAngle() (uint16, error) { return d.read12(regRawAngle) }

func (d *Device) read12(reg byte) (uint16, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.Address, d.w[:], d.r[:2]); err != nil {
		return 0, err
	}
	return (uint16(d.r[0])<<8 | uint16(d.r[1])) & angleMask, nil
}
