package platform

import "tinygo.org/x/drivers"

// AckBus turns an address-only transaction (no write, no read) into a
// one-byte read. Some controllers, TinyGo's rp2 among them, return success
// for an empty transfer without putting the address on the wire, so a
// detection scan would otherwise see every address acknowledge.
type AckBus struct {
	drivers.I2C
}

func NewAckBus(b drivers.I2C) *AckBus { return &AckBus{I2C: b} }

func (a *AckBus) Tx(addr uint16, w, r []byte) error {
	if len(w) == 0 && len(r) == 0 {
		var b [1]byte
		return a.I2C.Tx(addr, nil, b[:])
	}
	return a.I2C.Tx(addr, w, r)
}
