package tle493d

import (
	"errors"
	"testing"

	"tinygo.org/x/drivers"

	"throttlehal-go/errcode"
)

var _ drivers.I2C = (*fakeBus)(nil)

type fakeBus struct {
	payload []byte
	err     error
	writes  [][]byte
	addrs   []uint16
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	f.addrs = append(f.addrs, addr)
	if len(w) > 0 {
		f.writes = append(f.writes, append([]byte(nil), w...))
	}
	if f.err != nil {
		return f.err
	}
	copy(r, f.payload)
	return nil
}

// partialBus delivers only len(payload) bytes.
type partialBus struct{ fakeBus }

func (p *partialBus) ReadPartial(addr uint16, r []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	return copy(r, p.payload), nil
}

func TestConfigureWritesMODRegisters(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus, AddressW2B6A1)
	if err := d.ConfigureDefault(); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if len(bus.writes) != 1 {
		t.Fatalf("writes = %d", len(bus.writes))
	}
	w := bus.writes[0]
	if len(w) != 3 || w[0] != 0x0A || w[1] != 0xC6 || w[2] != 0x02 {
		t.Fatalf("write = % X", w)
	}
	if bus.addrs[0] != AddressW2B6A1 {
		t.Fatalf("addr = %#x", bus.addrs[0])
	}
}

func TestConfigureErrorIsCoded(t *testing.T) {
	cause := errors.New("nack")
	err := New(&fakeBus{err: cause}, 0).ConfigureDefault()
	if errcode.Of(err) != errcode.ConfigWriteFailed || !errors.Is(err, cause) {
		t.Fatalf("err = %v", err)
	}
}

func TestNewDefaultsAddress(t *testing.T) {
	if d := New(&fakeBus{}, 0); d.Address != AddressPrimary {
		t.Fatalf("Address = %#x", d.Address)
	}
}

func TestReadXY(t *testing.T) {
	bus := &fakeBus{payload: []byte{0x10, 0x00, 0x08, 0x00}}
	d := New(bus, AddressW2B6A0)
	if got := d.ReadXY(); got != (Sample{X: 1024, Y: 512}) {
		t.Fatalf("ReadXY = %+v", got)
	}
	if d.LastReadLen() != 4 {
		t.Fatalf("LastReadLen = %d", d.LastReadLen())
	}
}

func TestReadXY_BusErrorIsZero(t *testing.T) {
	d := New(&fakeBus{payload: []byte{0x10, 0, 0x08, 0}, err: errors.New("nack")}, 0)
	if got := d.ReadXY(); got != (Sample{}) {
		t.Fatalf("ReadXY = %+v", got)
	}
	if d.LastReadLen() != 0 {
		t.Fatalf("LastReadLen = %d", d.LastReadLen())
	}
}

func TestReadXY_PartialReadZeroFills(t *testing.T) {
	bus := &partialBus{fakeBus{payload: []byte{0x10, 0x00}}}
	d := New(bus, 0)
	// Leave stale data from a previous full read in the buffer.
	bus.payload = []byte{0x10, 0x00, 0x08, 0x00}
	_ = d.ReadXY()
	bus.payload = []byte{0x10, 0x00}

	got := d.ReadXY()
	if got != (Sample{X: 1024, Y: 0}) {
		t.Fatalf("ReadXY = %+v", got)
	}
	if d.LastReadLen() != 2 {
		t.Fatalf("LastReadLen = %d", d.LastReadLen())
	}
}
