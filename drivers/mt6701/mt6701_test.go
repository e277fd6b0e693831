package mt6701

import (
	"errors"
	"testing"
)

type regBus struct {
	hi, lo byte
	err    error
}

func (b *regBus) Tx(addr uint16, w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	if len(w) == 1 && w[0] == 0x03 && len(r) == 2 {
		r[0], r[1] = b.hi, b.lo
	}
	return nil
}

func TestRawAngleAndDegrees(t *testing.T) {
	cases := []struct {
		hi, lo byte
		raw    uint16
		deg    uint16
	}{
		{0x00, 0x00, 0, 0},
		{0x80, 0x00, 8192, 180},
		{0x40, 0x00, 4096, 90},
		{0xFF, 0xFC, 16383, 359},
		{0x00, 0x07, 1, 0}, // low two bits are not angle data
	}
	for _, tc := range cases {
		d := New(&regBus{hi: tc.hi, lo: tc.lo}, 0)
		raw, err := d.RawAngle()
		if err != nil || raw != tc.raw {
			t.Fatalf("RawAngle(%02X %02X) = %d, %v; want %d", tc.hi, tc.lo, raw, err, tc.raw)
		}
		deg, _ := d.AngleDegrees()
		if deg != tc.deg {
			t.Fatalf("AngleDegrees(%02X %02X) = %d, want %d", tc.hi, tc.lo, deg, tc.deg)
		}
	}
}

func TestBusError(t *testing.T) {
	d := New(&regBus{err: errors.New("nack")}, 0)
	if _, err := d.AngleDegrees(); err == nil {
		t.Fatal("expected error")
	}
}
