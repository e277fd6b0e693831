// services/hal/internal/platform/sim_i2c.go
package platform

import (
	"errors"
	"sync"

	"throttlehal-go/drivers/tle493d"
)

// ErrNACK is returned by SimI2C when no device answers an address.
var ErrNACK = errors.New("i2c: nack")

// SimDevice emulates one device on a SimI2C bus. Write receives the write
// phase of a transaction; Read fills r and returns how many bytes the
// device actually delivered.
type SimDevice interface {
	Write(w []byte) error
	Read(r []byte) int
}

// SimTx is one recorded transaction.
type SimTx struct {
	Addr uint16
	W    []byte
	Rn   int
	Err  error
}

// SimI2C is a scripted I²C bus for host builds and tests. It implements
// drivers.I2C and tle493d.PartialReader.
type SimI2C struct {
	mu      sync.Mutex
	devices map[uint16]SimDevice
	log     []SimTx

	Hz uint32 // requested clock, recorded only
}

func NewSimI2C() *SimI2C {
	return &SimI2C{devices: make(map[uint16]SimDevice)}
}

// Attach places d at addr, replacing any previous device.
func (s *SimI2C) Attach(addr uint16, d SimDevice) {
	s.mu.Lock()
	s.devices[addr] = d
	s.mu.Unlock()
}

// Detach removes the device at addr.
func (s *SimI2C) Detach(addr uint16) {
	s.mu.Lock()
	delete(s.devices, addr)
	s.mu.Unlock()
}

// Tx performs one transaction. Bytes a device does not deliver read as zero.
func (s *SimI2C) Tx(addr uint16, w, r []byte) error {
	_, err := s.tx(addr, w, r)
	return err
}

// ReadPartial is a read-only transaction reporting the delivered length.
func (s *SimI2C) ReadPartial(addr uint16, r []byte) (int, error) {
	return s.tx(addr, nil, r)
}

func (s *SimI2C) tx(addr uint16, w, r []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := SimTx{Addr: addr, W: append([]byte(nil), w...), Rn: len(r)}
	dev, ok := s.devices[addr]
	if !ok {
		rec.Err = ErrNACK
		s.log = append(s.log, rec)
		return 0, ErrNACK
	}
	if len(w) > 0 {
		if err := dev.Write(w); err != nil {
			rec.Err = err
			s.log = append(s.log, rec)
			return 0, err
		}
	}
	n := 0
	if len(r) > 0 {
		for i := range r {
			r[i] = 0
		}
		n = dev.Read(r)
		if n > len(r) {
			n = len(r)
		}
		for i := n; i < len(r); i++ {
			r[i] = 0
		}
	}
	s.log = append(s.log, rec)
	return n, nil
}

// Transcript returns a copy of every transaction so far.
func (s *SimI2C) Transcript() []SimTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SimTx(nil), s.log...)
}

// ---- simulated devices ----

// SimTLE493D answers Bx/By bursts with Sample. ShortN > 0 truncates reads
// to that many bytes; ConfigErr fails every write.
type SimTLE493D struct {
	mu        sync.Mutex
	Sample    tle493d.Sample
	ShortN    int
	ConfigErr error
	Writes    [][]byte
}

func (d *SimTLE493D) Write(w []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ConfigErr != nil {
		return d.ConfigErr
	}
	d.Writes = append(d.Writes, append([]byte(nil), w...))
	return nil
}

func (d *SimTLE493D) Read(r []byte) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	b := tle493d.EncodeSample(d.Sample)
	n := copy(r, b[:])
	if d.ShortN > 0 && d.ShortN < n {
		n = d.ShortN
	}
	return n
}

// SetSample changes the emulated field.
func (d *SimTLE493D) SetSample(s tle493d.Sample) {
	d.mu.Lock()
	d.Sample = s
	d.mu.Unlock()
}

// SimPayload returns the same raw bytes on every read, whatever was written.
type SimPayload struct {
	Payload []byte
}

func (d *SimPayload) Write([]byte) error { return nil }
func (d *SimPayload) Read(r []byte) int  { return copy(r, d.Payload) }

// SimRegisters is a register-pointer device (AS5600, MT6701): the first
// written byte selects the register, further bytes are stored from there and
// reads auto-increment from the pointer.
type SimRegisters struct {
	mu   sync.Mutex
	Regs map[byte]byte
	ptr  byte
}

func (d *SimRegisters) Write(w []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Regs == nil {
		d.Regs = make(map[byte]byte)
	}
	d.ptr = w[0]
	for i, b := range w[1:] {
		d.Regs[d.ptr+byte(i)] = b
	}
	return nil
}

func (d *SimRegisters) Read(r []byte) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range r {
		r[i] = d.Regs[d.ptr+byte(i)]
	}
	return len(r)
}
