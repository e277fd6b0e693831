package hal

import (
	"time"

	"throttlehal-go/services/hal/internal/halcore"
)

// Note is a pitch in the seventh octave.
type Note uint8

const (
	NoteC Note = iota
	NoteD
	NoteE
	NoteF
	NoteG
	NoteA
	NoteB
)

var noteHz = [...]uint32{2093, 2349, 2637, 2794, 3136, 3520, 3951}

// Hz is the note's frequency, or 0 for an unknown note.
func (n Note) Hz() uint32 {
	if int(n) >= len(noteHz) {
		return 0
	}
	return noteHz[n]
}

const buzzerTop = 255

// Sound plays n at 50 % duty for ms milliseconds, then silences the buzzer.
// Without a buzzer it only waits.
func (h *HAL) Sound(n Note, ms uint32) {
	p := h.buzzerPWM()
	if p == nil || n.Hz() == 0 {
		h.pause(ms)
		return
	}
	if err := p.Configure(uint64(n.Hz()), buzzerTop); err != nil {
		h.log.Warn("buzzer configure failed", "err", err)
		h.pause(ms)
		return
	}
	p.Set((buzzerTop + 1) / 2)
	h.pause(ms)
	p.Set(0)
}

func (h *HAL) pause(ms uint32) { h.res.Sleep(time.Duration(ms) * time.Millisecond) }

func (h *HAL) buzzerPWM() halcore.PWM {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.buzzer != nil {
		return h.buzzer
	}
	if h.cfg.Pins.Buzzer < 0 || h.res.PWM == nil {
		return nil
	}
	p, ok := h.res.PWM.ByPin(h.cfg.Pins.Buzzer)
	if !ok {
		return nil
	}
	h.buzzer = p
	return p
}

// OnSound is the power-on chirp: C, E.
func (h *HAL) OnSound() {
	h.Sound(NoteC, 30)
	h.Sound(NoteE, 30)
}

// OffSound is the power-off chirp: E, C.
func (h *HAL) OffSound() {
	h.Sound(NoteE, 60)
	h.pause(60)
	h.Sound(NoteC, 60)
}

// CalibSound marks the end of calibration: C, G, A.
func (h *HAL) CalibSound() {
	h.Sound(NoteC, 60)
	h.pause(60)
	h.Sound(NoteG, 60)
	h.pause(60)
	h.Sound(NoteA, 60)
}

// KeySound is the short click played on a key press.
func (h *HAL) KeySound() { h.Sound(NoteD, h.cfg.Buzzer.KeySoundMs) }
