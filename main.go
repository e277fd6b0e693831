// Firmware entry for the throttle controller. On RP2040/RP2350 it drives the
// real board; elsewhere it runs against the simulated bus and pins.
package main

import (
	"context"
	"runtime"
	"time"

	"throttlehal-go/bus"
	"throttlehal-go/diag"
	"throttlehal-go/services/hal"
	"throttlehal-go/services/hal/config"
	"throttlehal-go/services/throttle"
	"throttlehal-go/types"
)

// preset selects the board; override with -ldflags "-X main.preset=pico-as5600".
var preset = "espeed32-w2b6"

// Battery sense divider on the reference board.
const (
	battRLow  = 10_000
	battRHigh = 100_000
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	ctx := context.Background()

	cfg, err := config.Preset(preset)
	if err != nil {
		println("[main] unknown preset", preset, "- using defaults")
		cfg = config.Default()
	}

	b := bus.NewBus(4)
	halConn := b.NewConnection("hal")
	uiConn := b.NewConnection("ui")

	plog := diag.NewPrint(hal.DiagWriter(), diag.ParseLevel(cfg.Logging.Level)).With("svc", "hal")
	log := diag.NewBusLogger(halConn, plog, diag.LevelWarn)

	res, err := hal.DefaultResources(cfg)
	if err != nil {
		plog.Error("resources unavailable", "err", err)
		halt()
	}
	h, err := hal.New(cfg, res, log)
	if err != nil {
		plog.Error("hal init failed", "err", err)
		halt()
	}
	h.PinSetup()
	_ = h.InitHW(ctx)
	h.OnSound()

	svc := &throttle.Service{
		Sensor:   h.Reader(),
		Interval: time.Duration(cfg.Poll.IntervalMs) * time.Millisecond,
		Log:      plog,
	}
	_ = svc.Start(ctx, halConn)

	st := uiConn.Subscribe(throttle.TopicState)
	vals := uiConn.Subscribe(throttle.TopicValue)
	diags := uiConn.Subscribe(diag.TopicDiag)

	stats := time.NewTicker(5 * time.Second)
	defer stats.Stop()

	var last int16
	var held bool
	for {
		select {
		case m := <-st.Channel():
			if s, ok := m.Payload.(types.SensorState); ok {
				println("[main] sensor", s.Model, s.State, "link", string(s.Link))
				h.SetLED(s.Link == types.LinkUp)
			}
		case m := <-vals.Channel():
			if v, ok := m.Payload.(types.ThrottleValue); ok && v.Raw != last {
				last = v.Raw
				println("[main] trigger", v.Raw)
			}
		case m := <-diags.Channel():
			if r, ok := m.Payload.(types.DiagRecord); ok {
				println("[monitor]", r.Level, r.Msg)
			}
		case <-stats.C:
			println("[main] battery mV", h.ReadVoltageDivider("battery", battRLow, battRHigh))
			printMem()
		}

		pressed := h.ButtonPressed(hal.ButtonEncoder)
		if pressed && !held {
			h.KeySound()
		}
		held = pressed
	}
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}

// printMem prints a compact snapshot of runtime memory stats.
// Uses builtin println to avoid fmt overhead/allocations.
func printMem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	println(
		"[mem]",
		"alloc:", uint32(ms.Alloc),
		"heapInuse:", uint32(ms.HeapInuse),
		"heapSys:", uint32(ms.HeapSys),
		"mallocs:", uint32(ms.Mallocs),
		"frees:", uint32(ms.Frees),
	)
}

