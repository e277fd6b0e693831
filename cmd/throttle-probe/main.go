// Command throttle-probe exercises the throttle HAL on a Linux board: it can
// scan the I²C bus for every supported sensor, or bind the configured one
// and stream readings.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"throttlehal-go/diag"
	"throttlehal-go/services/hal"
	"throttlehal-go/services/hal/config"
	"throttlehal-go/services/hal/periphio"
	"throttlehal-go/services/hal/sensor"
	"throttlehal-go/x/strx"
)

// Version information - set at build time via ldflags.
var version = "dev"

var (
	configPath = flag.String("config", "", "YAML config file (defaults plus THROTTLE_* env when empty)")
	scan       = flag.Bool("scan", false, "Probe every known sensor model and exit")
	count      = flag.Int("count", 0, "Readings to take; 0 runs until interrupted")
)

func main() {
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := diag.New(cfg.Logging.Level, cfg.Logging.Format, output(cfg.Logging.Output))
	log.Info("throttle-probe starting", "version", version, "model", cfg.Sensor.Model, "bus", strx.Coalesce(cfg.Sensor.Bus, "none"))

	res, closer, err := periphio.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening hardware: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	if *scan {
		return scanAll(res, log)
	}

	h, err := hal.New(cfg, res, log)
	if err != nil {
		return fmt.Errorf("building hal: %w", err)
	}
	if err := h.InitHW(ctx); err != nil {
		return err
	}

	tick := time.NewTicker(time.Duration(cfg.Poll.IntervalMs) * time.Millisecond)
	defer tick.Stop()
	for n := 0; *count == 0 || n < *count; n++ {
		select {
		case <-ctx.Done():
			log.Info("interrupted")
			return nil
		case <-tick.C:
			log.Info("reading", "n", n, "raw", h.ReadTriggerRaw())
		}
	}
	return nil
}

// scanAll runs the detection probe for every bus-attached model.
func scanAll(res hal.Resources, log diag.Logger) error {
	if res.I2C == nil {
		return fmt.Errorf("scan needs sensor.bus")
	}
	found := 0
	for _, name := range sensor.Models() {
		m, _ := sensor.Lookup(name)
		if m.Variant == sensor.VariantAnalog {
			continue
		}
		if c, ok := sensor.Probe(res.I2C, m.Candidates, diag.Nop); ok {
			found++
			log.Info("sensor responds", "model", m.Name, "variant", m.Variant.String(), "addr", c.Addr.String(), "label", c.Label)
		}
	}
	if found == 0 {
		log.Warn("no sensor responded")
	}
	return nil
}

func output(name string) io.Writer {
	if name == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}
