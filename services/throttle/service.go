// Package throttle polls the trigger sensor and publishes readings on the
// bus.
package throttle

import (
	"context"
	"time"

	"throttlehal-go/bus"
	"throttlehal-go/diag"
	"throttlehal-go/types"
	"throttlehal-go/x/timex"
)

var (
	TopicState  = bus.T("hal", "throttle", "state")
	TopicValue  = bus.T("hal", "throttle", "value")
	TopicConfig = bus.T("config", "throttle")
)

const DefaultInterval = 10 * time.Millisecond

// Source is the sensor being polled; *sensor.Reader satisfies it.
type Source interface {
	ReadRaw() int16
	Snapshot() types.SensorState
}

type Service struct {
	Sensor   Source
	Interval time.Duration
	Log      diag.Logger
}

// Run publishes the retained sensor state once, then a retained value every
// interval until ctx is cancelled. A config/throttle message with a positive
// interval_ms changes the period.
func (s *Service) Run(ctx context.Context, conn *bus.Connection) {
	log := diag.OrNop(s.Log)
	cfgSub := conn.Subscribe(TopicConfig)
	defer conn.Unsubscribe(cfgSub)

	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	conn.Publish(conn.NewMessage(TopicState, s.Sensor.Snapshot(), true))

	for {
		select {
		case <-ctx.Done():
			log.Info("throttle service stopping")
			return
		case <-tick.C:
			v := types.ThrottleValue{Raw: s.Sensor.ReadRaw(), TS: timex.NowMs()}
			conn.Publish(conn.NewMessage(TopicValue, v, true))
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			ms, ok := intervalMs(msg.Payload)
			if !ok || ms <= 0 {
				log.Warn("ignoring throttle config", "topic", msg.Topic.String())
				continue
			}
			tick.Reset(time.Duration(ms) * time.Millisecond)
			log.Info("throttle poll interval set", "ms", ms)
		}
	}
}

// Start runs the service in its own goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.Run(ctx, conn)
	return nil
}

func intervalMs(p any) (int, bool) {
	switch v := p.(type) {
	case types.ThrottleControl:
		return v.IntervalMs, true
	case *types.ThrottleControl:
		if v == nil {
			return 0, false
		}
		return v.IntervalMs, true
	case map[string]any:
		// Decoded JSON numbers arrive as float64.
		switch n := v["interval_ms"].(type) {
		case float64:
			return int(n), true
		case int:
			return n, true
		}
	}
	return 0, false
}
