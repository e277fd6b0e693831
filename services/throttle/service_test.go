package throttle

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"throttlehal-go/bus"
	"throttlehal-go/types"
)

type fakeSensor struct {
	raw   atomic.Int32
	reads atomic.Int32
}

func (f *fakeSensor) ReadRaw() int16 {
	f.reads.Add(1)
	return int16(f.raw.Load())
}

func (f *fakeSensor) Snapshot() types.SensorState {
	return types.SensorState{Model: "tle493d-w2b6", Variant: "dual_axis_hall", State: "bound", Addr: 0x22, Link: types.LinkUp}
}

func recv(t *testing.T, sub *bus.Subscription) *bus.Message {
	t.Helper()
	select {
	case m := <-sub.Channel():
		return m
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting on %s", sub.Topic())
		return nil
	}
}

func startService(t *testing.T, s *Service) (*bus.Bus, context.CancelFunc, <-chan struct{}) {
	t.Helper()
	b := bus.NewBus(8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, b.NewConnection("throttle"))
		close(done)
	}()
	return b, cancel, done
}

func TestServicePublishesStateAndValues(t *testing.T) {
	fs := &fakeSensor{}
	fs.raw.Store(266)
	b, cancel, done := startService(t, &Service{Sensor: fs, Interval: 2 * time.Millisecond})
	defer func() { cancel(); <-done }()

	client := b.NewConnection("client")
	val := client.Subscribe(TopicValue)
	m := recv(t, val)
	v, ok := m.Payload.(types.ThrottleValue)
	if !ok || v.Raw != 266 || !m.Retained {
		t.Fatalf("value message = %+v", m)
	}

	// The state is retained, so a late subscriber still sees it.
	st := client.Subscribe(TopicState)
	m = recv(t, st)
	s, ok := m.Payload.(types.SensorState)
	if !ok || s.Addr != 0x22 || s.Link != types.LinkUp {
		t.Fatalf("state message = %+v", m)
	}
}

func TestServiceIntervalFromConfig(t *testing.T) {
	fs := &fakeSensor{}
	b, cancel, done := startService(t, &Service{Sensor: fs, Interval: time.Hour})
	defer func() { cancel(); <-done }()

	client := b.NewConnection("client")
	val := client.Subscribe(TopicValue)
	// Wait until the service has subscribed to its config topic.
	recv(t, client.Subscribe(TopicState))

	client.Publish(client.NewMessage(TopicConfig, map[string]any{"interval_ms": float64(1)}, false))
	recv(t, val)

	client.Publish(client.NewMessage(TopicConfig, types.ThrottleControl{IntervalMs: 2}, false))
	recv(t, val)
}

func TestServiceStopsOnCancel(t *testing.T) {
	fs := &fakeSensor{}
	_, cancel, done := startService(t, &Service{Sensor: fs})
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("service did not stop")
	}
}

func TestIntervalMs(t *testing.T) {
	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{types.ThrottleControl{IntervalMs: 5}, 5, true},
		{&types.ThrottleControl{IntervalMs: 7}, 7, true},
		{map[string]any{"interval_ms": float64(20)}, 20, true},
		{map[string]any{"interval": 1.0}, 0, false},
		{"fast", 0, false},
	}
	for _, c := range cases {
		got, ok := intervalMs(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("intervalMs(%v) = %d,%v", c.in, got, ok)
		}
	}
}
