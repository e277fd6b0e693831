// Package types holds the payloads carried on the in-process bus.
package types

// Link is the link/state reported for the throttle sensor.
type Link string

const (
	LinkUp       Link = "up"
	LinkDegraded Link = "degraded" // bound to the fallback address
	LinkDown     Link = "down"
)

// ---- Throttle sensor payloads ----

// SensorState is published once per boot on hal/throttle/state.
type SensorState struct {
	Model   string `json:"model"`
	Variant string `json:"variant"`
	State   string `json:"state"`          // "uninitialized", "bound", "fallback"
	Addr    uint8  `json:"addr,omitempty"` // 7-bit; omitted for analog
	Label   string `json:"label,omitempty"`
	Link    Link   `json:"link"`
	TS      int64  `json:"ts_ms"`
}

// ThrottleValue is one raw trigger sample.
type ThrottleValue struct {
	Raw int16 `json:"raw"`
	TS  int64 `json:"ts_ms"`
}

// ThrottleControl is accepted on config/throttle.
type ThrottleControl struct {
	IntervalMs int `json:"interval_ms"`
}

// ---- Diagnostics ----

// DiagRecord mirrors one diagnostic log line on hal/diag.
type DiagRecord struct {
	Level string         `json:"level"`
	Msg   string         `json:"msg"`
	Attrs map[string]any `json:"attrs,omitempty"`
	TS    int64          `json:"ts_ms"`
}
