package diag

import (
	"throttlehal-go/bus"
	"throttlehal-go/types"
	"throttlehal-go/x/timex"
)

// TopicDiag carries non-retained types.DiagRecord payloads.
var TopicDiag = bus.T("hal", "diag")

// BusLogger forwards every record to next and mirrors it onto the bus.
type BusLogger struct {
	conn *bus.Connection
	next Logger
	min  Level
}

func NewBusLogger(conn *bus.Connection, next Logger, min Level) *BusLogger {
	return &BusLogger{conn: conn, next: OrNop(next), min: min}
}

func (b *BusLogger) Debug(msg string, args ...any) {
	b.next.Debug(msg, args...)
	b.publish(LevelDebug, msg, args)
}

func (b *BusLogger) Info(msg string, args ...any) {
	b.next.Info(msg, args...)
	b.publish(LevelInfo, msg, args)
}

func (b *BusLogger) Warn(msg string, args ...any) {
	b.next.Warn(msg, args...)
	b.publish(LevelWarn, msg, args)
}

func (b *BusLogger) Error(msg string, args ...any) {
	b.next.Error(msg, args...)
	b.publish(LevelError, msg, args)
}

func (b *BusLogger) publish(l Level, msg string, args []any) {
	if l < b.min || b.conn == nil {
		return
	}
	rec := types.DiagRecord{Level: l.String(), Msg: msg, TS: timex.NowMs()}
	if len(args) > 1 {
		rec.Attrs = make(map[string]any, len(args)/2)
		for i := 0; i+1 < len(args); i += 2 {
			if k, ok := args[i].(string); ok {
				rec.Attrs[k] = args[i+1]
			}
		}
	}
	b.conn.Publish(b.conn.NewMessage(TopicDiag, rec, false))
}
