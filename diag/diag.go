// Package diag is the diagnostic channel shared by the HAL and its drivers.
//
// Logger has the method set of *slog.Logger, so host builds pass a slog
// logger straight through while MCU builds use the println/UART logger from
// NewPrint, which avoids fmt and reflection.
package diag

import (
	"io"
	"strings"

	"throttlehal-go/x/conv"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Level numbering matches log/slog.
type Level int8

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

func (l Level) String() string {
	switch {
	case l < LevelInfo:
		return "DEBUG"
	case l < LevelWarn:
		return "INFO"
	case l < LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLevel accepts debug, info, warn(ing) and error; anything else is info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Nop discards everything.
var Nop Logger = nop{}

type nop struct{}

func (nop) Debug(string, ...any) {}
func (nop) Info(string, ...any)  {}
func (nop) Warn(string, ...any)  {}
func (nop) Error(string, ...any) {}

// OrNop returns l, or Nop when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop
	}
	return l
}

// ---- println / writer logger ----

// PrintLogger writes one line per record: "LEVEL msg k=v k=v".
type PrintLogger struct {
	w     io.Writer // nil => builtin println
	min   Level
	attrs []any
}

// NewPrint returns a logger writing to w, or to the builtin println when w
// is nil (USB CDC console on TinyGo).
func NewPrint(w io.Writer, min Level) *PrintLogger {
	return &PrintLogger{w: w, min: min}
}

// With returns a logger that prefixes every record with args.
func (p *PrintLogger) With(args ...any) *PrintLogger {
	cp := *p
	cp.attrs = append(append([]any(nil), p.attrs...), args...)
	return &cp
}

func (p *PrintLogger) Debug(msg string, args ...any) { p.log(LevelDebug, msg, args) }
func (p *PrintLogger) Info(msg string, args ...any)  { p.log(LevelInfo, msg, args) }
func (p *PrintLogger) Warn(msg string, args ...any)  { p.log(LevelWarn, msg, args) }
func (p *PrintLogger) Error(msg string, args ...any) { p.log(LevelError, msg, args) }

func (p *PrintLogger) log(l Level, msg string, args []any) {
	if l < p.min {
		return
	}
	buf := make([]byte, 0, 96)
	buf = append(buf, l.String()...)
	buf = append(buf, ' ')
	buf = append(buf, msg...)
	buf = appendAttrs(buf, p.attrs)
	buf = appendAttrs(buf, args)
	if p.w == nil {
		println(string(buf))
		return
	}
	buf = append(buf, '\n')
	_, _ = p.w.Write(buf)
}

func appendAttrs(buf []byte, args []any) []byte {
	for i := 0; i < len(args); i += 2 {
		buf = append(buf, ' ')
		key, _ := args[i].(string)
		if key == "" {
			key = "!BADKEY"
		}
		buf = append(buf, key...)
		buf = append(buf, '=')
		if i+1 < len(args) {
			buf = AppendValue(buf, args[i+1])
		}
	}
	return buf
}

// AppendValue formats the value kinds the HAL logs without fmt.
func AppendValue(buf []byte, v any) []byte {
	var tmp [20]byte
	switch x := v.(type) {
	case string:
		return append(buf, x...)
	case interface{ String() string }:
		return append(buf, x.String()...)
	case error:
		return append(buf, x.Error()...)
	case bool:
		if x {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case int:
		return append(buf, conv.Itoa(tmp[:], int64(x))...)
	case int8:
		return append(buf, conv.Itoa(tmp[:], int64(x))...)
	case int16:
		return append(buf, conv.Itoa(tmp[:], int64(x))...)
	case int32:
		return append(buf, conv.Itoa(tmp[:], int64(x))...)
	case int64:
		return append(buf, conv.Itoa(tmp[:], x)...)
	case uint:
		return append(buf, conv.Utoa(tmp[:], uint64(x))...)
	case uint8:
		return append(buf, conv.Utoa(tmp[:], uint64(x))...)
	case uint16:
		return append(buf, conv.Utoa(tmp[:], uint64(x))...)
	case uint32:
		return append(buf, conv.Utoa(tmp[:], uint64(x))...)
	case uint64:
		return append(buf, conv.Utoa(tmp[:], x)...)
	case nil:
		return append(buf, "<nil>"...)
	default:
		return append(buf, '?')
	}
}
