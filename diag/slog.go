//go:build !tinygo

package diag

import (
	"io"
	"log/slog"
	"strings"
)

// New builds the host logger: JSON unless format is "text", filtered at
// level, with the service name attached to every record.
func New(level, format string, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(ParseLevel(level))}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}
	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "throttlehal"),
	})
	return slog.New(handler)
}
