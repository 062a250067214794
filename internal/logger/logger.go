// Package logger builds the slog logger used by the commands.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Config holds logger configuration.
type Config struct {
	Writer io.Writer
	Level  slog.Level
	// Color forces colored output on or off; nil means "only on a terminal".
	Color *bool
}

// New creates a logger writing human readable lines.
func New(cfg Config) *slog.Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	useColor := isTerminal(cfg.Writer)
	if cfg.Color != nil {
		useColor = *cfg.Color
	}

	return slog.New(NewHumanHandler(cfg.Writer, cfg.Level, useColor))
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel converts a string to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// HumanHandler prints "LEVEL message key=value ..." lines, one per record.
type HumanHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Level
	color bool
	attrs []slog.Attr
	group string
}

// NewHumanHandler creates a handler writing to w.
func NewHumanHandler(w io.Writer, level slog.Level, useColor bool) *HumanHandler {
	return &HumanHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
		color: useColor,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *HumanHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes the log record.
func (h *HumanHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(h.levelLabel(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		h.appendAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a handler that always appends attrs.
func (h *HumanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

// WithGroup prefixes subsequent attribute keys with name.
func (h *HumanHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		next.group = h.group + "." + name
	} else {
		next.group = name
	}
	return &next
}

func (h *HumanHandler) levelLabel(level slog.Level) string {
	label := fmt.Sprintf("%-5s", level.String())
	if !h.color {
		return label
	}
	switch {
	case level >= slog.LevelError:
		return color.New(color.FgRed, color.Bold).Sprint(label)
	case level >= slog.LevelWarn:
		return color.YellowString(label)
	case level >= slog.LevelInfo:
		return color.CyanString(label)
	default:
		return color.New(color.Faint).Sprint(label)
	}
}

func (h *HumanHandler) appendAttr(b *strings.Builder, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if h.group != "" && !strings.HasPrefix(key, h.group+".") {
		key = h.group + "." + key
	}
	b.WriteByte(' ')
	if h.color {
		b.WriteString(color.New(color.Faint).Sprint(key + "="))
	} else {
		b.WriteString(key + "=")
	}
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\"") {
		val = fmt.Sprintf("%q", val)
	}
	b.WriteString(val)
}
