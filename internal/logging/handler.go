package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// palette holds the colors used on a terminal. A nil palette means plain text.
type palette struct {
	time  *color.Color
	key   *color.Color
	level map[slog.Level]*color.Color
}

func newPalette() *palette {
	return &palette{
		time: color.New(color.FgHiBlack),
		key:  color.New(color.FgCyan),
		level: map[slog.Level]*color.Color{
			LevelTrace:      color.New(color.FgHiBlack),
			slog.LevelDebug: color.New(color.FgMagenta),
			slog.LevelInfo:  color.New(color.FgGreen),
			slog.LevelWarn:  color.New(color.FgYellow),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		},
	}
}

// levelColor picks the color of the highest named level at or below l.
func (p *palette) levelColor(l slog.Level) *color.Color {
	for _, named := range []slog.Level{slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug} {
		if l >= named {
			return p.level[named]
		}
	}
	return p.level[LevelTrace]
}

// Handler is the human-facing slog handler: "3:04PM INFO  message key=value".
// Each record is rendered into one buffer and written with a single Write, so
// concurrent sync workers never interleave half lines.
type Handler struct {
	level  slog.Leveler
	out    io.Writer
	mu     *sync.Mutex
	colors *palette

	// pre holds attributes from WithAttrs, already rendered.
	pre    []byte
	prefix string
}

// NewHandler returns a Handler writing to out. Colors are used only when out
// is a terminal that allows them.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{out: out, mu: &sync.Mutex{}, level: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	if SupportsColor(out) {
		h.colors = newPalette()
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 128)

	if !r.Time.IsZero() {
		buf = h.paint(buf, h.timeColor(), r.Time.Format(time.Kitchen))
		buf = append(buf, ' ')
	}
	buf = h.paint(buf, h.levelColor(r.Level), fmt.Sprintf("%-5s", levelLabel(r.Level)))
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = append(buf, h.pre...)

	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, h.prefix, a)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.pre = append([]byte(nil), h.pre...)
	for _, a := range attrs {
		next.pre = h.appendAttr(next.pre, h.prefix, a)
	}
	return &next
}

// WithGroup prefixes the keys of later attributes with "name.".
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *Handler) appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, member := range a.Value.Group() {
			buf = h.appendAttr(buf, prefix, member)
		}
		return buf
	}

	buf = append(buf, ' ')
	buf = h.paint(buf, h.keyColor(), prefix+a.Key)
	buf = append(buf, '=')
	return append(buf, formatValue(redact(a.Key, a.Value.Any()))...)
}

func (h *Handler) paint(buf []byte, c *color.Color, s string) []byte {
	if c == nil {
		return append(buf, s...)
	}
	return append(buf, c.Sprint(s)...)
}

func (h *Handler) timeColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.time
}

func (h *Handler) keyColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.key
}

func (h *Handler) levelColor(l slog.Level) *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.levelColor(l)
}

func levelLabel(l slog.Level) string {
	if l <= LevelTrace {
		return "TRACE"
	}
	return l.String()
}

func formatValue(v any) string {
	var s string
	switch v := v.(type) {
	case error:
		s = v.Error()
	case string:
		s = v
	default:
		return fmt.Sprint(v)
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
