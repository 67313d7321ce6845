package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AlertFunc receives a formatted alert text. It is called synchronously from
// the logging goroutine, so implementations must not block.
type AlertFunc func(text string)

type alertCore struct {
	zapcore.Core
	minLevel zapcore.Level
	fields   []zapcore.Field
	alert    AlertFunc
}

// WithAlert returns a logger that also hands every entry at or above
// minLevel to alert.
func (l *Logger) WithAlert(minLevel zapcore.Level, alert AlertFunc) *Logger {
	return &Logger{l.Logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &alertCore{Core: core, minLevel: minLevel, alert: alert}
	}))}
}

func (a *alertCore) With(fields []zapcore.Field) zapcore.Core {
	return &alertCore{
		Core:     a.Core.With(fields),
		minLevel: a.minLevel,
		fields:   append(append([]zapcore.Field{}, a.fields...), fields...),
		alert:    a.alert,
	}
}

func (a *alertCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, a)
	}
	return checkedEntry
}

func (a *alertCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if entry.Level >= a.minLevel {
		a.alert(FormatAlert(entry, append(append([]zapcore.Field{}, a.fields...), fields...)))
	}
	return a.Core.Write(entry, fields)
}

// FormatAlert renders entry as Telegram HTML.
func FormatAlert(entry zapcore.Entry, fields []zapcore.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚨 <b>%s Alert</b>\n\n<b>Message:</b> %s\n", entry.Level.CapitalString(), escape(entry.Message)))
	if len(keys) > 0 {
		sb.WriteString("\n<b>Fields:</b>\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("• %s: %s\n", escape(k), escape(fmt.Sprint(enc.Fields[k]))))
		}
	}
	sb.WriteString(fmt.Sprintf("\n<b>Time:</b> %s", entry.Time.Format("2006-01-02 15:04:05")))
	return sb.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return htmlEscaper.Replace(s)
}
