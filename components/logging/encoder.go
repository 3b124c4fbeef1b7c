// components/logging/encoder.go
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/lestrrat-go/strftime"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var (
	_pool = buffer.NewPool()

	// %(key)<verb>, verb 为 printf 风格的 flags/width/precision + s|d|f
	patternToken = regexp.MustCompile(`%\((\w+)\)([-#0 +]?\d*(?:\.\d+)?[sdf])`)

	patternKeys = map[string]bool{
		"asctime": true, "msecs": true, "levelname": true, "levelno": true, "name": true, "message": true,
		"filename": true, "pathname": true, "lineno": true, "funcName": true, "process": true, "created": true,
	}
)

type patternPart struct {
	literal string
	key     string
	verb    string // full printf verb, e.g. "%03d"
}

// patternEncoder renders records with a "%(key)s" template. Structured fields are appended to the
// message as a compact JSON object.
type patternEncoder struct {
	zapcore.Encoder // JSON encoder holding the fields added with With

	parts []patternPart
	date  *strftime.Strftime
	pid   int
}

// NewPatternEncoder compiles format and dateFormat (strftime syntax). An empty dateFormat renders
// asctime as "2006-01-02 15:04:05,000".
func NewPatternEncoder(format, dateFormat string) (zapcore.Encoder, error) {
	parts, err := compilePattern(format)
	if err != nil {
		return nil, err
	}
	var date *strftime.Strftime
	if dateFormat != "" {
		if date, err = strftime.New(dateFormat); err != nil {
			return nil, fmt.Errorf("datefmt %q: %w", dateFormat, err)
		}
	}
	return &patternEncoder{
		Encoder: zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		}),
		parts: parts,
		date:  date,
		pid:   os.Getpid(),
	}, nil
}

func compilePattern(format string) ([]patternPart, error) {
	var parts []patternPart
	literal := func(s string) error {
		if s == "" {
			return nil
		}
		if i := strings.IndexByte(strings.ReplaceAll(s, "%%", ""), '%'); i >= 0 {
			return fmt.Errorf("fmt %q: malformed placeholder", format)
		}
		parts = append(parts, patternPart{literal: strings.ReplaceAll(s, "%%", "%")})
		return nil
	}

	last := 0
	for _, m := range patternToken.FindAllStringSubmatchIndex(format, -1) {
		if err := literal(format[last:m[0]]); err != nil {
			return nil, err
		}
		key := format[m[2]:m[3]]
		if !patternKeys[key] {
			return nil, fmt.Errorf("fmt %q: unknown key %q", format, key)
		}
		parts = append(parts, patternPart{key: key, verb: "%" + format[m[4]:m[5]]})
		last = m[1]
	}
	if err := literal(format[last:]); err != nil {
		return nil, err
	}
	return parts, nil
}

func (e *patternEncoder) Clone() zapcore.Encoder {
	return &patternEncoder{
		Encoder: e.Encoder.Clone(),
		parts:   e.parts,
		date:    e.date,
		pid:     e.pid,
	}
}

func (e *patternEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line := _pool.Get()
	for _, p := range e.parts {
		if p.key == "" {
			line.AppendString(p.literal)
			continue
		}
		v := e.value(ent, p.key)
		if p.verb == "%s" {
			if s, ok := v.(string); ok {
				line.AppendString(s)
				continue
			}
		}
		line.AppendString(formatValue(p.verb, v))
	}

	// 上下文字段 + 本次字段
	js, err := e.Encoder.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		line.Free()
		return nil, err
	}
	obj := strings.TrimRight(js.String(), "\n")
	js.Free()
	if obj != "{}" {
		line.AppendByte(' ')
		line.AppendString(obj)
	}

	if ent.Stack != "" {
		line.AppendByte('\n')
		line.AppendString(ent.Stack)
	}
	line.AppendString(zapcore.DefaultLineEnding)
	return line, nil
}

func (e *patternEncoder) value(ent zapcore.Entry, key string) any {
	switch key {
	case "asctime":
		if e.date == nil {
			return ent.Time.Format("2006-01-02 15:04:05") + fmt.Sprintf(",%03d", ent.Time.Nanosecond()/1e6)
		}
		return e.date.FormatString(ent.Time)
	case "msecs":
		return ent.Time.Nanosecond() / 1e6
	case "levelname":
		return SeverityOf(ent.Level).String()
	case "levelno":
		return (int(SeverityOf(ent.Level)) + 1) * 10
	case "name":
		if ent.LoggerName == "" {
			return "root"
		}
		return ent.LoggerName
	case "message":
		return ent.Message
	case "filename":
		if !ent.Caller.Defined {
			return "(unknown file)"
		}
		return filepath.Base(ent.Caller.File)
	case "pathname":
		if !ent.Caller.Defined {
			return "(unknown file)"
		}
		return ent.Caller.File
	case "lineno":
		return ent.Caller.Line
	case "funcName":
		fn := ent.Caller.Function
		if i := strings.LastIndexByte(fn, '/'); i >= 0 {
			fn = fn[i+1:]
		}
		if i := strings.IndexByte(fn, '.'); i >= 0 {
			fn = fn[i+1:]
		}
		if fn == "" {
			return "(unknown function)"
		}
		return fn
	case "process":
		return e.pid
	case "created":
		return float64(ent.Time.UnixNano()) / 1e9
	}
	return ""
}

// formatValue applies a printf verb, converting between ints, floats and strings the way the verb expects.
func formatValue(verb string, v any) string {
	switch verb[len(verb)-1] {
	case 'd':
		switch x := v.(type) {
		case float64:
			v = int64(x)
		case string:
			if n, err := strconv.ParseInt(x, 10, 64); err == nil {
				v = n
			} else {
				return fmt.Sprintf(verb[:len(verb)-1]+"s", x)
			}
		}
	case 'f':
		if x, ok := v.(int); ok {
			v = float64(x)
		}
		if _, ok := v.(string); ok {
			return fmt.Sprintf(verb[:len(verb)-1]+"s", v)
		}
	case 's':
		if _, ok := v.(string); !ok {
			v = fmt.Sprint(v)
		}
	}
	return fmt.Sprintf(verb, v)
}
