package timez

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/grand-thief-cash/chaos/app/infra/go/kit/components/logging"
)

func TestStrftimeLayouts(t *testing.T) {
	at := time.Date(2024, 3, 5, 7, 8, 9, 0, time.Local)
	cases := map[string]string{
		Short:        "2024-03-05",
		Long:         "2024-03-05 07-08-09",
		GeneralLong:  "2024-03-05 07:08:09",
		NumOnlyShort: "20240305",
		NumOnlyLong:  "20240305070809",
		"":           "2024-03-05 07-08-09",
	}
	for format, want := range cases {
		got, err := Strftime(format, at)
		if err != nil {
			t.Fatalf("Strftime(%q): %v", format, err)
		}
		if got != want {
			t.Fatalf("Strftime(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestNowAndUnix(t *testing.T) {
	s, err := Now(NumOnlyShort)
	if err != nil || len(s) != 8 {
		t.Fatalf("Now: %q %v", s, err)
	}
	if d := time.Now().Unix() - Unix(); d < 0 || d > 1 {
		t.Fatalf("Unix drift %d", d)
	}
}

func TestCountToWriter(t *testing.T) {
	var out bytes.Buffer
	c := StartCount(WithWriter(&out), WithPrecision(3), WithMessage("took ${cost}s"))
	time.Sleep(5 * time.Millisecond)
	elapsed := c.Stop()
	if elapsed < 5*time.Millisecond {
		t.Fatalf("elapsed %s", elapsed)
	}
	if c.Cost() < 0.005 {
		t.Fatalf("cost %v", c.Cost())
	}
	line := strings.TrimSpace(out.String())
	if !strings.HasPrefix(line, "took 0.") || !strings.HasSuffix(line, "s") {
		t.Fatalf("unexpected report %q", line)
	}
	if frac := strings.TrimSuffix(strings.TrimPrefix(line, "took 0."), "s"); len(frac) > 3 {
		t.Fatalf("precision not applied: %q", line)
	}
}

type recordingLogger struct {
	msgs []string
}

func (r *recordingLogger) Debug(ctx context.Context, msg string, fields ...zap.Field) {}

func (r *recordingLogger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	r.msgs = append(r.msgs, msg)
}

func (r *recordingLogger) Warn(ctx context.Context, msg string, fields ...zap.Field) {}

func (r *recordingLogger) Error(ctx context.Context, msg string, fields ...zap.Field) {}

func (r *recordingLogger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {}

func (r *recordingLogger) With(fields ...zap.Field) logging.Logger {
	return r
}

func (r *recordingLogger) Sync() error {
	return nil
}

func TestCountToLogger(t *testing.T) {
	rec := &recordingLogger{}
	c := StartCount(WithLogger(rec))
	c.Stop()
	if len(rec.msgs) != 1 || !strings.HasPrefix(rec.msgs[0], "Codes Cost Seconds: ") {
		t.Fatalf("unexpected messages %v", rec.msgs)
	}

	rec.msgs = nil
	StartCount(WithLogger(rec), Silent()).Stop()
	if len(rec.msgs) != 0 {
		t.Fatalf("silent count reported %v", rec.msgs)
	}
}

func TestRound(t *testing.T) {
	if got := round(1.23456789, 6); got != 1.234568 {
		t.Fatalf("round = %v", got)
	}
	if got := round(1.5, 0); got != 2 {
		t.Fatalf("round = %v", got)
	}
}
