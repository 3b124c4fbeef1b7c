package timez

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/grand-thief-cash/chaos/app/infra/go/kit/components/logging"
)

const (
	DefaultCountMessage = "Codes Cost Seconds: ${cost}"
	DefaultCountPrec    = 6

	costPlaceholder = "${cost}"
)

// Count measures the time between StartCount and Stop and reports it.
type Count struct {
	message string
	prec    int
	logger  logging.Logger // nil prints to out
	out     io.Writer
	silent  bool

	start time.Time
	cost  float64
}

// CountOption configures a Count.
type CountOption func(*Count)

// WithMessage replaces the report template; "${cost}" is substituted with the elapsed seconds.
func WithMessage(msg string) CountOption {
	return func(c *Count) { c.message = msg }
}

// WithPrecision sets the number of decimal places kept in the elapsed seconds.
func WithPrecision(prec int) CountOption {
	return func(c *Count) {
		if prec >= 0 {
			c.prec = prec
		}
	}
}

// WithLogger reports through l at INFO.
func WithLogger(l logging.Logger) CountOption {
	return func(c *Count) { c.logger = l }
}

// WithWriter prints the report to w instead of logging it.
func WithWriter(w io.Writer) CountOption {
	return func(c *Count) {
		c.logger = nil
		c.out = w
	}
}

// Silent disables the report; the elapsed time is still returned by Stop.
func Silent() CountOption {
	return func(c *Count) { c.silent = true }
}

// StartCount starts measuring. By default the report goes to the "timez" logger of the default logging manager.
func StartCount(opts ...CountOption) *Count {
	c := &Count{
		message: DefaultCountMessage,
		prec:    DefaultCountPrec,
		out:     os.Stdout,
	}
	c.logger = logging.GetLogger("timez")
	for _, opt := range opts {
		opt(c)
	}
	c.start = time.Now()
	return c
}

// Stop ends the measurement, reports it and returns the elapsed time.
func (c *Count) Stop() time.Duration {
	elapsed := time.Since(c.start)
	c.cost = round(elapsed.Seconds(), c.prec)
	if c.silent {
		return elapsed
	}
	msg := c.Message()
	if c.logger != nil {
		c.logger.Info(context.Background(), msg)
	} else if c.out != nil {
		fmt.Fprintln(c.out, msg)
	}
	return elapsed
}

// Cost returns the rounded elapsed seconds of the last Stop.
func (c *Count) Cost() float64 { return c.cost }

// Message renders the report template with the rounded cost.
func (c *Count) Message() string {
	return strings.ReplaceAll(c.message, costPlaceholder, strconv.FormatFloat(c.cost, 'f', -1, 64))
}

func round(v float64, prec int) float64 {
	p := math.Pow10(prec)
	return math.Round(v*p) / p
}
