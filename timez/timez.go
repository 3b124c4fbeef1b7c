// Package timez holds strftime based time formatting helpers and an elapsed time reporter.
package timez

import (
	"time"

	"github.com/lestrrat-go/strftime"
)

// Common strftime layouts.
const (
	Short        = "%Y-%m-%d"
	Long         = "%Y-%m-%d %H-%M-%S"
	GeneralLong  = "%Y-%m-%d %H:%M:%S"
	NumOnlyShort = "%Y%m%d"
	NumOnlyLong  = "%Y%m%d%H%M%S"
)

// Strftime formats t (local time) with a strftime pattern. An empty format means Long.
func Strftime(format string, t time.Time) (string, error) {
	if format == "" {
		format = Long
	}
	return strftime.Format(format, t.Local())
}

// Now formats the current local time.
func Now(format string) (string, error) {
	return Strftime(format, time.Now())
}

// Unix returns the current time in whole seconds since the epoch.
func Unix() int64 {
	return time.Now().Unix()
}
