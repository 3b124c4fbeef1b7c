// components/logging/rotation.go
package logging

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// RotateSize selects lumberjack (size based) rotation instead of a time unit.
const RotateSize = "SIZE"

type unitKind uint8

const (
	unitSecond unitKind = iota
	unitMinute
	unitHour
	unitDay
	unitMidnight
	unitWeekday
)

// rotationUnit is the parsed form of the "when" setting.
type rotationUnit struct {
	kind    unitKind
	weekday time.Weekday // only for unitWeekday
}

// 轮转后文件名里的时间戳格式, 以及用于清理的匹配规则
var (
	stampLayouts = map[unitKind]string{
		unitSecond:   "2006-01-02_15-04-05",
		unitMinute:   "2006-01-02_15-04",
		unitHour:     "2006-01-02_15",
		unitDay:      "2006-01-02",
		unitMidnight: "2006-01-02",
		unitWeekday:  "2006-01-02",
	}
	stampPatterns = map[unitKind]string{
		unitSecond:   `\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}`,
		unitMinute:   `\d{4}-\d{2}-\d{2}_\d{2}-\d{2}`,
		unitHour:     `\d{4}-\d{2}-\d{2}_\d{2}`,
		unitDay:      `\d{4}-\d{2}-\d{2}`,
		unitMidnight: `\d{4}-\d{2}-\d{2}`,
		unitWeekday:  `\d{4}-\d{2}-\d{2}`,
	}
)

func isSizeRotation(when string) bool {
	return strings.EqualFold(strings.TrimSpace(when), RotateSize)
}

// parseRotationUnit accepts S, M, H, D, MIDNIGHT and W0-W6 (0 = Monday), case-insensitive.
func parseRotationUnit(when string) (rotationUnit, error) {
	w := strings.ToUpper(strings.TrimSpace(when))
	switch w {
	case "S":
		return rotationUnit{kind: unitSecond}, nil
	case "M":
		return rotationUnit{kind: unitMinute}, nil
	case "H":
		return rotationUnit{kind: unitHour}, nil
	case "D":
		return rotationUnit{kind: unitDay}, nil
	case "MIDNIGHT":
		return rotationUnit{kind: unitMidnight}, nil
	}
	if len(w) == 2 && w[0] == 'W' && w[1] >= '0' && w[1] <= '6' {
		// W0 是周一, time.Weekday 里周日为 0
		return rotationUnit{kind: unitWeekday, weekday: time.Weekday((int(w[1]-'0') + 1) % 7)}, nil
	}
	return rotationUnit{}, fmt.Errorf("invalid rotation unit %q (want S, M, H, D, MIDNIGHT, W0-W6 or size)", when)
}

// periodStart returns the start of the unit containing t, in t's location.
func (u rotationUnit) periodStart(t time.Time) time.Time {
	y, mo, d := t.Date()
	loc := t.Location()
	switch u.kind {
	case unitSecond:
		return time.Date(y, mo, d, t.Hour(), t.Minute(), t.Second(), 0, loc)
	case unitMinute:
		return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, loc)
	case unitHour:
		return time.Date(y, mo, d, t.Hour(), 0, 0, 0, loc)
	case unitWeekday:
		back := (int(t.Weekday()) - int(u.weekday) + 7) % 7
		return time.Date(y, mo, d-back, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, mo, d, 0, 0, 0, 0, loc)
	}
}

// advance moves a period start forward by n units. Day based units use calendar days, so DST shifts are respected.
func (u rotationUnit) advance(start time.Time, n int) time.Time {
	switch u.kind {
	case unitSecond:
		return start.Add(time.Duration(n) * time.Second)
	case unitMinute:
		return start.Add(time.Duration(n) * time.Minute)
	case unitHour:
		return start.Add(time.Duration(n) * time.Hour)
	case unitWeekday:
		return start.AddDate(0, 0, 7*n)
	default:
		return start.AddDate(0, 0, n)
	}
}

func (u rotationUnit) stamp(t time.Time) string {
	return t.Format(stampLayouts[u.kind])
}

// backupPattern matches the rotated files of one base name: <basename>.<stamp><suffix>.
func (u rotationUnit) backupPattern(basename, suffix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(basename+".") + stampPatterns[u.kind] + regexp.QuoteMeta(suffix) + `$`)
}
