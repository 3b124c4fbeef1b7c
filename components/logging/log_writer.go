package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/grand-thief-cash/chaos/app/infra/go/kit/pathutil"
)

const monthLayout = "2006-01"

// FileSink is a file destination owned by the Manager.
type FileSink interface {
	zapcore.WriteSyncer
	Close() error
	Path() string
}

// RotationOptions configures a RotatingFileSink.
type RotationOptions struct {
	When           string // S, M, H, D, MIDNIGHT, W0-W6
	Interval       int    // units per period, default 1
	MonthBucketing bool
	Suffix         string // appended after the date stamp of rotated files
	BackupCount    int    // 0 keeps every rotated file
	Clock          func() time.Time
	Metrics        *Metrics
}

// RotatingFileSink writes to <dir>[/<YYYY-MM>]/<basename> and renames it to
// <basename>.<stamp><suffix> whenever the current period ends.
type RotatingFileSink struct {
	mu sync.Mutex

	rootDir  string // directory without the month bucket
	basename string
	unit     rotationUnit
	opts     RotationOptions
	backups  *regexp.Regexp

	file        *os.File
	closed      bool
	bucket      string    // YYYY-MM of the active directory, "" without bucketing
	periodStart time.Time // start of the period the active file belongs to
	rolloverAt  time.Time
}

// OpenRotatingFileSink resolves the active path for basePath (bucketed by month when enabled),
// creates the directory and opens the file for appending.
func OpenRotatingFileSink(basePath string, opts RotationOptions) (*RotatingFileSink, error) {
	unit, err := parseRotationUnit(opts.When)
	if err != nil {
		return nil, err
	}
	if opts.Interval <= 0 {
		opts.Interval = 1
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	s := &RotatingFileSink{
		rootDir:  filepath.Dir(basePath),
		basename: filepath.Base(basePath),
		unit:     unit,
		opts:     opts,
	}
	s.backups = unit.backupPattern(s.basename, opts.Suffix)

	now := opts.Clock()
	if opts.MonthBucketing {
		s.bucket = now.Format(monthLayout)
	}
	if err := s.openLocked(now, true); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the directory of the active file.
func (s *RotatingFileSink) Dir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeDir()
}

func (s *RotatingFileSink) activeDir() string {
	if s.bucket == "" {
		return s.rootDir
	}
	return filepath.Join(s.rootDir, s.bucket)
}

// Path returns the active file path.
func (s *RotatingFileSink) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePath()
}

func (s *RotatingFileSink) activePath() string {
	return filepath.Join(s.activeDir(), s.basename)
}

// Write appends p to the active file. A failed rotation is reported but the record still lands in
// the active file, and rotation is retried on the next write.
func (s *RotatingFileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, os.ErrClosed
	}
	rotErr := s.maybeRotateLocked(s.opts.Clock())
	if rotErr != nil {
		s.opts.Metrics.failed(s.basename)
	}
	if s.file == nil {
		if rotErr == nil {
			rotErr = os.ErrClosed
		}
		return 0, rotErr
	}
	n, err := s.file.Write(p)
	if err != nil {
		s.opts.Metrics.failed(s.basename)
		return n, err
	}
	s.opts.Metrics.wrote(s.basename)
	return n, rotErr
}

func (s *RotatingFileSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		return s.file.Sync()
	}
	return nil
}

func (s *RotatingFileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.file == nil {
		return nil
	}
	_ = s.file.Sync()
	err := s.file.Close()
	s.file = nil
	return err
}

// MaybeRotate rotates when now has crossed the end of the current period.
func (s *RotatingFileSink) MaybeRotate(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maybeRotateLocked(now)
}

func (s *RotatingFileSink) maybeRotateLocked(now time.Time) error {
	if s.closed {
		return nil
	}
	if s.file == nil {
		// 上次轮转失败后没能打开新文件
		return s.openLocked(now, false)
	}
	if now.Before(s.rolloverAt) {
		return nil
	}
	return s.rotateLocked(now)
}

// rotateLocked archives the active file inside its own directory, prunes old backups, moves to the
// current month bucket if it changed, and reopens a fresh active file. When the archive cannot be
// renamed the active file is reopened as is and the period is kept, so the next write tries again.
func (s *RotatingFileSink) rotateLocked(now time.Time) error {
	_ = s.file.Sync()
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return fmt.Errorf("close log file %s: %w", s.activePath(), err)
	}

	active := s.activePath()
	target := filepath.Join(s.activeDir(), s.basename+"."+s.unit.stamp(s.periodStart)+s.opts.Suffix)
	if pathutil.Exists(active) {
		if pathutil.Exists(target) {
			_ = os.Remove(target)
		}
		if err := os.Rename(active, target); err != nil {
			err = fmt.Errorf("rotate log file %s: %w", active, err)
			if f, oerr := os.OpenFile(active, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); oerr == nil {
				s.file = f
			}
			return err
		}
	}
	s.pruneLocked()

	if s.opts.MonthBucketing {
		s.bucket = now.Format(monthLayout)
	}
	if err := s.openLocked(now, false); err != nil {
		return err
	}
	s.opts.Metrics.rotated(s.basename)
	return nil
}

// openLocked opens the active file. On first open an existing file's modification time seeds the period,
// so a file left over from an earlier period is rotated on the next write.
func (s *RotatingFileSink) openLocked(now time.Time, first bool) error {
	dir := s.activeDir()
	if err := pathutil.Ensure(dir); err != nil {
		return err
	}
	path := s.activePath()
	seed := now
	if first {
		if fi, err := os.Stat(path); err == nil {
			seed = fi.ModTime().In(now.Location())
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}
	s.file = f
	s.periodStart = s.unit.periodStart(seed)
	s.rolloverAt = s.unit.advance(s.periodStart, s.opts.Interval)
	return nil
}

func (s *RotatingFileSink) pruneLocked() {
	if s.opts.BackupCount <= 0 {
		return
	}
	dir := s.activeDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	var matched []string
	for _, e := range entries {
		if !e.IsDir() && s.backups.MatchString(e.Name()) {
			matched = append(matched, e.Name())
		}
	}
	if len(matched) <= s.opts.BackupCount {
		return
	}
	// 时间戳格式按字典序即时间序
	sort.Strings(matched)
	for _, name := range matched[:len(matched)-s.opts.BackupCount] {
		_ = os.Remove(filepath.Join(dir, name))
	}
}

// sizeFileSink rotates by size through lumberjack; the month bucket is fixed when it is opened.
type sizeFileSink struct {
	*lumberjack.Logger
	name    string
	metrics *Metrics
}

func openSizeFileSink(basePath string, maxSizeMB, backups int, compress, monthBucketing bool, suffix string, clock func() time.Time, metrics *Metrics) (*sizeFileSink, error) {
	dir, name := filepath.Dir(basePath), filepath.Base(basePath)
	if monthBucketing {
		if clock == nil {
			clock = time.Now
		}
		dir = filepath.Join(dir, clock().Format(monthLayout))
	}
	if err := pathutil.Ensure(dir); err != nil {
		return nil, err
	}
	filename := filepath.Join(dir, name+suffix)
	// lumberjack 延迟打开文件, 这里先确认可写
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", filename, err)
	}
	_ = f.Close()
	return &sizeFileSink{
		Logger: &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    maxSizeMB,
			MaxBackups: backups,
			Compress:   compress,
			LocalTime:  true,
		},
		name:    name,
		metrics: metrics,
	}, nil
}

func (s *sizeFileSink) Write(p []byte) (int, error) {
	n, err := s.Logger.Write(p)
	if err != nil {
		s.metrics.failed(s.name)
		return n, err
	}
	s.metrics.wrote(s.name)
	return n, nil
}

func (s *sizeFileSink) Sync() error { return nil }

func (s *sizeFileSink) Path() string { return s.Filename }
