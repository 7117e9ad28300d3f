// Package rotatelog implements a daily-rotating io.Writer for capturing raw
// RTCM3 streams to disk, one file per UTC day. Grounded on
// rtcmlogger/log/writer.go in the teacher, restructured to drive the
// midnight rollover with github.com/robfig/cron's scheduler instead of the
// teacher's own hand-rolled end-of-day check, and with the
// command-line-shelling-out save step replaced by an os.Rename.
package rotatelog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron"

	"github.com/bedrocksolutions/ntripgo/internal/clock"
)

// Writer satisfies io.Writer, writing every buffer it receives to a
// UTC-datestamped file in Dir, rolling over to a new file at midnight UTC
// and moving the finished file into Dir/ready.
type Writer struct {
	mu          sync.Mutex
	dir         string
	prefix      string
	clock       clock.Clock
	currentDay  string
	file        *os.File
	cron        *cron.Cron
}

// New creates a Writer that writes "<dir>/<prefix>.<yyyymmdd>.rtcm3" files
// and schedules a midnight-UTC rollover via cron. dir is created if it does
// not exist.
func New(dir, prefix string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Join(dir, "ready"), 0755); err != nil {
		return nil, fmt.Errorf("rotatelog: creating %s: %w", dir, err)
	}

	w := &Writer{dir: dir, prefix: prefix, clock: clock.NewSystemClock(), cron: cron.NewWithLocation(time.UTC)}
	w.cron.AddFunc("0 0 0 * * *", w.rollover)
	w.cron.Start()
	return w, nil
}

// Write appends buffer to today's log file, opening it first if this is the
// first write of the day.
func (w *Writer) Write(buffer []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	today := w.todayYYYYMMDD()
	if w.file == nil || today != w.currentDay {
		if w.file != nil {
			w.closeAndArchive()
		}
		file, err := os.OpenFile(w.filename(today), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return 0, fmt.Errorf("rotatelog: opening %s: %w", w.filename(today), err)
		}
		w.file = file
		w.currentDay = today
	}

	return w.file.Write(buffer)
}

// Close closes and archives the current log file, if any.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cron.Stop()
	if w.file == nil {
		return nil
	}
	return w.closeAndArchiveErr()
}

// rollover is invoked by cron at UTC midnight; it closes and archives
// whatever file is open so the next Write starts a fresh one.
func (w *Writer) rollover() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file != nil {
		w.closeAndArchive()
	}
}

func (w *Writer) closeAndArchive() {
	_ = w.closeAndArchiveErr()
}

func (w *Writer) closeAndArchiveErr() error {
	name := w.file.Name()
	if err := w.file.Close(); err != nil {
		w.file = nil
		return fmt.Errorf("rotatelog: closing %s: %w", name, err)
	}
	w.file = nil

	dest := filepath.Join(w.dir, "ready", filepath.Base(name))
	return os.Rename(name, dest)
}

func (w *Writer) todayYYYYMMDD() string {
	now := w.clock.Now().UTC()
	return fmt.Sprintf("%04d%02d%02d", now.Year(), now.Month(), now.Day())
}

func (w *Writer) filename(yyyymmdd string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s.%s.rtcm3", w.prefix, yyyymmdd))
}

