// Package logging sets up structured logging for the ranking API: text to
// the console, JSON to weekly rotating log files with size caps and
// retention cleanup.
package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

var numberedLogPattern = regexp.MustCompile(`ranking-api-\d{4}-W\d{2}_(\d{2})\.log$`)

// RotatingWriter is an io.Writer that appends to a per-ISO-week log file,
// starting a numbered continuation file when the current one reaches the
// size cap and deleting files older than the retention period.
type RotatingWriter struct {
	dir         string
	retention   time.Duration
	maxFileSize int64

	mu          sync.Mutex
	file        *os.File
	week        string
	size        int64
	cancel      context.CancelFunc
	cleanupDone chan struct{}
}

// NewRotatingWriter creates a writer for dir. retentionWeeks bounds how long
// old files are kept; maxFileSize caps a single file (0 disables the cap).
func NewRotatingWriter(dir string, retentionWeeks int, maxFileSize int64) *RotatingWriter {
	ctx, cancel := context.WithCancel(context.Background())
	rw := &RotatingWriter{
		dir:         dir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}
	go rw.cleanupLoop(ctx)
	return rw
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	week := weekKey(time.Now())
	rotate := rw.file == nil || rw.week != week
	if !rotate && rw.maxFileSize > 0 && rw.size+int64(len(p)) > rw.maxFileSize {
		rotate = true
	}

	if rotate {
		if err := rw.openFileLocked(week); err != nil {
			return 0, err
		}
	}

	n, err := rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

// openFileLocked opens the right file for week: the base weekly file while
// it fits under the cap, otherwise the next free numbered continuation.
func (rw *RotatingWriter) openFileLocked(week string) error {
	if rw.file != nil {
		if err := rw.file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
		rw.file = nil
	}

	name := rw.pickFile(week)
	path := filepath.Join(rw.dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	rw.file = file
	rw.week = week
	rw.size = 0
	if info, err := file.Stat(); err == nil {
		rw.size = info.Size()
	}
	return nil
}

func (rw *RotatingWriter) pickFile(week string) string {
	base := fmt.Sprintf("ranking-api-%s.log", week)
	if rw.maxFileSize <= 0 {
		return base
	}

	if info, err := os.Stat(filepath.Join(rw.dir, base)); err != nil || info.Size() < rw.maxFileSize {
		return base
	}

	highest := 0
	matches, _ := filepath.Glob(filepath.Join(rw.dir, fmt.Sprintf("ranking-api-%s_??.log", week)))
	for _, match := range matches {
		groups := numberedLogPattern.FindStringSubmatch(filepath.Base(match))
		if len(groups) < 2 {
			continue
		}
		num, _ := strconv.Atoi(groups[1])
		if num < highest {
			continue
		}
		if info, err := os.Stat(match); err == nil && info.Size() < rw.maxFileSize {
			return filepath.Base(match)
		}
		highest = num
	}

	return fmt.Sprintf("ranking-api-%s_%02d.log", week, highest+1)
}

func (rw *RotatingWriter) cleanupLoop(ctx context.Context) {
	defer close(rw.cleanupDone)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rw.removeExpired(); err != nil {
				fmt.Fprintf(os.Stderr, "log cleanup failed: %v\n", err)
			}
		}
	}
}

// removeExpired deletes log files whose modification time is past the
// retention cutoff.
func (rw *RotatingWriter) removeExpired() error {
	entries, err := os.ReadDir(rw.dir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().Add(-rw.retention)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "ranking-api-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(rw.dir, name))
		}
	}
	return nil
}

// Close stops the cleanup goroutine and closes the current file.
func (rw *RotatingWriter) Close() error {
	rw.cancel()
	select {
	case <-rw.cleanupDone:
	case <-time.After(time.Second):
	}

	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.file != nil {
		err := rw.file.Close()
		rw.file = nil
		return err
	}
	return nil
}
