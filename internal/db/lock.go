package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	lockFileName   = "params.lock"
	defaultTimeout = 500 * time.Millisecond
	initialBackoff = 5 * time.Millisecond
	maxBackoff     = 50 * time.Millisecond
)

// LockTimeoutError is returned when another process holds the store's write
// lock for longer than the timeout.
type LockTimeoutError struct {
	Timeout time.Duration
	Holder  string
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("write lock timeout after %v\n  holder: %s\n  try again or check if holder process is stuck", e.Timeout, e.Holder)
}

// writeLocker serializes writers across processes with an OS file lock,
// which the OS drops if the holder dies.
type writeLocker struct {
	lockPath string
	lockFile *os.File
}

func newWriteLocker(baseDir string) *writeLocker {
	return &writeLocker{
		lockPath: filepath.Join(baseDir, dataDir, lockFileName),
	}
}

// acquire polls for the lock with capped exponential backoff until timeout.
func (l *writeLocker) acquire(timeout time.Duration) error {
	f, err := os.OpenFile(l.lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	l.lockFile = f

	deadline := time.Now().Add(timeout)
	backoff := initialBackoff

	for {
		if err := l.tryLock(); err == nil {
			l.writeHolder()
			return nil
		}

		if time.Now().After(deadline) {
			holder := l.readHolder()
			l.lockFile.Close()
			l.lockFile = nil
			return &LockTimeoutError{Timeout: timeout, Holder: holder}
		}

		time.Sleep(backoff)
		backoff = min(backoff*2, maxBackoff)
	}
}

func (l *writeLocker) release() error {
	if l.lockFile == nil {
		return nil
	}

	l.lockFile.Truncate(0)
	l.unlock()
	err := l.lockFile.Close()
	l.lockFile = nil
	return err
}

// writeHolder records who holds the lock, for the timeout message.
func (l *writeLocker) writeHolder() {
	if l.lockFile == nil {
		return
	}
	cmd := "paramsync"
	if len(os.Args) > 1 {
		cmd += " " + os.Args[1]
	}
	l.lockFile.Truncate(0)
	l.lockFile.Seek(0, 0)
	fmt.Fprintf(l.lockFile, "pid:%d\ncmd:%s\ntime:%s\n", os.Getpid(), cmd, time.Now().Format(time.RFC3339))
	l.lockFile.Sync()
}

func (l *writeLocker) readHolder() string {
	data, err := os.ReadFile(l.lockPath)
	if err != nil {
		return "unknown"
	}

	fields := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if k, v, ok := strings.Cut(line, ":"); ok {
			fields[k] = v
		}
	}

	pid := fields["pid"]
	if pid == "" {
		return "unknown"
	}

	desc := fmt.Sprintf("pid:%s", pid)
	if cmd := fields["cmd"]; cmd != "" {
		desc += fmt.Sprintf(" (%s)", cmd)
	}
	desc += " since " + fields["time"]

	if pidInt, err := strconv.Atoi(pid); err == nil && !isProcessAlive(pidInt) {
		desc += " (STALE - process dead)"
	}
	return desc
}

// tryLock, unlock and isProcessAlive live in lock_unix.go (flock) and
// lock_windows.go (LockFileEx).
