//go:build windows

package db

import (
	"golang.org/x/sys/windows"
)

// lockSpan is the byte range locked; the lock file's content is irrelevant.
const lockSpan = 1

func (l *writeLocker) tryLock() error {
	return windows.LockFileEx(windows.Handle(l.lockFile.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0, lockSpan, 0, new(windows.Overlapped))
}

func (l *writeLocker) unlock() {
	if l.lockFile != nil {
		windows.UnlockFileEx(windows.Handle(l.lockFile.Fd()), 0, lockSpan, 0, new(windows.Overlapped))
	}
}

// isProcessAlive reports whether pid names a process that has not exited.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	h, err := windows.OpenProcess(windows.SYNCHRONIZE, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	event, err := windows.WaitForSingleObject(h, 0)
	return err == nil && event == uint32(windows.WAIT_TIMEOUT)
}
