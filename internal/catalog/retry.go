package catalog

import (
	"strings"
	"time"
)

const (
	busyMaxRetries   = 5
	busyInitialDelay = 10 * time.Millisecond
)

// isSQLiteBusy reports whether err is a transient SQLite lock contention
// error that is worth retrying.
func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// retryOnBusy runs fn, retrying with exponential backoff while it returns a
// busy error. Non-busy errors fail immediately so callers see real failures
// without delay.
func retryOnBusy(fn func() error) error {
	delay := busyInitialDelay

	var err error
	for attempt := 0; attempt < busyMaxRetries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isSQLiteBusy(err) {
			return err
		}
		if attempt < busyMaxRetries-1 {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return err
}
