package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"
)

// describe turns a probe error into a short human-readable cause.
func describe(err error, timeout time.Duration) string {
	var de *net.DNSError
	if errors.As(err, &de) {
		switch {
		case de.IsNotFound:
			return fmt.Sprintf("dns: %s not found (NXDOMAIN)", de.Name)
		case de.IsTimeout || de.IsTemporary:
			return fmt.Sprintf("dns: lookup %s failed (SERVFAIL or timeout)", de.Name)
		default:
			return "dns: " + de.Error()
		}
	}

	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return fmt.Sprintf("timeout after %s", timeout)
	case errors.Is(err, syscall.ECONNREFUSED):
		return "connection refused"
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return "host unreachable: " + err.Error()
	case errors.Is(err, os.ErrPermission), errors.Is(err, syscall.EPERM):
		return "permission denied: " + err.Error()
	}
	return err.Error()
}
