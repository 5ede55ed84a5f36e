//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package report

// IsTerminal reports whether fd refers to a terminal. Color detection is
// not supported on this platform.
func IsTerminal(fd uintptr) bool { return false }
