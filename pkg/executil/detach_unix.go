//go:build !windows

package executil

import "syscall"

// detachedAttr puts the child in its own session so terminal signals sent to
// the parent do not reach it.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
