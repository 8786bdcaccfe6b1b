// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// isFatalFsnotifyError reports whether err leaves the watcher unusable:
// the inotify watch limit or a descriptor limit was hit.
func isFatalFsnotifyError(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	case syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE:
		return true
	default:
		return false
	}
}
