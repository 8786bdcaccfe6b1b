// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// isFatalFsnotifyError reports whether err leaves ReadDirectoryChangesW
// unusable: too many open handles (4), an invalid handle after the root
// vanished (6) or no memory for the notification buffer (8).
func isFatalFsnotifyError(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	case 4, 6, 8:
		return true
	default:
		return false
	}
}
