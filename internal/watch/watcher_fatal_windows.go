// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 error codes after which ReadDirectoryChangesW cannot continue.
var fatalErrnos = []syscall.Errno{
	4, // ERROR_TOO_MANY_OPEN_FILES
	6, // ERROR_INVALID_HANDLE
	8, // ERROR_NOT_ENOUGH_MEMORY
}

func isFatalFsnotifyError(err error) bool {
	for _, errno := range fatalErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
