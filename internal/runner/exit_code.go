// SPDX-License-Identifier: MPL-2.0

package runner

import "strconv"

// ExitCode is a handler's exit status. The zero value means success.
type ExitCode int

// IsSuccess reports whether the handler succeeded.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal form of the code.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
