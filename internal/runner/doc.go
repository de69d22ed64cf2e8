// SPDX-License-Identifier: MPL-2.0

// Package runner executes command handler scripts with the embedded mvdan/sh
// interpreter, enforcing owner-only restrictions and per-caller cooldowns.
package runner
