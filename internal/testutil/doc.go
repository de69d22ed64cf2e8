// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by the tests of several packages:
// a controllable clock and command module fixtures.
package testutil
