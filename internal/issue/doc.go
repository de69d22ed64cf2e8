// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into messages a user can act on: an
// ActionableError carries the failed operation, the resource involved and
// remediation hints, and well-known situations have a Markdown write-up
// rendered with glamour.
package issue
