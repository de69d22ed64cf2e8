// SPDX-License-Identifier: MPL-2.0

// Package remote projects registry commands into the remote platform's
// command catalog shape and talks to that catalog.
package remote
