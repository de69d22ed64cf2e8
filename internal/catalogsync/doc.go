// SPDX-License-Identifier: MPL-2.0

// Package catalogsync reconciles command categories with the remote catalog:
// it builds catalog entries for a category, registers them and purges them.
package catalogsync
