// SPDX-License-Identifier: MPL-2.0

// Package loader moves command modules between a modsource.Source and a
// registry.Registry.
//
// File organization:
//   - loader.go: Loader (load, ensure, metadata validation)
//   - enumerator.go: Enumerator (de-duplicated, disabled-filtered listings)
//   - unloader.go: Unloader (registry + module cache eviction)
//   - reloader.go: Reloader (unload then load, used by hot reload)
package loader
