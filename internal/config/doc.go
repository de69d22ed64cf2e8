// SPDX-License-Identifier: MPL-2.0

// Package config loads cmdsync configuration using Viper with CUE as the file
// format.
//
// The file is config.cue in the platform configuration directory
// (os.UserConfigDir()/cmdsync) or, failing that, the working directory. It is
// validated against the embedded config_schema.cue before being merged over the
// defaults. Discord credentials never live in the file; they are read from the
// environment (see Credentials).
package config
