// SPDX-License-Identifier: MPL-2.0

// Package modsource reads command modules from a directory-per-category tree.
//
// The tree looks like:
//
//	commands/
//	  fun/
//	    joke.cue
//	    coinflip.toml
//	  moderation/
//	    ban.yaml
//
// Every regular file with a supported extension is one module; its identifier
// is the file name without extension. Instantiated modules are kept in a Cache
// keyed by (category, identifier) until evicted, so editing a file has no
// effect until the entry is evicted (see loader.Unloader).
package modsource
