// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against an embedded schema.
//
// Command module files and the configuration file share the same flow:
//
//  1. Compile the embedded schema
//  2. Compile the document and unify it with the schema definition
//  3. Validate and decode into a Go value
//
// # Usage
//
//	//go:embed command_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[Module](schema, data, "#Command",
//	    cueutil.WithFilename(path))
//	if err != nil {
//	    return nil, err // error carries the CUE path of the offending field
//	}
//	return res.Value, nil
package cueutil
