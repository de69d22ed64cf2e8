// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cmdsync/cmdsync/pkg/cueutil"
)

//go:embed command_schema.cue
var commandSchema []byte

// Supported module file extensions in lookup precedence order.
var extensions = []string{".cue", ".toml", ".yaml", ".yml"}

type decodeFunc func(data []byte, path string) (*Module, error)

var decoders = map[string]decodeFunc{
	".cue":  decodeCUE,
	".toml": decodeTOML,
	".yaml": decodeYAML,
	".yml":  decodeYAML,
}

func decodeCUE(data []byte, path string) (*Module, error) {
	res, err := cueutil.ParseAndDecode[Module](commandSchema, data, "#Command", cueutil.WithFilename(path))
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

func decodeTOML(data []byte, path string) (*Module, error) {
	var m Module
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

func decodeYAML(data []byte, path string) (*Module, error) {
	var m Module
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty module file", path)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}
