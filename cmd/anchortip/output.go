package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats shared by the commands that print data.
const (
	formatPlain = "plain"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// writeFormatted writes v as JSON or YAML, or calls plain for the plain
// format.
func writeFormatted(w io.Writer, format string, v any, plain func(io.Writer) error) error {
	switch format {
	case formatPlain, "":
		return plain(w)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want plain, json or yaml)", format)
	}
}
