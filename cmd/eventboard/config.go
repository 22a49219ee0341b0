package main

import (
	"errors"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read for flag defaults when it exists.
const DefaultConfigPath = "~/.config/eventboard/config.yaml"

// YAML is a kong.ConfigurationLoader for YAML files.
//
// Global flags are top-level keys. Subcommand flags may also be nested
// under the command name:
//
//	model: gemini-2.5-pro
//	timeout: 90s
//	url:
//	  render: true
//	  fetch-timeout: 1m
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	var f kong.ResolverFunc = func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if parent != nil && parent.Command != nil {
			if section, ok := values[parent.Command.Name].(map[string]any); ok {
				if v, ok := lookup(section, flag.Name); ok {
					return v, nil
				}
			}
		}
		v, _ := lookup(values, flag.Name)
		return v, nil
	}
	return f, nil
}

// lookup finds name as written or with dashes replaced by underscores.
func lookup(values map[string]any, name string) (any, bool) {
	if v, ok := values[name]; ok {
		return v, true
	}
	v, ok := values[strings.ReplaceAll(name, "-", "_")]
	return v, ok
}
