package display

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/dsg/errors"
)

// Format is a structured output format accepted by --format flags.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats in the order they are documented.
var Formats = []Format{FormatTOML, FormatJSON, FormatYAML}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.NewInvalidInputError("unsupported format: %s (supported: toml, json, yaml)", s)
}

// Marshal encodes v in the given format. JSON is always indented.
func Marshal(v interface{}, format Format) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case FormatYAML:
		data, err = yaml.Marshal(v)
	case FormatTOML:
		data, err = toml.Marshal(v)
	default:
		return nil, errors.NewInvalidInputError("unsupported format: %s", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal to %s", strings.ToUpper(string(format)))
	}
	return data, nil
}

// Output prints v in the given format. TOML and YAML get a heading comment,
// JSON has no comment syntax and is printed bare.
func Output(v interface{}, format Format, heading string) error {
	data, err := Marshal(v, format)
	if err != nil {
		return err
	}
	if heading != "" && format != FormatJSON {
		fmt.Printf("# %s\n", heading)
	}
	fmt.Print(string(data))
	return nil
}
