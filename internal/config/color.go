package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gruppe-adler/relief-utils/internal/texture"
)

// Color is a texture color. In YAML it is either "#rrggbb" or [r, g, b].
type Color texture.Color

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := parseHex(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		var channels []int
		if err := value.Decode(&channels); err != nil {
			return err
		}
		if len(channels) != 3 {
			return fmt.Errorf("line %d: color needs 3 channels, got %d", value.Line, len(channels))
		}
		for _, ch := range channels {
			if ch < 0 || ch > 255 {
				return fmt.Errorf("line %d: color channel %d out of range 0..255", value.Line, ch)
			}
		}
		*c = Color{R: uint8(channels[0]), G: uint8(channels[1]), B: uint8(channels[2])}
		return nil
	}
	return fmt.Errorf("line %d: color must be \"#rrggbb\" or [r, g, b]", value.Line)
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (interface{}, error) {
	return texture.Color(c).String(), nil
}

func parseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
