package tokens

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/standardbeagle/designcheck/internal/colordist"
)

// LoadFile reads a token set from a .json, .yaml or .yml file.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tokens: %w", err)
	}

	set, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse tokens %s: %w", path, err)
	}
	return set, nil
}

// Parse decodes a token set. ext selects the decoder: ".json" uses JSON,
// anything else YAML.
func Parse(data []byte, ext string) (*Set, error) {
	var set Set
	if err := Unmarshal(data, ext, &set); err != nil {
		return nil, err
	}
	set.Normalize()
	return &set, nil
}

// Unmarshal decodes JSON or YAML into v depending on ext.
func Unmarshal(data []byte, ext string, v any) error {
	if strings.EqualFold(ext, ".json") {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

// SniffExt guesses the extension of inline data: ".json" when it starts
// like a JSON document, ".yaml" otherwise.
func SniffExt(data []byte) string {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return ".json"
	}
	return ".yaml"
}

// Normalize fills RGBA for every color token from its hex value. Tokens whose
// color cannot be parsed are dropped so they never take part in matching.
func (s *Set) Normalize() {
	s.Colors = ResolveColors(s.Colors)
}

// ResolveColors returns copies of in with RGBA parsed from Hex, leaving the
// input untouched. A token with no hex keeps its RGBA.
func ResolveColors(in []ColorToken) []ColorToken {
	out := make([]ColorToken, 0, len(in))
	for _, c := range in {
		if c.Hex == "" && c.RGBA != (colordist.RGBA{}) {
			c.Hex = c.RGBA.Hex()
			out = append(out, c)
			continue
		}
		rgba, err := colordist.Parse(c.Hex)
		if err != nil {
			log.Warn().Str("token", c.Name).Str("hex", c.Hex).Msg("skipping color token with invalid value")
			continue
		}
		c.RGBA = rgba
		out = append(out, c)
	}
	return out
}
