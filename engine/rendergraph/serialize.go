package rendergraph

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadConfig decodes and validates a TOML graph description:
//
//	[[pass]]
//	name = "Shadow"
//	type = "shadow"
//
//	[[pass]]
//	name = "Main"
//	type = "render3d"
//	sinks = [{ sink = "shadowMap", source = "Shadow.map" }]
//
//	[final_sink]
//	sink = "present"
//	source = "RenderTarget"
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := NewConfig()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Encode writes the serialisable part of the config as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
