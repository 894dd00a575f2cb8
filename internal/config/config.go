// SPDX-License-Identifier: EPL-2.0

// Package config reads the audmix YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/sink"
)

// Config is the whole file. Missing keys keep their defaults.
//
//	mixer:
//	  channels: 10
//	  sample_rate: 22050
//	  period_frames: 4096
//	  buffer_periods: 4
//	  preserve_volume: false
//	sink:
//	  backend: wav
//	  path: out.wav
//	  realtime: false
//	load:
//	  convert: true
type Config struct {
	Mixer mixer.Config       `yaml:"mixer"`
	Sink  sink.Options       `yaml:"sink"`
	Load  audmix.LoadOptions `yaml:"load"`
}

var ErrInvalid = errors.New("config: invalid configuration")

func Default() Config {
	return Config{
		Mixer: mixer.DefaultConfig(),
		Sink:  sink.Options{Backend: sink.BackendMalgo},
	}
}

// Load reads the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// are an error.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section and fills the load rate from the mixer.
func (c *Config) Validate() error {
	if err := c.Mixer.Validate(); err != nil {
		return fmt.Errorf("%w: mixer: %w", ErrInvalid, err)
	}

	switch c.Sink.Backend {
	case "", sink.BackendMalgo, sink.BackendOto:
	case sink.BackendWAV:
		if c.Sink.Path == "" {
			return fmt.Errorf("%w: sink.path is required for the wav backend", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: sink.backend %q (must be malgo, oto or wav)", ErrInvalid, c.Sink.Backend)
	}

	if c.Load.SampleRate == 0 {
		c.Load.SampleRate = c.Mixer.SampleRate
	}
	if c.Load.SampleRate != c.Mixer.SampleRate {
		return fmt.Errorf("%w: load.sample_rate %d differs from mixer.sample_rate %d",
			ErrInvalid, c.Load.SampleRate, c.Mixer.SampleRate)
	}
	if c.Load.BufferSize < 0 {
		return fmt.Errorf("%w: load.buffer_size must not be negative", ErrInvalid)
	}

	return nil
}
