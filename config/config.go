// Package config loads the swapproxy configuration from TOML or YAML files
// and environment overrides.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"unicode"

	"github.com/caarlos0/env/v11"
	"github.com/naoina/toml"
	"gopkg.in/yaml.v3"

	"github.com/tos-network/swapproxy/core"
	"github.com/tos-network/swapproxy/metrics"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SWAPPROXY_"

// LogConfig controls the terminal logger.
type LogConfig struct {
	// Verbosity is 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace.
	Verbosity int `yaml:"verbosity" env:"VERBOSITY"`
	// NoColor disables coloured output even on a terminal.
	NoColor bool `toml:",omitempty" yaml:"nocolor" env:"NOCOLOR"`
}

// Config is the top-level configuration of a swapproxy run.
type Config struct {
	Log         LogConfig         `yaml:"log" envPrefix:"LOG_"`
	Metrics     metrics.Config    `yaml:"metrics" envPrefix:"METRICS_"`
	Genesis     *core.Genesis     `toml:",omitempty" yaml:"genesis" env:"-"`
	Invocations []core.Invocation `toml:",omitempty" yaml:"invocations" env:"-"`
}

// Defaults holds the default settings.
var Defaults = Config{
	Log:     LogConfig{Verbosity: 3},
	Metrics: metrics.DefaultConfig,
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		id := fmt.Sprintf("%s.%s", rt.String(), field)
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, id, link)
	},
}

// Load reads file into a copy of Defaults and applies environment overrides.
// Files ending in .yaml or .yml are read as YAML, everything else as TOML.
func Load(file string) (*Config, error) {
	cfg := Defaults
	if file != "" {
		if err := loadFile(file, &cfg); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bufio.NewReader(f))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		return nil
	}
	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	var lerr *toml.LineError
	if errors.As(err, &lerr) {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// ApplyEnv overrides cfg with SWAPPROXY_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
