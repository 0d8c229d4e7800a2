// Copyright 2025 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the client settings.  Settings are read with Viper
// from command line flags, ALPHAGENOME_* environment variables and an
// optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/api"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/ensembl"
	"github.com/Augmented-Nature/AlphaGenome-MCP-Server/internal/genomics"
	"github.com/spf13/viper"
)

// Setting keys.  They double as flag names.
const (
	KeyAPIKey          = "api-key"
	KeyEndpoint        = "endpoint"
	KeyTimeout         = "timeout"
	KeyMaxWorkers      = "max-workers"
	KeyOrganism        = "organism"
	KeyEnsemblEndpoint = "ensembl-endpoint"
	KeyOutput          = "output"
	KeyVerbose         = "verbose"
	KeyNoADC           = "no-adc"
)

// EnvPrefix is prepended to the upper cased setting keys, with dashes
// replaced by underscores, to form environment variable names.
const EnvPrefix = "ALPHAGENOME"

// DefaultFile is the name of the settings file looked up in the home
// directory.
const DefaultFile = ".alphagenome.yaml"

// Config is the resolved set of client settings.
type Config struct {
	// APIKey authenticates requests to the prediction service.  Without one
	// the client falls back to application default credentials.
	APIKey   string        `mapstructure:"api-key"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`

	// MaxWorkers bounds the concurrent requests of batch operations.
	MaxWorkers int    `mapstructure:"max-workers"`
	Organism   string `mapstructure:"organism"`

	EnsemblEndpoint string `mapstructure:"ensembl-endpoint"`

	// Output is a local path or gs:// URI that receives the result instead
	// of stdout.
	Output  string `mapstructure:"output"`
	Verbose bool   `mapstructure:"verbose"`
	NoADC   bool   `mapstructure:"no-adc"`
}

// SetDefaults registers the default value of every setting with v.  Keys
// must be known to v for environment variables to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyEndpoint, api.DefaultEndpoint)
	v.SetDefault(KeyTimeout, 5*time.Minute)
	v.SetDefault(KeyMaxWorkers, api.DefaultMaxWorkers)
	v.SetDefault(KeyOrganism, "human")
	v.SetDefault(KeyEnsemblEndpoint, ensembl.DefaultEndpoint)
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyNoADC, false)
}

// Init prepares v to read settings from the environment and from file.  An
// empty file name looks for DefaultFile in the home directory, which may be
// absent; an explicitly named file must exist.
func Init(v *viper.Viper, file string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %v", file, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.SetConfigFile(filepath.Join(home, DefaultFile))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %v", err)
	}
	return nil
}

// Load decodes and checks the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding settings: %v", err)
	}
	if err := c.Check(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Check returns an error if a setting is out of range.
func (c *Config) Check() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %v", KeyTimeout, c.Timeout)
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyMaxWorkers, c.MaxWorkers)
	}
	if _, err := genomics.ParseOrganism(c.Organism); err != nil {
		return fmt.Errorf("%s: %v", KeyOrganism, err)
	}
	return nil
}

// API returns the settings of the prediction service client.
func (c *Config) API() api.Config {
	return api.Config{
		Endpoint: c.Endpoint,
		APIKey:   c.APIKey,
		NoADC:    c.NoADC,
		Timeout:  c.Timeout,
		Verbose:  c.Verbose,
	}
}
