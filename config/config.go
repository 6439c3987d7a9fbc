package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/courier/core/metrics"
	"github.com/kilianp07/courier/core/model"
	"github.com/kilianp07/courier/core/offer"
	"github.com/kilianp07/courier/infra/journal"
	"github.com/kilianp07/courier/infra/mqtt"
)

// EnvPrefix prefixes environment overrides. Nested keys use "__", e.g.
// COURIER_OUTPUT__FORMAT=json.
const EnvPrefix = "COURIER_"

type Config struct {
	// Offers replaces the built-in offer catalog when non-empty.
	Offers   []model.Offer  `json:"offers"`
	Estimate EstimateConfig `json:"estimate"`
	Output   OutputConfig   `json:"output"`
	Logging  LoggingConfig  `json:"logging"`
	Metrics  metrics.Config `json:"metrics"`
	MQTT     mqtt.Config    `json:"mqtt"`
	// Journal records dispatches of time runs when a path is set.
	Journal journal.Config `json:"journal"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// Load reads path, applies environment overrides, defaults and validation.
// An empty path loads the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnvFile exports the variables of a dotenv file so Load picks them up.
// Variables already present in the environment win.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("env file: %w", err)
	}
	return nil
}

// LoadOptional behaves like Load but treats a missing file as absent.
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	return Load(path)
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	if len(c.Offers) == 0 {
		c.Offers = offer.DefaultOffers()
	}
	c.Estimate.SetDefaults()
	c.Output.SetDefaults()
	c.Logging.SetDefaults()
	c.MQTT.SetDefaults()
	c.Journal.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := offer.NewCatalog(c.Offers...); err != nil {
		return fmt.Errorf("offers: %w", err)
	}
	if err := c.Estimate.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	return c.Journal.Validate()
}

// Catalog builds the offer catalog of the configuration.
func (c Config) Catalog() (*offer.Catalog, error) {
	return offer.NewCatalog(c.Offers...)
}
