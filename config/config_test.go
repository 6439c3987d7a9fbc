package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `offers:
  - code: "OFR010"
    discount: 15
    distance:
      max: 100
      max_inclusive: true
    weight:
      min: 10
      max: 50
      min_inclusive: true
      max_inclusive: false
estimate:
  weight_resolution: 10
output:
  format: "csv"
logging:
  level: "debug"
  console: true
metrics:
  sinks:
    - type: "nop"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "cli"
  username: "user"
  password: "pass"
  topic_prefix: "depot/estimates"
  qos: 1
journal:
  path: "/tmp/courier/dispatch.jsonl"
  max_backups: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"offers", len(cfg.Offers), 1},
		{"offer.code", cfg.Offers[0].Code, "OFR010"},
		{"offer.discount", cfg.Offers[0].Discount, 15.0},
		{"offer.distance.min", cfg.Offers[0].Distance.Min == nil, true},
		{"offer.distance.max", *cfg.Offers[0].Distance.Max, 100.0},
		{"offer.weight.max_inclusive", cfg.Offers[0].Weight.MaxInclusive, false},
		{"weight_resolution", cfg.Estimate.WeightResolution, 10},
		{"format", cfg.Output.Format, "csv"},
		{"level", cfg.Logging.Level, "debug"},
		{"console", cfg.Logging.Console, true},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "cli"},
		{"topic_prefix", cfg.MQTT.TopicPrefix, "depot/estimates"},
		{"qos", cfg.MQTT.QoS, byte(1)},
		{"journal.path", cfg.Journal.Path, "/tmp/courier/dispatch.jsonl"},
		{"journal.max_backups", cfg.Journal.MaxBackups, 5},
		{"journal.max_size_mb", cfg.Journal.MaxSizeMB, 10},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}

	cat, err := cfg.Catalog()
	require.NoError(t, err)
	_, ok := cat.FindOffer("OFR010")
	assert.True(t, ok)
	_, ok = cat.FindOffer("OFR001")
	assert.False(t, ok, "configured offers replace the defaults")
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"output": {"format": "json"}, "estimate": {"weight_resolution": 1000}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 1000, cfg.Estimate.WeightResolution)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Len(t, cfg.Offers, 3)
	assert.Equal(t, 100, cfg.Estimate.WeightResolution)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Empty(t, cfg.Metrics.Sinks)
	assert.False(t, cfg.Journal.Enabled())
	assert.Equal(t, Default().Offers, cfg.Offers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COURIER_OUTPUT__FORMAT", "json")
	t.Setenv("COURIER_ESTIMATE__WEIGHT_RESOLUTION", "50")
	t.Setenv("COURIER_LOGGING__LEVEL", "info")

	path := writeFile(t, "config.yaml", "output:\n  format: csv\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 50, cfg.Estimate.WeightResolution)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvFile(t *testing.T) {
	const key = "COURIER_ESTIMATE__WEIGHT_RESOLUTION"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })
	t.Setenv("COURIER_OUTPUT__FORMAT", "csv")

	path := writeFile(t, ".env", key+"=25\nCOURIER_OUTPUT__FORMAT=json\n")
	require.NoError(t, LoadEnvFile(path))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Estimate.WeightResolution)
	assert.Equal(t, "csv", cfg.Output.Format, "existing variables win")

	assert.Error(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}

func TestLoadOptional_MissingFile(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output.Format)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unsupported.toml": "output:\n  format: text\n",
		"format.yaml":      "output:\n  format: xml\n",
		"level.yaml":       "logging:\n  level: loud\n",
		"resolution.yaml":  "estimate:\n  weight_resolution: -5\n",
		"mqtt.yaml":        "mqtt:\n  enabled: true\n",
		"journal.yaml":     "journal:\n  path: j.jsonl\n  max_age_days: -1\n",
		"offer.yaml":       "offers:\n  - code: OFR001\n    discount: 120\n",
		"duplicate.yaml":   "offers:\n  - code: A\n    discount: 1\n  - code: A\n    discount: 2\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, name, data))
			assert.Error(t, err)
		})
	}
}
