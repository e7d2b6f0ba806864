package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty settings get defaults.
	settings := new(Config)
	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultScheduleFilename, settings.ScheduleFile)
	require.Equal(t, DefaultStateFilename, settings.StateFile)
	require.Equal(t, DefaultPollInterval, settings.PollInterval)
	require.Equal(t, DefaultTimeout, settings.Timeout)
	require.False(t, settings.MQTT.Enabled())

	require.Error(t, Validate(nil))

	// Bad listen addresses.
	require.Error(t, Validate(&Config{GRPCAddress: "bad:address"}))
	require.Error(t, Validate(&Config{MetricsAddress: "nope"}))

	// Bad logging.
	require.Error(t, Validate(&Config{LogLevel: "loud"}))
	require.Error(t, Validate(&Config{LogFormat: "xml"}))

	// MQTT checks.
	require.Error(t, Validate(&Config{MQTT: MQTT{Broker: "not a uri"}}))
	require.Error(t, Validate(&Config{MQTT: MQTT{Broker: "tcp://localhost:1883", QoS: 3}}))

	settings = &Config{
		GRPCAddress:    "127.0.0.1:0",
		MetricsAddress: ":9108",
		LogLevel:       "debug",
		LogFormat:      "json",
		MQTT:           MQTT{Broker: "tcp://localhost:1883", QoS: 1},
	}
	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultTopicPrefix, settings.MQTT.TopicPrefix)
	require.True(t, settings.MQTT.Enabled())
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		ScheduleFile: "reef.yaml",
		PollInterval: 250 * time.Millisecond,
		GRPCAddress:  "127.0.0.1:50061",
		MQTT: MQTT{
			Broker:      "tcp://broker.local:1883",
			TopicPrefix: "tank",
			Retained:    true,
		},
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.Error(t, Save(path, nil))
}

// TestLoad_ParsesDurations reads a hand-written settings file.
func TestLoad_ParsesDurations(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := []byte("poll_interval: 2s\ntimeout: 1m\nmqtt:\n  broker: tcp://localhost:1883\n")
	require.NoError(t, os.WriteFile(path, contents, DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, cfg.PollInterval)
	require.Equal(t, time.Minute, cfg.Timeout)
	require.Equal(t, DefaultTopicPrefix, cfg.MQTT.TopicPrefix)
}

// TestLoadOrDefault falls back to defaults only for missing files.
func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := LoadOrDefault(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("log_level: loud\n"), DefaultFilePermissions))

	_, err = LoadOrDefault(broken)
	require.Error(t, err)
}
