package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/light-scheduler/internal/logger"
)

// Config holds the settings of the light-controller daemon.
type Config struct {
	// ScheduleFile is the path to the YAML channel schedule.
	ScheduleFile string `yaml:"schedule_file"`
	// StateFile is the path to the JSON file holding the latest snapshot.
	StateFile string `yaml:"state_file"`
	// PollInterval is the delay between two resolutions of the schedule.
	PollInterval time.Duration `yaml:"poll_interval"`
	// Timeout bounds network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level written to the log.
	LogLevel string `yaml:"log_level"`
	// LogFormat selects the console or json encoder.
	LogFormat string `yaml:"log_format"`
	// GRPCAddress is the listen address of the read-only schedule service.
	// The service is disabled when empty.
	GRPCAddress string `yaml:"grpc_address"`
	// MetricsAddress is the listen address of the prometheus endpoint.
	// Metrics are disabled when empty.
	MetricsAddress string `yaml:"metrics_address"`
	// MQTT configures the MQTT output driver. Disabled when Broker is empty.
	MQTT MQTT `yaml:"mqtt"`
}

// MQTT holds broker settings for publishing channel intensities.
type MQTT struct {
	// Broker is the broker URL, e.g. tcp://localhost:1883.
	Broker string `yaml:"broker"`
	// ClientID identifies the controller to the broker; generated when empty.
	ClientID string `yaml:"client_id"`
	// Username is the optional broker user.
	Username string `yaml:"username"`
	// Password is the optional broker password.
	Password string `yaml:"password"`
	// TopicPrefix is prepended to every channel topic.
	TopicPrefix string `yaml:"topic_prefix"`
	// QoS is the MQTT quality of service, 0 through 2.
	QoS byte `yaml:"qos"`
	// Retained asks the broker to keep the last level of every channel.
	Retained bool `yaml:"retained"`
}

const (
	// DefaultConfigFilename is the default filename for controller settings.
	DefaultConfigFilename = "light-scheduler-settings.yaml"

	// DefaultScheduleFilename is the default filename for the channel schedule.
	DefaultScheduleFilename = "light-scheduler-schedule.yaml"

	// DefaultStateFilename is the default filename for the snapshot JSON.
	DefaultStateFilename = "light-scheduler-state.json"

	// DefaultPollInterval is the default delay between two resolutions.
	DefaultPollInterval = time.Second

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultTopicPrefix is the default MQTT topic prefix.
	DefaultTopicPrefix = "lights"

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600

	// maxQoS is the highest MQTT quality of service level.
	maxQoS = 2
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBadQoS is returned for QoS values above 2.
	errBadQoS = errors.New("mqtt qos must be 0, 1 or 2")
	// errBadLogLevel is returned for unknown level names.
	errBadLogLevel = errors.New("unknown log level")
	// errBadLogFormat is returned for unknown encoder names.
	errBadLogFormat = errors.New("unknown log format")
)

// Default returns settings with every default applied.
func Default() *Config {
	cfg := new(Config)
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when the file is missing.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults.
//
//nolint:cyclop // A flat list of independent checks.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ScheduleFile == "" {
		settings.ScheduleFile = DefaultScheduleFilename
	}

	if settings.StateFile == "" {
		settings.StateFile = DefaultStateFilename
	}

	if settings.PollInterval <= 0 {
		settings.PollInterval = DefaultPollInterval
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel != "" {
		if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
			return fmt.Errorf("%q: %w", settings.LogLevel, errBadLogLevel)
		}
	}

	if !logger.ValidFormat(settings.LogFormat) {
		return fmt.Errorf("%q: %w", settings.LogFormat, errBadLogFormat)
	}

	for _, address := range []string{settings.GRPCAddress, settings.MetricsAddress} {
		if address == "" {
			continue
		}

		if _, err := net.ResolveTCPAddr("tcp", address); err != nil {
			return fmt.Errorf("invalid listen address: %w", err)
		}
	}

	return validateMQTT(&settings.MQTT)
}

// Enabled reports whether the MQTT driver should be started.
func (m *MQTT) Enabled() bool {
	return m.Broker != ""
}

// validateMQTT checks broker settings when the driver is enabled.
func validateMQTT(m *MQTT) error {
	if !m.Enabled() {
		return nil
	}

	if _, err := url.ParseRequestURI(m.Broker); err != nil {
		return fmt.Errorf("invalid mqtt broker URI: %w", err)
	}

	if m.QoS > maxQoS {
		return errBadQoS
	}

	if m.TopicPrefix == "" {
		m.TopicPrefix = DefaultTopicPrefix
	}

	return nil
}
