package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Function kinds of configured elements.
const (
	FunctionEcho    = "echo"    // Returns its first argument.
	FunctionCounter = "counter" // Increments the target property and returns the new value.
	FunctionAssign  = "assign"  // Writes its first argument to the target property.
)

var ErrCfgBytesEmpty = errors.New("config bytes is empty")

// validation errors
var (
	ErrGRPCAddressEmpty    = errors.New("'grpc.address' is empty")
	ErrElementNameEmpty    = errors.New("element name is empty")
	ErrElementDuplicate    = errors.New("element is defined twice")
	ErrFunctionNameEmpty   = errors.New("function name is empty")
	ErrFunctionKind        = errors.New("unknown function kind")
	ErrFunctionTargetEmpty = errors.New("function target property is empty")
	ErrInvalidLoggingLevel = errors.New("invalid logging level")
)

// Config is the configuration of the litpeer daemon.
type Config struct {
	Logging   Logging   `yaml:"logging"`
	GRPC      GRPC      `yaml:"grpc"`
	HTTP      HTTP      `yaml:"http"`
	Telemetry Telemetry `yaml:"telemetry"`
	Metrics   Metrics   `yaml:"metrics"`
	Elements  []Element `yaml:"elements"`
}

// Logging configures the process logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// GRPC configures the element service.
type GRPC struct {
	Address string `yaml:"address"`
}

// HTTP configures the metrics and websocket endpoint. An empty address disables it.
type HTTP struct {
	Address        string   `yaml:"address"`
	MetricsPath    string   `yaml:"metricsPath"`
	WebsocketPath  string   `yaml:"websocketPath"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// Telemetry configures trace export. An empty endpoint disables it.
type Telemetry struct {
	Endpoint string `yaml:"endpoint"`
	CACerts  string `yaml:"caCerts"`
}

// Metrics configures metric names.
type Metrics struct {
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// Element is an in-memory element served by the daemon.
type Element struct {
	Name       string         `yaml:"name"`
	Properties map[string]any `yaml:"properties"`
	Functions  []Function     `yaml:"functions"`
}

// Function is a remote function of a configured element.
type Function struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Target string `yaml:"target"`
}

// Default returns the configuration used for omitted settings.
func Default() Config {
	return Config{
		Logging: Logging{Level: "info", Format: "text"},
		GRPC:    GRPC{Address: ":9090"},
		HTTP: HTTP{
			MetricsPath:   "/metrics",
			WebsocketPath: "/ws",
		},
		Metrics: Metrics{Namespace: "litbridge"},
	}
}

// FromBytes parses and validates a YAML configuration.
func FromBytes(cfgBytes []byte) (*Config, error) {
	if len(cfgBytes) == 0 {
		return nil, ErrCfgBytesEmpty
	}

	cfg := Default()
	if err := yaml.Unmarshal(cfgBytes, &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &cfg, nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	cfgBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return FromBytes(cfgBytes)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("%w: '%s'", ErrInvalidLoggingLevel, c.Logging.Level)
	}

	if c.GRPC.Address == "" {
		return ErrGRPCAddressEmpty
	}

	seen := make(map[string]struct{}, len(c.Elements))
	for _, el := range c.Elements {
		if el.Name == "" {
			return ErrElementNameEmpty
		}
		if _, ok := seen[el.Name]; ok {
			return fmt.Errorf("%w: '%s'", ErrElementDuplicate, el.Name)
		}
		seen[el.Name] = struct{}{}

		for _, fn := range el.Functions {
			if err := fn.validate(); err != nil {
				return fmt.Errorf("element '%s': %w", el.Name, err)
			}
		}
	}

	return nil
}

func (f Function) validate() error {
	if f.Name == "" {
		return ErrFunctionNameEmpty
	}

	switch f.Kind {
	case FunctionEcho:
		return nil
	case FunctionCounter, FunctionAssign:
		if f.Target == "" {
			return fmt.Errorf("%w: function '%s'", ErrFunctionTargetEmpty, f.Name)
		}
		return nil
	default:
		return fmt.Errorf("%w: function '%s': '%s'", ErrFunctionKind, f.Name, f.Kind)
	}
}
