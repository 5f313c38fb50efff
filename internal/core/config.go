package core

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jo-hoe/barcoderelay/internal/backend/commandstructure"
	"github.com/jo-hoe/barcoderelay/internal/backend/scanner"
	"github.com/jo-hoe/barcoderelay/internal/common"
	"github.com/labstack/gommon/bytes"
	"gopkg.in/yaml.v3"
)

// PortEnvVar overrides the configured listen port
const PortEnvVar = "PORT"

type ResultStoreConfig struct {
	Type string `yaml:"type" validate:"omitempty,oneof=memory"`
}

type ServiceConfig struct {
	Port                   int                              `yaml:"port" validate:"min=1,max=65535"`
	LogLevel               string                           `yaml:"logLevel" validate:"oneof=debug info warn error"`
	CooldownSeconds        float64                          `yaml:"cooldownSeconds" validate:"gte=0"`
	DuplicateWindowSeconds float64                          `yaml:"duplicateWindowSeconds" validate:"gte=0"`
	MaxBodySize            string                           `yaml:"maxBodySize" validate:"required"`
	DecodeWorkers          int                              `yaml:"decodeWorkers" validate:"min=1"`
	TryHarder              bool                             `yaml:"tryHarder"`
	Symbologies            []string                         `yaml:"symbologies"`
	Commands               []commandstructure.CommandConfig `yaml:"commands"`
	ResultStore            ResultStoreConfig                `yaml:"resultStore"`
	DebugEndpoint          bool                             `yaml:"debugEndpoint"`
	CORSAllowOrigins       []string                         `yaml:"corsAllowOrigins"`
}

// DefaultConfig returns the settings used when no config file is present
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port:             5000,
		LogLevel:         "info",
		CooldownSeconds:  3,
		MaxBodySize:      "10M",
		DecodeWorkers:    1,
		TryHarder:        true,
		Symbologies:      []string{"code_128", "ean", "upc", "code_39"},
		ResultStore:      ResultStoreConfig{Type: "memory"},
		DebugEndpoint:    true,
		CORSAllowOrigins: []string{"*"},
	}
}

// LoadConfig loads configuration from the specified YAML file on top of DefaultConfig.
// An empty path skips the file. The PORT environment variable wins over the file.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := config.applyEnvironment(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *ServiceConfig) applyEnvironment() error {
	value, ok := os.LookupEnv(PortEnvVar)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", PortEnvVar, value, err)
	}
	c.Port = port
	return nil
}

// Validate checks struct tags, the body size notation, the symbology names and the command list
func (c *ServiceConfig) Validate() error {
	if err := common.ValidateStruct(c); err != nil {
		return err
	}
	if _, err := bytes.Parse(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid maxBodySize %q: %w", c.MaxBodySize, err)
	}
	if _, err := scanner.ParseSymbologies(c.Symbologies); err != nil {
		return fmt.Errorf("invalid symbologies: %w", err)
	}
	if err := validateCommands(c.Commands); err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}
	return nil
}

// validateCommands ensures all command configurations are named, unique and known
func validateCommands(commands []commandstructure.CommandConfig) error {
	seenNames := make(map[string]bool)

	for i, cmd := range commands {
		if cmd.Name == "" {
			return fmt.Errorf("command at index %d has empty name", i)
		}
		if seenNames[cmd.Name] {
			return fmt.Errorf("duplicate command name: %s", cmd.Name)
		}
		seenNames[cmd.Name] = true

		if !commandstructure.DefaultRegistry.IsRegistered(cmd.Name) {
			return fmt.Errorf("unknown command %s (registered: %s)", cmd.Name,
				strings.Join(commandstructure.DefaultRegistry.GetRegisteredNames(), ", "))
		}
	}

	return nil
}

// Cooldown is the minimum interval between two accepted scans
func (c *ServiceConfig) Cooldown() time.Duration {
	return secondsToDuration(c.CooldownSeconds)
}

// DuplicateWindow is the interval in which the same barcode is not accepted twice; zero disables it
func (c *ServiceConfig) DuplicateWindow() time.Duration {
	return secondsToDuration(c.DuplicateWindowSeconds)
}

// SlogLevel maps LogLevel onto a slog level
func (c *ServiceConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
