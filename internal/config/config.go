package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
)

// ServerConfig configures the HTTP API
type ServerConfig struct {
	ListenAddr      string        `yaml:"listenAddr" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" validate:"min=0"`
}

// StoreConfig configures the volunteer store and its durable mirror
type StoreConfig struct {
	Backend     string `yaml:"backend" validate:"oneof=json postgres"`
	DataFile    string `yaml:"dataFile" validate:"required_if=Backend json"`
	PostgresURL string `yaml:"postgresURL" validate:"required_if=Backend postgres"`
	// WriteAttempts is how many times a failed mirror write is tried
	WriteAttempts int           `yaml:"writeAttempts" validate:"min=1,max=5"`
	RetryDelay    time.Duration `yaml:"retryDelay" validate:"min=0"`
	// QuarantineCorrupt moves an unreadable data file aside and starts empty
	QuarantineCorrupt bool `yaml:"quarantineCorrupt"`
}

type LoggingConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

// SheetsConfig locates the volunteer sheet used by importVolunteers
type SheetsConfig struct {
	VolunteerSheetID string `yaml:"volunteerSheetID,omitempty"`
	VolunteersTab    string `yaml:"volunteersTab,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Sheets  SheetsConfig  `yaml:"sheets,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns a config with every optional field set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:      ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Backend:       BackendJSON,
			DataFile:      "data/volunteers.json",
			WriteAttempts: 2,
			RetryDelay:    100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Dir: "logs",
		},
	}
}

// LoadWithEnv loads and validates the configuration with an environment suffix
// For example, env="prod" will look for "roster_config.prod.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Fields missing from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// RequireSheets reports whether the sheets section is complete enough to import from
func (c *Config) RequireSheets() error {
	if c.Sheets.VolunteerSheetID == "" || c.Sheets.VolunteersTab == "" {
		return fmt.Errorf("sheets.volunteerSheetID and sheets.volunteersTab must be set to import volunteers")
	}
	return nil
}

// findConfigFile returns the path of roster_config.<env>.yaml, or
// roster_config.yaml when env is empty
func findConfigFile(env string) (string, error) {
	name := "roster_config.yaml"
	if env != "" {
		name = "roster_config." + env + ".yaml"
	}
	return findFile(name)
}

// findFile looks for name in the working directory, then the home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
