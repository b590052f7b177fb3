package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories
	DirPermissions = 0755

	// DefaultEndpoint is the generation backend used when nothing else
	// is configured.
	DefaultEndpoint = "http://localhost:8000/api/generate"

	// EndpointEnv overrides the backend endpoint.
	EndpointEnv = "DECKGEN_ENDPOINT"
	// APIKeyEnv supplies the provider credential without putting it on
	// the command line. It is read per invocation and never written
	// anywhere.
	APIKeyEnv = "DECKGEN_API_KEY"
)

var (
	// ConfigDir is the global configuration directory (~/.deckgen)
	ConfigDir string

	// ConfigFile is the optional YAML defaults file
	ConfigFile string

	// DatabasePath is the SQLite database file for submission history
	DatabasePath string

	// ArtifactsDir holds the session's materialized artifacts
	ArtifactsDir string
)

// FileConfig holds the optional defaults from ~/.deckgen/config.yaml.
// Deliberately no api_key field: credentials are out of scope for
// persistent config.
type FileConfig struct {
	Endpoint     string `yaml:"endpoint,omitempty"`
	Provider     string `yaml:"provider,omitempty"`
	Template     string `yaml:"template,omitempty"`
	SpeakerNotes bool   `yaml:"speaker_notes,omitempty"`
	Output       string `yaml:"output,omitempty"`
}

// Initialize sets up the configuration directories and loads a local
// .env file when one exists.
func Initialize() error {
	godotenv.Load()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	ConfigDir = filepath.Join(homeDir, ".deckgen")
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	DatabasePath = filepath.Join(ConfigDir, "deckgen.db")
	ArtifactsDir = filepath.Join(ConfigDir, "artifacts")

	for _, dir := range []string{ConfigDir, ArtifactsDir} {
		if err := os.MkdirAll(dir, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// LoadFile reads the YAML defaults file. A missing file is not an
// error; it just yields empty defaults.
func LoadFile() (*FileConfig, error) {
	return loadFileFrom(ConfigFile)
}

func loadFileFrom(path string) (*FileConfig, error) {
	fc := &FileConfig{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return fc, nil
}

// ResolveEndpoint picks the backend address: explicit flag, then the
// environment override, then the config file, then the default.
func ResolveEndpoint(flagValue string, fc *FileConfig) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EndpointEnv); env != "" {
		return env
	}
	if fc != nil && fc.Endpoint != "" {
		return fc.Endpoint
	}
	return DefaultEndpoint
}
