package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/viper"
)

// Keys inside package.json.
const (
	keyDataDir    = "config.autoipc.ipcDataDir"
	keyCodeIndent = "config.autoipc.codeIndent"
	keyNodeNext   = "config.autoipc.projectUsesNodeNext"
)

// Environment variables overriding package.json.
const (
	EnvDataDir    = "IPCGEN_IPC_DATA_DIR"
	EnvCodeIndent = "IPCGEN_CODE_INDENT"
	EnvNodeNext   = "IPCGEN_PROJECT_USES_NODE_NEXT"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from package.json and environment variables.
	// Priority: defaults → package.json → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given project root.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load reads the settings and validates them.
// A missing package.json is not an error; defaults and env apply.
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(filepath.Join(l.rootDir, PackageFile))
	v.SetConfigType("json")

	v.BindEnv(keyDataDir, EnvDataDir)
	v.BindEnv(keyCodeIndent, EnvCodeIndent)
	v.BindEnv(keyNodeNext, EnvNodeNext)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", PackageFile, err)
		}
	}

	cfg := &Config{
		DataDir:    v.GetString(keyDataDir),
		CodeIndent: v.GetInt(keyCodeIndent),
		NodeNext:   v.GetBool(keyNodeNext),
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault(keyDataDir, defaults.DataDir)
	v.SetDefault(keyCodeIndent, defaults.CodeIndent)
	v.SetDefault(keyNodeNext, defaults.NodeNext)
}

// LoadFromDir loads configuration for the project rooted at rootDir.
func LoadFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
