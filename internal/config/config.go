// Package config loads, validates and resolves the generator settings stored
// under "config.autoipc" in the consuming project's package.json.
//
// Priority (highest to lowest):
//  1. Environment variables (IPCGEN_*)
//  2. package.json "config.autoipc"
//  3. Built-in defaults
package config

import (
	"path/filepath"
)

const (
	// PackageFile is the manifest the settings are read from.
	PackageFile = "package.json"

	// DefaultDataDir is where schemas are read and artifacts are written,
	// relative to the project root.
	DefaultDataDir = "src/autoipc"

	// DefaultCodeIndent is the number of spaces per indent level.
	DefaultCodeIndent = 3

	MinCodeIndent = 2
	MaxCodeIndent = 4
)

// Names of the files inside the data directory.
const (
	SchemaFile      = "schema.ts"
	SchemaDir       = "schema"
	MainFile        = "main.ts"
	PreloadFile     = "preload.ts"
	WindowTypesFile = "window.d.ts"
)

// Config represents the generator settings of one project.
type Config struct {
	DataDir    string `json:"ipcDataDir" mapstructure:"ipcDataDir"`                   // project-relative
	CodeIndent int    `json:"codeIndent" mapstructure:"codeIndent"`                   // spaces per level
	NodeNext   bool   `json:"projectUsesNodeNext" mapstructure:"projectUsesNodeNext"` // "moduleResolution": "NodeNext"
}

// Default returns a configuration with the built-in defaults.
func Default() *Config {
	return &Config{
		DataDir:    DefaultDataDir,
		CodeIndent: DefaultCodeIndent,
		NodeNext:   false,
	}
}

// ResolvedConfig holds the absolute locations derived from a Config.
type ResolvedConfig struct {
	RootDir    string
	DataDir    string
	SchemaFile string
	SchemaDir  string

	MainPath        string
	PreloadPath     string
	WindowTypesPath string

	CodeIndent int
	NodeNext   bool
}

// Resolve anchors the configuration at the project root.
func (c *Config) Resolve(rootDir string) *ResolvedConfig {
	dataDir := filepath.Join(rootDir, filepath.FromSlash(c.DataDir))
	return &ResolvedConfig{
		RootDir:         rootDir,
		DataDir:         dataDir,
		SchemaFile:      filepath.Join(dataDir, SchemaFile),
		SchemaDir:       filepath.Join(dataDir, SchemaDir),
		MainPath:        filepath.Join(dataDir, MainFile),
		PreloadPath:     filepath.Join(dataDir, PreloadFile),
		WindowTypesPath: filepath.Join(dataDir, WindowTypesFile),
		CodeIndent:      c.CodeIndent,
		NodeNext:        c.NodeNext,
	}
}

// OutputPaths lists the three generated artifacts.
func (r *ResolvedConfig) OutputPaths() []string {
	return []string{r.MainPath, r.PreloadPath, r.WindowTypesPath}
}
