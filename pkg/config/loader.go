package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// GlobalConfigDir is the directory under $XDG_CONFIG_HOME holding the global config.
const GlobalConfigDir = "wikimcp"

// LocalConfigFileNames are the names searched in the working directory, in order.
var LocalConfigFileNames = []string{".wikimcp.yaml", ".wikimcp.yml"}

// GlobalConfigFileNames are the names searched in the global config directory, in order.
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// Paths names the directories searched by LoadFrom.
// An empty field skips that layer.
type Paths struct {
	GlobalDir string
	LocalDir  string
	// File is an explicit config file. It replaces the local layer and must exist.
	File string
}

// DefaultPaths returns the XDG global directory and the working directory.
func DefaultPaths() Paths {
	p := Paths{GlobalDir: filepath.Join(xdg.ConfigHome, GlobalConfigDir)}
	if cwd, err := os.Getwd(); err == nil {
		p.LocalDir = cwd
	}
	return p
}

// GlobalConfigSearchPaths returns the paths searched for the global config.
func GlobalConfigSearchPaths() []string {
	return searchPaths(DefaultPaths().GlobalDir, GlobalConfigFileNames)
}

// LocalConfigSearchPaths returns the paths searched for the local config.
func LocalConfigSearchPaths() []string {
	return searchPaths(DefaultPaths().LocalDir, LocalConfigFileNames)
}

func searchPaths(dir string, names []string) []string {
	if dir == "" {
		return nil
	}
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths
}

// findFirst returns the first existing file among names in dir, or "".
func findFirst(dir string, names []string) string {
	for _, path := range searchPaths(dir, names) {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigError is a config file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", e.Path, e.Line, e.Message)
	}
	return e.Path + ": " + e.Message
}

// LoadConfigFile loads a Config from a YAML file. SetFields records the
// top-level keys present in the file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, newConfigError(path, err)
	}

	cfg := &Config{
		Sources:   make(map[string]string),
		SetFields: make(map[string]bool),
	}
	if len(doc.Content) == 0 {
		return cfg, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ConfigError{Path: path, Line: root.Line, Message: "expected a mapping at the top level"}
	}
	if err := root.Decode(cfg); err != nil {
		return nil, newConfigError(path, err)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		cfg.SetFields[root.Content[i].Value] = true
	}
	return cfg, nil
}

func newConfigError(path string, err error) *ConfigError {
	ce := &ConfigError{Path: path, Message: err.Error()}
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		ce.Message = te.Errors[0]
	}
	return ce
}

// LoadAll loads configuration from the default locations.
// Precedence: env > local file > global file > defaults. Flags are applied
// by the caller afterwards with SourceFlag.
func LoadAll() (*Config, error) {
	p := DefaultPaths()
	if v := os.Getenv(EnvConfig); v != "" {
		p.File = v
	}
	return LoadFrom(p)
}

// LoadFrom loads configuration using the given search paths.
// A missing global or local file is not an error; a malformed one is.
func LoadFrom(p Paths) (*Config, error) {
	cfg := NewDefault()

	if path := findFirst(p.GlobalDir, GlobalConfigFileNames); path != "" {
		globalCfg, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, globalCfg, SourceGlobal)
		cfg.ConfigFile = path
	}

	switch {
	case p.File != "":
		fileCfg, err := LoadConfigFile(p.File)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file not found: %s", p.File)
			}
			return nil, err
		}
		MergeConfig(cfg, fileCfg, SourceFile)
		cfg.ConfigFile = p.File
	default:
		if path := findFirst(p.LocalDir, LocalConfigFileNames); path != "" {
			localCfg, err := LoadConfigFile(path)
			if err != nil {
				return nil, err
			}
			MergeConfig(cfg, localCfg, SourceLocal)
			cfg.ConfigFile = path
		}
	}

	LoadEnvConfig(cfg)
	return cfg, nil
}
