package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project configuration file, read from the
// project root.
const FileName = ".create-dataset.yml"

// Defaults
const (
	DefaultSampleLines = 101
	DefaultIndexColumn = "bbl"
	DefaultLogMode     = "development"
)

// ErrMissingLayout is returned when a directory or file of the project layout
// does not exist.
var ErrMissingLayout = errors.New("project layout incomplete")

// Config represents the scaffolder configuration.
type Config struct {
	Layout      Layout         `yaml:"layout"`
	SampleLines int            `yaml:"sample_lines"`
	IndexColumn string         `yaml:"index_column"`
	Registry    RegistryConfig `yaml:"registry"`
	Log         LogConfig      `yaml:"log"`
}

// RegistryConfig controls the splice region registry.
type RegistryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // empty means DefaultRegistryPath()
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Mode string `yaml:"mode"` // "development" or "production"
}

// Layout is the fixed nyc-db directory layout, relative to Root.
type Layout struct {
	Root                string `yaml:"-"`
	DatasetsDir         string `yaml:"datasets_dir"`
	TransformationsFile string `yaml:"transformations_file"`
	SQLDir              string `yaml:"sql_dir"`
	TestFile            string `yaml:"test_file"`
	TestDataDir         string `yaml:"test_data_dir"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Layout: Layout{
			DatasetsDir:         filepath.Join("nycdb", "datasets"),
			TransformationsFile: filepath.Join("nycdb", "dataset_transformations.py"),
			SQLDir:              filepath.Join("nycdb", "sql"),
			TestFile:            filepath.Join("tests", "integration", "test_datasets.py"),
			TestDataDir:         filepath.Join("tests", "integration", "data"),
		},
		SampleLines: DefaultSampleLines,
		IndexColumn: DefaultIndexColumn,
		Registry:    RegistryConfig{Enabled: true},
		Log:         LogConfig{Mode: DefaultLogMode},
	}
}

// LoadConfig reads FileName from root on top of Default().
// A missing file is not an error.
func LoadConfig(root string) (*Config, error) {
	return load(root, filepath.Join(root, FileName), false)
}

// LoadConfigFile reads the config at path, which must exist, for the
// project at root.
func LoadConfigFile(root, path string) (*Config, error) {
	return load(root, path, true)
}

func load(root, path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && !required:
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.Layout.Root = root
	if cfg.SampleLines <= 0 {
		cfg.SampleLines = DefaultSampleLines
	}
	if cfg.IndexColumn == "" {
		cfg.IndexColumn = DefaultIndexColumn
	}
	return cfg, nil
}

// DefaultRegistryPath returns the default registry database path.
func DefaultRegistryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".nycdb", "scaffold.db"), nil
}

// RegistryPath resolves the registry database path.
func (c *Config) RegistryPath() (string, error) {
	if c.Registry.Path != "" {
		return c.Registry.Path, nil
	}
	return DefaultRegistryPath()
}

// SchemaPath returns the schema declaration path for a dataset.
func (l Layout) SchemaPath(name string) string {
	return filepath.Join(l.resolve(l.DatasetsDir), name+".yml")
}

// SQLPath returns the index script path for a dataset.
func (l Layout) SQLPath(name string) string {
	return filepath.Join(l.resolve(l.SQLDir), name+".sql")
}

// SamplePath returns the test-data CSV sample path for a dataset.
func (l Layout) SamplePath(name string) string {
	return filepath.Join(l.resolve(l.TestDataDir), name+".csv")
}

// TransformationsPath returns the shared transformations file path.
func (l Layout) TransformationsPath() string {
	return l.resolve(l.TransformationsFile)
}

// TestPath returns the shared integration test file path.
func (l Layout) TestPath() string {
	return l.resolve(l.TestFile)
}

// Verify checks that every directory and shared file of the layout exists.
func (l Layout) Verify() error {
	if problem := l.problem(); problem != "" {
		return fmt.Errorf("%w: %s", ErrMissingLayout, problem)
	}
	return nil
}

// problem describes the first missing or mistyped layout entry, or "".
func (l Layout) problem() string {
	checks := []struct {
		path  string
		isDir bool
	}{
		{l.resolve(l.DatasetsDir), true},
		{l.TransformationsPath(), false},
		{l.resolve(l.SQLDir), true},
		{l.TestPath(), false},
		{l.resolve(l.TestDataDir), true},
	}

	for _, c := range checks {
		info, err := os.Stat(c.path)
		if err != nil {
			return fmt.Sprintf("%s does not exist", c.path)
		}
		if info.IsDir() != c.isDir {
			kind := "file"
			if c.isDir {
				kind = "directory"
			}
			return fmt.Sprintf("%s is not a %s", c.path, kind)
		}
	}
	return ""
}

func (l Layout) resolve(p string) string {
	if filepath.IsAbs(p) || l.Root == "" {
		return p
	}
	return filepath.Join(l.Root, p)
}
