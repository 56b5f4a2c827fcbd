package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project represents a specsema.yaml configuration.
type Project struct {
	// Modules lists directories or single files holding module ASTs,
	// relative to the config file.
	Modules []string `yaml:"modules"`

	// AutoImports overrides AutoImportModules when non-empty.
	AutoImports []string `yaml:"auto_imports,omitempty"`

	// NoAutoImport overrides NoAutoImportModules when non-empty.
	NoAutoImport []string `yaml:"no_auto_import,omitempty"`

	// Index is an optional SQLite file that receives the sealed symbol
	// table after a successful run.
	Index string `yaml:"index,omitempty"`

	// Debug enables per-symbol trace output from the populator.
	Debug bool `yaml:"debug,omitempty"`

	// Dir is the directory the config was loaded from. Not serialized.
	Dir string `yaml:"-"`
}

// LoadConfig reads and parses a specsema.yaml file.
func LoadConfig(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses specsema.yaml content from bytes.
// The path argument is used for error messages and to resolve Dir.
func ParseConfig(data []byte, path string) (*Project, error) {
	var cfg Project
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(path)
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for specsema.yaml starting from dir and walking up
// to parent directories. Returns "" and nil error if none is found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Project) validate(path string) error {
	if len(c.Modules) == 0 {
		return fmt.Errorf("%s: no modules defined", path)
	}
	for i, m := range c.Modules {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("%s: modules[%d]: empty path", path, i)
		}
	}

	excluded := make(map[string]bool)
	for i, name := range c.NoAutoImport {
		if name == "" {
			return fmt.Errorf("%s: no_auto_import[%d]: empty module name", path, i)
		}
		excluded[name] = true
	}
	for i, name := range c.AutoImports {
		if name == "" {
			return fmt.Errorf("%s: auto_imports[%d]: empty module name", path, i)
		}
		if excluded[name] {
			return fmt.Errorf("%s: auto_imports[%d]: %s is also listed in no_auto_import", path, i, name)
		}
	}
	return nil
}

func (c *Project) setDefaults() {
	if len(c.AutoImports) == 0 {
		c.AutoImports = append([]string(nil), AutoImportModules...)
	}
	if len(c.NoAutoImport) == 0 {
		c.NoAutoImport = append([]string(nil), NoAutoImportModules...)
	}
}

// ModulePaths returns Modules resolved against the config directory.
func (c *Project) ModulePaths() []string {
	paths := make([]string, 0, len(c.Modules))
	for _, m := range c.Modules {
		if !filepath.IsAbs(m) && c.Dir != "" {
			m = filepath.Join(c.Dir, m)
		}
		paths = append(paths, m)
	}
	return paths
}

// IndexPath returns Index resolved against the config directory.
func (c *Project) IndexPath() string {
	if c.Index == "" || filepath.IsAbs(c.Index) || c.Dir == "" {
		return c.Index
	}
	return filepath.Join(c.Dir, c.Index)
}
