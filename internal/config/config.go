// Package config loads the .jtdderive.yaml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"

	jtdgen "github.com/reoring/jtdgen"
)

// FileName is the project file looked up by Discover.
const FileName = ".jtdderive.yaml"

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the project configuration. Command-line flags override it.
type Config struct {
	// Packages are the package patterns to scan.
	Packages []string `yaml:"packages"`
	// Types restricts generation to these roots (short or long names).
	Types []string `yaml:"types"`
	// Output is the directory schemas are written to.
	Output string `yaml:"output"`
	// Format is json or yaml.
	Format string `yaml:"format"`
	// Naming is short or long.
	Naming string `yaml:"naming"`
	// Indent is the JSON indentation width; 0 writes compact JSON.
	Indent int `yaml:"indent"`
	// Jobs bounds how many roots are derived concurrently.
	Jobs int `yaml:"jobs"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Packages: []string{"./..."},
		Output:   "schemas",
		Format:   FormatJSON,
		Naming:   jtdgen.NamingShort.String(),
		Indent:   2,
		Jobs:     runtime.GOMAXPROCS(0),
	}
}

// Parse decodes a project file on top of Default. Unknown keys are errors.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover looks for FileName in dir, then in the root of the module that
// contains dir. It returns the defaults and an empty path when neither
// exists.
func Discover(dir string) (Config, string, error) {
	candidates := []string{filepath.Join(dir, FileName)}
	if root, err := FindModuleRoot(dir); err == nil {
		candidates = append(candidates, filepath.Join(root, FileName))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			cfg, err := Load(p)
			return cfg, p, err
		}
	}
	return Default(), "", nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	switch c.Format {
	case FormatJSON, FormatYAML:
	default:
		errs = append(errs, fmt.Errorf("format must be %s or %s, got %q", FormatJSON, FormatYAML, c.Format))
	}
	if _, err := ParseNaming(c.Naming); err != nil {
		errs = append(errs, err)
	}
	if c.Indent < 0 {
		errs = append(errs, fmt.Errorf("indent must not be negative, got %d", c.Indent))
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be at least 1, got %d", c.Jobs))
	}
	if len(c.Packages) == 0 {
		errs = append(errs, errors.New("packages must not be empty"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// ParseNaming maps "short" or "long" onto a jtdgen.Naming.
func ParseNaming(s string) (jtdgen.Naming, error) {
	switch s {
	case jtdgen.NamingShort.String():
		return jtdgen.NamingShort, nil
	case jtdgen.NamingLong.String():
		return jtdgen.NamingLong, nil
	}
	return 0, fmt.Errorf("naming must be short or long, got %q", s)
}

// FindModuleRoot returns the nearest directory at or above dir holding a
// go.mod with a module path.
func FindModuleRoot(dir string) (string, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		modFile := filepath.Join(cur, "go.mod")
		if data, err := os.ReadFile(modFile); err == nil {
			mf, err := modfile.ParseLax(modFile, data, nil)
			if err != nil {
				return "", fmt.Errorf("parsing %s: %w", modFile, err)
			}
			if mf.Module == nil || mf.Module.Mod.Path == "" {
				return "", fmt.Errorf("module path missing in %s", modFile)
			}
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return "", fmt.Errorf("go.mod not found above %s", dir)
}
