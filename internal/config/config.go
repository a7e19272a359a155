package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Output   OutputConfig   `mapstructure:"output"`

	// Source is the config file that was read, empty when defaults were used.
	Source string `mapstructure:"-"`
}

// InputConfig points at the decompiler output.
type InputConfig struct {
	Model     string `mapstructure:"model"`     // model dump (.yaml/.yml/.json) or decompiled sources dir
	Resources string `mapstructure:"resources"` // decoded XML resources dir
	APK       string `mapstructure:"apk"`       // optional APK for binary XML and manifest metadata
}

// AnalysisConfig holds analysis behavior settings
type AnalysisConfig struct {
	OAuthKey    string   `mapstructure:"oauth_key"`
	Workers     int      `mapstructure:"workers"`
	ExcludeDirs []string `mapstructure:"exclude_dirs"`
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir      string   `mapstructure:"dir"`
	FileName string   `mapstructure:"file_name"` // without extension
	Formats  []string `mapstructure:"formats"`
	JSONPath string   `mapstructure:"json_path"` // explicit JSON target; empty means stdout
}

// DefaultOAuthKey is the resource key the client id is published under.
const DefaultOAuthKey = "oauth_client_id"

// SupportedFormats lists the report formats an exporter exists for.
var SupportedFormats = []string{"json", "excel", "html", "word", "sqlite"}

// Load reads the configuration from a file or uses defaults.
// An empty configPath looks for "apk-recon.yaml" in the current directory;
// a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := configPath != ""
	if !explicit {
		configPath = "apk-recon.yaml"
	}
	v.SetConfigFile(configPath)

	source := ""
	if err := v.ReadInConfig(); err != nil {
		if explicit || !isNotFound(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		source = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Source = source

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "no such file") || strings.Contains(msg, "cannot find")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.model", "./jadx-out/sources")
	v.SetDefault("input.resources", "./jadx-out/resources")
	v.SetDefault("input.apk", "")

	v.SetDefault("analysis.oauth_key", DefaultOAuthKey)
	v.SetDefault("analysis.workers", runtime.NumCPU())
	v.SetDefault("analysis.exclude_dirs", []string{
		"**/.git/**",
		"**/build/**",
		"**/META-INF/**",
	})

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "apk-recon-report")
	v.SetDefault("output.formats", []string{"json"})
	v.SetDefault("output.json_path", "")
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	for _, p := range []struct {
		key string
		val *string
	}{
		{"input.model", &c.Input.Model},
		{"input.resources", &c.Input.Resources},
		{"input.apk", &c.Input.APK},
		{"output.dir", &c.Output.Dir},
		{"output.json_path", &c.Output.JSONPath},
	} {
		if *p.val == "" {
			continue
		}
		abs, err := filepath.Abs(*p.val)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p.key, err)
		}
		*p.val = abs
	}
	return nil
}

// Normalize re-applies path normalisation after flag overrides.
func (c *Config) Normalize() error {
	return c.normalizePaths()
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// ShouldExclude checks if a file path should be excluded based on exclude_dirs
func (c *Config) ShouldExclude(filePath string) bool {
	normalizedPath := filepath.ToSlash(filePath)

	for _, pattern := range c.Analysis.ExcludeDirs {
		if MatchPathPattern(normalizedPath, pattern) {
			return true
		}
	}
	return false
}

// GetOutputPath returns the report path for the given file extension.
func (c *Config) GetOutputPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+ext)
}

// WantsFormat reports whether format was requested.
func (c *Config) WantsFormat(format string) bool {
	for _, f := range c.Output.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// StreamsToStdout reports whether the JSON result is the only output and
// goes to stdout.
func (c *Config) StreamsToStdout() bool {
	if c.Output.JSONPath != "" {
		return false
	}
	for _, f := range c.Output.Formats {
		if !strings.EqualFold(f, "json") {
			return false
		}
	}
	return true
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Input.Model == "" {
		return fmt.Errorf("input.model is required")
	}
	if _, err := os.Stat(c.Input.Model); err != nil {
		return fmt.Errorf("input.model does not exist: %s", c.Input.Model)
	}

	if c.Input.Resources == "" && c.Input.APK == "" {
		return fmt.Errorf("either input.resources or input.apk is required")
	}
	if c.Input.Resources != "" {
		if info, err := os.Stat(c.Input.Resources); err != nil || !info.IsDir() {
			return fmt.Errorf("input.resources is not a directory: %s", c.Input.Resources)
		}
	}
	if c.Input.APK != "" {
		if _, err := os.Stat(c.Input.APK); err != nil {
			return fmt.Errorf("input.apk does not exist: %s", c.Input.APK)
		}
	}

	if c.Analysis.OAuthKey == "" {
		return fmt.Errorf("analysis.oauth_key cannot be empty")
	}
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("analysis.workers must be at least 1, got %d", c.Analysis.Workers)
	}

	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}
	if len(c.Output.Formats) == 0 {
		return fmt.Errorf("output.formats must contain at least one format")
	}
	for _, f := range c.Output.Formats {
		if !isSupported(f) {
			return fmt.Errorf("unsupported output format %q (supported: %s)", f, strings.Join(SupportedFormats, ", "))
		}
	}

	return nil
}

func isSupported(format string) bool {
	for _, s := range SupportedFormats {
		if strings.EqualFold(s, format) {
			return true
		}
	}
	return false
}

// MatchPathPattern checks if a path matches a glob pattern.
// Supports ** for recursive directory matching.
func MatchPathPattern(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)
	path = filepath.ToSlash(path)

	if strings.Contains(pattern, "**") {
		parts := strings.Split(pattern, "**")
		if len(parts) == 2 {
			prefix := strings.Trim(parts[0], "/")
			suffix := strings.Trim(parts[1], "/")

			hasPrefix := true
			if prefix != "" {
				hasPrefix = strings.HasPrefix(path, prefix+"/") || strings.Contains(path, "/"+prefix+"/")
			}

			hasSuffix := true
			if suffix != "" {
				hasSuffix = strings.Contains(path, "/"+suffix+"/") ||
					strings.HasSuffix(path, "/"+suffix) ||
					strings.HasPrefix(path, suffix+"/")
			}

			return hasPrefix && hasSuffix
		}
	}

	cleanPattern := strings.Trim(pattern, "*")
	return strings.Contains(path, cleanPattern)
}

// Print displays the current configuration
func (c *Config) Print() {
	source := c.Source
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintln(os.Stderr, "=== APK Recon Configuration ===")
	fmt.Fprintf(os.Stderr, "Config File:      %s\n", source)
	fmt.Fprintf(os.Stderr, "Program Model:    %s\n", c.Input.Model)
	fmt.Fprintf(os.Stderr, "Resources:        %s\n", c.Input.Resources)
	fmt.Fprintf(os.Stderr, "APK:              %s\n", c.Input.APK)
	fmt.Fprintf(os.Stderr, "OAuth Key:        %s\n", c.Analysis.OAuthKey)
	fmt.Fprintf(os.Stderr, "Workers:          %d\n", c.Analysis.Workers)
	fmt.Fprintf(os.Stderr, "Exclude Dirs:     %v\n", c.Analysis.ExcludeDirs)
	fmt.Fprintf(os.Stderr, "Output Directory: %s\n", c.Output.Dir)
	fmt.Fprintf(os.Stderr, "Output Formats:   %v\n", c.Output.Formats)
	fmt.Fprintln(os.Stderr, "===============================")
}
