// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the configuration for complexify
type Config struct {
	Version string `yaml:"version" json:"version"`

	// Serialized model artifacts
	Models ModelsConfig `yaml:"models" json:"models"`

	// Analysis settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// HTTP server settings
	Server ServerConfig `yaml:"server" json:"server"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// File patterns
	Files FilesConfig `yaml:"files" json:"files"`
}

type ModelsConfig struct {
	Dir                  string `yaml:"dir" json:"dir"`
	Vectorizer           string `yaml:"vectorizer" json:"vectorizer"`
	TimeClassifier       string `yaml:"time_classifier" json:"time_classifier"`
	CyclomaticRegressor  string `yaml:"cyclomatic_regressor" json:"cyclomatic_regressor"`
	ReadabilityRegressor string `yaml:"readability_regressor" json:"readability_regressor"`
	TimeEncoder          string `yaml:"time_encoder" json:"time_encoder"`
}

// Path resolves an artifact file name against Dir.
func (m ModelsConfig) Path(name string) string {
	if filepath.IsAbs(name) || m.Dir == "" {
		return name
	}
	return filepath.Join(m.Dir, name)
}

type AnalysisConfig struct {
	// Parallel analysis of multiple files
	MaxWorkers int `yaml:"max_workers" json:"max_workers"`

	// Static labels returned with every estimate
	SpaceComplexityLabel    string `yaml:"space_complexity_label" json:"space_complexity_label"`
	OptimizationSuggestions string `yaml:"optimization_suggestions" json:"optimization_suggestions"`

	// Count try statements and except handlers as control flow
	CountExceptionHandlers bool `yaml:"count_exception_handlers" json:"count_exception_handlers"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr" json:"addr"`
	Title       string   `yaml:"title" json:"title"`
	Version     string   `yaml:"version" json:"version"`
	Description string   `yaml:"description" json:"description"`
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`
	MaxBodyKB   int      `yaml:"max_body_kb" json:"max_body_kb"`
}

type OutputConfig struct {
	// Default output format
	Format string `yaml:"format" json:"format"`

	// Colorized output
	Colors bool `yaml:"colors" json:"colors"`

	// Show structural features per file
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Output file path (optional)
	OutputFile string `yaml:"output_file,omitempty" json:"output_file,omitempty"`
}

type FilesConfig struct {
	// Source extensions to analyze
	Extensions []string `yaml:"extensions" json:"extensions"`

	// Exclude patterns
	Exclude []string `yaml:"exclude" json:"exclude"`

	// Whether to analyze test files
	IncludeTests bool `yaml:"include_tests" json:"include_tests"`

	// Max file size (in KB)
	MaxFileSize int `yaml:"max_file_size" json:"max_file_size"`
}

const defaultSuggestions = "Reduce nested loops, avoid redundant computations, and prefer efficient data structures."

func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Models: ModelsConfig{
			Dir:                  "models",
			Vectorizer:           "vectorizer.json",
			TimeClassifier:       "time_model.json",
			CyclomaticRegressor:  "cyclo_model.json",
			ReadabilityRegressor: "read_model.json",
			TimeEncoder:          "time_encoder.json",
		},
		Analysis: AnalysisConfig{
			MaxWorkers:              4,
			SpaceComplexityLabel:    "Unknown",
			OptimizationSuggestions: defaultSuggestions,
			CountExceptionHandlers:  true,
		},
		Server: ServerConfig{
			Addr:        ":8000",
			Title:       "Complexify",
			Version:     "0.1.0",
			Description: "AI-powered Code Complexity Analyzer using ML + NLP",
			CORSOrigins: []string{"*"},
			MaxBodyKB:   1024,
		},
		Output: OutputConfig{
			Format:  "console",
			Colors:  true,
			Verbose: false,
		},
		Files: FilesConfig{
			Extensions:   []string{".py"},
			Exclude:      []string{"venv/**", ".venv/**", ".git/**", "__pycache__/**"},
			IncludeTests: false,
			MaxFileSize:  1024, // 1MB
		},
	}
}

// LoadConfig loads configuration from file or returns default, then applies
// environment overrides
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = findConfigFile()
	}

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

	config.applyEnv(os.LookupEnv)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	possiblePaths := []string{
		".complexify.yml",
		".complexify.yaml",
		"complexify.yml",
		"complexify.yaml",
		".config/complexify.yml",
		".config/complexify.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	set("APP_TITLE", &c.Server.Title)
	set("APP_VERSION", &c.Server.Version)
	set("APP_DESCRIPTION", &c.Server.Description)
	set("SPACE_COMPLEXITY_LABEL", &c.Analysis.SpaceComplexityLabel)
	set("OPTIMIZATION_SUGGESTIONS", &c.Analysis.OptimizationSuggestions)
	set("COMPLEXIFY_MODELS_DIR", &c.Models.Dir)
	if v, ok := lookup("CORS_ORIGINS"); ok {
		c.Server.CORSOrigins = ParseOrigins(v)
	}
}

// ParseOrigins splits a comma separated origin list. Empty means any origin.
func ParseOrigins(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" || value == "*" {
		return []string{"*"}
	}
	var origins []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			origins = append(origins, item)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validFormats := []string{"console", "json"}
	formatValid := false
	for _, format := range validFormats {
		if c.Output.Format == format {
			formatValid = true
			break
		}
	}
	if !formatValid {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, validFormats)
	}

	if c.Analysis.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1")
	}

	m := c.Models
	for name, file := range map[string]string{
		"vectorizer":            m.Vectorizer,
		"time_classifier":       m.TimeClassifier,
		"cyclomatic_regressor":  m.CyclomaticRegressor,
		"readability_regressor": m.ReadabilityRegressor,
		"time_encoder":          m.TimeEncoder,
	} {
		if strings.TrimSpace(file) == "" {
			return fmt.Errorf("models.%s must be set", name)
		}
	}

	if c.Server.MaxBodyKB < 1 {
		return fmt.Errorf("max_body_kb must be at least 1")
	}

	if len(c.Files.Extensions) == 0 {
		return fmt.Errorf("at least one file extension is required")
	}

	return nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateConfig creates a sample configuration file
func GenerateConfig(configPath string) error {
	config := DefaultConfig()
	return config.SaveConfig(configPath)
}

// IsSourceFile reports whether path has one of the configured extensions
func (c *Config) IsSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range c.Files.Extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// IsTestFile follows pytest naming conventions
func IsTestFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, "test_") || strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), "_test")
}
