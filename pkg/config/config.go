package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cli/go-gh/v2/pkg/repository"
	"gopkg.in/yaml.v3"

	"github.com/yahsan2/gh-csv-issues/internal/log"
)

const ConfigFileName = ".gh-csv-issues.yml"

// Config represents the import configuration
type Config struct {
	Repository     string       `yaml:"repository,omitempty"`
	Owner          string       `yaml:"owner,omitempty"`
	Name           string       `yaml:"name,omitempty"`
	CSVFile        string       `yaml:"csv_file"`
	LabelSeparator string       `yaml:"label_separator,omitempty"`
	Fields         FieldMapping `yaml:"fields"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		CSVFile:        "issues.csv",
		LabelSeparator: "|",
		Fields: FieldMapping{
			Single(FieldTitle, "Summary"),
			Single(FieldLabels, "Category"),
			Single(FieldAssignees, "Assignees"),
			Single(FieldMilestone, "Milestone"),
			Concat(FieldBody,
				"Details",
				"Size (S/M/L)",
				"Priority for integration testing",
				"Link",
				"Status / comment",
			),
		},
	}
}

// Load loads configuration from the nearest config file
func Load() (*Config, error) {
	configPath := findConfigFile()
	if configPath == "" {
		return nil, fmt.Errorf("configuration file %s not found in current or parent directories", ConfigFileName)
	}
	log.Debug("using config file", "path", configPath)
	return LoadFile(configPath)
}

// LoadFile loads configuration from the given path
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads the config at path, or the nearest config file when
// path is empty. Without any config file the default configuration is used.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if FindConfigPath() == "" {
		log.Debug("no config file found, using defaults", "file", ConfigFileName)
		return DefaultConfig(), nil
	}
	return Load()
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in current and parent directories
func findConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// FindConfigPath returns the path of the nearest configuration file, or ""
// when there is none.
func FindConfigPath() string {
	return findConfigFile()
}

// HasRepository reports whether a destination repository is configured
func (c *Config) HasRepository() bool {
	return c.Repository != "" || (c.Owner != "" && c.Name != "")
}

// Repo parses the configured destination repository
func (c *Config) Repo() (repository.Repository, error) {
	s := c.Repository
	if s == "" && c.Owner != "" && c.Name != "" {
		s = c.Owner + "/" + c.Name
	}
	if s == "" {
		return repository.Repository{}, fmt.Errorf("repository is not configured")
	}

	repo, err := repository.Parse(s)
	if err != nil {
		return repository.Repository{}, fmt.Errorf("invalid repository '%s': %w", s, err)
	}
	return repo, nil
}

// RepoArg returns the repository in the form passed to gh --repo
func (c *Config) RepoArg() (string, error) {
	repo, err := c.Repo()
	if err != nil {
		return "", err
	}
	if strings.Count(c.Repository, "/") == 2 {
		return fmt.Sprintf("%s/%s/%s", repo.Host, repo.Owner, repo.Name), nil
	}
	return fmt.Sprintf("%s/%s", repo.Owner, repo.Name), nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.HasRepository() {
		return fmt.Errorf("repository is required")
	}
	if c.Repository != "" && !isValidRepository(c.Repository) {
		return fmt.Errorf("invalid repository format '%s': must be 'owner/repo'", c.Repository)
	}

	if c.CSVFile == "" {
		return fmt.Errorf("CSV file path is required")
	}

	if len([]rune(c.LabelSeparator)) > 1 {
		return fmt.Errorf("label separator must be a single character, got '%s'", c.LabelSeparator)
	}

	if len(c.Fields) == 0 {
		return fmt.Errorf("at least one field mapping is required")
	}

	if _, ok := c.Fields.Lookup(FieldTitle); !ok {
		log.Warn("no column is mapped to the issue title, gh will reject every record")
	}

	seen := make(map[string]bool)
	for _, rule := range c.Fields {
		if rule.Field == "" {
			return fmt.Errorf("field mapping with empty field name")
		}
		if seen[rule.Field] {
			return fmt.Errorf("field '%s' is mapped more than once", rule.Field)
		}
		seen[rule.Field] = true

		if len(rule.Columns) == 0 {
			return fmt.Errorf("field '%s' does not map any CSV column", rule.Field)
		}
		if !rule.IsKnown() && !rule.Concat {
			log.Warn("field is not supported by gh issue create and will be ignored", "field", rule.Field)
		}
		if rule.Concat && rule.Field != FieldBody {
			log.Warn("concatenated columns are always sent as the issue body", "field", rule.Field)
		}
	}

	return nil
}

// isValidRepository checks if a repository string is in the correct format
func isValidRepository(repo string) bool {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 && len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}
