package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yahsan2/gh-csv-issues/internal/log"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "issues.csv", cfg.CSVFile)
	assert.Equal(t, "|", cfg.LabelSeparator)
	require.Len(t, cfg.Fields, 5)

	title, ok := cfg.Fields.Lookup(FieldTitle)
	require.True(t, ok)
	assert.Equal(t, "Summary", title.Column())
	assert.False(t, title.Concat)

	body, ok := cfg.Fields.Lookup(FieldBody)
	require.True(t, ok)
	assert.True(t, body.Concat)
	assert.Equal(t, []string{"Details", "Size (S/M/L)", "Priority for integration testing", "Link", "Status / comment"}, body.Columns)
}

func TestConfigSaveAndLoad(t *testing.T) {
	// Create temp directory
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	defer os.Chdir(originalWd)

	err := os.Chdir(tmpDir)
	require.NoError(t, err)

	cfg := &Config{
		Repository:     "octo-org/tracker",
		CSVFile:        "backlog.csv",
		LabelSeparator: ";",
		Fields: FieldMapping{
			Single(FieldTitle, "Name"),
			Concat(FieldBody, "Description", "Notes"),
			Single(FieldLabels, "Tags"),
		},
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	err = cfg.Save(configPath)
	require.NoError(t, err)

	_, err = os.Stat(configPath)
	assert.NoError(t, err)

	loadedCfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, cfg, loadedCfg)
}

func TestLoadFromParentDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	defer os.Chdir(originalWd)

	require.NoError(t, DefaultConfig().Save(filepath.Join(tmpDir, ConfigFileName)))

	sub := filepath.Join(tmpDir, "data", "2024")
	require.NoError(t, os.MkdirAll(sub, 0755))
	require.NoError(t, os.Chdir(sub))

	assert.NotEmpty(t, FindConfigPath())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "issues.csv", cfg.CSVFile)
}

func TestLoadOrDefault(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	defer os.Chdir(originalWd)
	require.NoError(t, os.Chdir(tmpDir))

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = LoadOrDefault(filepath.Join(tmpDir, "missing.yml"))
	assert.Error(t, err)
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	defer os.Chdir(originalWd)

	err := os.Chdir(tmpDir)
	require.NoError(t, err)

	// Should not exist initially
	assert.Empty(t, FindConfigPath())

	cfg := DefaultConfig()
	err = cfg.Save(ConfigFileName)
	require.NoError(t, err)

	assert.Equal(t, ConfigFileName, filepath.Base(FindConfigPath()))
}

func TestConfigValidate_WarnsWithoutTitle(t *testing.T) {
	var buf bytes.Buffer
	log.Init("warn", &buf)
	defer log.Init("warn", nil)

	cfg := DefaultConfig()
	cfg.Repository = "owner/repo"
	require.NoError(t, cfg.Validate())
	assert.NotContains(t, buf.String(), "issue title")

	cfg.Fields = FieldMapping{Single(FieldBody, "Details")}
	require.NoError(t, cfg.Validate())
	assert.Contains(t, buf.String(), "no column is mapped to the issue title")
}

func TestConfigYAMLFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Repository = "my-org/repo1"

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	yamlStr := string(data)

	assert.Contains(t, yamlStr, "repository: my-org/repo1")
	assert.Contains(t, yamlStr, "csv_file: issues.csv")
	assert.Contains(t, yamlStr, "label_separator:")
	assert.Contains(t, yamlStr, "fields:")
	assert.Contains(t, yamlStr, "title: Summary")
	assert.Contains(t, yamlStr, "- Details")
	assert.NotContains(t, yamlStr, "owner:")
}

func TestFieldMappingUnmarshal(t *testing.T) {
	input := `
fields:
  milestone: Sprint
  body:
    - Details
    - Link
  title: Summary
  labels: Category
  estimate: Points
`
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(input), &cfg))

	want := FieldMapping{
		Single(FieldMilestone, "Sprint"),
		Concat(FieldBody, "Details", "Link"),
		Single(FieldTitle, "Summary"),
		Single(FieldLabels, "Category"),
		Single("estimate", "Points"),
	}
	assert.Equal(t, want, cfg.Fields)
	assert.Equal(t, []string{"Sprint", "Details", "Link", "Summary", "Category", "Points"}, cfg.Fields.Columns())
}

func TestFieldMappingUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{
			name:   "fields is a list",
			input:  "fields:\n  - title\n",
			errMsg: "fields must be a mapping",
		},
		{
			name:   "nested mapping value",
			input:  "fields:\n  title:\n    column: Summary\n",
			errMsg: "field 'title' must map to a column name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			err := yaml.Unmarshal([]byte(tt.input), &cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFieldMappingNullValue(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte("fields:\n  title:\n"), &cfg))
	require.Len(t, cfg.Fields, 1)
	assert.Empty(t, cfg.Fields[0].Columns)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Repository = "owner/repo"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name: "owner and name instead of repository",
			mutate: func(c *Config) {
				c.Repository = ""
				c.Owner = "owner"
				c.Name = "repo"
			},
		},
		{
			name:    "missing repository",
			mutate:  func(c *Config) { c.Repository = "" },
			wantErr: true,
			errMsg:  "repository is required",
		},
		{
			name:    "invalid repository format",
			mutate:  func(c *Config) { c.Repository = "just-a-name" },
			wantErr: true,
			errMsg:  "must be 'owner/repo'",
		},
		{
			name:    "missing csv file",
			mutate:  func(c *Config) { c.CSVFile = "" },
			wantErr: true,
			errMsg:  "CSV file path is required",
		},
		{
			name:    "multi character separator",
			mutate:  func(c *Config) { c.LabelSeparator = "||" },
			wantErr: true,
			errMsg:  "single character",
		},
		{
			name:   "no separator",
			mutate: func(c *Config) { c.LabelSeparator = "" },
		},
		{
			name:    "no fields",
			mutate:  func(c *Config) { c.Fields = nil },
			wantErr: true,
			errMsg:  "at least one field mapping",
		},
		{
			name: "duplicate field",
			mutate: func(c *Config) {
				c.Fields = append(c.Fields, Single(FieldTitle, "Other"))
			},
			wantErr: true,
			errMsg:  "mapped more than once",
		},
		{
			name: "field without columns",
			mutate: func(c *Config) {
				c.Fields = FieldMapping{{Field: FieldTitle}}
			},
			wantErr: true,
			errMsg:  "does not map any CSV column",
		},
		{
			name: "unknown field is only a warning",
			mutate: func(c *Config) {
				c.Fields = append(c.Fields, Single("estimate", "Points"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigRepoArg(t *testing.T) {
	t.Setenv("GH_HOST", "")

	cfg := &Config{Repository: "octocat/hello-world"}
	arg, err := cfg.RepoArg()
	require.NoError(t, err)
	assert.Equal(t, "octocat/hello-world", arg)

	cfg = &Config{Owner: "octocat", Name: "spoon-knife"}
	arg, err = cfg.RepoArg()
	require.NoError(t, err)
	assert.Equal(t, "octocat/spoon-knife", arg)

	cfg = &Config{Repository: "ghe.example.com/team/app"}
	arg, err = cfg.RepoArg()
	require.NoError(t, err)
	assert.Equal(t, "ghe.example.com/team/app", arg)

	_, err = (&Config{}).RepoArg()
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvRepository, "env-owner/env-repo")
	t.Setenv(EnvCSVFile, "env.csv")
	t.Setenv(EnvLabelSeparator, "")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "env-owner/env-repo", cfg.Repository)
	assert.Equal(t, "env.csv", cfg.CSVFile)
	assert.Equal(t, "", cfg.LabelSeparator)
}

func TestLoadEnv(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(EnvCSVFile+"=from-dotenv.csv\n"), 0644))

	t.Setenv(EnvCSVFile, "")
	os.Unsetenv(EnvCSVFile)

	LoadEnv(envFile, filepath.Join(tmpDir, "missing.env"))
	assert.Equal(t, "from-dotenv.csv", os.Getenv(EnvCSVFile))
}
