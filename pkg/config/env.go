package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/yahsan2/gh-csv-issues/internal/log"
)

// Environment variables that override the config file
const (
	EnvRepository     = "GH_CSV_ISSUES_REPO"
	EnvCSVFile        = "GH_CSV_ISSUES_FILE"
	EnvLabelSeparator = "GH_CSV_ISSUES_LABEL_SEPARATOR"
)

// LoadEnv reads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadEnv(filenames ...string) {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			log.Warn("failed to load env file", "file", name, "error", err)
		}
	}
}

// ApplyEnv overrides config values with the GH_CSV_ISSUES_* variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvRepository); v != "" {
		c.Repository = v
	}
	if v := os.Getenv(EnvCSVFile); v != "" {
		c.CSVFile = v
	}
	if v, ok := os.LookupEnv(EnvLabelSeparator); ok {
		c.LabelSeparator = v
	}
}
