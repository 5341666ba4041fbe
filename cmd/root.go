package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yahsan2/gh-csv-issues/internal/log"
)

var Version = "dev"

// errReported marks an error that has already been printed
var errReported = errors.New("error already reported")

var rootCmd = &cobra.Command{
	Use:   "gh-csv-issues",
	Short: "GitHub CLI extension for creating issues from CSV files",
	Long: `A GitHub CLI extension that creates one GitHub issue per row of a CSV file.

Columns are mapped to issue fields (title, body, labels, assignees,
milestone) by the field mapping in .gh-csv-issues.yml. Each row is passed
to 'gh issue create', so authentication and validation are handled by gh.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Init(logLevel, nil)
	},
}

// Global flags
var (
	repoName     string
	outputFormat string
	logLevel     string
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&repoName, "repo", "R", "", "Repository (owner/repo format)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, csv)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Diagnostic log level (debug, info, warn, error)")
}

func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}
