package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/spf13/cobra"

	"github.com/yahsan2/gh-csv-issues/internal/log"
	"github.com/yahsan2/gh-csv-issues/pkg/args"
	"github.com/yahsan2/gh-csv-issues/pkg/config"
	"github.com/yahsan2/gh-csv-issues/pkg/issue"
	"github.com/yahsan2/gh-csv-issues/pkg/output"
)

var importCmd = &cobra.Command{
	Use:   "import [csv-file]",
	Short: "Create one issue per row of a CSV file",
	Long: `Read a CSV file and run 'gh issue create' once for every row.

The first row must be a header. Columns are mapped to issue fields by the
'fields' section of .gh-csv-issues.yml:

  fields:
    title: Summary            # single column
    labels: Category          # split on label_separator
    assignees: Assignees      # split on commas
    milestone: Milestone
    body:                     # several columns joined with newlines
      - Details
      - Link

Empty cells are skipped. A failing row is reported and the import moves on
to the next one. A missing CSV file or gh executable stops the import.`,
	Example: `  # Import using the nearest .gh-csv-issues.yml
  gh csv-issues import

  # Import a specific file into a specific repository
  gh csv-issues import backlog.csv --repo octo-org/tracker

  # Preview the gh commands without creating anything
  gh csv-issues import backlog.csv --dry-run

  # Labels separated by semicolons, JSON summary
  gh csv-issues import backlog.csv -s ';' -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

// Overridden in tests
var (
	newRunner    = func() issue.Runner { return issue.NewGHRunner() }
	newFormatter = output.NewFormatter
	currentRepo  = repository.Current
)

func init() {
	rootCmd.AddCommand(importCmd)
	args.AddImportFlags(importCmd, nil)
}

// ImportCommand wires configuration, gh runner and output for one import
type ImportCommand struct {
	config    *config.Config
	opts      *args.ImportOptions
	runner    issue.Runner
	formatter *output.Formatter
}

func runImport(cmd *cobra.Command, positional []string) error {
	opts, err := args.ParseImportFlags(cmd, nil)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if opts.Quiet {
		format = output.FormatQuiet
	}

	cfg, err := loadImportConfig(opts, positional, repoName)
	if err != nil {
		return err
	}

	command := &ImportCommand{
		config:    cfg,
		opts:      opts,
		runner:    newRunner(),
		formatter: newFormatter(format),
	}
	return command.Execute(cmd)
}

// Execute runs the import and prints the batch summary
func (c *ImportCommand) Execute(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	importer := issue.NewImporter(c.config, c.runner,
		issue.WithReporter(c.formatter),
		issue.WithDryRun(c.opts.DryRun),
		issue.WithLimit(c.opts.Limit),
	)

	result, err := importer.Run(ctx)
	if result != nil {
		if ferr := c.formatter.FormatBatchResult(result); ferr != nil {
			log.Error("failed to write summary", "error", ferr)
		}
	}

	if err != nil {
		if ferr := c.formatter.FormatError(err); ferr != nil {
			return err
		}
		return fmt.Errorf("%w: %w", errReported, err)
	}

	if failures := result.Failures(); len(failures) > 0 {
		lines := make([]string, len(failures))
		for i, r := range failures {
			lines[i] = strconv.Itoa(r.Line)
		}
		return fmt.Errorf("%d of %d issues could not be created (CSV lines %s)",
			len(failures), result.Total, strings.Join(lines, ", "))
	}
	return nil
}

// loadImportConfig resolves configuration from file, environment and flags.
// Flags win over environment, which wins over the config file.
func loadImportConfig(opts *args.ImportOptions, positional []string, repoFlag string) (*config.Config, error) {
	config.LoadEnv()

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, issue.NewConfigurationError("failed to load configuration", err)
	}

	cfg.ApplyEnv()
	opts.Apply(cfg)

	if len(positional) > 0 {
		cfg.CSVFile = positional[0]
	}

	if repoFlag != "" {
		cfg.Repository = repoFlag
		cfg.Owner, cfg.Name = "", ""
	}

	if !cfg.HasRepository() {
		repo, err := currentRepo()
		if err != nil {
			return nil, issue.NewConfigurationError("no repository given and none could be detected from the current directory", err)
		}
		cfg.Repository = fmt.Sprintf("%s/%s", repo.Owner, repo.Name)
		log.Debug("using current repository", "repository", cfg.Repository)
	}

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewValidationError("invalid configuration", err)
	}

	return cfg, nil
}
