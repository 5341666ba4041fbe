package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yahsan2/gh-csv-issues/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gh-csv-issues configuration",
	Long: `Initialize a new gh-csv-issues configuration file (.gh-csv-issues.yml) in the current directory.

This command will:
- Detect the target repository from the current git checkout
- Write the default CSV file name and label separator
- Write a field mapping you can edit to match your CSV header`,
	Example: `  # Initialize using the current repository
  gh csv-issues init

  # Initialize for another repository
  gh csv-issues init --repo octo-org/tracker

  # Overwrite an existing configuration
  gh csv-issues init --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration file without asking")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if existing := config.FindConfigPath(); existing != "" && !initForce {
		fmt.Fprintf(out, "Configuration file already exists: %s\n", existing)
		fmt.Fprint(out, "Do you want to overwrite it? (y/N): ")

		if !confirm(cmd.InOrStdin()) {
			fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	if repoName != "" {
		cfg.Repository = repoName
	} else if repo, err := currentRepo(); err == nil {
		cfg.Repository = fmt.Sprintf("%s/%s", repo.Owner, repo.Name)
		fmt.Fprintf(out, "Detected repository: %s\n", cfg.Repository)
	} else {
		fmt.Fprintln(out, "Could not detect the current repository. Set 'repository' in the config or pass --repo to import.")
	}

	if err := cfg.Save(config.ConfigFileName); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration file created: %s\n", config.ConfigFileName)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintf(out, "  1. Edit the 'fields' section of %s to match your CSV header\n", config.ConfigFileName)
	fmt.Fprintf(out, "  2. Preview the import: gh csv-issues import %s --dry-run\n", cfg.CSVFile)
	fmt.Fprintf(out, "  3. Create the issues: gh csv-issues import %s\n", cfg.CSVFile)

	return nil
}

func confirm(in io.Reader) bool {
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
