package args

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yahsan2/gh-csv-issues/pkg/config"
)

// ImportFlags contains flag names used by the import command
type ImportFlags struct {
	LabelSeparator string
	DryRun         string
	Limit          string
	Quiet          string
	Config         string
}

// DefaultFlags returns the default flag names
func DefaultFlags() *ImportFlags {
	return &ImportFlags{
		LabelSeparator: "label-separator",
		DryRun:         "dry-run",
		Limit:          "limit",
		Quiet:          "quiet",
		Config:         "config",
	}
}

// ImportOptions holds parsed import flags
type ImportOptions struct {
	ConfigPath        string
	LabelSeparator    string
	LabelSeparatorSet bool
	DryRun            bool
	Limit             int
	Quiet             bool
}

// AddImportFlags adds the import flags to the command
func AddImportFlags(cmd *cobra.Command, flags *ImportFlags) {
	if flags == nil {
		flags = DefaultFlags()
	}

	cmd.Flags().StringP(flags.Config, "c", "", "Path to config file (default: nearest "+config.ConfigFileName+")")
	cmd.Flags().StringP(flags.LabelSeparator, "s", "", "Character splitting one labels cell into several labels (empty disables splitting)")
	cmd.Flags().Bool(flags.DryRun, false, "Print the gh commands without creating issues")
	cmd.Flags().IntP(flags.Limit, "L", 0, "Maximum number of rows to import (0 for all)")
	cmd.Flags().BoolP(flags.Quiet, "q", false, "Only output issue URLs")
}

// ParseImportFlags extracts import options from command flags
func ParseImportFlags(cmd *cobra.Command, flags *ImportFlags) (*ImportOptions, error) {
	if flags == nil {
		flags = DefaultFlags()
	}

	opts := &ImportOptions{}
	var err error

	if opts.ConfigPath, err = cmd.Flags().GetString(flags.Config); err != nil {
		return nil, err
	}

	if opts.LabelSeparator, err = cmd.Flags().GetString(flags.LabelSeparator); err != nil {
		return nil, err
	}
	opts.LabelSeparatorSet = cmd.Flags().Changed(flags.LabelSeparator)

	if opts.DryRun, err = cmd.Flags().GetBool(flags.DryRun); err != nil {
		return nil, err
	}

	if opts.Limit, err = cmd.Flags().GetInt(flags.Limit); err != nil {
		return nil, err
	}
	if opts.Limit < 0 {
		return nil, fmt.Errorf("invalid limit %d: must be 0 or greater", opts.Limit)
	}

	if opts.Quiet, err = cmd.Flags().GetBool(flags.Quiet); err != nil {
		return nil, err
	}

	return opts, nil
}

// Apply overrides config values with the flags the user set
func (o *ImportOptions) Apply(cfg *config.Config) {
	if o.LabelSeparatorSet {
		cfg.LabelSeparator = o.LabelSeparator
	}
}
