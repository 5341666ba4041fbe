package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags
var (
	Commit = "none"
	Date   = "unknown"
)

var versionVerbose bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gh-csv-issues version",
	Long: `Print the gh-csv-issues version.

Release builds carry the version, commit and build date set by the linker.
A build installed with 'go install' reports the module version instead.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		writeVersion(cmd.OutOrStdout(), resolveVersion(), versionVerbose)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&versionVerbose, "verbose", "v", false, "Also print commit, build date and Go runtime")
}

// resolveVersion prefers the linker-set version and falls back to the
// module version recorded by the Go toolchain.
func resolveVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

func writeVersion(w io.Writer, version string, verbose bool) {
	fmt.Fprintf(w, "gh-csv-issues version %s\n", version)
	if !verbose {
		return
	}
	fmt.Fprintf(w, "  commit:   %s\n", Commit)
	fmt.Fprintf(w, "  built:    %s\n", Date)
	fmt.Fprintf(w, "  go:       %s\n", runtime.Version())
	fmt.Fprintf(w, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
