package issue

import (
	"strconv"
	"strings"
)

// gh issue create flags
const (
	FlagTitle     = "--title"
	FlagBody      = "--body"
	FlagLabel     = "--label"
	FlagAssignee  = "--assignee"
	FlagMilestone = "--milestone"
)

// AssigneeSeparator splits one CSV cell into several assignees
const AssigneeSeparator = ","

// Draft is the gh issue create invocation built for one CSV record
type Draft struct {
	Repository string   `json:"repository"`
	Title      string   `json:"title,omitempty"`
	Args       []string `json:"args"`
}

// Command returns the full argument list passed to gh
func (d *Draft) Command() []string {
	cmd := make([]string, 0, len(d.Args)+4)
	cmd = append(cmd, "issue", "create", "--repo", d.Repository)
	return append(cmd, d.Args...)
}

// Values returns every value passed with the given flag, in order
func (d *Draft) Values(flag string) []string {
	var values []string
	for i := 0; i+1 < len(d.Args); i += 2 {
		if d.Args[i] == flag {
			values = append(values, d.Args[i+1])
		}
	}
	return values
}

// HasTitle reports whether the draft carries a --title argument
func (d *Draft) HasTitle() bool {
	return len(d.Values(FlagTitle)) > 0
}

// String renders the command line as it would be typed in a shell
func (d *Draft) String() string {
	return CommandLine(d.Command())
}

func (d *Draft) add(flag, value string) {
	d.Args = append(d.Args, flag, value)
}

// CommandLine renders a gh argument list for display, quoting arguments
// that contain whitespace or quotes.
func CommandLine(args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, "gh")
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			parts = append(parts, strconv.Quote(a))
		} else {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}
