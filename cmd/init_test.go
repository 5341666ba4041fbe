package cmd

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yahsan2/gh-csv-issues/pkg/config"
)

func runInitWith(t *testing.T, input string, force bool, repo string) string {
	t.Helper()

	origForce, origRepo := initForce, repoName
	initForce, repoName = force, repo
	defer func() { initForce, repoName = origForce, origRepo }()

	var out bytes.Buffer
	c := &cobra.Command{Use: "init"}
	c.SetIn(strings.NewReader(input))
	c.SetOut(&out)

	require.NoError(t, runInit(c, nil))
	return out.String()
}

func TestInitCommand(t *testing.T) {
	t.Run("config file creation", func(t *testing.T) {
		chdirTemp(t)
		stubCurrentRepo(t, repository.Repository{Host: "github.com", Owner: "test-org", Name: "test-repo"}, nil)

		out := runInitWith(t, "", false, "")

		assert.Contains(t, out, "Detected repository: test-org/test-repo")
		assert.Contains(t, out, "Configuration file created: "+config.ConfigFileName)

		loadedCfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "test-org/test-repo", loadedCfg.Repository)
		assert.Equal(t, "issues.csv", loadedCfg.CSVFile)
		assert.Equal(t, "|", loadedCfg.LabelSeparator)
		assert.Equal(t, config.DefaultConfig().Fields, loadedCfg.Fields)
	})

	t.Run("repo flag wins over detection", func(t *testing.T) {
		chdirTemp(t)
		stubCurrentRepo(t, repository.Repository{Owner: "detected", Name: "repo"}, nil)

		runInitWith(t, "", false, "octo/tracker")

		loadedCfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, "octo/tracker", loadedCfg.Repository)
	})

	t.Run("no repository detected", func(t *testing.T) {
		chdirTemp(t)
		stubCurrentRepo(t, repository.Repository{}, errors.New("not a git repository"))

		out := runInitWith(t, "", false, "")
		assert.Contains(t, out, "Could not detect the current repository")

		loadedCfg, err := config.Load()
		require.NoError(t, err)
		assert.Empty(t, loadedCfg.Repository)
	})

	t.Run("existing config is kept unless confirmed", func(t *testing.T) {
		chdirTemp(t)
		stubCurrentRepo(t, repository.Repository{Owner: "new", Name: "repo"}, nil)

		existing := config.DefaultConfig()
		existing.Repository = "old/repo"
		require.NoError(t, existing.Save(config.ConfigFileName))

		out := runInitWith(t, "n\n", false, "")
		assert.Contains(t, out, "Configuration file already exists: ")
		assert.Contains(t, out, "Initialization cancelled.")

		loadedCfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, "old/repo", loadedCfg.Repository)

		runInitWith(t, "y\n", false, "")
		loadedCfg, err = config.Load()
		require.NoError(t, err)
		assert.Equal(t, "new/repo", loadedCfg.Repository)
	})

	t.Run("force overwrites without asking", func(t *testing.T) {
		chdirTemp(t)
		stubCurrentRepo(t, repository.Repository{Owner: "new", Name: "repo"}, nil)

		existing := config.DefaultConfig()
		existing.Repository = "old/repo"
		require.NoError(t, existing.Save(config.ConfigFileName))

		out := runInitWith(t, "", true, "")
		assert.NotContains(t, out, "(y/N)")

		_, err := os.Stat(config.ConfigFileName)
		require.NoError(t, err)
		loadedCfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, "new/repo", loadedCfg.Repository)
	})
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	assert.True(t, strings.HasPrefix(out.String(), "gh-csv-issues version "))
	assert.NotContains(t, out.String(), "commit:")
}

func TestWriteVersion(t *testing.T) {
	origCommit, origDate := Commit, Date
	Commit, Date = "abc1234", "2026-01-02"
	defer func() { Commit, Date = origCommit, origDate }()

	var short bytes.Buffer
	writeVersion(&short, "v1.2.3", false)
	assert.Equal(t, "gh-csv-issues version v1.2.3\n", short.String())

	var long bytes.Buffer
	writeVersion(&long, "v1.2.3", true)
	assert.Contains(t, long.String(), "commit:   abc1234")
	assert.Contains(t, long.String(), "built:    2026-01-02")
	assert.Contains(t, long.String(), "go:       go")
	assert.Contains(t, long.String(), "platform: ")
}

func TestResolveVersion(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "v9.9.9"
	assert.Equal(t, "v9.9.9", resolveVersion())

	Version = "dev"
	assert.NotEmpty(t, resolveVersion())
}
