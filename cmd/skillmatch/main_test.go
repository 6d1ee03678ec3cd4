package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/skillmatch"
	"github.com/poiesic/skillmatch/ai/mock"
	"github.com/poiesic/skillmatch/config"
	"github.com/poiesic/skillmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// useMockProvider makes every command run against the mock AI provider.
func useMockProvider(t *testing.T) {
	t.Helper()
	original := openEngine
	openEngine = func(cfg *config.Config, opts ...skillmatch.EngineOption) (*skillmatch.Engine, error) {
		provider := mock.NewMockProvider().(*mock.MockProvider)
		python := mock.DeterministicVector("Python", mock.DefaultDimension)
		opposite := make([]float32, len(python))
		for i, x := range python {
			opposite[i] = -x
		}
		// Alice's profile ranks first for "Python"; Bob's skills never match it.
		provider.GetMockEmbedder().
			WithVector("Python, SQL", python).
			WithVector("Java", opposite).
			WithVector("Spring", opposite)
		opts = append(opts, skillmatch.WithProvider(provider))
		return skillmatch.NewEngine(cfg, opts...)
	}
	t.Cleanup(func() { openEngine = original })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.Reader = strings.NewReader("")
	err := app.Run(append([]string{"skillmatch"}, args...))
	return out.String(), err
}

func writeResume(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWorkflow(t *testing.T) {
	useMockProvider(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "db")
	alice := writeResume(t, dir, "alice.txt", "Alice Smith\nEmail: alice@example.com\nSkills: Python, SQL")
	bob := writeResume(t, dir, "bob.txt", "Bob Jones\nEmail: bob@example.com\nSkills: Java, Spring")

	out, err := run(t, "--db", db, "ingest", alice, bob, alice)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "stored\t"))
	assert.True(t, strings.HasPrefix(lines[2], "duplicate\t"))

	out, err = run(t, "--db", db, "extract-fields")
	require.NoError(t, err)
	assert.Contains(t, out, "2 saved")

	out, err = run(t, "--db", db, "extract-key-skills")
	require.NoError(t, err)
	assert.Contains(t, out, "2 saved")

	out, err = run(t, "--db", db, "build-index")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 2 profiles")

	out, err = run(t, "--db", db, "search", "--json", "Python")
	require.NoError(t, err)
	var body struct {
		Matches []core.Match `json:"matches"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	require.NotEmpty(t, body.Matches)
	assert.Equal(t, "Alice Smith", body.Matches[0].Name)
	assert.Equal(t, "Python", body.Matches[0].MatchedSkill)

	out, err = run(t, "--db", db, "search", "-k", "1", "Python")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1. Alice Smith <alice@example.com> matched \"Python\""))
}

func TestSearchCommand_EmptyQuery(t *testing.T) {
	useMockProvider(t)
	_, err := run(t, "--db", filepath.Join(t.TempDir(), "db"), "search", "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query is empty")
}

func TestIngestCommand_RequiresFiles(t *testing.T) {
	useMockProvider(t)
	_, err := run(t, "--db", filepath.Join(t.TempDir(), "db"), "ingest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume file")
}

func TestExtractFieldsCommand_NoResumes(t *testing.T) {
	useMockProvider(t)
	_, err := run(t, "--db", filepath.Join(t.TempDir(), "db"), "extract-fields")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no resumes found")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "skillmatch.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[storage]
backend = "sqlite"
path = "from-file.db"

[ai]
embedding_model = "from-file"
`), 0o644))

	var got *config.Config
	newConfigApp := func() *cli.App {
		return &cli.App{
			Name:  "test",
			Flags: newApp().Flags,
			Action: func(c *cli.Context) error {
				var err error
				got, err = loadConfig(c)
				return err
			},
		}
	}

	err := newConfigApp().Run([]string{"test", "--config", cfgPath, "--db", "from-flag.db", "--classifier-model", "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, got.Storage.Backend)
	assert.Equal(t, "from-flag.db", got.Storage.Path)
	assert.Equal(t, "from-file", got.AI.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", got.AI.ClassifierModel)

	err = newConfigApp().Run([]string{"test", "--backend", "postgres"})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSetupLogger(t *testing.T) {
	newLoggerApp := func(action cli.ActionFunc) *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: action,
		}
	}
	noop := func(c *cli.Context) error { return nil }

	t.Run("valid log levels", func(t *testing.T) {
		for _, tc := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
			t.Run(tc, func(t *testing.T) {
				err := newLoggerApp(noop).Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newLoggerApp(noop).Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		err := newLoggerApp(func(c *cli.Context) error {
			assert.Equal(t, "debug", c.String("log-level"))
			return nil
		}).Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestCommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range newApp().Commands {
		names = append(names, cmd.Name)
	}
	assert.ElementsMatch(t, []string{
		"serve", "ingest", "extract-fields", "extract-key-skills", "build-index", "search",
	}, names)
}
