// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/skillmatch"
	"github.com/poiesic/skillmatch/config"
	"github.com/poiesic/skillmatch/search"
	"github.com/poiesic/skillmatch/server"
	"github.com/urfave/cli/v2"
)

// openEngine builds the engine for a command. Tests replace it to inject a
// mock AI provider.
var openEngine = func(cfg *config.Config, opts ...skillmatch.EngineOption) (*skillmatch.Engine, error) {
	return skillmatch.NewEngine(cfg, opts...)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "skillmatch",
		Usage: "Skill-based candidate matching over resumes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML config file",
				EnvVars: []string{"SKILLMATCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the database (BadgerDB directory or SQLite file)",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Storage backend (badger, sqlite)",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
			},
			&cli.StringFlag{
				Name:  "classifier-host",
				Usage: "Extraction service host URL",
			},
			&cli.StringFlag{
				Name:  "classifier-model",
				Usage: "Extraction model name",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the AI services",
				EnvVars: []string{"SKILLMATCH_API_KEY"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Listen address (defaults to the config value)",
					},
					&cli.BoolFlag{
						Name:  "build-index",
						Usage: "Build the vector index before accepting requests",
					},
				},
			},
			{
				Name:      "ingest",
				Usage:     "Store plain-text resumes",
				ArgsUsage: "FILE... (- reads stdin)",
				Action:    ingestCommand,
			},
			{
				Name:   "extract-fields",
				Usage:  "Extract profile fields from resumes without a profile",
				Action: extractFieldsCommand,
			},
			{
				Name:   "extract-key-skills",
				Usage:  "Extract key skills for profiles without them",
				Action: extractKeySkillsCommand,
			},
			{
				Name:   "build-index",
				Usage:  "Embed every profile and report index statistics",
				Action: buildIndexCommand,
			},
			{
				Name:      "search",
				Usage:     "Build the index and rank candidates against a skills query",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of matches to return (defaults to the config value)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print matches as JSON",
					},
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Log every search stage at debug level",
					},
				},
			},
		},
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	overrides := []struct {
		flag   string
		target *string
	}{
		{"db", &cfg.Storage.Path},
		{"backend", &cfg.Storage.Backend},
		{"embedding-host", &cfg.AI.EmbeddingHost},
		{"embedding-model", &cfg.AI.EmbeddingModel},
		{"classifier-host", &cfg.AI.ClassifierHost},
		{"classifier-model", &cfg.AI.ClassifierModel},
		{"api-key", &cfg.AI.APIKey},
	}
	for _, o := range overrides {
		if c.IsSet(o.flag) {
			*o.target = c.String(o.flag)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withEngine opens the engine, runs fn, and closes the engine.
func withEngine(c *cli.Context, fn func(ctx context.Context, cfg *config.Config, engine *skillmatch.Engine) error, opts ...skillmatch.EngineOption) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	return fn(c.Context, cfg, engine)
}

func serveCommand(c *cli.Context) error {
	return withEngine(c, func(ctx context.Context, cfg *config.Config, engine *skillmatch.Engine) error {
		if c.Bool("build-index") {
			result, err := engine.BuildIndex(ctx)
			if err != nil {
				return fmt.Errorf("index build failed: %w", err)
			}
			slog.Info("index built", "indexed", result.Indexed, "elapsed", result.Elapsed)
		}

		srv, err := server.New(engine, server.WithDefaultTopK(cfg.Search.TopK))
		if err != nil {
			return err
		}

		listen := cfg.Server.Listen
		if c.IsSet("listen") {
			listen = c.String("listen")
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, listen)
	})
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one resume file is required")
	}
	return withEngine(c, func(ctx context.Context, _ *config.Config, engine *skillmatch.Engine) error {
		out := c.App.Writer
		for _, path := range c.Args().Slice() {
			content, err := readResume(c, path)
			if err != nil {
				return err
			}
			res, err := engine.Ingest(ctx, content)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			status := "stored"
			if res.Duplicate {
				status = "duplicate"
			}
			fmt.Fprintf(out, "%s\t%s\t%s\n", status, res.Resume.Id, path)
		}
		return nil
	})
}

func readResume(c *cli.Context, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(c.App.Reader)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}
	return string(data), nil
}

func extractFieldsCommand(c *cli.Context) error {
	return withEngine(c, func(ctx context.Context, _ *config.Config, engine *skillmatch.Engine) error {
		result, err := engine.ExtractFields(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Field extraction: %d pending, %d saved, %d without skills\n",
			result.Pending, result.Saved, result.Skipped)
		return nil
	})
}

func extractKeySkillsCommand(c *cli.Context) error {
	return withEngine(c, func(ctx context.Context, _ *config.Config, engine *skillmatch.Engine) error {
		result, err := engine.ExtractKeySkills(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Key skill extraction: %d pending, %d saved, %d failed\n",
			result.Pending, result.Saved, result.Failed)
		return nil
	})
}

func buildIndexCommand(c *cli.Context) error {
	return withEngine(c, func(ctx context.Context, _ *config.Config, engine *skillmatch.Engine) error {
		result, err := engine.BuildIndex(ctx)
		if err != nil {
			return fmt.Errorf("index build failed: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "Indexed %d profiles (dimension %d) in %s\n",
			result.Indexed, result.Dimension, result.Elapsed.Round(time.Millisecond))
		return nil
	}, skillmatch.WithProgress(c.App.ErrWriter))
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return search.ErrEmptyQuery
	}

	return withEngine(c, func(ctx context.Context, cfg *config.Config, engine *skillmatch.Engine) error {
		if _, err := engine.BuildIndex(ctx); err != nil {
			return fmt.Errorf("index build failed: %w", err)
		}

		var monitor search.SearchMonitor
		if c.Bool("explain") {
			monitor = &search.LogMonitor{Logger: slog.Default()}
		}
		matches, err := engine.FindMatchesWithMonitor(ctx, query, c.Int("top-k"), monitor)
		if err != nil {
			return err
		}

		out := c.App.Writer
		if c.Bool("json") {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"matches": matches})
		}
		if len(matches) == 0 {
			fmt.Fprintln(out, "No matches")
			return nil
		}
		for i, m := range matches {
			fmt.Fprintf(out, "%d. %s <%s> matched %q (score %.1f)\n", i+1, m.Name, m.Email, m.MatchedSkill, m.Score)
		}
		return nil
	})
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
