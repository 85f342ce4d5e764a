// Copyright 2025 Appalti
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
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	knowledge "github.com/rjj101202/appalti-knowledge"
	"github.com/rjj101202/appalti-knowledge/ai"
	"github.com/rjj101202/appalti-knowledge/core"
	"github.com/rjj101202/appalti-knowledge/extract"
	"github.com/rjj101202/appalti-knowledge/ingestion"
	"github.com/rjj101202/appalti-knowledge/reembed"
	"github.com/rjj101202/appalti-knowledge/storage/qdrant"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "knowledge",
		Usage: "Multi-tenant knowledge retrieval over company documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the BadgerDB database directory",
				Value:   "./knowledge_db",
				EnvVars: []string{"KNOWLEDGE_DB"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "text-embedding-3-small",
				EnvVars: []string{"EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Embedding service API key",
				EnvVars: []string{"OPENAI_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "qdrant-host",
				Usage:   "Qdrant host for the native vector index (empty disables it)",
				EnvVars: []string{"QDRANT_HOST"},
			},
			&cli.IntFlag{
				Name:    "qdrant-port",
				Usage:   "Qdrant gRPC port",
				Value:   6334,
				EnvVars: []string{"QDRANT_PORT"},
			},
			&cli.StringFlag{
				Name:    "qdrant-collection",
				Usage:   "Qdrant collection name",
				Value:   qdrant.DefaultCollection,
				EnvVars: []string{"QDRANT_COLLECTION"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest a document file or a directory of documents",
				ArgsUsage: "<file-or-directory>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant the documents belong to",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "scope",
						Usage: "Document scope (vertical or horizontal)",
						Value: string(core.ScopeVertical),
					},
					&cli.StringFlag{
						Name:    "company",
						Aliases: []string{"c"},
						Usage:   "Company for vertical documents",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-ingest even when content is unchanged",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent ingestion workers",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search stored chunks within a tenant's scope",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant to search in",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "company",
						Aliases: []string{"c"},
						Usage:   "Restrict to one company's documents",
					},
					&cli.BoolFlag{
						Name:  "include-shared",
						Usage: "Also match tenant-wide shared documents",
						Value: true,
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of snippets to return",
						Value:   5,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embeddings for all of a tenant's chunks",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant whose chunks to reembed",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed provider calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openEngine(c *cli.Context) (*knowledge.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
	)
	if key := c.String("api-key"); key != "" {
		aiConfig.Tokens = ai.StaticToken(key)
	}

	opts := []knowledge.EngineOption{knowledge.WithAIConfig(aiConfig)}
	if host := c.String("qdrant-host"); host != "" {
		opts = append(opts, knowledge.WithVectorIndexConfig(qdrant.Config{
			Host:       host,
			Port:       c.Int("qdrant-port"),
			Collection: c.String("qdrant-collection"),
		}))
	}

	return knowledge.NewEngine(c.String("db"), opts...)
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file or directory argument")
	}
	root := c.Args().First()

	scope := core.Scope(strings.ToLower(c.String("scope")))
	sources, err := collectSources(root, c.String("tenant"), scope, c.String("company"), c.Bool("force"))
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no supported documents found under %s", root)
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	var pipelineOpts []ingestion.Option
	if workers := c.Int("workers"); workers > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(workers))
	}
	pipeline, err := engine.NewPipeline(pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	report, err := pipeline.IngestBatch(ctx, sources)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	for _, result := range report.Results {
		switch result.Status {
		case core.IngestStatusOK:
			fmt.Printf("ok      %s (%d chunks)\n", result.Path, result.Chunks)
		case core.IngestStatusSkipped:
			fmt.Printf("skipped %s (%s)\n", result.Path, result.Reason)
		case core.IngestStatusFailed:
			fmt.Printf("failed  %s: %v\n", result.Path, result.Err)
		}
	}
	fmt.Printf("\nrun %s: %d ingested, %d skipped, %d failed\n",
		report.RunID, report.Ingested, report.Skipped, report.Failed)

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", report.Failed, len(report.Results))
	}
	return nil
}

// collectSources turns a file or directory path into ingestion sources,
// keeping only files with a known extraction strategy.
func collectSources(root, tenantID string, scope core.Scope, companyID string, force bool) ([]ingestion.Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	makeSource := func(path string) ingestion.Source {
		return ingestion.Source{
			TenantID:  tenantID,
			Scope:     scope,
			CompanyID: companyID,
			Path:      path,
			Force:     force,
		}
	}

	if !info.IsDir() {
		return []ingestion.Source{makeSource(root)}, nil
	}

	var sources []ingestion.Source
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if extract.TypeFor(path) == extract.TypeUnknown {
			return nil
		}
		sources = append(sources, makeSource(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("expected a search query")
	}
	query := strings.Join(c.Args().Slice(), " ")

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	filter := core.ScopeFilter{
		TenantID:      c.String("tenant"),
		CompanyID:     c.String("company"),
		IncludeShared: c.Bool("include-shared"),
	}

	snippets, err := searcher.Search(ctx, query, filter, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d snippets\n", len(snippets))
	for i, snippet := range snippets {
		fmt.Printf("%d: [%0.3f] %s (chunk %d)\n", i, snippet.Score, snippet.Title, snippet.Chunk.Index)
		fmt.Printf("   %s\n", snippet.Chunk.Text)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	config := &reembed.Config{
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := engine.NewReembedder(config, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx, c.String("tenant")); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
