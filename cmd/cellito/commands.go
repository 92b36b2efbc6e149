// Copyright 2025 Sander Nunes
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
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/SanderNunes/cellito-engine/pkg/cache"
	"github.com/SanderNunes/cellito-engine/pkg/config"
	"github.com/SanderNunes/cellito-engine/pkg/docstore"
	"github.com/SanderNunes/cellito-engine/pkg/engine"
	"github.com/SanderNunes/cellito-engine/pkg/feedback"
	"github.com/SanderNunes/cellito-engine/pkg/llms"
	"github.com/SanderNunes/cellito-engine/pkg/rag"
	"github.com/SanderNunes/cellito-engine/pkg/server"
	"github.com/SanderNunes/cellito-engine/pkg/websearch"
)

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("cellito version %s\n", version)
	return nil
}

// runtime bundles everything a command needs: the engine, its metrics
// registry and the directory sources that can be watched.
type runtime struct {
	cfg      *config.Config
	engine   *engine.Engine
	registry *prometheus.Registry
	sources  []*docstore.DirectorySource
	feedback feedback.Store
}

func (rt *runtime) Close() {
	if rt.feedback != nil {
		if err := rt.feedback.Close(); err != nil {
			slog.Warn("Failed to close feedback store", "error", err)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		slog.Info("No config file given, using defaults")
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slog.Info("Loaded configuration", "path", path)
	return cfg, nil
}

func buildRuntime(cfg *config.Config) (*runtime, error) {
	store, err := cache.NewFileStore(cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare cache directory: %w", err)
	}

	var managers []*rag.Manager
	var sources []*docstore.DirectorySource

	if cfg.Corpus.ArticlesDir != "" {
		src := docstore.NewDirectorySource(cfg.Corpus.ArticlesDir, rag.SourceArticles)
		sources = append(sources, src)
		managers = append(managers, rag.NewManager(src, store,
			rag.NewIndexer(cfg.Retrieval.Articles), rag.CacheKeyFor(rag.SourceArticles)))
	}
	if cfg.Corpus.FilesDir != "" {
		src := docstore.NewDirectorySource(cfg.Corpus.FilesDir, rag.SourceFiles)
		sources = append(sources, src)
		managers = append(managers, rag.NewManager(src, store,
			rag.NewIndexer(cfg.Retrieval.Files), rag.CacheKeyFor(rag.SourceFiles)))
	}
	if len(managers) == 0 {
		return nil, fmt.Errorf("no corpus configured: set corpus.articles_dir or corpus.files_dir")
	}

	provider, err := llms.NewProvider(cfg.LLM)
	if err != nil {
		return nil, err
	}

	var searcher websearch.Searcher = websearch.NilSearcher{}
	if config.BoolValue(cfg.WebSearch.Enabled, false) {
		searcher = websearch.NewHTTPSearcher(cfg.WebSearch)
	}

	var qnaStore feedback.Store
	if cfg.Feedback.Path != "" {
		qnaStore, err = feedback.NewSQLStore(cfg.Feedback.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open feedback store: %w", err)
		}
	} else {
		qnaStore = feedback.NewMemoryStore()
	}

	registry := prometheus.NewRegistry()
	eng := engine.New(engine.Options{
		Config:   cfg,
		Managers: managers,
		Provider: provider,
		Searcher: searcher,
		Feedback: qnaStore,
		Registry: registry,
	})

	return &runtime{
		cfg:      cfg,
		engine:   eng,
		registry: registry,
		sources:  sources,
		feedback: qnaStore,
	}, nil
}

// IndexCmd builds or refreshes the document index.
type IndexCmd struct {
	Force bool `help:"Discard the cached index and rebuild from the sources."`
}

func (c *IndexCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}

	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	if c.Force {
		if err := rt.engine.Invalidate(ctx); err != nil {
			return fmt.Errorf("failed to discard cached index: %w", err)
		}
	}
	if err := rt.engine.Reindex(ctx); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	docs, chunks := rt.engine.IndexStats()
	fmt.Printf("Indexed %d documents (%d chunks)\n", docs, chunks)
	return nil
}

// AskCmd answers a single question from the command line.
type AskCmd struct {
	Query []string `arg:"" help:"The question to answer."`
}

func (c *AskCmd) Run(cli *CLI) error {
	query := strings.TrimSpace(strings.Join(c.Query, " "))
	if query == "" {
		return fmt.Errorf("query must not be empty")
	}

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}

	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	if err := rt.engine.Reindex(ctx); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	answer, err := rt.engine.Ask(ctx, query)
	if err != nil {
		return err
	}

	fmt.Println(answer.Content)
	fmt.Printf("\n(confidence: %d%%, internal chunks: %d, web results: %d, took %s)\n",
		answer.Confidence,
		answer.QueryInfo.InternalChunks,
		answer.QueryInfo.WebResults,
		answer.QueryInfo.Duration.Round(time.Millisecond))
	return nil
}

// ServeCmd starts the HTTP server.
type ServeCmd struct {
	Port int `help:"Port to listen on (overrides config)."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
	}()

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}

	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.engine.Reindex(ctx); err != nil {
		slog.Warn("Initial indexing failed, continuing with empty index", "error", err)
	}

	if config.BoolValue(cfg.Corpus.Watch, true) {
		for _, src := range rt.sources {
			watcher, err := docstore.NewWatcher(src, func() {
				if err := rt.engine.Reindex(context.Background()); err != nil {
					slog.Warn("Reindex after corpus change failed", "error", err)
				}
			})
			if err != nil {
				slog.Warn("Failed to watch corpus directory", "error", err)
				continue
			}
			watcher.Start(ctx)
			defer watcher.Close()
		}
	}

	srv := server.NewHTTPServer(cfg, rt.engine, server.WithRegistry(rt.registry))

	fmt.Printf("\nCellito server ready!\n")
	fmt.Printf("   Ask:      POST http://%s/v1/ask\n", cfg.Server.Address())
	fmt.Printf("   Reindex:  POST http://%s/v1/reindex\n", cfg.Server.Address())
	fmt.Printf("   Feedback: POST http://%s/v1/feedback\n", cfg.Server.Address())
	fmt.Printf("   Health:   GET  http://%s/healthz\n", cfg.Server.Address())
	fmt.Printf("   Metrics:  GET  http://%s/metrics\n", cfg.Server.Address())
	fmt.Println("\nPress Ctrl+C to stop")

	return srv.Start(ctx)
}
