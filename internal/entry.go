// Package internal provides the application wiring for the postforge
// commands: ingest, sitemap, search, serve, and watch.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raymee/postforge/internal/api"
	"github.com/raymee/postforge/internal/index"
	"github.com/raymee/postforge/internal/ingest"
	"github.com/raymee/postforge/internal/meta"
	"github.com/raymee/postforge/internal/sitemap"
	"github.com/raymee/postforge/internal/storage"
)

// runtime bundles what every command needs after setup.
type runtime struct {
	cfg      *Config
	logger   *slog.Logger
	site     *storage.FS
	postsRel string
}

func setup(opts ...Option) (*runtime, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	site, err := storage.NewFS(cfg.Site.Root)
	if err != nil {
		return nil, fmt.Errorf("init site storage: %w", err)
	}
	postsRel, err := cfg.PostsRel()
	if err != nil {
		return nil, err
	}

	logger.Info("configuration loaded",
		slog.String("site_root", site.Root()),
		slog.String("source_root", cfg.SourceRoot()),
		slog.String("base_url", cfg.Site.PublicBase()))

	return &runtime{cfg: cfg, logger: logger, site: site, postsRel: postsRel}, nil
}

func (rt *runtime) metaRel() string { return path.Join(rt.postsRel, "posts.json") }

func (rt *runtime) loadIndex() *meta.Index {
	data, err := rt.site.Read(rt.metaRel())
	if err != nil {
		// Missing or unreadable documents start the empty index.
		return meta.Load(nil)
	}
	return meta.Load(data)
}

// ingestPass runs one full ingestion over the source root. The index and
// sitemap are written only when at least one item was committed.
func (rt *runtime) ingestPass() error {
	ix := rt.loadIndex()

	pipeline := &ingest.Pipeline{
		SourceRoot:  rt.cfg.SourceRoot(),
		ArchiveName: rt.cfg.Source.Archive,
		Site:        rt.site,
		PostsRel:    rt.postsRel,
		BaseURL:     rt.cfg.Site.PublicBase(),
		Quality:     rt.cfg.Images.Quality,
		MaxWidth:    rt.cfg.Images.MaxWidth,
		Logger:      rt.logger,
	}

	n, err := pipeline.Run(ix)
	if err != nil {
		return err
	}
	if n == 0 {
		rt.logger.Info("no changes made")
		return nil
	}

	data, err := ix.Marshal()
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := rt.site.Write(rt.metaRel(), data); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := rt.writeSitemap(ix); err != nil {
		return err
	}
	rt.logger.Info("index updated", slog.Int("ingested", n), slog.Int("last_id", ix.LastID))
	return nil
}

func (rt *runtime) writeSitemap(ix *meta.Index) error {
	data, err := sitemap.Render(ix, rt.cfg.Site.PublicBase(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("render sitemap: %w", err)
	}
	if err := rt.site.Write("sitemap.xml", data); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	return nil
}

// Ingest runs one ingestion pass.
func Ingest(_ context.Context, opts ...Option) error {
	rt, err := setup(opts...)
	if err != nil {
		return err
	}
	return rt.ingestPass()
}

// RenderSitemap regenerates sitemap.xml from the current index document.
func RenderSitemap(_ context.Context, opts ...Option) error {
	rt, err := setup(opts...)
	if err != nil {
		return err
	}
	ix := rt.loadIndex()
	if err := rt.writeSitemap(ix); err != nil {
		return err
	}
	rt.logger.Info("sitemap updated", slog.Int("posts", len(ix.Posts)))
	return nil
}

// Search syncs the search index and prints matches for the query.
func Search(_ context.Context, query string, opts ...Option) error {
	rt, err := setup(opts...)
	if err != nil {
		return err
	}
	db, err := index.Open(rt.cfg.SearchDBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := index.Sync(db, rt.site, rt.loadIndex(), rt.logger); err != nil {
		return err
	}
	hits, err := db.Search(query, 20)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, h := range hits {
		fmt.Printf("%4d  %-30s  %s\n", h.ID, h.Slug, h.Title)
		if h.Snippet != "" {
			fmt.Printf("      %s\n", h.Snippet)
		}
	}
	return nil
}

// Watch runs an initial ingestion pass, then re-runs one whenever activity
// in the source root settles. Blocks until ctx is cancelled or a signal
// arrives.
func Watch(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts...)
	if err != nil {
		return err
	}
	if err := rt.ingestPass(); err != nil {
		rt.logger.Error("initial pass failed", slog.String("error", err.Error()))
	}
	if err := os.MkdirAll(rt.cfg.SourceRoot(), 0o755); err != nil {
		return fmt.Errorf("create source root: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return ingest.Watch(ctx, rt.cfg.SourceRoot(), rt.cfg.Source.Archive, rt.logger, func() {
		if err := rt.ingestPass(); err != nil {
			rt.logger.Error("ingestion pass failed", slog.String("error", err.Error()))
		}
	})
}

// Serve starts the preview server over the generated site.
func Serve(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts...)
	if err != nil {
		return err
	}

	db, err := index.Open(rt.cfg.SearchDBPath())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := index.Sync(db, rt.site, rt.loadIndex(), rt.logger); err != nil {
		rt.logger.Warn("search sync failed", slog.String("error", err.Error()))
	}

	router := api.NewRouter(rt.site.Root(), rt.loadIndex, db)
	httpServer := &http.Server{
		Addr:    rt.cfg.Serve.Address(),
		Handler: router,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rt.logger.Info("preview server starting", slog.String("address", rt.cfg.Serve.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			rt.logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			rt.logger.Error("server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		rt.logger.Error("serve error", slog.String("error", err.Error()))
		return err
	}
	rt.logger.Info("server stopped")
	return nil
}
