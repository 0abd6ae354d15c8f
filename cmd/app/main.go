package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/raymee/postforge/internal"
	pkgconfig "github.com/raymee/postforge/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func withConfig(run func(context.Context, ...internal.Option) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return run(ctx, internal.WithConfig(cfg))
	}
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("POSTFORGE_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "postforge",
		Usage:  "Ingest raw blog post bundles into a static site's canonical layout",
		Flags:  []cli.Flag{configFlag},
		Action: withConfig(internal.Ingest),
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Process raw items and update the post index (default)",
				Action: withConfig(internal.Ingest),
			},
			{
				Name:   "sitemap",
				Usage:  "Regenerate sitemap.xml from the current post index",
				Action: withConfig(internal.RenderSitemap),
			},
			{
				Name:      "search",
				Usage:     "Search ingested posts",
				ArgsUsage: "<query>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					query := cmd.Args().First()
					if query == "" {
						return fmt.Errorf("usage: postforge search <query>")
					}
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return internal.Search(ctx, query, internal.WithConfig(cfg))
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the generated site locally with a read-only JSON API",
				Action: withConfig(internal.Serve),
			},
			{
				Name:   "watch",
				Usage:  "Watch the source root and ingest new items as they arrive",
				Action: withConfig(internal.Watch),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
