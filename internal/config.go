package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Site   SiteConfig        `yaml:"site"`
	Source SourceConfig      `yaml:"source"`
	Posts  PostsConfig       `yaml:"posts"`
	Images ImagesConfig      `yaml:"images"`
	Search SearchConfig      `yaml:"search"`
	Serve  ServeConfig       `yaml:"serve"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if err := c.Posts.Validate(); err != nil {
		return err
	}
	if err := c.Images.Validate(); err != nil {
		return err
	}
	return c.Serve.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// SiteConfig describes the static site being maintained.
type SiteConfig struct {
	// BaseURL is the public URL the site is served from. Canonical links
	// and sitemap entries are built against it.
	BaseURL string `yaml:"base_url"`
	// Root is the local directory holding the site tree.
	Root string `yaml:"root"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Root, validation.Required),
	)
}

// PublicBase returns the base URL with a trailing slash, so relative post
// paths can be appended directly.
func (c *SiteConfig) PublicBase() string {
	if strings.HasSuffix(c.BaseURL, "/") {
		return c.BaseURL
	}
	return c.BaseURL + "/"
}

// SourceConfig holds the raw-item intake locations.
type SourceConfig struct {
	// Root is the directory scanned for unprocessed items, relative to
	// the site root unless absolute.
	Root string `yaml:"root"`
	// Archive is the name of the subdirectory under Root that holds
	// consumed items. It is excluded from discovery.
	Archive string `yaml:"archive"`
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Archive, validation.Required),
	); err != nil {
		return err
	}
	if strings.ContainsAny(c.Archive, `/\`) {
		return fmt.Errorf("source: archive must be a plain directory name, got %q", c.Archive)
	}
	return nil
}

// PostsConfig holds the destination layout for ingested posts.
type PostsConfig struct {
	// Dir is the directory holding the per-id post directories and the
	// posts.json index, relative to the site root unless absolute.
	Dir string `yaml:"dir"`
}

// Validate validates the posts configuration.
func (c *PostsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// ImagesConfig controls the image transcode step.
type ImagesConfig struct {
	// Quality is the lossy webp quality (1-100).
	Quality int `yaml:"quality"`
	// MaxWidth caps image width in pixels; wider images are downscaled.
	// Zero disables downscaling.
	MaxWidth int `yaml:"max_width"`
}

// Validate validates the images configuration.
func (c *ImagesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Quality, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.MaxWidth, validation.Min(0)),
	)
}

// SearchConfig holds the derived search index location.
type SearchConfig struct {
	// DBPath is the SQLite database path, relative to the site root
	// unless absolute.
	DBPath string `yaml:"db_path"`
}

// ServeConfig holds preview server configuration.
type ServeConfig struct {
	Port int `yaml:"port"`
}

// Address returns the preview server listen address.
func (c *ServeConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the serve configuration.
func (c *ServeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// resolve joins p to the site root unless p is already absolute.
func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Site.Root, p)
}

// SourceRoot returns the absolute-or-site-rooted raw intake directory.
func (c *Config) SourceRoot() string { return c.resolve(c.Source.Root) }

// PostsDir returns the directory holding post directories and posts.json.
func (c *Config) PostsDir() string { return c.resolve(c.Posts.Dir) }

// SearchDBPath returns the search index database path.
func (c *Config) SearchDBPath() string { return c.resolve(c.Search.DBPath) }

// PostsRel returns the posts directory as a slash-separated path relative
// to the site root, used when building public record paths.
func (c *Config) PostsRel() (string, error) {
	if !filepath.IsAbs(c.Posts.Dir) {
		return filepath.ToSlash(filepath.Clean(c.Posts.Dir)), nil
	}
	rel, err := filepath.Rel(c.Site.Root, c.Posts.Dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("posts dir %s is outside the site root %s", c.Posts.Dir, c.Site.Root)
	}
	return filepath.ToSlash(rel), nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Site: SiteConfig{
			BaseURL: "http://localhost:8080/",
			Root:    ".",
		},
		Source: SourceConfig{
			Root:    "data/BlogData/RawData",
			Archive: "processed",
		},
		Posts: PostsConfig{
			Dir: "data/BlogData",
		},
		Images: ImagesConfig{
			Quality:  85,
			MaxWidth: 1600,
		},
		Search: SearchConfig{
			DBPath: "data/postforge.db",
		},
		Serve: ServeConfig{
			Port: 8080,
		},
	}
}
