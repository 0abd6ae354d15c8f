package internal

import (
	"os"
	"path/filepath"
	"testing"

	pkgconfig "github.com/raymee/postforge/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate_BadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.Site.BaseURL = "" }},
		{"port too large", func(c *Config) { c.Serve.Port = 70000 }},
		{"zero quality", func(c *Config) { c.Images.Quality = 0 }},
		{"quality above range", func(c *Config) { c.Images.Quality = 101 }},
		{"archive with separator", func(c *Config) { c.Source.Archive = "a/b" }},
		{"missing posts dir", func(c *Config) { c.Posts.Dir = "" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			c.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	yaml := `
site:
  base_url: "https://blog.example/"
  root: "/srv/site"
source:
  root: "incoming"
  archive: "done"
images:
  quality: 70
  max_width: 800
serve:
  port: 9000
`
	if err := os.WriteFile(p, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(p, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.BaseURL != "https://blog.example/" {
		t.Errorf("base_url = %q", cfg.Site.BaseURL)
	}
	if cfg.SourceRoot() != filepath.Join("/srv/site", "incoming") {
		t.Errorf("SourceRoot = %q", cfg.SourceRoot())
	}
	if cfg.Images.Quality != 70 || cfg.Images.MaxWidth != 800 {
		t.Errorf("images = %+v", cfg.Images)
	}
	// Unset sections keep their defaults.
	if cfg.Posts.Dir != "data/BlogData" {
		t.Errorf("posts dir = %q, want default", cfg.Posts.Dir)
	}
}

func TestLoadOptional_MissingFileKeepsDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), cfg); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.Serve.Port != 8080 {
		t.Errorf("port = %d, want default", cfg.Serve.Port)
	}
}

func TestPublicBase_TrailingSlash(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Site.BaseURL = "https://blog.example"
	if got := cfg.Site.PublicBase(); got != "https://blog.example/" {
		t.Errorf("PublicBase = %q", got)
	}
	cfg.Site.BaseURL = "https://blog.example/"
	if got := cfg.Site.PublicBase(); got != "https://blog.example/" {
		t.Errorf("PublicBase = %q", got)
	}
}

func TestPostsRel(t *testing.T) {
	cfg := NewDefaultConfig()
	rel, err := cfg.PostsRel()
	if err != nil {
		t.Fatal(err)
	}
	if rel != "data/BlogData" {
		t.Errorf("PostsRel = %q", rel)
	}

	cfg.Site.Root = "/srv/site"
	cfg.Posts.Dir = "/srv/site/data/BlogData"
	rel, err = cfg.PostsRel()
	if err != nil {
		t.Fatal(err)
	}
	if rel != "data/BlogData" {
		t.Errorf("PostsRel = %q", rel)
	}

	cfg.Posts.Dir = "/elsewhere/posts"
	if _, err := cfg.PostsRel(); err == nil {
		t.Error("expected error for posts dir outside site root")
	}
}
