package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sparkle-learn/platform/internal/richtext"
)

// ErrNotFound is returned when no page exists for a slug.
var ErrNotFound = errors.New("content: not found")

//go:embed pages/*.md
var bundled embed.FS

const defaultCacheTTL = 5 * time.Minute

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Page is a static informational page rendered from markdown.
type Page struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	HTML      string    `json:"html"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
	SEO       SEO       `json:"seo"`
}

// SEO holds page head overrides.
type SEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type frontMatter struct {
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	UpdatedAt string `yaml:"updated_at"`
	SEO       struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"seo"`
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

// Store serves pages from an optional override directory, falling back to the bundled set.
type Store struct {
	sources []fs.FS
	ttl     time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewStore builds a Store. dir may be empty to serve bundled pages only.
func NewStore(dir string) *Store {
	pages, _ := fs.Sub(bundled, "pages")
	sources := []fs.FS{pages}
	if dir = strings.TrimSpace(dir); dir != "" {
		sources = append([]fs.FS{os.DirFS(dir)}, sources...)
	}
	return &Store{
		sources: sources,
		ttl:     defaultCacheTTL,
		now:     time.Now,
		cache:   map[string]cacheEntry{},
	}
}

// Page returns the rendered page for slug.
func (s *Store) Page(slug string) (Page, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return Page{}, ErrNotFound
	}

	s.mu.RLock()
	entry, ok := s.cache[slug]
	s.mu.RUnlock()
	if ok && s.now().Before(entry.expires) {
		return entry.page, nil
	}

	page, err := s.load(slug)
	if err != nil {
		return Page{}, err
	}
	s.mu.Lock()
	s.cache[slug] = cacheEntry{page: page, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return page, nil
}

// Slugs lists every available page slug in sorted order.
func (s *Store) Slugs() []string {
	seen := map[string]struct{}{}
	for _, src := range s.sources {
		matches, err := fs.Glob(src, "*.md")
		if err != nil {
			continue
		}
		for _, m := range matches {
			slug := strings.TrimSuffix(path.Base(m), ".md")
			if slugPattern.MatchString(slug) {
				seen[slug] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for slug := range seen {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

func (s *Store) load(slug string) (Page, error) {
	for _, src := range s.sources {
		data, err := fs.ReadFile(src, slug+".md")
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Page{}, fmt.Errorf("content: read %s: %w", slug, err)
		}
		return parsePage(slug, data)
	}
	return Page{}, ErrNotFound
}

func parsePage(slug string, data []byte) (Page, error) {
	fm, body := splitFrontMatter(string(data))
	var front frontMatter
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("content: parse front matter %s: %w", slug, err)
		}
	}
	html, err := richtext.Render(body)
	if err != nil {
		return Page{}, fmt.Errorf("content: render %s: %w", slug, err)
	}
	page := Page{
		Slug:    slug,
		Title:   strings.TrimSpace(front.Title),
		Summary: strings.TrimSpace(front.Summary),
		HTML:    html,
		SEO: SEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
		},
	}
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(front.UpdatedAt)); err == nil {
		page.UpdatedAt = t
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	return page, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\r\n")
		}
	}
	return "", input
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part != "" {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
