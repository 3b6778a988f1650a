package content

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func TestBundledPages(t *testing.T) {
	store := NewStore("")

	if got, want := store.Slugs(), []string{"privacy-policy", "refund-policy", "terms"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("slugs = %v, want %v", got, want)
	}

	page, err := store.Page("terms")
	if err != nil {
		t.Fatalf("terms: %v", err)
	}
	if page.Title != "Terms and Conditions" {
		t.Fatalf("title = %q", page.Title)
	}
	if want := time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC); !page.UpdatedAt.Equal(want) {
		t.Fatalf("updated = %v", page.UpdatedAt)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	if n := doc.Find("h2").Length(); n != 7 {
		t.Fatalf("expected 7 sections, got %d", n)
	}
	if href, _ := doc.Find("a").First().Attr("href"); href != "mailto:legal@sparkle.edu" {
		t.Fatalf("contact link = %q", href)
	}
}

func TestPageNotFound(t *testing.T) {
	store := NewStore("")
	for _, slug := range []string{"missing", "", "../terms", "Terms/../x"} {
		if _, err := store.Page(slug); !errors.Is(err, ErrNotFound) {
			t.Errorf("Page(%q) err = %v, want ErrNotFound", slug, err)
		}
	}
}

func TestOverrideDirTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	override := "---\ntitle: Custom Terms\n---\n\nShort <script>alert(1)</script> version."
	if err := os.WriteFile(filepath.Join(dir, "terms.md"), []byte(override), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "admissions-faq.md"), []byte("# Admissions"), 0o600); err != nil {
		t.Fatal(err)
	}
	store := NewStore(dir)

	page, err := store.Page("terms")
	if err != nil {
		t.Fatalf("terms: %v", err)
	}
	if page.Title != "Custom Terms" {
		t.Fatalf("title = %q", page.Title)
	}
	if strings.Contains(page.HTML, "<script") {
		t.Fatalf("html not sanitized: %q", page.HTML)
	}

	faq, err := store.Page("admissions-faq")
	if err != nil {
		t.Fatalf("faq: %v", err)
	}
	if faq.Title != "Admissions Faq" {
		t.Fatalf("prettified title = %q", faq.Title)
	}

	if _, err := store.Page("privacy-policy"); err != nil {
		t.Fatalf("bundled fallback: %v", err)
	}
}

func TestPageCacheExpires(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notice.md")
	if err := os.WriteFile(file, []byte("---\ntitle: First\n---\nbody"), 0o600); err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(dir)
	store.now = func() time.Time { return now }

	if page, _ := store.Page("notice"); page.Title != "First" {
		t.Fatalf("title = %q", page.Title)
	}
	if err := os.WriteFile(file, []byte("---\ntitle: Second\n---\nbody"), 0o600); err != nil {
		t.Fatal(err)
	}
	if page, _ := store.Page("notice"); page.Title != "First" {
		t.Fatalf("expected cached title, got %q", page.Title)
	}
	now = now.Add(defaultCacheTTL + time.Second)
	if page, _ := store.Page("notice"); page.Title != "Second" {
		t.Fatalf("expected refreshed title, got %q", page.Title)
	}
}
