package richtext

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parse(t *testing.T, fragment string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestRenderMarkdown(t *testing.T) {
	out, err := Render("## Lab Management\n\n- Quality control\n- Good laboratory practice\n\n[Apply](https://sparkle.example/apply)")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := parse(t, out)
	if got := doc.Find("h2").Text(); got != "Lab Management" {
		t.Fatalf("expected heading, got %q in %s", got, out)
	}
	if n := doc.Find("li").Length(); n != 2 {
		t.Fatalf("expected 2 list items, got %d", n)
	}
	link := doc.Find("a")
	if rel, _ := link.Attr("rel"); !strings.Contains(rel, "nofollow") {
		t.Fatalf("expected nofollow on links, got %q", rel)
	}
}

func TestRenderStripsScripts(t *testing.T) {
	out, err := Render("Hello <script>alert(1)</script><b onclick=\"x()\">world</b>")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := parse(t, out)
	if doc.Find("script").Length() != 0 {
		t.Fatalf("expected script removed: %s", out)
	}
	if _, ok := doc.Find("b").Attr("onclick"); ok {
		t.Fatalf("expected event handler removed: %s", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	out, err := Render("   ")
	if err != nil || out != "" {
		t.Fatalf("expected empty output, got %q, %v", out, err)
	}
}

func TestPlainText(t *testing.T) {
	if got := PlainText("<p>Master the <em>art</em>\n of testing</p>"); got != "Master the art of testing" {
		t.Fatalf("unexpected plain text %q", got)
	}
}
