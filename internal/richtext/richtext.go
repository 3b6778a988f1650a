// Package richtext turns author supplied markdown or HTML into markup that is safe to embed in pages.
package richtext

import (
	"bytes"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	initOnce sync.Once
	md       goldmark.Markdown
	policy   *bluemonday.Policy
)

func setup() {
	initOnce.Do(func() {
		md = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		)
		policy = bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
}

// Render converts markdown to sanitized HTML. Raw HTML inside the source survives only when the
// sanitizer allows it.
func Render(source string) (string, error) {
	setup()
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return Sanitize(buf.String()), nil
}

// Sanitize strips unsafe markup from an HTML fragment.
func Sanitize(fragment string) string {
	setup()
	return strings.TrimSpace(policy.Sanitize(fragment))
}

// PlainText drops all markup, leaving readable text suitable for meta descriptions.
func PlainText(fragment string) string {
	text := bluemonday.StrictPolicy().Sanitize(fragment)
	return strings.Join(strings.Fields(text), " ")
}
