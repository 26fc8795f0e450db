package api

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	policy = bluemonday.UGCPolicy()
)

// renderMarkdown renders user-authored homework content to sanitized HTML.
// Remote-sourced content is passed through the sanitizer as-is.
func renderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return policy.Sanitize(source)
	}
	return string(policy.SanitizeBytes(buf.Bytes()))
}
