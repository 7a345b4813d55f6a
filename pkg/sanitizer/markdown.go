package sanitizer

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown converts markdown source to HTML and passes the result through
// the UGC policy, so raw HTML embedded in the source cannot inject scripts.
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("sanitizer: convert markdown: %w", err)
	}
	return ugc().Sanitize(buf.String()), nil
}
