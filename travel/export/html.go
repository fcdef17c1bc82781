package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/voyagerhq/voyager/travel/model"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; color: #222; }
h1 { border-bottom: 2px solid #2a6df4; padding-bottom: .3rem; }
h2 { margin-top: 2rem; color: #2a6df4; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: .4rem .8rem; }
</style>
</head>
<body>
%s</body>
</html>
`

// HTML renders the itinerary markdown to a standalone HTML file in dir and
// returns the file path.
func HTML(itinerary *model.Itinerary, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create output dir")
	}

	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(RenderMarkdown(itinerary)), &body); err != nil {
		return "", errors.Wrap(err, "render html")
	}

	doc := fmt.Sprintf(htmlShell, template.HTMLEscapeString(itinerary.Title), body.String())
	path := filepath.Join(dir, itinerary.Slug()+".html")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", errors.Wrap(err, "write html")
	}
	return path, nil
}
