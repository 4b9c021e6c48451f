package dialog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/skriptgen/skriptgen/internal/catalog"
)

// Supported output formats for SaveScript.
const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatHTML = "html"
)

// SaveScript assembles the script and writes it to dir in the given format.
// It returns the full path of the written file.
func (c *Controller) SaveScript(dir, fileFormat string) (string, error) {
	script, err := c.GenerateScript()
	if err != nil {
		return "", err
	}
	return WriteScript(script, dir, fileFormat, time.Now())
}

// GenerateHTMLScript assembles the script and renders it as a standalone
// HTML document.
func (c *Controller) GenerateHTMLScript() (string, error) {
	script, err := c.GenerateScript()
	if err != nil {
		return "", err
	}
	return RenderHTML(script)
}

// GetScriptSummary assembles the script and renders a short plain-text
// overview.
func (c *Controller) GetScriptSummary() (string, error) {
	script, err := c.GenerateScript()
	if err != nil {
		return "", err
	}
	return Summary(script), nil
}

// WriteScript persists a script to dir. The filename combines the sanitized
// organization and audience with a timestamp.
func WriteScript(script catalog.Script, dir, fileFormat string, now time.Time) (string, error) {
	var content string
	switch fileFormat {
	case FormatText:
		content = RenderText(script)
	case FormatJSON:
		data, err := json.MarshalIndent(script, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding script: %w", err)
		}
		content = string(data)
	case FormatHTML:
		rendered, err := RenderHTML(script)
		if err != nil {
			return "", err
		}
		content = rendered
	default:
		return "", fmt.Errorf("unsupported script format %q", fileFormat)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := ScriptFilename(script.Organization, script.Audience, fileFormat, now)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ScriptFilename derives a filesystem-safe name from the organization and
// audience plus a timestamp.
func ScriptFilename(organization, audience, fileFormat string, now time.Time) string {
	org := sanitizeName(organization)
	if org == "" {
		org = "skript"
	}
	aud := sanitizeName(audience)
	if aud == "" {
		aud = "allgemein"
	}
	return fmt.Sprintf("%s_%s_%s.%s", org, aud, now.Format("20060102_150405"), fileFormat)
}

// sanitizeName keeps letters, digits and spaces, then collapses runs of
// spaces into single underscores.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), "_")
}

// RenderText renders the script as flat text: title, description, then each
// section as heading plus content in catalog order.
func RenderText(script catalog.Script) string {
	var sb strings.Builder
	sb.WriteString(script.Title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", len([]rune(script.Title))))
	sb.WriteString("\n\n")
	if script.Description != "" {
		sb.WriteString(script.Description)
		sb.WriteString("\n\n")
	}
	for _, section := range script.Sections {
		sb.WriteString(section.Title)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("-", len([]rune(section.Title))))
		sb.WriteString("\n")
		if section.Content != "" {
			sb.WriteString(section.Content)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summary renders a short plain-text overview of the script.
func Summary(script catalog.Script) string {
	var sb strings.Builder
	sb.WriteString(script.Title)
	sb.WriteString("\n\n")
	if script.Organization != "" {
		fmt.Fprintf(&sb, "Organisation: %s\n", script.Organization)
	}
	if script.Audience != "" {
		fmt.Fprintf(&sb, "Zielgruppe: %s\n", script.Audience)
	}
	fmt.Fprintf(&sb, "Abschnitte: %d\n\n", len(script.Sections))
	for i, section := range script.Sections {
		preview := firstSentence(section.Content)
		if preview == "" {
			preview = "(noch kein Inhalt)"
		}
		fmt.Fprintf(&sb, "%d. %s: %s\n", i+1, section.Title, preview)
	}
	return sb.String()
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			return text[:i+1]
		}
	}
	return text
}

var htmlPageTemplate = template.Must(template.New("script").Parse(`<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; color: #1f2328; }
h1 { border-bottom: 2px solid #d0d7de; padding-bottom: .3rem; }
h2 { margin-top: 2rem; border-bottom: 1px solid #d0d7de; padding-bottom: .2rem; }
.meta { color: #57606a; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Organization}}<p class="meta">Organisation: {{.Organization}}{{if .Audience}} &middot; Zielgruppe: {{.Audience}}{{end}}</p>{{end}}
{{.Body}}
</body>
</html>
`))

type htmlPageData struct {
	Title        string
	Organization string
	Audience     string
	Body         template.HTML
}

// RenderHTML renders the script as a standalone HTML document. Section
// content is treated as markdown.
func RenderHTML(script catalog.Script) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	var mdBuf bytes.Buffer
	if script.Description != "" {
		mdBuf.WriteString(script.Description)
		mdBuf.WriteString("\n\n")
	}
	for _, section := range script.Sections {
		fmt.Fprintf(&mdBuf, "## %s\n\n", section.Title)
		if section.Content != "" {
			mdBuf.WriteString(section.Content)
			mdBuf.WriteString("\n\n")
		}
	}

	var bodyBuf bytes.Buffer
	if err := md.Convert(mdBuf.Bytes(), &bodyBuf); err != nil {
		return "", fmt.Errorf("converting script markdown: %w", err)
	}

	var out bytes.Buffer
	err := htmlPageTemplate.Execute(&out, htmlPageData{
		Title:        script.Title,
		Organization: script.Organization,
		Audience:     script.Audience,
		Body:         template.HTML(bodyBuf.String()),
	})
	if err != nil {
		return "", fmt.Errorf("rendering script page: %w", err)
	}
	return out.String(), nil
}
