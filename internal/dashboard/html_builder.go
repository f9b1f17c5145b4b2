package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"pricecast/internal/charts"
	"pricecast/internal/config"
	"pricecast/internal/reference"
)

// PageTitle heads every dashboard page
const PageTitle = "Commodity Price Prediction and Visualization"

// HTMLBuilder handles HTML generation with goldmark and html/template
type HTMLBuilder struct {
	tables   *reference.Tables
	page     *template.Template
	intro    template.HTML
	css      template.CSS
	goldmark goldmark.Markdown
}

// option is one entry of a select or radio group
type option struct {
	Value    string
	Label    string
	Selected bool
}

// TemplateData represents the data structure for the page template
type TemplateData struct {
	Title       string
	Intro       template.HTML
	CSS         template.CSS
	Version     string
	EChartsURL  string
	ThemeURL    string
	GeneratedAt string

	View        *View
	Modes       []option
	Commodities []option
	States      []option
	MinHorizon  int
	MaxHorizon  int
}

// NewHTMLBuilder parses the embedded page template and renders the intro
func NewHTMLBuilder(tables *reference.Tables) (*HTMLBuilder, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	loader := NewTemplateLoader()
	pageSrc, err := loader.LoadHTMLTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load HTML template: %w", err)
	}
	page, err := template.New("page").Parse(pageSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	css, err := loader.LoadCSSStyles()
	if err != nil {
		return nil, fmt.Errorf("failed to load CSS: %w", err)
	}
	introSrc, err := loader.LoadIntro()
	if err != nil {
		return nil, fmt.Errorf("failed to load intro: %w", err)
	}

	b := &HTMLBuilder{tables: tables, page: page, css: template.CSS(css), goldmark: md}
	intro, err := b.ConvertMarkdownToHTML(introSrc)
	if err != nil {
		return nil, err
	}
	b.intro = template.HTML(intro)
	return b, nil
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// Render executes the page template for view
func (h *HTMLBuilder) Render(w io.Writer, view *View) error {
	req := view.Request
	data := TemplateData{
		Title:       PageTitle,
		Intro:       h.intro,
		CSS:         h.css,
		Version:     config.GetVersion(),
		EChartsURL:  charts.EChartsScriptURL,
		ThemeURL:    charts.EChartsThemeURL,
		GeneratedAt: view.GeneratedAt.Format("2006-01-02 15:04:05 UTC"),
		View:        view,
		MinHorizon:  reference.MinHorizon,
		MaxHorizon:  reference.MaxHorizon,
	}

	for _, m := range []ViewMode{LineView, MapView} {
		data.Modes = append(data.Modes, option{Value: string(m), Label: m.Label(), Selected: m == req.Mode})
	}
	for _, c := range h.tables.CommodityNames() {
		data.Commodities = append(data.Commodities, option{Value: c, Label: c, Selected: c == req.Commodity})
	}
	for _, s := range h.tables.StateNames() {
		data.States = append(data.States, option{Value: s, Label: s, Selected: s == req.State})
	}

	// Render to a buffer so a template error never leaves half a page
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
