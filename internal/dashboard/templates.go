package dashboard

import (
	"embed"
)

//go:embed templates/*
var templateFS embed.FS

// TemplateLoader handles loading HTML templates and CSS styles
type TemplateLoader struct {
	fs embed.FS
}

// NewTemplateLoader creates a new template loader
func NewTemplateLoader() *TemplateLoader {
	return &TemplateLoader{fs: templateFS}
}

// LoadHTMLTemplate loads the page template
func (t *TemplateLoader) LoadHTMLTemplate() (string, error) {
	return t.read("templates/page.html")
}

// LoadCSSStyles loads the page stylesheet
func (t *TemplateLoader) LoadCSSStyles() (string, error) {
	return t.read("templates/styles.css")
}

// LoadIntro loads the markdown shown above the form
func (t *TemplateLoader) LoadIntro() (string, error) {
	return t.read("templates/intro.md")
}

func (t *TemplateLoader) read(name string) (string, error) {
	content, err := t.fs.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
