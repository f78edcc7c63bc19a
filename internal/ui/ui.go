// Package ui describes the single-page form and renders it to HTML.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/louiecerv/nvapp/internal/completion"
	"github.com/louiecerv/nvapp/internal/prompt"
)

// Form field names, shared by the template and the page handler.
const (
	FieldPlatform = "platform"
	FieldTask     = "task"
	FieldModel    = "model"
	FieldPrompt   = "prompt"
	FieldResponse = "response"
)

const (
	KindTextbox  = "textbox"
	KindMarkdown = "markdown"
)

type Dropdown struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Choices []string `json:"choices"`
}

type Output struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// Form is a declarative description of the page: dropdown inputs feed one
// action whose results fill the outputs, stacked in a single column.
type Form struct {
	Title   string     `json:"title"`
	Inputs  []Dropdown `json:"inputs"`
	Outputs []Output   `json:"outputs"`
}

// NewForm describes the app page. A model dropdown is added only when there
// is more than one backend to choose from.
func NewForm(models []completion.ModelInfo) Form {
	f := Form{
		Title: "Create an AI App using the Nvidia AI Model",
		Inputs: []Dropdown{
			{Name: FieldPlatform, Label: "Choose the platform:", Choices: prompt.Platforms()},
			{Name: FieldTask, Label: "Select a task:", Choices: prompt.Tasks()},
		},
		Outputs: []Output{
			{Name: FieldPrompt, Label: "Generated AI Prompt:", Kind: KindTextbox},
			{Name: FieldResponse, Label: "AI Response:", Kind: KindMarkdown},
		},
	}
	if len(models) > 1 {
		ids := make([]string, len(models))
		for i, m := range models {
			ids[i] = m.ID
		}
		f.Inputs = append(f.Inputs, Dropdown{Name: FieldModel, Label: "Model:", Choices: ids})
	}
	return f
}

// View is one rendering of a Form.
type View struct {
	Form     Form
	Selected map[string]string
	Values   map[string]string
	Error    string
}

//go:embed templates/index.html
var templateFS embed.FS

var page = template.Must(template.New("index.html").
	Funcs(template.FuncMap{"markdown": Markdown}).
	ParseFS(templateFS, "templates/index.html"))

// Render writes the HTML page for v.
func Render(w io.Writer, v View) error {
	if err := page.Execute(w, v); err != nil {
		return fmt.Errorf("ui: render: %w", err)
	}
	return nil
}

var md = goldmark.New(goldmark.WithRendererOptions(
	renderer.WithNodeRenderers(util.Prioritized(escapedHTML{}, 100)),
))

// escapedHTML replaces goldmark's raw HTML handling so tags in model output
// show up as text.
type escapedHTML struct{}

func (escapedHTML) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindRawHTML, renderRawHTML)
	reg.Register(ast.KindHTMLBlock, renderHTMLBlock)
}

func renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		w.Write(util.EscapeHTML(seg.Value(source)))
	}
	return ast.WalkSkipChildren, nil
}

func renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if entering {
		w.WriteString("<p>")
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			w.Write(util.EscapeHTML(line.Value(source)))
		}
		return ast.WalkContinue, nil
	}
	if n.HasClosure() {
		w.Write(util.EscapeHTML(n.ClosureLine.Value(source)))
	}
	w.WriteString("</p>\n")
	return ast.WalkContinue, nil
}

// Markdown converts model output to HTML. Raw HTML in the source is escaped,
// so the result is safe to embed.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("ui: markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
