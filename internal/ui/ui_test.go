package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/louiecerv/nvapp/internal/completion"
	"github.com/louiecerv/nvapp/internal/prompt"
)

func TestNewForm(t *testing.T) {
	f := NewForm([]completion.ModelInfo{{ID: "mock"}})

	if f.Title != "Create an AI App using the Nvidia AI Model" {
		t.Errorf("title: got %q", f.Title)
	}
	if len(f.Inputs) != 2 {
		t.Fatalf("inputs: got %d, want 2", len(f.Inputs))
	}
	if f.Inputs[0].Label != "Choose the platform:" || f.Inputs[1].Label != "Select a task:" {
		t.Errorf("input labels: got %q, %q", f.Inputs[0].Label, f.Inputs[1].Label)
	}
	if len(f.Inputs[1].Choices) != 3 {
		t.Errorf("task choices: got %d, want 3", len(f.Inputs[1].Choices))
	}
	if len(f.Outputs) != 2 || f.Outputs[1].Kind != KindMarkdown {
		t.Errorf("outputs: got %+v", f.Outputs)
	}
}

func TestNewFormModelDropdown(t *testing.T) {
	f := NewForm([]completion.ModelInfo{{ID: "a"}, {ID: "b"}})
	if len(f.Inputs) != 3 {
		t.Fatalf("inputs: got %d, want 3", len(f.Inputs))
	}
	m := f.Inputs[2]
	if m.Name != FieldModel || len(m.Choices) != 2 || m.Choices[1] != "b" {
		t.Errorf("model dropdown: got %+v", m)
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, View{Form: NewForm(nil)}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<title>Create an AI App using the Nvidia AI Model</title>",
		`<select id="platform" name="platform" required>`,
		`<option value="Streamlit">Streamlit</option>`,
		`<option value="Code the Program on the select platform">`,
		`<option value="" disabled selected hidden>`,
		"Generated AI Prompt:",
		"AI Response:",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(html, `class="error"`) {
		t.Error("empty view should not render an error")
	}
}

func TestRenderResult(t *testing.T) {
	v := View{
		Form:     NewForm(nil),
		Selected: map[string]string{FieldPlatform: prompt.PlatformGradio, FieldTask: prompt.TaskDeploy},
		Values: map[string]string{
			FieldPrompt:   "Deploy a <Gradio> app",
			FieldResponse: "## Steps\n\n```bash\npip install gradio\n```\n<script>alert(1)</script>",
		},
	}

	var buf bytes.Buffer
	if err := Render(&buf, v); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()

	if !strings.Contains(html, `<option value="Gradio" selected>`) {
		t.Error("platform selection not kept")
	}
	if !strings.Contains(html, "Deploy a &lt;Gradio&gt; app</textarea>") {
		t.Error("prompt textbox not escaped")
	}
	if !strings.Contains(html, "<h2>Steps</h2>") {
		t.Error("markdown heading not rendered")
	}
	if !strings.Contains(html, `<code class="language-bash">pip install gradio`) {
		t.Error("markdown code block not rendered")
	}
	if strings.Contains(html, "<script>") {
		t.Error("raw HTML from model output passed through")
	}
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, View{Form: NewForm(nil), Error: "unknown task: \"x\""}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), `<p class="error" role="alert">unknown task: &#34;x&#34;</p>`) {
		t.Errorf("error banner missing or unescaped: %s", buf.String())
	}
}

func TestMarkdown(t *testing.T) {
	got, err := Markdown("**bold**")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if strings.TrimSpace(string(got)) != "<p><strong>bold</strong></p>" {
		t.Errorf("got %q", got)
	}
}

func TestMarkdownEscapesRawHTML(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    string
		notWant string
	}{
		{"inline tag", "Use a <textarea> for input.", "Use a &lt;textarea&gt; for input.", "<textarea>"},
		{"html block", "<div>\nhi\n</div>\n", "&lt;div&gt;", "<div>"},
		{"script block", "<script>alert(1)</script>\n", "&lt;script&gt;alert(1)&lt;/script&gt;", "<script>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Markdown(tt.src)
			if err != nil {
				t.Fatalf("Markdown: %v", err)
			}
			html := string(got)
			if !strings.Contains(html, tt.want) {
				t.Errorf("got %q, want to contain %q", html, tt.want)
			}
			if strings.Contains(html, tt.notWant) {
				t.Errorf("got %q, must not contain %q", html, tt.notWant)
			}
			if strings.Contains(html, "raw HTML omitted") {
				t.Errorf("got %q, raw HTML was dropped", html)
			}
		})
	}
}
