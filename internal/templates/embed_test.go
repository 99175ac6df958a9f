package templates

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

func TestProcessFilename(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		wantFilename string
		wantIsTmpl   bool
	}{
		{
			name:         "tmpl file gets processed",
			filename:     "prerender.yaml.tmpl",
			wantFilename: "prerender.yaml",
			wantIsTmpl:   true,
		},
		{
			name:         "regular file unchanged",
			filename:     "dist/.gitkeep",
			wantFilename: "dist/.gitkeep",
			wantIsTmpl:   false,
		},
		{
			name:         "nested tmpl file",
			filename:     "src/index.html.tmpl",
			wantFilename: "src/index.html",
			wantIsTmpl:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFilename, gotIsTmpl := ProcessFilename(tt.filename)
			if gotFilename != tt.wantFilename {
				t.Errorf("ProcessFilename(%q) filename = %q, want %q", tt.filename, gotFilename, tt.wantFilename)
			}
			if gotIsTmpl != tt.wantIsTmpl {
				t.Errorf("ProcessFilename(%q) isTmpl = %v, want %v", tt.filename, gotIsTmpl, tt.wantIsTmpl)
			}
		})
	}
}

func TestProcessContent(t *testing.T) {
	data := TemplateData{Name: "shop"}

	got := string(ProcessContent([]byte("<title>{{.Name}}</title>{{ prerender }}"), true, data))
	if got != "<title>shop</title>{{ prerender }}" {
		t.Errorf("ProcessContent() = %q", got)
	}

	raw := string(ProcessContent([]byte("{{.Name}}"), false, data))
	if raw != "{{.Name}}" {
		t.Errorf("non-template content changed: %q", raw)
	}
}

func TestStarterKeepsPlaceholder(t *testing.T) {
	starter, err := Starter()
	if err != nil {
		t.Fatalf("Starter() error = %v", err)
	}

	content, err := fs.ReadFile(starter, "src/index.html.tmpl")
	if err != nil {
		t.Fatalf("failed to read starter page: %v", err)
	}
	if !strings.Contains(string(content), "{{ prerender }}") {
		t.Errorf("starter page has no prerender placeholder")
	}

	if _, err := fs.Stat(starter, "prerender.yaml.tmpl"); err != nil {
		t.Errorf("starter config missing: %v", err)
	}
}

func TestDeriveProjectName(t *testing.T) {
	if got := DeriveProjectName(filepath.Join("work", "shop")); got != "shop" {
		t.Errorf("DeriveProjectName() = %q, want shop", got)
	}
}
