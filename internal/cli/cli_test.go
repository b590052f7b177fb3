package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_EndToEnd(t *testing.T) {
	deck := []byte("PK\x03\x04 fake deck bytes")
	var sawTemplate, sawText bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, _, err := r.FormFile("template")
		sawTemplate = err == nil
		sawText = r.FormValue("text") == "quarterly results"
		w.Write(deck)
	}))
	defer srv.Close()

	outDir := t.TempDir()
	opts := RunOptions{
		Text:     "quarterly results",
		Template: writeTempFile(t, "theme.pptx", "template bytes"),
		Output:   filepath.Join(outDir, "out.pptx"),
		Endpoint: srv.URL,
	}
	if err := Run(opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !sawTemplate || !sawText {
		t.Errorf("backend did not receive the submission (template=%v text=%v)", sawTemplate, sawText)
	}
	saved, err := os.ReadFile(opts.Output)
	if err != nil {
		t.Fatalf("output not saved: %v", err)
	}
	if string(saved) != string(deck) {
		t.Error("saved bytes differ from response bytes")
	}
}

func TestRun_ServerErrorSurfacesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Please upload a .pptx or .potx file"}`))
	}))
	defer srv.Close()

	opts := RunOptions{
		Text:     "content",
		Template: writeTempFile(t, "theme.pptx", "template bytes"),
		Output:   filepath.Join(t.TempDir(), "out.pptx"),
		Endpoint: srv.URL,
	}
	err := Run(opts)
	if err == nil {
		t.Fatal("Run() should fail on a 400 response")
	}
	if !strings.Contains(err.Error(), "Please upload a .pptx or .potx file") {
		t.Errorf("error should carry the server detail, got %q", err)
	}
}

func TestRun_InputValidation(t *testing.T) {
	template := writeTempFile(t, "theme.pptx", "template bytes")

	tests := []struct {
		name string
		opts RunOptions
		want string
	}{
		{
			name: "missing template",
			opts: RunOptions{Text: "content"},
			want: "no template",
		},
		{
			name: "unknown provider",
			opts: RunOptions{Text: "content", Template: template, Provider: "copilot"},
			want: "unknown provider",
		},
		{
			name: "missing text file",
			opts: RunOptions{TextFile: "/nonexistent/notes.md", Template: template},
			want: "failed to read text file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestReadText_FromFile(t *testing.T) {
	path := writeTempFile(t, "notes.md", "# Heading\n\ncontent")
	got, err := readText(RunOptions{TextFile: path})
	if err != nil {
		t.Fatalf("readText() error = %v", err)
	}
	if got != "# Heading\n\ncontent" {
		t.Errorf("readText() = %q", got)
	}
}
