package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/slidecraft/deckgen/internal/slides"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(structure Structurer) *gin.Engine {
	if structure == nil {
		structure = func(_ context.Context, _, _, text, _ string) *slides.Deck {
			return &slides.Deck{Slides: []slides.Slide{{Title: "Stub", Bullets: []string{text}, Notes: "note"}}}
		}
	}
	s := &Server{structure: structure}
	return s.router()
}

// minimalTemplate builds the smallest zip Build accepts.
func minimalTemplate(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
			`</Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
			`</Relationships>`,
		"ppt/presentation.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
			`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst></p:presentation>`,
		"ppt/_rels/presentation.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>` +
			`</Relationships>`,
		"ppt/slideLayouts/slideLayout1.xml": `<p:sldLayout xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`,
	}
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		io.WriteString(w, content)
	}
	zw.Close()
	return buf.Bytes()
}

type formField struct{ name, value string }

func multipartBody(t *testing.T, templateName string, templateData []byte, fields []formField) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if templateName != "" {
		fw, err := mw.CreateFormFile("template", templateName)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(templateData)
	}
	for _, f := range fields {
		mw.WriteField(f.name, f.value)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func doGenerate(t *testing.T, r *gin.Engine, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, w.Body.String())
	}
	return payload.Detail
}

func TestHealth(t *testing.T) {
	r := testRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var payload map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil || !payload["ok"] {
		t.Errorf("health body = %s", w.Body.String())
	}
}

func TestGenerate_Success(t *testing.T) {
	r := testRouter(nil)
	body, ct := multipartBody(t, "theme.pptx", minimalTemplate(t), []formField{
		{"text", "hello world"},
		{"speaker_notes", "false"},
	})
	w := doGenerate(t, r, body, ct)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="generated.pptx"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if _, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len())); err != nil {
		t.Errorf("response is not a pptx package: %v", err)
	}
}

func TestGenerate_RejectsWrongExtension(t *testing.T) {
	r := testRouter(nil)
	for _, name := range []string{"notes.txt", "deck.key", "presentation.ppt"} {
		body, ct := multipartBody(t, name, []byte("data"), []formField{{"text", "hello"}})
		w := doGenerate(t, r, body, ct)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, w.Code)
		}
		if got := detailOf(t, w); got != "Please upload a .pptx or .potx file" {
			t.Errorf("%s: detail = %q", name, got)
		}
	}
}

func TestGenerate_MissingTemplate(t *testing.T) {
	r := testRouter(nil)
	body, ct := multipartBody(t, "", nil, []formField{{"text", "hello"}})
	w := doGenerate(t, r, body, ct)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if detailOf(t, w) == "" {
		t.Error("error should carry a detail message")
	}
}

func TestGenerate_MissingText(t *testing.T) {
	r := testRouter(nil)
	body, ct := multipartBody(t, "theme.pptx", minimalTemplate(t), []formField{{"text", "   \n "}})
	w := doGenerate(t, r, body, ct)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if detailOf(t, w) != "Text content is required." {
		t.Errorf("detail = %q", detailOf(t, w))
	}
}

func TestGenerate_BrokenTemplate(t *testing.T) {
	r := testRouter(nil)
	body, ct := multipartBody(t, "theme.pptx", []byte("not a zip"), []formField{{"text", "hello"}})
	w := doGenerate(t, r, body, ct)

	// Upload problems are the client's fault (4xx); a deck that cannot
	// be built is a generation failure (5xx).
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if detailOf(t, w) == "" {
		t.Error("error should carry a detail message")
	}
}

func TestGenerate_FormFieldsReachStructurer(t *testing.T) {
	var gotProvider, gotKey, gotText, gotGuidance string
	r := testRouter(func(_ context.Context, provider, apiKey, text, guidance string) *slides.Deck {
		gotProvider, gotKey, gotText, gotGuidance = provider, apiKey, text, guidance
		return &slides.Deck{Slides: []slides.Slide{{Title: "A"}}}
	})
	body, ct := multipartBody(t, "theme.pptx", minimalTemplate(t), []formField{
		{"text", "content"},
		{"guidance", "keep it short"},
		{"provider", "openai"},
		{"api_key", "sk-test"},
		{"speaker_notes", "true"},
	})
	w := doGenerate(t, r, body, ct)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if gotProvider != "openai" || gotKey != "sk-test" || gotText != "content" || gotGuidance != "keep it short" {
		t.Errorf("structurer got (%q, %q, %q, %q)", gotProvider, gotKey, gotText, gotGuidance)
	}
}

func TestGenerate_SpeakerNotesToggle(t *testing.T) {
	notesDeck := func(_ context.Context, _, _, _, _ string) *slides.Deck {
		return &slides.Deck{Slides: []slides.Slide{{Title: "A", Notes: "secret note"}}}
	}

	var stripped *slides.Deck
	r := testRouter(func(ctx context.Context, p, k, text, g string) *slides.Deck {
		stripped = notesDeck(ctx, p, k, text, g)
		return stripped
	})
	body, ct := multipartBody(t, "theme.pptx", minimalTemplate(t), []formField{
		{"text", "content"},
		{"speaker_notes", "false"},
	})
	if w := doGenerate(t, r, body, ct); w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	for _, s := range stripped.Slides {
		if s.Notes != "" {
			t.Error("notes should be stripped when speaker_notes is false")
		}
	}
}

func TestGenerate_UploadTooLarge(t *testing.T) {
	r := testRouter(nil)
	big := make([]byte, MaxUploadBytes+1024)
	body, ct := multipartBody(t, "theme.pptx", big, []formField{{"text", "hello"}})
	w := doGenerate(t, r, body, ct)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
}
