package form

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
)

// Validation errors returned by Build. Both are terminal for the
// attempted submission; no network call is made.
var (
	ErrMissingTemplate = errors.New("missing template")
	ErrMissingText     = errors.New("missing text")
)

// Submission is an immutable snapshot of the form state, already
// serialized as a multipart body. Editing the State after Build has
// no effect on a Submission that is in flight.
type Submission struct {
	body        []byte
	contentType string
}

// Body returns a fresh reader over the multipart payload.
func (s *Submission) Body() io.Reader {
	return bytes.NewReader(s.body)
}

// ContentType returns the multipart content type including boundary.
func (s *Submission) ContentType() string {
	return s.contentType
}

// Size returns the payload size in bytes.
func (s *Submission) Size() int {
	return len(s.body)
}

// Build validates the form state and packages it into a Submission.
// Rules, first failure wins: the template must be set, and the text
// must be non-empty. Optional fields (guidance, provider, api_key) are
// genuinely absent from the payload when empty so the backend can tell
// "not provided" from "provided empty"; speaker_notes is always sent
// as a literal "true"/"false".
func Build(st State) (*Submission, error) {
	if len(st.TemplateData) == 0 {
		return nil, ErrMissingTemplate
	}
	if strings.TrimSpace(st.Text) == "" {
		return nil, ErrMissingText
	}

	name := st.TemplateName
	if name == "" {
		name = "template.pptx"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("template", name)
	if err != nil {
		return nil, fmt.Errorf("failed to create template part: %w", err)
	}
	if _, err := part.Write(st.TemplateData); err != nil {
		return nil, fmt.Errorf("failed to write template part: %w", err)
	}

	if err := w.WriteField("text", st.Text); err != nil {
		return nil, fmt.Errorf("failed to write text part: %w", err)
	}
	if st.Guidance != "" {
		if err := w.WriteField("guidance", st.Guidance); err != nil {
			return nil, fmt.Errorf("failed to write guidance part: %w", err)
		}
	}
	if st.Provider != "" {
		if err := w.WriteField("provider", st.Provider); err != nil {
			return nil, fmt.Errorf("failed to write provider part: %w", err)
		}
	}
	// The key flows into this one request body and nowhere else.
	if st.APIKey != "" {
		if err := w.WriteField("api_key", st.APIKey); err != nil {
			return nil, errors.New("failed to write credential part")
		}
	}
	if err := w.WriteField("speaker_notes", strconv.FormatBool(st.SpeakerNotes)); err != nil {
		return nil, fmt.Errorf("failed to write speaker_notes part: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize payload: %w", err)
	}

	return &Submission{body: buf.Bytes(), contentType: w.FormDataContentType()}, nil
}
