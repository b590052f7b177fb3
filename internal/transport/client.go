// Package transport performs the single network exchange of a
// submission: one POST carrying the multipart payload, resolved to
// either the artifact bytes or an error with a user-facing message.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/slidecraft/deckgen/internal/form"
)

// StatusError is a non-2xx response from the generation backend. The
// message comes from the response body's "detail" field when the
// backend sent one, else a generic message embedding the status code.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("generation failed with status %d", e.Code)
}

// Client talks to the generation backend. The zero HTTPClient has no
// timeout on purpose: generation time is unbounded and the backend
// protocol has no progress channel, so a hung backend leaves the
// submission in flight (known limitation, do not paper over it here).
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

// New returns a client for the given endpoint.
func New(endpoint string) *Client {
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{},
	}
}

// Send performs exactly one exchange for the submission. A 2xx
// response yields the whole body as the artifact bytes; anything else
// returns an error whose message is safe to show the user. Send never
// retries; a failed exchange is terminal for this submission.
func (c *Client) Send(ctx context.Context, sub *form.Submission) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, sub.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", sub.ContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Detail: parseDetail(resp.Body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// parseDetail pulls the "detail" field out of an error body, the
// shape the backend uses for all failures. Unparseable or empty
// bodies yield "".
func parseDetail(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
