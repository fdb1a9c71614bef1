// Package imagehost uploads image bytes to the external hosting API and
// returns public URLs.
package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/titouancv/mapinned/internal/observability"

	"github.com/goccy/go-json"
)

// Uploader sends raw image bytes to an external host and returns the public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, content []byte) (string, error)
}

// Client talks to an imgbb-compatible upload endpoint.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewClient creates an upload client for the given endpoint and API key.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// uploadResponse mirrors the hosting API's JSON envelope.
type uploadResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success bool `json:"success"`
}

// Upload posts the file as multipart form data and returns the hosted URL.
// The response body is trusted only for the URL field; no image validation
// happens on this side.
func (c *Client) Upload(ctx context.Context, filename string, content []byte) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	url := c.endpoint
	if c.apiKey != "" {
		url = fmt.Sprintf("%s?key=%s", c.endpoint, c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	start := time.Now()
	resp, err := c.client.Do(req)
	observability.ObserveExternalRequest("image_host", start)
	if err != nil {
		return "", fmt.Errorf("image host upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("image host returned status %d: %s", resp.StatusCode, errBody)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode image host response: %w", err)
	}
	if !parsed.Success || parsed.Data.URL == "" {
		return "", fmt.Errorf("image host reported failure")
	}

	return parsed.Data.URL, nil
}
