package tasks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MediaClient talks to the media service that stores uploaded files
type MediaClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewMediaClient creates a media service client
func NewMediaClient(baseURL, apiKey string) *MediaClient {
	return &MediaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// DeleteFile removes a stored file. A file that is already gone counts as deleted.
func (c *MediaClient) DeleteFile(ctx context.Context, mediaType, fileRef string) error {
	endpoint := fmt.Sprintf("%s/media/%s/%s", c.baseURL, url.PathEscape(mediaType), url.PathEscape(fileRef))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build media delete request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call media service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("media service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
