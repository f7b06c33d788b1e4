package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const uploadTimeout = 10 * time.Minute

// UploadFile PUTs a video file to the signed storage URL. The storage proxy
// authenticates through the URL signature, so this deliberately skips the
// session jar and the refresh transport.
func UploadFile(ctx context.Context, signedURL, contentType string, body io.Reader, size int64) error {
	if signedURL == "" {
		return errors.New("signed url is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signedURL, body)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if size > 0 {
		req.ContentLength = size
	}

	client := &http.Client{Timeout: uploadTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("upload file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("upload file: %w", decodeAPIError(resp))
	}
	return nil
}
