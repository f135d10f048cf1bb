// Package netx contains HTTP helpers for talking to object storage directly.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DefaultContentType is used when the caller does not know the payload type.
const DefaultContentType = "application/octet-stream"

// HTTPClient is the http.Client used for uploads. Tests may replace it.
var HTTPClient = http.DefaultClient

// UploadToPresignedURL PUTs body to a presigned object storage URL.
// Any non-2xx answer is reported together with the response body.
func UploadToPresignedURL(ctx context.Context, url, contentType string, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = DefaultContentType
	}
	req.Header.Set("Content-Type", contentType)
	if size >= 0 {
		req.ContentLength = size
	}

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
