// Package storage uploads banner images into the hosted object-storage
// bucket and resolves their public URLs. The provider exposes a plain REST
// surface, so this is a small hand-rolled client.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Bucket struct {
	baseURL string
	key     string
	bucket  string

	// overridable in tests
	HTTPClient *http.Client
}

func NewBucket(baseURL, key, bucket string) *Bucket {
	return &Bucket{
		baseURL: baseURL,
		key:     key,
		bucket:  bucket,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Enabled reports whether uploads are configured at all; without the storage
// env vars the admin form just keeps whatever image URL the event already
// has.
func (b *Bucket) Enabled() bool {
	return b.baseURL != "" && b.key != ""
}

// Upload stores the object and returns its public URL. Existing objects with
// the same name are overwritten, which is what the content-hash naming
// scheme wants.
func (b *Bucket) Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	if !b.Enabled() {
		return "", fmt.Errorf("(*Bucket).Upload: storage is not configured")
	}
	if objectName == "" {
		return "", fmt.Errorf("(*Bucket).Upload: object name is blank")
	}

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", b.baseURL, b.bucket, objectName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, r)
	if err != nil {
		return "", fmt.Errorf("(*Bucket).Upload: can't create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.key)
	req.Header.Set("x-upsert", "true")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("(*Bucket).Upload: can't do request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("(*Bucket).Upload: bad status code: %d", resp.StatusCode)
	}

	return b.PublicURL(objectName), nil
}

func (b *Bucket) PublicURL(objectName string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", b.baseURL, b.bucket, objectName)
}
