package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stridercup/src-server/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketUpload(t *testing.T) {
	var gotPath, gotAuth, gotUpsert, gotContentType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotUpsert = r.Header.Get("x-upsert")
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	bucket := storage.NewBucket(server.URL, "service-key", "event-banners")
	require.True(t, bucket.Enabled())

	publicURL, err := bucket.Upload(
		context.Background(),
		"abc123.png",
		"image/png",
		strings.NewReader("fake png bytes"),
	)
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/event-banners/abc123.png", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "image/png", gotContentType)
	assert.Equal(t, "fake png bytes", gotBody)
	assert.Equal(t, server.URL+"/storage/v1/object/public/event-banners/abc123.png", publicURL)
}

func TestBucketUploadBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	bucket := storage.NewBucket(server.URL, "service-key", "event-banners")
	_, err := bucket.Upload(context.Background(), "abc123.png", "image/png", strings.NewReader("x"))
	assert.ErrorContains(t, err, "bad status code")
}

func TestBucketDisabled(t *testing.T) {
	bucket := storage.NewBucket("", "", "event-banners")
	assert.False(t, bucket.Enabled())

	_, err := bucket.Upload(context.Background(), "abc123.png", "image/png", strings.NewReader("x"))
	assert.ErrorContains(t, err, "not configured")
}
