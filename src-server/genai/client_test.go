package genai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"stridercup/src-server/genai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoachTipWithoutKey(t *testing.T) {
	client := genai.NewClient("")
	tip := client.CoachTip(context.Background(), "braking")
	assert.Equal(t, genai.FallbackNoKey, tip)
}

func TestCoachTip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Contains(t, r.URL.Path, ":generateContent")

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "contents")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"text": "Keep your eyes up and glide!"},
					},
				},
			}},
		})
	}))
	defer server.Close()

	client := genai.NewClient("test-key")
	client.BaseURL = server.URL

	tip := client.CoachTip(context.Background(), "gliding")
	assert.Equal(t, "Keep your eyes up and glide!", tip)
}

func TestCoachTipDegradesToFallback(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := genai.NewClient("test-key")
		client.BaseURL = server.URL
		assert.Equal(t, genai.FallbackError, client.CoachTip(context.Background(), "braking"))
	})

	t.Run("empty candidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}))
		defer server.Close()

		client := genai.NewClient("test-key")
		client.BaseURL = server.URL
		assert.Equal(t, genai.FallbackEmpty, client.CoachTip(context.Background(), "braking"))
	})
}

func TestEventImage(t *testing.T) {
	t.Run("no key", func(t *testing.T) {
		client := genai.NewClient("")
		assert.Empty(t, client.EventImage(context.Background(), "race poster"))
	})

	t.Run("inline data becomes data url", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"candidates": []map[string]interface{}{{
					"content": map[string]interface{}{
						"parts": []map[string]interface{}{
							{"inlineData": map[string]string{
								"mimeType": "image/png",
								"data":     "aGVsbG8=",
							}},
						},
					},
				}},
			})
		}))
		defer server.Close()

		client := genai.NewClient("test-key")
		client.BaseURL = server.URL
		assert.Equal(t,
			"data:image/png;base64,aGVsbG8=",
			client.EventImage(context.Background(), "race poster"),
		)
	})

	t.Run("no image in response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}))
		defer server.Close()

		client := genai.NewClient("test-key")
		client.BaseURL = server.URL
		assert.Empty(t, client.EventImage(context.Background(), "race poster"))
	})
}
