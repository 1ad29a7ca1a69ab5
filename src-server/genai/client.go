// Package genai is a thin client for the hosted generative API behind the
// AI coach widget: short text tips and one-off promo images. Without an API
// key every call short-circuits to a canned fallback instead of going to the
// network.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	tipModel   = "gemini-3-flash-preview"
	imageModel = "gemini-2.5-flash-image"

	// canned replies for the no-key / error paths
	FallbackNoKey = "Please configure your API Key to use the AI Coach."
	FallbackError = "Remember, the most important thing is to have fun!"
	FallbackEmpty = "Keep riding and having fun!"
)

type Client struct {
	apiKey string

	// overridable in tests
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		BaseURL: "https://generativelanguage.googleapis.com",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type reqPart struct {
	Text string `json:"text"`
}

type reqBody struct {
	Contents []struct {
		Parts []reqPart `json:"parts"`
	} `json:"contents"`
}

type respBody struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text       string `json:"text"`
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, model, prompt string) (*respBody, error) {
	var body reqBody
	body.Contents = make([]struct {
		Parts []reqPart `json:"parts"`
	}, 1)
	body.Contents[0].Parts = []reqPart{{Text: prompt}}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("(*Client).generate: can't marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("(*Client).generate: can't create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("(*Client).generate: can't do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("(*Client).generate: bad status code: %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("(*Client).generate: can't read body: %w", err)
	}

	var parsed respBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("(*Client).generate: can't unmarshal response: %w", err)
	}
	return &parsed, nil
}

// CoachTip asks for a short, encouraging tip about the given topic. It never
// fails outward; any problem degrades to a canned reply.
func (c *Client) CoachTip(ctx context.Context, topic string) string {
	if c.apiKey == "" {
		return FallbackNoKey
	}

	prompt := fmt.Sprintf(
		`You are an expert kids' balance bike coach in India. Give a short, encouraging, and practical tip about %q for parents. Keep it under 50 words. Tone: Fun, supportive, energetic.`,
		topic,
	)
	parsed, err := c.generate(ctx, tipModel, prompt)
	if err != nil {
		slog.Error("coach tip request failed", "topic", topic, "error", err)
		return FallbackError
	}
	for _, candidate := range parsed.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return FallbackEmpty
}

// EventImage asks for a generated image and returns it as a data URL
// ("data:<mime>;base64,..."), or blank when there's no key, no image in the
// response, or the call failed.
func (c *Client) EventImage(ctx context.Context, prompt string) string {
	if c.apiKey == "" {
		return ""
	}

	parsed, err := c.generate(ctx, imageModel, prompt)
	if err != nil {
		slog.Error("event image request failed", "error", err)
		return ""
	}
	for _, candidate := range parsed.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return fmt.Sprintf("data:%s;base64,%s", part.InlineData.MimeType, part.InlineData.Data)
			}
		}
	}
	return ""
}
