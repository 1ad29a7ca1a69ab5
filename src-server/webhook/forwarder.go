// Package webhook forwards registration submissions to the per-event
// spreadsheet webhook. The contract is best-effort delivery: one attempt,
// short timeout, response discarded, failures logged and never surfaced to
// the registrant.
package webhook

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

// One registration, flattened the way the spreadsheet script expects it.
// Never persisted locally; it exists only for the duration of one submit.
type Submission struct {
	EventName     string `json:"eventName"`
	ParentName    string `json:"parentName"`
	RiderName     string `json:"riderName"`
	Contact       string `json:"contact"`
	Email         string `json:"email"`
	CategoryName  string `json:"categoryName"`
	CategoryPrice string `json:"categoryPrice"`
}

type Forwarder struct {
	httpClient *http.Client

	// receives the delivery latency in microseconds, nil-able
	LatencyChan chan float64
}

func NewForwarder() *Forwarder {
	return &Forwarder{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Deliver POSTs the submission once. The response body is drained and
// thrown away; a non-2xx status still counts as an error so the caller can
// log it, but nothing retries.
func (f *Forwarder) Deliver(ctx context.Context, url string, submission Submission) error {
	if url == "" {
		return fmt.Errorf("(*Forwarder).Deliver: url is blank")
	}
	body, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("(*Forwarder).Deliver: can't marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("(*Forwarder).Deliver: can't create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	startTimer := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("(*Forwarder).Deliver: can't do request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if f.LatencyChan != nil {
		select {
		case f.LatencyChan <- float64(time.Since(startTimer).Microseconds()):
		default:
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("(*Forwarder).Deliver: bad status code: %d", resp.StatusCode)
	}
	return nil
}

// DeliverAsync runs Deliver in the background so the payment redirect never
// waits on the spreadsheet.
func (f *Forwarder) DeliverAsync(url string, submission Submission) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := f.Deliver(ctx, url, submission); err != nil {
			slog.Error("webhook delivery failed", "url", url, "error", err)
			return
		}
		slog.Debug("webhook delivered", "url", url, "event", submission.EventName)
	}()
}
