package webhook_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stridercup/src-server/webhook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwarderDeliver(t *testing.T) {
	received := make(chan map[string]string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	forwarder := webhook.NewForwarder()
	err := forwarder.Deliver(context.Background(), server.URL, webhook.Submission{
		EventName:     "Monsoon Cup 2026",
		ParentName:    "Priya Sharma",
		RiderName:     "Aarav Sharma",
		Contact:       "+91 98765 43210",
		Email:         "priya@example.com",
		CategoryName:  "U-4 Balance Bike",
		CategoryPrice: "499",
	})
	require.NoError(t, err)

	select {
	case body := <-received:
		assert.Equal(t, map[string]string{
			"eventName":     "Monsoon Cup 2026",
			"parentName":    "Priya Sharma",
			"riderName":     "Aarav Sharma",
			"contact":       "+91 98765 43210",
			"email":         "priya@example.com",
			"categoryName":  "U-4 Balance Bike",
			"categoryPrice": "499",
		}, body)
	case <-time.After(time.Second):
		t.Fatal("webhook never received the submission")
	}
}

func TestForwarderDeliverBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	forwarder := webhook.NewForwarder()
	err := forwarder.Deliver(context.Background(), server.URL, webhook.Submission{})
	assert.ErrorContains(t, err, "bad status code")
}

func TestForwarderDeliverUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	forwarder := webhook.NewForwarder()
	err := forwarder.Deliver(context.Background(), server.URL, webhook.Submission{})
	assert.Error(t, err)

	err = forwarder.Deliver(context.Background(), "", webhook.Submission{})
	assert.ErrorContains(t, err, "url is blank")
}

func TestForwarderLatencyChanNonBlocking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	forwarder := webhook.NewForwarder()
	forwarder.LatencyChan = make(chan float64) // unbuffered, nobody reading

	// must not deadlock when the metric collector isn't draining
	err := forwarder.Deliver(context.Background(), server.URL, webhook.Submission{})
	require.NoError(t, err)
}
