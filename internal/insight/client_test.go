package insight

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnalyzeSendsSummaryAndParsesReply(t *testing.T) {
	t.Parallel()

	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"  Drink more water.  "}}]}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL + "/v1/", APIKey: "secret", Model: "test-model", HTTPClient: ts.Client()}
	reply, err := c.Analyze(context.Background(), "- water: average 900 ml")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if reply != "Drink more water." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if got.Model != "test-model" {
		t.Fatalf("expected model test-model, got %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if !strings.Contains(got.Messages[1].Content, "average 900 ml") {
		t.Fatalf("summary missing from prompt: %q", got.Messages[1].Content)
	}
}

func TestAnalyzeReportsAPIError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, APIKey: "bad", HTTPClient: ts.Client()}
	_, err := c.Analyze(context.Background(), "summary")
	if err == nil || !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("expected status error with message, got %v", err)
	}
}

func TestAnalyzeRejectsEmptyChoices(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, APIKey: "k", HTTPClient: ts.Client()}
	if _, err := c.Analyze(context.Background(), "summary"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestAnalyzeRequiresAPIKey(t *testing.T) {
	t.Parallel()

	c := &Client{}
	_, err := c.Analyze(context.Background(), "summary")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := (&Client{APIKey: "k"}).Analyze(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty summary")
	}
}
