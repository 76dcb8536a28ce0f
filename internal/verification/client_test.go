package verification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"advisormatch_backend/platform/logger"
)

type testConfig struct {
	url     string
	timeout time.Duration
}

func (c testConfig) GetVerificationAPIURL() string         { return c.url }
func (c testConfig) GetVerificationTimeout() time.Duration { return c.timeout }

func newTestClient(url string) *Client {
	return NewClient(testConfig{url: url, timeout: 2 * time.Second}, logger.New("test"))
}

func TestLookup_ReturnsRegistryResults(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("name")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"firmName":"Summit Wealth Partners","crdNumber":"123456"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	results := client.Lookup(context.Background(), "Dana Reyes")
	if gotQuery != "Dana Reyes" {
		t.Fatalf("expected name query %q, got %q", "Dana Reyes", gotQuery)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].FirmName != "Summit Wealth Partners" || results[0].CRDNumber != "123456" {
		t.Fatalf("unexpected result %+v", results[0])
	}
}

func TestLookup_Non200DegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if results := newTestClient(server.URL).Lookup(context.Background(), "Dana Reyes"); results != nil {
		t.Fatalf("expected nil results on 502, got %v", results)
	}
}

func TestLookup_MalformedBodyDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [`))
	}))
	defer server.Close()

	if results := newTestClient(server.URL).Lookup(context.Background(), "Dana Reyes"); results != nil {
		t.Fatalf("expected nil results on malformed body, got %v", results)
	}
}

func TestLookup_TimeoutDegradesToEmpty(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	client := NewClient(testConfig{url: server.URL, timeout: 50 * time.Millisecond}, logger.New("test"))
	if results := client.Lookup(context.Background(), "Dana Reyes"); results != nil {
		t.Fatalf("expected nil results on timeout, got %v", results)
	}
}

func TestLookup_DisabledClientSkipsRequest(t *testing.T) {
	client := newTestClient("")
	if client.Enabled() {
		t.Fatal("expected client without a URL to be disabled")
	}
	if results := client.Lookup(context.Background(), "Dana Reyes"); results != nil {
		t.Fatalf("expected nil results when disabled, got %v", results)
	}

	enabled := newTestClient("http://registry.invalid")
	if results := enabled.Lookup(context.Background(), ""); results != nil {
		t.Fatalf("expected nil results for empty name, got %v", results)
	}
}
