package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var waits []time.Duration
	original := sleep
	sleep = func(d time.Duration) { waits = append(waits, d) }
	t.Cleanup(func() { sleep = original })
	return &waits
}

func writeChoice(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":` + jsonString(content) + `}}]}`))
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, maxRetries int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		Endpoint:   server.URL + "/v1/chat/completions",
		APIKey:     "test-key",
		Model:      "gpt-test",
		MaxRetries: maxRetries,
	}, server.Client(), zap.NewNop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClientComplete(t *testing.T) {
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writeChoice(w, " How does Docker layer caching work? ")
	}, 1)

	temperature := float32(0.35)
	out, err := client.Complete(context.Background(), "be an interviewer", "ask about docker", Options{
		Model:       "gpt-override",
		Temperature: &temperature,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "How does Docker layer caching work?" {
		t.Fatalf("unexpected output %q", out)
	}

	if got.Model != "gpt-override" {
		t.Fatalf("expected model override, got %q", got.Model)
	}
	if got.Temperature == nil || *got.Temperature != temperature {
		t.Fatalf("expected temperature %v", temperature)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "ask about docker" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	waits := noSleep(t)

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		writeChoice(w, "ok")
	}, 3)

	out, err := client.Complete(context.Background(), "", "hello", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" || calls.Load() != 3 {
		t.Fatalf("expected success on third call, got %q after %d calls", out, calls.Load())
	}
	if len(*waits) != 2 || (*waits)[0] != 2*time.Second || (*waits)[1] != 4*time.Second {
		t.Fatalf("unexpected backoff %v", *waits)
	}
}

func TestClientRetryAfter(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter string
		wantCalls  int32
		wantErr    bool
	}{
		{name: "short wait is honoured", retryAfter: "3", wantCalls: 2},
		{name: "long wait gives up", retryAfter: "120", wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			waits := noSleep(t)

			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				if calls.Add(1) == 1 {
					w.Header().Set("Retry-After", tt.retryAfter)
					http.Error(w, "rate limited", http.StatusTooManyRequests)
					return
				}
				writeChoice(w, "ok")
			}, 3)

			_, err := client.Complete(context.Background(), "", "hello", Options{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if calls.Load() != tt.wantCalls {
				t.Fatalf("expected %d calls, got %d", tt.wantCalls, calls.Load())
			}
			if !tt.wantErr && (len(*waits) != 1 || (*waits)[0] != 3*time.Second) {
				t.Fatalf("expected a 3s wait, got %v", *waits)
			}
			if tt.wantErr {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
					t.Fatalf("expected 429 api error, got %v", err)
				}
			}
		})
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}, 3)

	if _, err := client.Complete(context.Background(), "", "hello", Options{}); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestClientEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}, 1)

	if _, err := client.Complete(context.Background(), "", "hello", Options{}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewClientDefaults(t *testing.T) {
	if _, err := NewClient(Config{}, nil, nil); err == nil {
		t.Fatal("expected error without api key")
	}

	client, err := NewClient(Config{APIKey: " key "}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.endpoint != DefaultEndpoint || client.Model() != defaultModel || client.maxRetries != defaultMaxRetries {
		t.Fatalf("unexpected defaults: %+v", client)
	}
	if client.httpClient.Timeout != defaultTimeout {
		t.Fatalf("expected default timeout, got %s", client.httpClient.Timeout)
	}
}
