package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func completionBody(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 0,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func makeTestServer(t *testing.T, statusCode int, body any) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestProvider(srv *httptest.Server, key string) *OpenAIProvider {
	return NewOpenAIProvider(OpenAIConfig{
		BaseURL:     srv.URL,
		APIKey:      key,
		Model:       "test-model",
		Temperature: DefaultTemperature,
		HTTPClient:  srv.Client(),
	})
}

func TestComplete_Success(t *testing.T) {
	srv, _ := makeTestServer(t, http.StatusOK, completionBody(`{"required_skills":["Go"]}`))

	got, err := newTestProvider(srv, "test-key").Complete(context.Background(), "extract", "a job")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"required_skills":["Go"]}` {
		t.Errorf("got %q, want json string", got)
	}
}

func TestComplete_HTTPErrorIsNotRetried(t *testing.T) {
	srv, calls := makeTestServer(t, http.StatusInternalServerError, map[string]any{"error": map[string]string{"message": "boom"}})

	_, err := newTestProvider(srv, "test-key").Complete(context.Background(), "extract", "a job")
	if err == nil {
		t.Fatal("expected error on 5xx response")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
}

func TestComplete_RateLimited(t *testing.T) {
	srv, calls := makeTestServer(t, http.StatusTooManyRequests, map[string]any{"error": map[string]string{"message": "slow down"}})

	_, err := newTestProvider(srv, "test-key").Complete(context.Background(), "extract", "a job")
	if err == nil {
		t.Fatal("expected error on 429 response")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	body := completionBody("")
	body["choices"] = []any{}
	srv, _ := makeTestServer(t, http.StatusOK, body)

	_, err := newTestProvider(srv, "test-key").Complete(context.Background(), "extract", "a job")
	if err == nil {
		t.Fatal("expected error when LLM returns no choices")
	}
}

func TestComplete_SendsRequest(t *testing.T) {
	var gotAuth string
	var gotReq struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string `json:"name"`
				Strict bool   `json:"strict"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionBody(`{"required_skills":[]}`))
	}))
	defer srv.Close()

	_, _ = newTestProvider(srv, "my-secret-key").Complete(context.Background(), "the instruction", "the posting")

	if gotAuth != "Bearer my-secret-key" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer my-secret-key")
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q, want test-model", gotReq.Model)
	}
	if gotReq.Temperature != DefaultTemperature {
		t.Errorf("temperature = %v, want %v", gotReq.Temperature, DefaultTemperature)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Content != "the instruction" || gotReq.Messages[1].Content != "the posting" {
		t.Errorf("messages = %+v, want system instruction then user posting", gotReq.Messages)
	}
	if gotReq.ResponseFormat.Type != "json_schema" {
		t.Errorf("response_format.type = %q, want json_schema", gotReq.ResponseFormat.Type)
	}
	if gotReq.ResponseFormat.JSONSchema.Name != "required_skills" || !gotReq.ResponseFormat.JSONSchema.Strict {
		t.Errorf("json_schema = %+v, want strict required_skills", gotReq.ResponseFormat.JSONSchema)
	}
}
