package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/examforge/question-extractor/constants"
	"github.com/examforge/question-extractor/internal/llm"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		APIKey:   "test-key",
		BaseURL:  srv.URL,
		Timeout:  5 * time.Second,
		RetryFor: 50 * time.Millisecond,
	}, nil)
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestExtract(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("missing bearer header, got %q", got)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if temp, _ := body["temperature"].(float64); temp > 0.3 {
			t.Fatalf("temperature too high: %v", temp)
		}
		_ = json.NewEncoder(w).Encode(chatResponse(
			`[{"type":"multiple_choice","question_text":"What is 2+2?","options":["3","4"],"correct_answer":"4","points":1}]`,
		))
	})

	qs, err := c.Extract(context.Background(), llm.Request{Text: "What is 2+2?", MaxQuestions: 5})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(qs) != 1 || qs[0].Type != constants.MultipleChoice {
		t.Fatalf("unexpected questions: %#v", qs)
	}
}

func TestExtract_NoKeyIsUnavailable(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	c := NewClient(Config{RetryFor: time.Millisecond}, nil)
	_, err := c.Extract(context.Background(), llm.Request{Text: "anything", MaxQuestions: 5})
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestExtract_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(chatResponse(
			`[{"type":"short_answer","question_text":"Define gravity.","points":1}]`,
		))
	})

	qs, err := c.Extract(context.Background(), llm.Request{Text: "Define gravity.", MaxQuestions: 5})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if calls.Load() < 2 {
		t.Fatalf("expected a retry, got %d calls", calls.Load())
	}
	if len(qs) != 1 {
		t.Fatalf("unexpected questions: %#v", qs)
	}
}

func TestExtract_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := c.Extract(context.Background(), llm.Request{Text: "anything", MaxQuestions: 5})
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected no retries on 400, got %d calls", calls.Load())
	}
}

func TestExtract_EmptyChoicesIsUnavailable(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})
	_, err := c.Extract(context.Background(), llm.Request{Text: "anything", MaxQuestions: 5})
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
