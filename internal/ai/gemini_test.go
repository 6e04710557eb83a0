package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/api/option"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	g, err := NewGemini(context.Background(), "test-key", "gemini-1.5-flash", 0,
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return g
}

func TestGemini_Generate(t *testing.T) {
	var body map[string]any
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/publishers/google/models/gemini-1.5-flash:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key in query, got %q", r.URL.RawQuery)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"intent\":"},{"text":"\"other\"}"}]}}]}`))
	})

	out, err := g.Generate(context.Background(), Request{System: "sys", Prompt: "hello", MIMEType: MIMEJSON})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"intent":"other"}` {
		t.Errorf("unexpected output %q", out)
	}

	cfg, _ := body["generationConfig"].(map[string]any)
	if cfg["responseMimeType"] != MIMEJSON {
		t.Errorf("expected JSON response type, got %v", cfg["responseMimeType"])
	}
	if cfg["topK"] == nil || cfg["temperature"] == nil {
		t.Errorf("expected sampling settings, got %v", cfg)
	}
	if _, ok := body["systemInstruction"]; !ok {
		t.Error("expected system instruction in request")
	}
}

func TestGemini_NoCandidates(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	if _, err := g.Generate(context.Background(), Request{Prompt: "hello"}); err != ErrEmptyResponse {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGemini_HTTPError(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota"}}`))
	})

	if _, err := g.Generate(context.Background(), Request{Prompt: "hello"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestGemini_SkipsThoughtParts(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"thinking...","thought":true},{"text":"answer"}]}}]}`))
	})

	out, err := g.Generate(context.Background(), Request{Prompt: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "answer" {
		t.Errorf("expected thought parts to be dropped, got %q", out)
	}
}

func TestModelName(t *testing.T) {
	cases := map[string]string{
		"gemini-1.5-flash":                          "publishers/google/models/gemini-1.5-flash",
		"models/gemini-1.5-flash":                   "publishers/google/models/gemini-1.5-flash",
		"publishers/google/models/gemini-2.0-flash": "publishers/google/models/gemini-2.0-flash",
	}
	for in, want := range cases {
		if got := modelName(in); got != want {
			t.Errorf("modelName(%q) = %q, want %q", in, got, want)
		}
	}
}
