package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func okEnvelope(w http.ResponseWriter, data any) {
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "data": data})
}

func runCLI(t *testing.T, srvURL, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := &strings.Builder{}
	root.SetOut(out)
	root.SetErr(out)
	if stdin != "" {
		root.SetIn(strings.NewReader(stdin))
	}
	full := append([]string{"--api-key", "pk_test", "--base-url", srvURL}, args...)
	root.SetArgs(full)
	err := root.Execute()
	return out.String(), err
}

func TestCLI_ContributePipedAndFlags(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/knowledge/contribute", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode contribute body: %v", err)
		}
		okEnvelope(w, map[string]any{"id": "k_abc123", "creditsEarned": 0.5})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	piped := `{"title":"T","content":"C","tags":["a","b"]}`
	out, err := runCLI(t, srv.URL, piped, "contribute")
	if err != nil {
		t.Fatalf("contribute failed: %v", err)
	}
	if gotBody["title"] != "T" || gotBody["content"] != "C" {
		t.Fatalf("server saw title=%v content=%v", gotBody["title"], gotBody["content"])
	}
	tags, _ := gotBody["tags"].([]any)
	if len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Fatalf("server saw tags %v", gotBody["tags"])
	}
	if gotBody["model"] != "unknown" {
		t.Fatalf("model should default to unknown, got %v", gotBody["model"])
	}
	if !strings.Contains(out, "Contributed: k_abc123") {
		t.Fatalf("unexpected output: %q", out)
	}

	// flag beats piped for the same field
	out, err = runCLI(t, srv.URL, piped, "contribute", "--title", "Flag wins")
	if err != nil {
		t.Fatalf("contribute with flag failed: %v", err)
	}
	if gotBody["title"] != "Flag wins" {
		t.Fatalf("flag should override piped title, server saw %v", gotBody["title"])
	}
	_ = out
}

func TestCLI_ContributeValidationBeforeNetwork(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		okEnvelope(w, map[string]any{"id": "k_x"})
	}))
	defer srv.Close()

	_, err := runCLI(t, srv.URL, `{}`, "contribute")
	if err == nil {
		t.Fatal("empty piped object should fail")
	}
	if !strings.Contains(err.Error(), "title") || !strings.Contains(err.Error(), "--title") {
		t.Fatalf("error should name the missing field and its flag, got: %v", err)
	}

	_, err = runCLI(t, srv.URL, `{bad`, "contribute", "--title", "T", "--content", "C", "--tags", "a")
	if err == nil || !strings.Contains(err.Error(), "JSON") {
		t.Fatalf("malformed piped input should produce a JSON error, got: %v", err)
	}

	if hits.Load() != 0 {
		t.Fatalf("no request should reach the server on input errors, got %d", hits.Load())
	}
}

func TestCLI_SearchDefaultContextAndRender(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/knowledge/search", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode search body: %v", err)
		}
		okEnvelope(w, map[string]any{
			"results": []map[string]any{{
				"id":             "k_1",
				"title":          "Fix the flaky watcher",
				"relevanceScore": 0.91,
				"trustLevel":     "high",
				"tags":           []string{"go", "fsnotify"},
				"solution":       "pin the inotify descriptor",
			}},
			"doNotTry": []string{"raising ulimit"},
			"cost":     map[string]any{"creditsCharged": 1, "balanceRemaining": 9},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "", "search", "flaky", "file", "watcher")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if gotBody["query"] != "flaky file watcher" {
		t.Fatalf("positional args should join into the query, got %v", gotBody["query"])
	}
	searchCtx, _ := gotBody["context"].(map[string]any)
	if searchCtx["runtime"] != "go" {
		t.Fatalf("default context runtime should be go, got %v", searchCtx)
	}
	if gotBody["maxResults"] != float64(3) {
		t.Fatalf("default maxResults should be 3, got %v", gotBody["maxResults"])
	}
	for _, want := range []string{"Fix the flaky watcher", "Do NOT try:", "raising ulimit", "Cost: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_GetJSONOutput(t *testing.T) {
	entry := map[string]any{
		"id":      "k_42",
		"title":   "Title",
		"status":  "active",
		"tags":    []any{"x"},
		"content": "body",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/knowledge/k_42", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method %s", r.Method)
		}
		okEnvelope(w, entry)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "", "--json", "get", "k_42")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	var roundTrip map[string]any
	if err := json.Unmarshal([]byte(out), &roundTrip); err != nil {
		t.Fatalf("--json output is not valid JSON: %v\n%s", err, out)
	}
	if roundTrip["id"] != "k_42" || roundTrip["content"] != "body" {
		t.Fatalf("--json output should carry the data payload verbatim, got %v", roundTrip)
	}
}

func TestCLI_FeedbackPositionalArgs(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		okEnvelope(w, map[string]any{"creditsRefunded": 1.0})
	}))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "", "feedback", "k_7", "useful")
	if err != nil {
		t.Fatalf("feedback failed: %v", err)
	}
	if gotPath != "/v1/knowledge/k_7/feedback" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotBody["outcome"] != "useful" {
		t.Fatalf("unexpected body %v", gotBody)
	}
	if !strings.Contains(out, "Refund: 1") {
		t.Fatalf("unexpected output: %q", out)
	}

	_, err = runCLI(t, srv.URL, "", "feedback", "k_7", "sideways")
	if err == nil || !strings.Contains(err.Error(), "outcome must be one of") {
		t.Fatalf("invalid outcome should be rejected, got: %v", err)
	}
}

func TestCLI_StatusRender(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/agents/me", func(w http.ResponseWriter, r *http.Request) {
		okEnvelope(w, map[string]any{
			"agentId":       "a_1",
			"agentName":     "prior-go-deadbeef",
			"credits":       12.5,
			"tier":          "standard",
			"contributions": 4,
			"totalEarned":   20.0,
			"totalSpent":    7.5,
			"email":         "dev@example.com",
			"emailVerified": true,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "", "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	for _, want := range []string{"Agent:    a_1 (prior-go-deadbeef)", "Credits:  12.5", "Entries:  4", "dev@example.com (verified)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_ServerErrorSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "insufficient credits"})
	}))
	defer srv.Close()

	_, err := runCLI(t, srv.URL, "", "get", "k_9")
	if err == nil || err.Error() != "insufficient credits" {
		t.Fatalf("server error should surface verbatim, got: %v", err)
	}
}
