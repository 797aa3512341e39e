package input

import (
	"strings"
	"testing"
)

func TestParsePiped(t *testing.T) {
	t.Parallel()

	if got, err := ParsePiped(strings.NewReader("")); err != nil || got != nil {
		t.Fatalf("empty input: got %v err %v", got, err)
	}
	if got, err := ParsePiped(strings.NewReader("  \n\t")); err != nil || got != nil {
		t.Fatalf("whitespace input: got %v err %v", got, err)
	}

	got, err := ParsePiped(strings.NewReader(`{"title":"T"}`))
	if err != nil {
		t.Fatalf("object input: %v", err)
	}
	if got["title"] != "T" {
		t.Fatalf("got %v", got)
	}

	if _, err := ParsePiped(strings.NewReader(`{bad`)); err == nil {
		t.Fatal("malformed input must error")
	} else if !strings.Contains(err.Error(), "JSON") {
		t.Fatalf("error must mention JSON: %v", err)
	}
	if _, err := ParsePiped(strings.NewReader(`[1,2]`)); err == nil {
		t.Fatal("array input must error")
	}
	if _, err := ParsePiped(strings.NewReader(`"scalar"`)); err == nil {
		t.Fatal("scalar input must error")
	}
}

func TestBuildContribute_FlagWinsOverPiped(t *testing.T) {
	t.Parallel()
	piped := map[string]any{
		"title":   "piped title",
		"content": "piped content",
		"tags":    []any{"a", "b"},
		"model":   "piped-model",
	}
	req, err := BuildContribute(piped, ContributeFlags{Title: "flag title"})
	if err != nil {
		t.Fatalf("BuildContribute: %v", err)
	}
	if req.Title != "flag title" {
		t.Fatalf("title = %q, flag must win", req.Title)
	}
	if req.Content != "piped content" || req.Model != "piped-model" {
		t.Fatalf("piped values lost: %+v", req)
	}
	if len(req.Tags) != 2 || req.Tags[0] != "a" || req.Tags[1] != "b" {
		t.Fatalf("tags = %v", req.Tags)
	}
}

func TestBuildContribute_PipedOnlyDefaultsModel(t *testing.T) {
	t.Parallel()
	piped := map[string]any{"title": "T", "content": "C", "tags": []any{"a", "b"}}
	req, err := BuildContribute(piped, ContributeFlags{})
	if err != nil {
		t.Fatalf("BuildContribute: %v", err)
	}
	if req.Model != "unknown" {
		t.Fatalf("model = %q, want unknown", req.Model)
	}
}

func TestBuildContribute_TagsSplitAndTrimmed(t *testing.T) {
	t.Parallel()
	req, err := BuildContribute(nil, ContributeFlags{
		Title:   "T",
		Content: "C",
		Tags:    " go , http ,, cors ",
	})
	if err != nil {
		t.Fatalf("BuildContribute: %v", err)
	}
	want := []string{"go", "http", "cors"}
	if len(req.Tags) != len(want) {
		t.Fatalf("tags = %v", req.Tags)
	}
	for i := range want {
		if req.Tags[i] != want[i] {
			t.Fatalf("tags = %v, want %v", req.Tags, want)
		}
	}
}

func TestBuildContribute_EmptyPipedReportsMissingFields(t *testing.T) {
	t.Parallel()
	_, err := BuildContribute(map[string]any{}, ContributeFlags{})
	if err == nil {
		t.Fatal("expected missing-field error")
	}
	msg := err.Error()
	for _, want := range []string{"title", "content", "tags", "--title"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q must mention %q", msg, want)
		}
	}
}

func TestBuildContribute_EffortSubFieldMerge(t *testing.T) {
	t.Parallel()
	piped := map[string]any{
		"title":   "T",
		"content": "C",
		"tags":    []any{"a"},
		"effort":  map[string]any{"tokensUsed": float64(100), "wallClockSeconds": float64(42)},
	}
	req, err := BuildContribute(piped, ContributeFlags{EffortTokens: 999})
	if err != nil {
		t.Fatalf("BuildContribute: %v", err)
	}
	if req.Effort["tokensUsed"] != 999 {
		t.Fatalf("tokensUsed = %v, flag must override", req.Effort["tokensUsed"])
	}
	if req.Effort["wallClockSeconds"] != float64(42) {
		t.Fatalf("piped-only effort sub-field lost: %v", req.Effort)
	}
}

func TestBuildContribute_EnvironmentSubFieldMerge(t *testing.T) {
	t.Parallel()
	piped := map[string]any{
		"title":       "T",
		"content":     "C",
		"tags":        []any{"a"},
		"environment": map[string]any{"os": "linux", "runtime": "go1.24"},
	}
	req, err := BuildContribute(piped, ContributeFlags{Environment: `{"os":"darwin"}`})
	if err != nil {
		t.Fatalf("BuildContribute: %v", err)
	}
	if req.Environment["os"] != "darwin" || req.Environment["runtime"] != "go1.24" {
		t.Fatalf("environment = %v", req.Environment)
	}
}

func TestBuildContribute_BadEnvironmentJSONNamesFlag(t *testing.T) {
	t.Parallel()
	piped := map[string]any{"title": "T", "content": "C", "tags": []any{"a"}}
	_, err := BuildContribute(piped, ContributeFlags{Environment: `{nope`})
	if err == nil || !strings.Contains(err.Error(), "--environment") {
		t.Fatalf("error must name --environment: %v", err)
	}
}

func TestBuildFeedback_Precedence(t *testing.T) {
	t.Parallel()
	piped := map[string]any{"id": "k_piped", "outcome": "useful", "notes": "piped notes"}
	id, req, err := BuildFeedback(piped, FeedbackFlags{EntryID: "k_flag"})
	if err != nil {
		t.Fatalf("BuildFeedback: %v", err)
	}
	if id != "k_flag" {
		t.Fatalf("id = %q, flag must win", id)
	}
	if req.Outcome != "useful" || req.Notes != "piped notes" {
		t.Fatalf("piped values lost: %+v", req)
	}
}

func TestBuildFeedback_MissingFields(t *testing.T) {
	t.Parallel()
	_, _, err := BuildFeedback(nil, FeedbackFlags{})
	if err == nil {
		t.Fatal("expected missing-field error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "entry ID") || !strings.Contains(msg, "outcome") {
		t.Fatalf("error %q must list both fields", msg)
	}
}

func TestBuildFeedback_CorrectionSubFieldMerge(t *testing.T) {
	t.Parallel()
	piped := map[string]any{
		"id":      "k_1",
		"outcome": "not_useful",
		"correction": map[string]any{
			"content": "piped fix",
			"title":   "piped title",
			"tags":    []any{"a"},
		},
	}
	_, req, err := BuildFeedback(piped, FeedbackFlags{Correction: "flag fix"})
	if err != nil {
		t.Fatalf("BuildFeedback: %v", err)
	}
	if req.Correction == nil || req.Correction.Content != "flag fix" {
		t.Fatalf("correction content = %+v, flag must win", req.Correction)
	}
	if req.Correction.Title != "piped title" || len(req.Correction.Tags) != 1 {
		t.Fatalf("piped correction sub-fields lost: %+v", req.Correction)
	}
}

func TestBuildFeedback_NoCorrectionYieldsNil(t *testing.T) {
	t.Parallel()
	_, req, err := BuildFeedback(map[string]any{"id": "k_1", "outcome": "useful"}, FeedbackFlags{})
	if err != nil {
		t.Fatalf("BuildFeedback: %v", err)
	}
	if req.Correction != nil {
		t.Fatalf("correction = %+v, want nil", req.Correction)
	}
}

func TestBuildSearchContext(t *testing.T) {
	t.Parallel()

	ctx, err := BuildSearchContext("go", "", "", nil, "")
	if err != nil {
		t.Fatalf("BuildSearchContext: %v", err)
	}
	if ctx["runtime"] != "go" || len(ctx) != 1 {
		t.Fatalf("default context = %v", ctx)
	}

	ctx, err = BuildSearchContext("go", "linux", "bash", []string{" rg ", ""}, `{"runtime":"openclaw","extra":1}`)
	if err != nil {
		t.Fatalf("BuildSearchContext: %v", err)
	}
	if ctx["runtime"] != "openclaw" {
		t.Fatalf("inline override must win: %v", ctx)
	}
	if ctx["os"] != "linux" || ctx["shell"] != "bash" || ctx["extra"] != float64(1) {
		t.Fatalf("context = %v", ctx)
	}
	tools, _ := ctx["tools"].([]string)
	if len(tools) != 1 || tools[0] != "rg" {
		t.Fatalf("tools = %v", ctx["tools"])
	}

	if _, err := BuildSearchContext("go", "", "", nil, `{bad`); err == nil || !strings.Contains(err.Error(), "--context") {
		t.Fatalf("error must name --context: %v", err)
	}
}
