// Package input reconciles piped JSON and command-line flags into one
// canonical request payload. Per field, an explicit flag wins over the piped
// value; nested objects (effort, environment, correction) merge per sub-field
// rather than being replaced wholesale.
package input

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cg3-llc/prior-go/client"
)

// ParsePiped reads piped input and parses it as a single JSON object.
// No input (empty or whitespace) returns nil. Anything that is not a JSON
// object is a hard error, reported before any field merging.
func ParsePiped(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read piped input: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("piped input is not valid JSON: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("piped input must be a single JSON object")
	}
	return obj, nil
}

// ContributeFlags carries the discrete flag values of the contribute command.
// Zero values mean "not supplied".
type ContributeFlags struct {
	Title            string
	Content          string
	Tags             string // comma-separated
	Model            string
	Problem          string
	Solution         string
	ErrorMessages    []string
	FailedApproaches []string
	Environment      string // inline JSON object
	EffortTokens     int
	EffortAttempts   int
	TTL              string
	Visibility       string
}

// BuildContribute merges piped input and flags into a contribute request and
// validates required fields. Model defaults to "unknown" when neither source
// supplies it.
func BuildContribute(piped map[string]any, f ContributeFlags) (client.ContributeRequest, error) {
	req := client.ContributeRequest{
		Title:            stringField(f.Title, piped, "title"),
		Content:          stringField(f.Content, piped, "content"),
		Tags:             csvField(f.Tags, piped, "tags"),
		Model:            stringField(f.Model, piped, "model"),
		Problem:          stringField(f.Problem, piped, "problem"),
		Solution:         stringField(f.Solution, piped, "solution"),
		ErrorMessages:    listField(f.ErrorMessages, piped, "errorMessages"),
		FailedApproaches: listField(f.FailedApproaches, piped, "failedApproaches"),
		TTL:              stringField(f.TTL, piped, "ttl"),
		Visibility:       stringField(f.Visibility, piped, "visibility"),
	}

	env, err := stringMapField(f.Environment, "--environment", piped, "environment")
	if err != nil {
		return req, err
	}
	req.Environment = env
	req.Effort = effortField(piped, f)

	if req.Model == "" {
		req.Model = "unknown"
	}

	var missing []string
	if req.Title == "" {
		missing = append(missing, `title (--title or piped "title")`)
	}
	if req.Content == "" {
		missing = append(missing, `content (--content or piped "content")`)
	}
	if len(req.Tags) == 0 {
		missing = append(missing, `tags (--tags or piped "tags")`)
	}
	if len(missing) > 0 {
		return req, fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	return req, nil
}

// FeedbackFlags carries the discrete flag values of the feedback command.
type FeedbackFlags struct {
	EntryID         string
	Outcome         string
	Reason          string
	Notes           string
	Correction      string // replacement content
	CorrectionTitle string
	CorrectionTags  string // comma-separated
	CorrectionID    string
}

// BuildFeedback merges piped input and flags into an entry ID plus feedback
// request, validating the required fields.
func BuildFeedback(piped map[string]any, f FeedbackFlags) (string, client.FeedbackRequest, error) {
	entryID := stringField(f.EntryID, piped, "id")
	req := client.FeedbackRequest{
		Outcome:      stringField(f.Outcome, piped, "outcome"),
		Reason:       stringField(f.Reason, piped, "reason"),
		Notes:        stringField(f.Notes, piped, "notes"),
		CorrectionID: stringField(f.CorrectionID, piped, "correctionId"),
	}
	req.Correction = correctionField(piped, f)

	var missing []string
	if entryID == "" {
		missing = append(missing, `entry ID (argument, --id or piped "id")`)
	}
	if req.Outcome == "" {
		missing = append(missing, `outcome (argument, --outcome or piped "outcome")`)
	}
	if len(missing) > 0 {
		return entryID, req, fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	return entryID, req, nil
}

// BuildSearchContext assembles the mandatory search context. The inline JSON
// override merges per key over the flag-built map; a malformed override is a
// hard error naming the flag.
func BuildSearchContext(runtime, osName, shell string, tools []string, inlineJSON string) (map[string]any, error) {
	ctx := map[string]any{"runtime": runtime}
	if osName != "" {
		ctx["os"] = osName
	}
	if shell != "" {
		ctx["shell"] = shell
	}
	if cleaned := trimAll(tools); len(cleaned) > 0 {
		ctx["tools"] = cleaned
	}
	if inlineJSON != "" {
		var override map[string]any
		if err := json.Unmarshal([]byte(inlineJSON), &override); err != nil {
			return nil, fmt.Errorf("--context: invalid JSON: %w", err)
		}
		for k, v := range override {
			ctx[k] = v
		}
	}
	return ctx, nil
}

// -- field helpers --

func stringField(flag string, piped map[string]any, key string) string {
	if flag != "" {
		return flag
	}
	if s, ok := piped[key].(string); ok {
		return s
	}
	return ""
}

// csvField splits and trims a comma-separated flag value; a piped list is
// used as-is. Empty entries after trimming are dropped.
func csvField(flag string, piped map[string]any, key string) []string {
	if flag != "" {
		return trimAll(strings.Split(flag, ","))
	}
	return pipedStrings(piped, key)
}

func listField(flag []string, piped map[string]any, key string) []string {
	if len(flag) > 0 {
		return trimAll(flag)
	}
	return pipedStrings(piped, key)
}

func pipedStrings(piped map[string]any, key string) []string {
	raw, ok := piped[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// stringMapField merges a piped sub-object with a flag-supplied inline JSON
// object, flag keys winning per sub-field.
func stringMapField(flagJSON, flagName string, piped map[string]any, key string) (map[string]string, error) {
	out := map[string]string{}
	if m, ok := piped[key].(map[string]any); ok {
		for k, v := range m {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
	}
	if flagJSON != "" {
		var override map[string]string
		if err := json.Unmarshal([]byte(flagJSON), &override); err != nil {
			return nil, fmt.Errorf("%s: invalid JSON: %w", flagName, err)
		}
		for k, v := range override {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// effortField merges the piped effort object with flag overrides. Flag values
// override only their own sub-field; other piped sub-fields are kept.
func effortField(piped map[string]any, f ContributeFlags) map[string]any {
	out := map[string]any{}
	if m, ok := piped["effort"].(map[string]any); ok {
		for k, v := range m {
			out[k] = v
		}
	}
	if f.EffortTokens > 0 {
		out["tokensUsed"] = f.EffortTokens
	}
	if f.EffortAttempts > 0 {
		out["attempts"] = f.EffortAttempts
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// correctionField merges the piped correction object with flag overrides,
// per sub-field.
func correctionField(piped map[string]any, f FeedbackFlags) *client.Correction {
	var corr client.Correction
	if m, ok := piped["correction"].(map[string]any); ok {
		if s, ok := m["content"].(string); ok {
			corr.Content = s
		}
		if s, ok := m["title"].(string); ok {
			corr.Title = s
		}
		corr.Tags = pipedStrings(m, "tags")
	}
	if f.Correction != "" {
		corr.Content = f.Correction
	}
	if f.CorrectionTitle != "" {
		corr.Title = f.CorrectionTitle
	}
	if f.CorrectionTags != "" {
		corr.Tags = trimAll(strings.Split(f.CorrectionTags, ","))
	}
	if corr.Content == "" && corr.Title == "" && len(corr.Tags) == 0 {
		return nil
	}
	return &corr
}
