package client

// Request types for the knowledge endpoints. Optional fields carry omitempty
// so the server can distinguish "unset" from an explicit zero value.

// SearchRequest holds search parameters. Context is mandatory and must
// include a "runtime" key identifying the calling environment.
type SearchRequest struct {
	Query      string         `json:"query"`
	MaxResults int            `json:"maxResults"`
	MinQuality float64        `json:"minQuality,omitempty"`
	MaxTokens  int            `json:"maxTokens,omitempty"`
	Context    map[string]any `json:"context"`
}

// ContributeRequest holds a new knowledge entry. Effort is a free-form
// sub-object (tokensUsed, attempts, ...) passed through to the server.
type ContributeRequest struct {
	Title            string            `json:"title"`
	Content          string            `json:"content"`
	Tags             []string          `json:"tags"`
	Model            string            `json:"model"`
	Problem          string            `json:"problem,omitempty"`
	Solution         string            `json:"solution,omitempty"`
	ErrorMessages    []string          `json:"errorMessages,omitempty"`
	FailedApproaches []string          `json:"failedApproaches,omitempty"`
	Environment      map[string]string `json:"environment,omitempty"`
	Effort           map[string]any    `json:"effort,omitempty"`
	TTL              string            `json:"ttl,omitempty"`
	Visibility       string            `json:"visibility,omitempty"`
}

// Correction proposes replacement content as part of a feedback call.
type Correction struct {
	Content string   `json:"content"`
	Title   string   `json:"title,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// FeedbackRequest records an outcome for an entry. The server treats
// resubmission as an update, not an error.
type FeedbackRequest struct {
	Outcome      string      `json:"outcome"`
	Notes        string      `json:"notes,omitempty"`
	Reason       string      `json:"reason,omitempty"`
	Correction   *Correction `json:"correction,omitempty"`
	CorrectionID string      `json:"correctionId,omitempty"`
}
