// Package config persists Prior credentials at ~/.prior/config.json.
//
// Environment variables PRIOR_BASE_URL, PRIOR_API_KEY and PRIOR_AGENT_ID
// override the corresponding file values, each independently.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// DefaultBaseURL is used when neither the config file nor the environment
// supplies a server URL.
const DefaultBaseURL = "https://share.cg3.io"

// Record is the persisted credential record. It is written wholesale on save;
// there is no partial merge on disk.
type Record struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key,omitempty"`
	AgentID string `json:"agent_id,omitempty"`
}

// Provider supplies and persists the credential record. The client core takes
// a Provider so it can be tested without filesystem access.
type Provider interface {
	Load() Record
	Save(Record) error
}

// Store is the file-backed Provider.
type Store struct {
	path string
}

// NewStore returns a Store rooted at the user's home directory.
func NewStore() *Store {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return NewStoreAt(filepath.Join(home, ".prior", "config.json"))
}

// NewStoreAt returns a Store backed by the given file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the backing file.
func (s *Store) Path() string { return s.path }

type envOverrides struct {
	BaseURL string `envconfig:"BASE_URL"`
	APIKey  string `envconfig:"API_KEY"`
	AgentID string `envconfig:"AGENT_ID"`
}

// Load reads the record from disk and applies environment overrides. A missing
// or unreadable file falls back to defaults; corrupt content is treated as
// absent and never surfaced to the caller.
func (s *Store) Load() Record {
	rec := Record{BaseURL: DefaultBaseURL}

	if data, err := os.ReadFile(s.path); err == nil {
		var onDisk Record
		if err := json.Unmarshal(data, &onDisk); err == nil {
			if onDisk.BaseURL != "" {
				rec.BaseURL = onDisk.BaseURL
			}
			rec.APIKey = onDisk.APIKey
			rec.AgentID = onDisk.AgentID
		}
	}

	var env envOverrides
	if err := envconfig.Process("prior", &env); err == nil {
		if env.BaseURL != "" {
			rec.BaseURL = env.BaseURL
		}
		if env.APIKey != "" {
			rec.APIKey = env.APIKey
		}
		if env.AgentID != "" {
			rec.AgentID = env.AgentID
		}
	}

	return rec
}

// Save writes the full record to disk, creating parent directories as needed.
func (s *Store) Save(rec Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
