// Package artifact reads and writes the processed JSON files the
// static front-end consumes.
package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names under the processed directory. The names are a
// contract with the front-end.
const (
	NormalizedFile  = "normalized.json"
	FlatFile        = "normalized_flat.json"
	ConsensusFile   = "consensus_0_5d.json"
	RiskFile        = "risk_6_7d.json"
	LeaderboardFile = "leaderboard.json"
	ImpactFile      = "hk_impact.json"
)

// ErrNotFound is returned when an artifact has not been produced yet.
var ErrNotFound = errors.New("artifact not found")

// Store persists artifacts under one directory (e.g. data/processed).
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Write marshals v as indented JSON without HTML escaping and writes it
// under the artifact name.
func (s *Store) Write(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Read returns the raw bytes of an artifact.
func (s *Store) Read(name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

// ReadInto decodes an artifact into v.
func (s *Store) ReadInto(name string, v any) error {
	b, err := s.Read(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
