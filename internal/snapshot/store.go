package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no snapshot has been persisted for a provider.
var ErrNotFound = errors.New("no raw snapshot for provider")

// Store persists one latest.json per provider under a base directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir (e.g. data/raw).
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(provider string) string {
	return filepath.Join(s.dir, provider, "latest.json")
}

// Load reads the latest snapshot for a provider.
func (s *Store) Load(provider string) (*Raw, error) {
	b, err := os.ReadFile(s.path(provider))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot for %s: %w", provider, err)
	}
	var raw Raw
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot for %s: %w", provider, err)
	}
	return &raw, nil
}

// Save writes the snapshot as the provider's latest, replacing any
// previous one.
func (s *Store) Save(raw *Raw) error {
	dir := filepath.Join(s.dir, raw.Provider)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir for %s: %w", raw.Provider, err)
	}
	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot for %s: %w", raw.Provider, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "latest.json"), b, 0o644); err != nil {
		return fmt.Errorf("write snapshot for %s: %w", raw.Provider, err)
	}
	return nil
}
