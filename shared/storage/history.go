package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"videoscribe/internal/models"
)

// HistoryStore persists completed analysis requests as a flat JSON array,
// loaded fully at construction and rewritten wholesale on every append.
// The mutex closes the load-append-persist race between concurrent
// requests; last-writer-wins is not acceptable for the history log.
type HistoryStore struct {
	filePath string
	entries  []models.HistoryEntry
	mu       sync.RWMutex
}

// NewHistoryStore loads existing history from filePath. A missing or
// unreadable file starts an empty history rather than failing startup.
func NewHistoryStore(filePath string) *HistoryStore {
	s := &HistoryStore{filePath: filePath}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		s.entries = nil
	}
	return s
}

// Append adds entry to the in-memory list and rewrites the backing file.
func (s *HistoryStore) Append(entry models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	return s.save()
}

// All returns every entry in insertion order.
func (s *HistoryStore) All() []models.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Count returns the number of persisted entries.
func (s *HistoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *HistoryStore) save() error {
	file, err := os.Create(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to create history file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.entries); err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return nil
}
