// Package session implements the per-client Session store (spec.md §3,
// §5): one record per client identity, exclusive writes per key, and a
// process-wide monotonic upload counter for blob naming.
package session

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jihoonpark/contractcore/model"
)

// Store holds one model.Session per client key.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
	counter  int64
}

// NewStore builds an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]model.Session)}
}

// Get returns the session for key, or the zero value if none exists.
func (s *Store) Get(key string) model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[key]
}

// SetFile replaces key's attached file, removing the prior on-disk
// artifact (if any) before committing the new path, per spec.md §5's
// "prior file removed before new path is committed" ordering.
func (s *Store) SetFile(key, path, originalFilename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, ok := s.sessions[key]; ok && prior.PDFFilePath != "" && prior.PDFFilePath != path {
		if err := os.Remove(prior.PDFFilePath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	s.sessions[key] = model.Session{PDFFilePath: path, OriginalFilename: originalFilename}
	return nil
}

// Reset clears key's session, removing its on-disk artifact if any.
func (s *Store) Reset(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, ok := s.sessions[key]; ok && prior.PDFFilePath != "" {
		if err := os.Remove(prior.PDFFilePath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	delete(s.sessions, key)
	return nil
}

// NextUploadRecord assigns the next blob identity: a process-wide
// monotonic ID (incremented atomically) and a collision-proof UUID.
func (s *Store) NextUploadRecord(filename, path string) model.UploadRecord {
	id := atomic.AddInt64(&s.counter, 1)
	return model.UploadRecord{ID: id, UUID: uuid.NewString(), Filename: filename, Path: path}
}
