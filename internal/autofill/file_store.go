// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package autofill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/vaultsync/models"
)

// fileRecord is one credential identity as written to disk.
type fileRecord struct {
	RecordIdentifier  string `json:"recordIdentifier"`
	ServiceIdentifier string `json:"serviceIdentifier"`
	User              string `json:"user"`
	Rank              int64  `json:"rank"`
}

// FileIdentityStore is an [IdentityStore] persisted as a JSON file, used by
// the headless shell in place of a platform store. Every mutation rewrites
// the file atomically.
type FileIdentityStore struct {
	mu      sync.Mutex
	path    string
	state   StoreState
	records identitySet
}

// OpenFileIdentityStore loads the store at path, creating an empty one when
// the file does not exist.
func OpenFileIdentityStore(path string, state StoreState) (*FileIdentityStore, error) {
	s := &FileIdentityStore{path: path, state: state, records: make(identitySet)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credential store: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}

	var records []fileRecord
	if err = json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptedStore, err)
	}
	for _, r := range records {
		ids, err := models.ParseRecordIdentifier(r.RecordIdentifier)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptedStore, err)
		}
		s.records.save([]models.AutoFillCredential{{
			ShareID:     ids.ShareID,
			ItemID:      ids.ItemID,
			Username:    r.User,
			URL:         r.ServiceIdentifier,
			LastUseTime: r.Rank,
		}})
	}
	return s, nil
}

func (s *FileIdentityStore) State(context.Context) (StoreState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, nil
}

func (s *FileIdentityStore) Save(_ context.Context, credentials []models.AutoFillCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.SupportsIncrementalUpdates {
		return ErrIncrementalWrite
	}
	return s.mutate(func(set identitySet) identitySet {
		set.save(credentials)
		return set
	})
}

func (s *FileIdentityStore) Replace(_ context.Context, credentials []models.AutoFillCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(func(identitySet) identitySet {
		set := make(identitySet, len(credentials))
		set.save(credentials)
		return set
	})
}

func (s *FileIdentityStore) Remove(_ context.Context, items []models.ItemKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.SupportsIncrementalUpdates {
		return ErrIncrementalWrite
	}
	return s.mutate(func(set identitySet) identitySet {
		set.remove(items)
		return set
	})
}

func (s *FileIdentityStore) RemoveAll(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(func(identitySet) identitySet { return make(identitySet) })
}

func (s *FileIdentityStore) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

// mutate applies fn to a copy of the records and swaps it in once the file
// has been written.
func (s *FileIdentityStore) mutate(fn func(identitySet) identitySet) error {
	next := make(identitySet, len(s.records))
	for k, v := range s.records {
		next[k] = v
	}
	next = fn(next)

	if err := s.write(next); err != nil {
		return err
	}
	s.records = next
	return nil
}

func (s *FileIdentityStore) write(set identitySet) error {
	creds := set.sorted()
	records := make([]fileRecord, 0, len(creds))
	for _, c := range creds {
		records = append(records, fileRecord{
			RecordIdentifier:  c.RecordIdentifier(),
			ServiceIdentifier: c.URL,
			User:              c.Username,
			Rank:              c.LastUseTime,
		})
	}

	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credential store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credential store dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*.json")
	if err != nil {
		return fmt.Errorf("create credential store temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credential store: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close credential store: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace credential store: %w", err)
	}
	return nil
}
