// Package memory holds process-local stores for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mubs-locator/internal/domain"
)

// OTPStore keeps OTP records in a map guarded by a single mutex.
// Records are copied in and out so callers never share state with the store.
type OTPStore struct {
	mu      sync.Mutex
	records map[string]domain.OTPRecord
}

func NewOTPStore() *OTPStore {
	return &OTPStore{records: make(map[string]domain.OTPRecord)}
}

func (s *OTPStore) Get(_ context.Context, identity string) (*domain.OTPRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[identity]
	if !ok {
		return nil, fmt.Errorf("otp record not found: %w", domain.ErrNotFound)
	}
	return &rec, nil
}

func (s *OTPStore) Put(_ context.Context, rec *domain.OTPRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Identity] = *rec
	return nil
}

func (s *OTPStore) Consume(_ context.Context, rec *domain.OTPRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.records[rec.Identity]
	if !ok || cur.IssueID != rec.IssueID {
		return fmt.Errorf("otp record changed: %w", domain.ErrNotFound)
	}
	delete(s.records, rec.Identity)
	return nil
}

func (s *OTPStore) RecordFailure(_ context.Context, rec *domain.OTPRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.records[rec.Identity]
	if !ok || cur.IssueID != rec.IssueID {
		return 0, fmt.Errorf("otp record changed: %w", domain.ErrNotFound)
	}
	cur.Attempts++
	s.records[rec.Identity] = cur
	return cur.Attempts, nil
}

func (s *OTPStore) Delete(_ context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, identity)
	return nil
}

// Len reports how many records are stored.
func (s *OTPStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
