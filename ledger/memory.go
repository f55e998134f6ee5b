// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"sync"

	"github.com/danielhkuo/pollwire/models"
)

// Memory is a mutex-guarded in-memory Ledger. It backs recorder unit tests
// and enforces the same (session, poll) uniqueness as the SQL ledger.
type Memory struct {
	mu    sync.Mutex
	byKey map[[2]string]models.Vote // (sessionID, pollID) -> vote
	byID  map[string][2]string

	// BeforeInsert and BeforeDelete, when set, run inside Insert and
	// DeleteByID before the lock is taken. Tests use them to interleave a
	// competing request at those boundaries.
	BeforeInsert func()
	BeforeDelete func()
}

func NewMemory() *Memory {
	return &Memory{
		byKey: make(map[[2]string]models.Vote),
		byID:  make(map[string][2]string),
	}
}

func (m *Memory) FindBySessionAndPoll(ctx context.Context, sessionID, pollID string) (*models.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.byKey[[2]string{sessionID, pollID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *Memory) Insert(ctx context.Context, v models.Vote) error {
	if m.BeforeInsert != nil {
		m.BeforeInsert()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := [2]string{v.SessionID, v.PollID}
	if _, exists := m.byKey[key]; exists {
		return ErrConflictingVote
	}
	m.byKey[key] = v
	m.byID[v.ID] = key
	return nil
}

func (m *Memory) DeleteByID(ctx context.Context, id string) (bool, error) {
	if m.BeforeDelete != nil {
		m.BeforeDelete()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	// Only delete the keyed record if it is still the same row; a concurrent
	// revote may have replaced it.
	removed := false
	if v, exists := m.byKey[key]; exists && v.ID == id {
		delete(m.byKey, key)
		removed = true
	}
	delete(m.byID, id)
	return removed, nil
}

func (m *Memory) CountByOption(ctx context.Context, pollID string) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[string]int64)
	for key, v := range m.byKey {
		if key[1] == pollID {
			counts[v.PollOptionID]++
		}
	}
	return counts, nil
}
