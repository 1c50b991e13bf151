package otpcodes

import (
	"context"
	"sync"
	"time"
)

// Memory keeps codes in process memory. Codes are lost on restart and are
// not shared between instances. Expired entries are removed by Sweep.
type Memory struct {
	mu    sync.Mutex
	codes map[string]Code
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{codes: make(map[string]Code)}
}

func (m *Memory) Put(_ context.Context, c Code) error {
	m.mu.Lock()
	m.codes[c.Email] = c
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, email string) (*Code, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *Memory) IncAttempts(_ context.Context, email string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[email]
	if !ok {
		return 0, ErrNotFound
	}
	c.Attempts++
	m.codes[email] = c
	return c.Attempts, nil
}

func (m *Memory) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	delete(m.codes, email)
	m.mu.Unlock()
	return nil
}

// Consume deletes the code for email if it still carries codeHash and
// reports whether it did. Only one caller can consume a given code.
func (m *Memory) Consume(_ context.Context, email, codeHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[email]
	if !ok || c.CodeHash != codeHash {
		return false, nil
	}
	delete(m.codes, email)
	return true, nil
}

// Sweep removes codes whose purge time is at or before now.
func (m *Memory) Sweep(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for email, c := range m.codes {
		if !now.Before(c.PurgeAt) {
			delete(m.codes, email)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored codes.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.codes)
}
