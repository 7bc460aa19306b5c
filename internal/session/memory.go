package session

import (
	"context"
	"sync"
)

// MemoryBackend is a process-local Backend for tests and single-node development.
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sessions: map[string][]byte{}}
}

func (b *MemoryBackend) Get(_ context.Context, id string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return data, nil
}

func (b *MemoryBackend) Put(_ context.Context, id string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[id] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessions)
}
