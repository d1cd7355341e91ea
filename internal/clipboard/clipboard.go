// Package clipboard provides the text clipboard used by copy/paste FEN.
package clipboard

import (
	"context"
	"sync"
)

// Clipboard reads and writes plain text. An empty clipboard reads as "".
type Clipboard interface {
	ReadText(ctx context.Context) (string, error)
	WriteText(ctx context.Context, text string) error
}

// Memory is a process-local clipboard.
type Memory struct {
	mu   sync.RWMutex
	text string
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) ReadText(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.text, nil
}

func (m *Memory) WriteText(ctx context.Context, text string) error {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	return nil
}
