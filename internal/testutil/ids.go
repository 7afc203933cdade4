package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates "doc-0001", "doc-0002", ... so stored documents
// have stable IDs in golden output.
//
// Thread-safety: NewID is safe for concurrent use.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequentialIDs creates a generator. An empty prefix defaults to "doc".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "doc"
	}
	return &SequentialIDs{prefix: prefix}
}

// NewID returns the next ID.
func (g *SequentialIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%04d", g.prefix, g.next)
}
