package testutil

import "sync"

// CallCounter records how many times named functions ran.
//
// Tests wrap conversion steps with Hit to observe which steps a migration
// executed, e.g. that a failing step stopped the fold before the next one.
//
// Thread-safety: all methods are safe for concurrent use.
type CallCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewCallCounter creates an empty counter.
func NewCallCounter() *CallCounter {
	return &CallCounter{counts: make(map[string]int)}
}

// Hit records one call of name.
func (c *CallCounter) Hit(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[name]++
}

// Count returns the number of calls recorded for name.
func (c *CallCounter) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[name]
}

// Total returns the number of calls recorded for all names.
func (c *CallCounter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Reset forgets all calls.
func (c *CallCounter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = make(map[string]int)
}
