package confirm

import (
	"context"
	"sync"
)

// completion is a single-resolution future carrying one Result. The first
// resolve wins; await blocks until resolution or context cancellation.
// Awaiting does not consume the result, so a coordinator reconstructed after
// process death can hand out the same pending completion again.
type completion struct {
	once   sync.Once
	done   chan struct{}
	result Result
}

func newCompletion() *completion {
	return &completion{done: make(chan struct{})}
}

// resolve stores the result and wakes all waiters. Returns false if the
// completion was already resolved.
func (c *completion) resolve(res Result) bool {
	resolved := false
	c.once.Do(func() {
		c.result = res
		close(c.done)
		resolved = true
	})
	return resolved
}

// await blocks until the completion resolves or ctx is done.
func (c *completion) await(ctx context.Context) (Result, error) {
	select {
	case <-c.done:
		return c.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// isResolved reports whether a result has been produced.
func (c *completion) isResolved() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
