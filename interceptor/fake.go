package interceptor

import (
	"context"
	"sync"

	"github.com/embedpay/intentconfirm/intent"
)

// Fake is a programmable Interceptor for testing. Steps and errors are
// consumed in enqueue order; with nothing queued it completes with the
// request's intent snapshot.
type Fake struct {
	mu    sync.Mutex
	queue []fakeEntry
	calls []Request
}

type fakeEntry struct {
	step NextStep
	err  error
}

// NewFake creates a new fake interceptor
func NewFake() *Fake {
	return &Fake{}
}

// Enqueue queues a step to return from the next Intercept call.
func (f *Fake) Enqueue(step NextStep) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeEntry{step: step})
}

// EnqueueError queues a transport-level error.
func (f *Fake) EnqueueError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeEntry{err: err})
}

// Intercept implements Interceptor.
func (f *Fake) Intercept(ctx context.Context, req Request) (NextStep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, req)

	if len(f.queue) == 0 {
		return Complete{Intent: req.Intent, Deferred: intent.DeferredNone}, nil
	}

	entry := f.queue[0]
	f.queue = f.queue[1:]
	if entry.err != nil {
		return nil, entry.err
	}
	return entry.step, nil
}

// Calls returns a copy of the requests observed so far.
func (f *Fake) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	calls := make([]Request, len(f.calls))
	copy(calls, f.calls)
	return calls
}

// CallCount returns the number of Intercept calls observed.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
