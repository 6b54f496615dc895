// Package statestore provides the durable key/value slots the coordinator
// stashes across process restarts. Any store whose values survive a restart
// satisfies the Store contract; the SQLite implementation is the default.
package statestore

import (
	"fmt"
	"strconv"

	"github.com/embedpay/intentconfirm/intent"
)

// Durable slot keys.
const (
	KeyAwaitingPaymentResult          = "AwaitingPaymentResult"
	KeyDeferredIntentConfirmationType = "DeferredIntentConfirmationType"
)

// Store is a durable key/value capability. The single contract is that
// values survive process restart. No concurrent writer is expected.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set stores the value for key, replacing any previous value.
	Set(key, value string) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error

	// Close releases the underlying resources.
	Close() error
}

// Flags is a typed view over the two coordinator slots.
type Flags struct {
	store Store
}

// NewFlags wraps a store with typed accessors for the coordinator slots.
func NewFlags(store Store) *Flags {
	return &Flags{store: store}
}

// Awaiting reports whether a host launch result is outstanding.
func (f *Flags) Awaiting() (bool, error) {
	raw, ok, err := f.store.Get(KeyAwaitingPaymentResult)
	if err != nil {
		return false, fmt.Errorf("failed to read awaiting flag: %w", err)
	}
	if !ok {
		return false, nil
	}

	awaiting, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("corrupt awaiting flag %q: %w", raw, err)
	}
	return awaiting, nil
}

// SetAwaiting stores the awaiting flag.
func (f *Flags) SetAwaiting(awaiting bool) error {
	return f.store.Set(KeyAwaitingPaymentResult, strconv.FormatBool(awaiting))
}

// DeferredType returns the stored deferred confirmation type tag, empty when
// none is stored.
func (f *Flags) DeferredType() (intent.DeferredConfirmationType, error) {
	raw, ok, err := f.store.Get(KeyDeferredIntentConfirmationType)
	if err != nil {
		return intent.DeferredNone, fmt.Errorf("failed to read deferred type tag: %w", err)
	}
	if !ok {
		return intent.DeferredNone, nil
	}
	return intent.ParseDeferredConfirmationType(raw)
}

// SetDeferredType stores the deferred confirmation type tag. Storing the
// empty tag removes the slot.
func (f *Flags) SetDeferredType(t intent.DeferredConfirmationType) error {
	if t == intent.DeferredNone {
		return f.store.Delete(KeyDeferredIntentConfirmationType)
	}
	return f.store.Set(KeyDeferredIntentConfirmationType, string(t))
}

// Clear removes both slots.
func (f *Flags) Clear() error {
	if err := f.store.Delete(KeyAwaitingPaymentResult); err != nil {
		return err
	}
	return f.store.Delete(KeyDeferredIntentConfirmationType)
}
