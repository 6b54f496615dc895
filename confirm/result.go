package confirm

import (
	"github.com/embedpay/intentconfirm/intent"
)

// Result is the terminal outcome of one confirmation attempt. Exactly one
// Result is produced per effective Start; the awaiting caller observes it
// exactly once. Implementations are Succeeded, Failed and Canceled.
type Result interface {
	isResult()
}

// Succeeded carries the updated intent snapshot and, when the confirmation
// completed through a deferred path, the deferred confirmation type tag.
type Succeeded struct {
	Intent       *intent.Intent
	DeferredType intent.DeferredConfirmationType
}

// Failed carries the cause, a displayable message and the failure class.
type Failed struct {
	Cause   error
	Message string
	Type    ErrorType
}

// Canceled indicates the user dismissed the host launch.
type Canceled struct{}

func (Succeeded) isResult() {}
func (Failed) isResult()    {}
func (Canceled) isResult()  {}
