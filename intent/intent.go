package intent

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind distinguishes the two intent families that can be confirmed.
type Kind string

const (
	KindPayment Kind = "payment"
	KindSetup   Kind = "setup"
)

// Status represents the server-tracked status of an intent
type Status string

const (
	StatusRequiresPaymentMethod Status = "requires_payment_method"
	StatusRequiresConfirmation  Status = "requires_confirmation"
	StatusRequiresAction        Status = "requires_action"
	StatusProcessing            Status = "processing"
	StatusSucceeded             Status = "succeeded"
	StatusCanceled              Status = "canceled"
)

// Transitions represents the valid forward-transitions for each status.
var Transitions = map[Status][]Status{
	StatusRequiresPaymentMethod: {StatusRequiresConfirmation, StatusCanceled},
	StatusRequiresConfirmation:  {StatusRequiresAction, StatusProcessing, StatusSucceeded, StatusCanceled},
	StatusRequiresAction:        {StatusProcessing, StatusSucceeded, StatusRequiresPaymentMethod, StatusCanceled},
	StatusProcessing:            {StatusSucceeded, StatusRequiresPaymentMethod, StatusCanceled},
	StatusSucceeded:             {},
	StatusCanceled:              {},
}

// ValidTransitions returns the statuses reachable from s.
func (s Status) ValidTransitions() []Status {
	return Transitions[s]
}

// CanTransitionTo checks whether to is a valid forward transition from s.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range Transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return len(Transitions[s]) == 0
}

// Intent is a client-side snapshot of a server-tracked payment or setup
// operation, identified by its client secret.
type Intent struct {
	ID              string
	Kind            Kind
	ClientSecret    string
	Status          Status
	Amount          decimal.Decimal
	Currency        string
	PaymentMethodID string
	LiveMode        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewPaymentIntent creates a payment intent snapshot
func NewPaymentIntent(id, clientSecret string, amount decimal.Decimal, currency string) (*Intent, error) {
	if id == "" {
		return nil, fmt.Errorf("intent ID cannot be empty")
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("client secret cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be greater than zero")
	}
	if currency == "" {
		return nil, fmt.Errorf("currency cannot be empty")
	}

	now := time.Now()
	return &Intent{
		ID:           id,
		Kind:         KindPayment,
		ClientSecret: clientSecret,
		Status:       StatusRequiresConfirmation,
		Amount:       amount,
		Currency:     currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewSetupIntent creates a setup intent snapshot. Setup intents carry no
// amount; they attach a payment method for later use.
func NewSetupIntent(id, clientSecret string) (*Intent, error) {
	if id == "" {
		return nil, fmt.Errorf("intent ID cannot be empty")
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("client secret cannot be empty")
	}

	now := time.Now()
	return &Intent{
		ID:           id,
		Kind:         KindSetup,
		ClientSecret: clientSecret,
		Status:       StatusRequiresConfirmation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsValid validates the snapshot state.
func (i *Intent) IsValid() error {
	if i.ID == "" {
		return fmt.Errorf("intent ID cannot be empty")
	}
	if i.ClientSecret == "" {
		return fmt.Errorf("client secret cannot be empty")
	}
	if i.Kind == KindPayment && i.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("payment intent amount must be greater than zero")
	}
	return nil
}

// MarkRequiresAction marks the intent as waiting on a user-facing next action.
func (i *Intent) MarkRequiresAction() error {
	return i.transition(StatusRequiresAction)
}

// MarkProcessing marks the intent as submitted and processing.
func (i *Intent) MarkProcessing() error {
	return i.transition(StatusProcessing)
}

// MarkSucceeded marks the intent as confirmed, recording the payment method
// that completed it.
func (i *Intent) MarkSucceeded(paymentMethodID string) error {
	if err := i.transition(StatusSucceeded); err != nil {
		return err
	}
	i.PaymentMethodID = paymentMethodID
	return nil
}

// MarkCanceled marks the intent as canceled.
func (i *Intent) MarkCanceled() error {
	return i.transition(StatusCanceled)
}

func (i *Intent) transition(to Status) error {
	if !i.Status.CanTransitionTo(to) {
		return fmt.Errorf("invalid status transition %s -> %s for intent %s", i.Status, to, i.ID)
	}
	i.Status = to
	i.UpdatedAt = time.Now()
	return nil
}
