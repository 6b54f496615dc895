package intent

import "fmt"

// InitializationMode describes how the confirmation session was initialized.
type InitializationMode string

const (
	ModePaymentIntent  InitializationMode = "payment_intent"
	ModeSetupIntent    InitializationMode = "setup_intent"
	ModeDeferredIntent InitializationMode = "deferred_intent"
)

// DeferredConfirmationType classifies how completion was achieved when the
// confirmation decision was not made synchronously client-side. The empty
// value means the confirmation was not deferred.
type DeferredConfirmationType string

const (
	DeferredNone   DeferredConfirmationType = ""
	DeferredClient DeferredConfirmationType = "client"
	DeferredServer DeferredConfirmationType = "server"
)

// ParseDeferredConfirmationType validates a persisted tag value.
func ParseDeferredConfirmationType(s string) (DeferredConfirmationType, error) {
	switch DeferredConfirmationType(s) {
	case DeferredNone, DeferredClient, DeferredServer:
		return DeferredConfirmationType(s), nil
	default:
		return DeferredNone, fmt.Errorf("unknown deferred confirmation type %q", s)
	}
}

// SelectionKind describes how the user chose a payment method.
type SelectionKind string

const (
	SelectionSaved SelectionKind = "saved"
	SelectionNew   SelectionKind = "new"
)

// MethodSelection is the payment method the user picked for this confirmation.
type MethodSelection struct {
	Kind SelectionKind
	// PaymentMethodID is set for saved selections.
	PaymentMethodID string
	// MethodType and Token are set for new selections.
	MethodType string
	Token      string
}

// SavedSelection selects an already-attached payment method.
func SavedSelection(paymentMethodID string) MethodSelection {
	return MethodSelection{Kind: SelectionSaved, PaymentMethodID: paymentMethodID}
}

// NewSelection selects a freshly collected payment method by tokenized details.
func NewSelection(methodType, token string) MethodSelection {
	return MethodSelection{Kind: SelectionNew, MethodType: methodType, Token: token}
}

// ShippingDetails is an optional shipping snapshot attached to confirm calls.
type ShippingDetails struct {
	Name    string
	Phone   string
	Line1   string
	Line2   string
	City    string
	State   string
	Postal  string
	Country string
}

// ConfirmParams carries everything needed to confirm an intent through the
// host launch mechanism. Kind selects between the payment and setup call
// shapes; the adapter call is otherwise identical.
type ConfirmParams struct {
	Kind            Kind
	ClientSecret    string
	PaymentMethodID string
	MethodType      string
	ReturnURL       string
	SetupFutureUse  bool
	Shipping        *ShippingDetails
}

// IsValid validates the params.
func (p *ConfirmParams) IsValid() error {
	if p.ClientSecret == "" {
		return fmt.Errorf("confirm params client secret cannot be empty")
	}
	if p.Kind != KindPayment && p.Kind != KindSetup {
		return fmt.Errorf("unknown confirm params kind %q", p.Kind)
	}
	if p.PaymentMethodID == "" && p.MethodType == "" {
		return fmt.Errorf("confirm params must carry a payment method ID or type")
	}
	return nil
}
