package intent

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentIntent(t *testing.T) {
	pi, err := NewPaymentIntent("pi_123", "pi_123_secret_abc", decimal.NewFromInt(1099), "usd")
	require.NoError(t, err)

	assert.Equal(t, KindPayment, pi.Kind)
	assert.Equal(t, StatusRequiresConfirmation, pi.Status)
	assert.NoError(t, pi.IsValid())
}

func TestNewPaymentIntentValidation(t *testing.T) {
	tests := []struct {
		name         string
		id           string
		clientSecret string
		amount       decimal.Decimal
		currency     string
	}{
		{"empty ID", "", "secret", decimal.NewFromInt(100), "usd"},
		{"empty secret", "pi_1", "", decimal.NewFromInt(100), "usd"},
		{"zero amount", "pi_1", "secret", decimal.Zero, "usd"},
		{"negative amount", "pi_1", "secret", decimal.NewFromInt(-5), "usd"},
		{"empty currency", "pi_1", "secret", decimal.NewFromInt(100), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPaymentIntent(tt.id, tt.clientSecret, tt.amount, tt.currency)
			assert.Error(t, err)
		})
	}
}

func TestNewSetupIntentHasNoAmount(t *testing.T) {
	si, err := NewSetupIntent("seti_123", "seti_123_secret_xyz")
	require.NoError(t, err)

	assert.Equal(t, KindSetup, si.Kind)
	assert.NoError(t, si.IsValid())
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusRequiresConfirmation.CanTransitionTo(StatusRequiresAction))
	assert.True(t, StatusRequiresAction.CanTransitionTo(StatusSucceeded))
	assert.False(t, StatusSucceeded.CanTransitionTo(StatusRequiresAction))
	assert.False(t, StatusCanceled.CanTransitionTo(StatusProcessing))

	assert.True(t, StatusSucceeded.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
	assert.False(t, StatusRequiresAction.IsTerminal())
}

func TestMarkSucceeded(t *testing.T) {
	pi, err := NewPaymentIntent("pi_123", "secret", decimal.NewFromInt(500), "eur")
	require.NoError(t, err)

	require.NoError(t, pi.MarkRequiresAction())
	require.NoError(t, pi.MarkSucceeded("pm_456"))

	assert.Equal(t, StatusSucceeded, pi.Status)
	assert.Equal(t, "pm_456", pi.PaymentMethodID)

	// Terminal: no further transitions
	assert.Error(t, pi.MarkCanceled())
}

func TestInvalidTransitionRejected(t *testing.T) {
	pi, err := NewPaymentIntent("pi_123", "secret", decimal.NewFromInt(500), "eur")
	require.NoError(t, err)

	require.NoError(t, pi.MarkCanceled())
	assert.Error(t, pi.MarkProcessing())
	assert.Equal(t, StatusCanceled, pi.Status)
}

func TestParseDeferredConfirmationType(t *testing.T) {
	parsed, err := ParseDeferredConfirmationType("client")
	require.NoError(t, err)
	assert.Equal(t, DeferredClient, parsed)

	parsed, err = ParseDeferredConfirmationType("")
	require.NoError(t, err)
	assert.Equal(t, DeferredNone, parsed)

	_, err = ParseDeferredConfirmationType("bogus")
	assert.Error(t, err)
}

func TestConfirmParamsValidation(t *testing.T) {
	valid := ConfirmParams{
		Kind:            KindPayment,
		ClientSecret:    "pi_123_secret_abc",
		PaymentMethodID: "pm_456",
	}
	assert.NoError(t, valid.IsValid())

	missingSecret := valid
	missingSecret.ClientSecret = ""
	assert.Error(t, missingSecret.IsValid())

	missingMethod := valid
	missingMethod.PaymentMethodID = ""
	assert.Error(t, missingMethod.IsValid())

	badKind := valid
	badKind.Kind = "subscription"
	assert.Error(t, badKind.IsValid())
}

func TestSelections(t *testing.T) {
	saved := SavedSelection("pm_456")
	assert.Equal(t, SelectionSaved, saved.Kind)
	assert.Equal(t, "pm_456", saved.PaymentMethodID)

	fresh := NewSelection("card", "tok_visa")
	assert.Equal(t, SelectionNew, fresh.Kind)
	assert.Equal(t, "card", fresh.MethodType)
	assert.Equal(t, "tok_visa", fresh.Token)
}
