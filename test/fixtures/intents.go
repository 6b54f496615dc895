package fixtures

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/embedpay/intentconfirm/intent"
)

// CreatePaymentIntent creates a valid test payment intent
func CreatePaymentIntent() *intent.Intent {
	id := fmt.Sprintf("pi_%d", time.Now().UnixNano())
	pi, _ := intent.NewPaymentIntent(
		id,
		id+"_secret",
		decimal.NewFromInt(49).Add(decimal.NewFromFloat(0.99)),
		"usd",
	)

	return pi
}

// CreateSetupIntent creates a valid test setup intent
func CreateSetupIntent() *intent.Intent {
	id := fmt.Sprintf("seti_%d", time.Now().UnixNano())
	si, _ := intent.NewSetupIntent(id, id+"_secret")

	return si
}

// CreatePaymentIntentWithAmount creates a payment intent with a specific amount
func CreatePaymentIntentWithAmount(amount decimal.Decimal, currency string) *intent.Intent {
	id := fmt.Sprintf("pi_%d", time.Now().UnixNano())
	pi, _ := intent.NewPaymentIntent(id, id+"_secret", amount, currency)

	return pi
}

// CreateSavedSelection creates a selection of an already-attached card
func CreateSavedSelection() intent.MethodSelection {
	return intent.SavedSelection("pm_card_visa")
}

// CreateNewSelection creates a selection of a freshly tokenized card
func CreateNewSelection() intent.MethodSelection {
	return intent.NewSelection("card", fmt.Sprintf("tok_%d", time.Now().UnixNano()))
}

// CreateConfirmParams creates valid confirm params for a payment intent
func CreateConfirmParams(pi *intent.Intent) intent.ConfirmParams {
	return intent.ConfirmParams{
		Kind:            pi.Kind,
		ClientSecret:    pi.ClientSecret,
		PaymentMethodID: "pm_card_visa",
		ReturnURL:       "embedpay://confirm-redirect",
	}
}

// CreateShippingDetails creates a shipping snapshot
func CreateShippingDetails() *intent.ShippingDetails {
	return &intent.ShippingDetails{
		Name:    "Ariel Ortiz",
		Phone:   "+15555550123",
		Line1:   "510 Townsend St",
		City:    "San Francisco",
		State:   "CA",
		Postal:  "94103",
		Country: "US",
	}
}
