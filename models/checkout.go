package models

// Money is a currency code plus a decimal string value
type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type CartAmounts struct {
	Subtotal *Money `json:"subtotal,omitempty"`
	TaxTotal *Money `json:"tax_total,omitempty"`
	Shipping *Money `json:"shipping,omitempty"`
	Total    Money  `json:"total"`
}

type ShippingAddress struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

const ShippingTypePickup = "PICKUP"

// ShippingMethod is a delivery option offered on the checkout.
// Only one method per list is expected to be Selected; nothing enforces it.
type ShippingMethod struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Amount   *Money `json:"amount,omitempty"`
	Type     string `json:"type"`
	Selected bool   `json:"selected"`
}

// CheckoutSession is the merchant-side view of a checkout ready for the wallet
type CheckoutSession struct {
	ID               string           `json:"checkout_id"`
	Amounts          CartAmounts      `json:"amounts"`
	ShippingAddress  *ShippingAddress `json:"shipping_address,omitempty"`
	ShippingMethods  []ShippingMethod `json:"shipping_methods"`
	AllowedIssuers   []string         `json:"allowed_issuers"`
	ShippingRequired bool             `json:"shipping_required"`
}
