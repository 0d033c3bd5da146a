package types

// SupportedNetwork is an Apple Pay card network identifier
type SupportedNetwork string

const (
	NetworkDiscover        SupportedNetwork = "discover"
	NetworkVisa            SupportedNetwork = "visa"
	NetworkMasterCard      SupportedNetwork = "masterCard"
	NetworkAmex            SupportedNetwork = "amex"
	NetworkCartesBancaires SupportedNetwork = "cartesBancaires"
	NetworkMaestro         SupportedNetwork = "maestro"
	NetworkJCB             SupportedNetwork = "jcb"
	NetworkChinaUnionPay   SupportedNetwork = "chinaUnionPay"
)

// MerchantCapability tells the wallet which payment processing the merchant supports
type MerchantCapability string

const (
	CapabilitySupports3DS    MerchantCapability = "supports3DS"
	CapabilitySupportsCredit MerchantCapability = "supportsCredit"
	CapabilitySupportsDebit  MerchantCapability = "supportsDebit"
	CapabilitySupportsEMV    MerchantCapability = "supportsEMV"
)

// ContactField names a piece of contact information the wallet must collect
type ContactField string

const (
	ContactFieldPostalAddress ContactField = "postalAddress"
	ContactFieldName          ContactField = "name"
	ContactFieldPhone         ContactField = "phone"
	ContactFieldEmail         ContactField = "email"
)

const LineItemTypeFinal = "final"

// Contact is both the pre-filled shipping contact and the one returned by the wallet
type Contact struct {
	GivenName          string   `json:"givenName,omitempty"`
	FamilyName         string   `json:"familyName,omitempty"`
	AddressLines       []string `json:"addressLines,omitempty"`
	Locality           string   `json:"locality,omitempty"`
	AdministrativeArea string   `json:"administrativeArea,omitempty"`
	PostalCode         string   `json:"postalCode,omitempty"`
	Country            string   `json:"country,omitempty"`
	CountryCode        string   `json:"countryCode,omitempty"`
	EmailAddress       string   `json:"emailAddress,omitempty"`
	PhoneNumber        string   `json:"phoneNumber,omitempty"`
}

type LineItem struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
	Type   string `json:"type,omitempty"`
}

// ShippingMethod is the wallet's representation of a delivery option
type ShippingMethod struct {
	Label      string `json:"label"`
	Detail     string `json:"detail"`
	Amount     string `json:"amount"`
	Identifier string `json:"identifier"`
}

// PaymentRequest is handed as-is to the wallet's payment request constructor
type PaymentRequest struct {
	CountryCode                   string               `json:"countryCode"`
	CurrencyCode                  string               `json:"currencyCode"`
	MerchantCapabilities          []MerchantCapability `json:"merchantCapabilities"`
	SupportedNetworks             []SupportedNetwork   `json:"supportedNetworks"`
	RequiredBillingContactFields  []ContactField       `json:"requiredBillingContactFields"`
	RequiredShippingContactFields []ContactField       `json:"requiredShippingContactFields"`
	ShippingContact               Contact              `json:"shippingContact"`
	ShippingMethods               []ShippingMethod     `json:"shippingMethods"`
	LineItems                     []LineItem           `json:"lineItems"`
	Total                         LineItem             `json:"total"`
}

// Error codes understood by the wallet sheet
const (
	ErrorCodeShippingContactInvalid = "shippingContactInvalid"
)

// ContactError is one field-level problem with a wallet shipping contact
type ContactError struct {
	Code         string `json:"code"`
	ContactField string `json:"contactField"`
	Message      string `json:"message"`
}

// NormalizedAddress is the address derived from a wallet shipping contact.
// CountryCode is nil when the contact's country could not be resolved.
type NormalizedAddress struct {
	City        string  `json:"city"`
	State       string  `json:"state"`
	CountryCode *string `json:"countryCode"`
	PostalCode  string  `json:"postalCode"`
}

type ContactValidation struct {
	Errors  []ContactError    `json:"errors"`
	Address NormalizedAddress `json:"address"`
}

// Valid reports whether the contact passed every check
func (v ContactValidation) Valid() bool {
	return len(v.Errors) == 0
}
