package applepay

import (
	"strings"

	"golang.org/x/exp/slices"

	"applepay-checkout-api/models"
	"applepay-checkout-api/types"
	"applepay-checkout-api/utils"
)

const (
	LabelSubtotal = "Subtotal"
	LabelSalesTax = "Sales Tax"
	LabelShipping = "Shipping"
	LabelTotal    = "Total"
)

// issuerNetworks maps normalized issuer codes (lower case, no underscores)
// to wallet network identifiers
var issuerNetworks = map[string]types.SupportedNetwork{
	"discover":    types.NetworkDiscover,
	"visa":        types.NetworkVisa,
	"mastercard":  types.NetworkMasterCard,
	"amex":        types.NetworkAmex,
	"cbnationale": types.NetworkCartesBancaires,
	"maestro":     types.NetworkMaestro,
	"jcb":         types.NetworkJCB,
}

var baseCapabilities = []types.MerchantCapability{
	types.CapabilitySupports3DS,
	types.CapabilitySupportsCredit,
	types.CapabilitySupportsDebit,
}

// MapIssuersToNetworks translates merchant issuer codes into wallet networks.
// Unknown issuers are dropped; order and duplicates are kept.
func MapIssuersToNetworks(issuers []string) []types.SupportedNetwork {
	networks := make([]types.SupportedNetwork, 0, len(issuers))
	for _, issuer := range issuers {
		key := strings.ReplaceAll(strings.ToLower(issuer), "_", "")
		if network, ok := issuerNetworks[key]; ok {
			networks = append(networks, network)
		}
	}
	return networks
}

// MapAddressToContact builds the wallet contact for a shipping address.
// A nil address gives a contact with every field empty.
func MapAddressToContact(address *models.ShippingAddress) types.Contact {
	if address == nil {
		return types.Contact{AddressLines: []string{}}
	}

	return types.Contact{
		GivenName:          address.FirstName,
		FamilyName:         address.LastName,
		AddressLines:       []string{address.AddressLine1, address.AddressLine2},
		Locality:           address.City,
		AdministrativeArea: address.State,
		PostalCode:         address.PostalCode,
		Country:            address.Country,
		CountryCode:        address.Country,
	}
}

// MapShippingMethods converts checkout shipping methods into wallet ones with
// the selected method moved toward the front.
//
// The comparator only looks at its first argument, so it is not a strict weak
// ordering. With more than one selected method the relative order among them
// depends on the sort's internals.
func MapShippingMethods(methods []models.ShippingMethod) []types.ShippingMethod {
	sorted := slices.Clone(methods)
	slices.SortStableFunc(sorted, func(a, b models.ShippingMethod) bool {
		return a.Selected
	})

	mapped := make([]types.ShippingMethod, 0, len(sorted))
	for _, method := range sorted {
		amount := utils.ZeroAmount
		if method.Amount != nil {
			amount = method.Amount.Value
		}
		mapped = append(mapped, types.ShippingMethod{
			Amount:     amount,
			Detail:     method.Type,
			Identifier: method.ID,
			Label:      method.Label,
		})
	}
	return mapped
}

// ComputeMerchantCapabilities returns the fixed capability set, plus EMV when
// China UnionPay is accepted.
func ComputeMerchantCapabilities(networks []types.SupportedNetwork) []types.MerchantCapability {
	capabilities := slices.Clone(baseCapabilities)
	if slices.Contains(networks, types.NetworkChinaUnionPay) {
		capabilities = append(capabilities, types.CapabilitySupportsEMV)
	}
	return capabilities
}

// BuildPaymentRequest assembles the wallet payment request for a checkout session
func BuildPaymentRequest(countryCode string, session *models.CheckoutSession) types.PaymentRequest {
	if session == nil {
		session = &models.CheckoutSession{}
	}
	amounts := session.Amounts

	networks := MapIssuersToNetworks(session.AllowedIssuers)
	contact := MapAddressToContact(session.ShippingAddress)
	shippingMethods := MapShippingMethods(session.ShippingMethods)
	selected := selectedShippingMethod(session.ShippingMethods)

	shippingFields := []types.ContactField{
		types.ContactFieldName,
		types.ContactFieldPhone,
		types.ContactFieldEmail,
	}
	if session.ShippingRequired {
		shippingFields = append([]types.ContactField{types.ContactFieldPostalAddress}, shippingFields...)
	}

	shippingContact := types.Contact{}
	if contact.GivenName != "" {
		shippingContact = contact
	}

	lineItems := []types.LineItem{}
	if amounts.Subtotal != nil && !utils.IsZeroAmount(amounts.Subtotal.Value) {
		lineItems = append(lineItems, types.LineItem{Label: LabelSubtotal, Amount: amounts.Subtotal.Value})
	}
	if amounts.TaxTotal != nil && !utils.IsZeroAmount(amounts.TaxTotal.Value) {
		lineItems = append(lineItems, types.LineItem{Label: LabelSalesTax, Amount: amounts.TaxTotal.Value})
	}
	// A free pickup still shows a shipping line.
	isPickup := selected != nil && selected.Type == models.ShippingTypePickup
	if amounts.Shipping != nil && (!utils.IsZeroAmount(amounts.Shipping.Value) || isPickup) {
		lineItems = append(lineItems, types.LineItem{Label: LabelShipping, Amount: amounts.Shipping.Value})
	}

	return types.PaymentRequest{
		CountryCode:          countryCode,
		CurrencyCode:         amounts.Total.CurrencyCode,
		MerchantCapabilities: ComputeMerchantCapabilities(networks),
		SupportedNetworks:    networks,
		RequiredBillingContactFields: []types.ContactField{
			types.ContactFieldPostalAddress,
			types.ContactFieldName,
			types.ContactFieldPhone,
		},
		RequiredShippingContactFields: shippingFields,
		ShippingContact:               shippingContact,
		ShippingMethods:               shippingMethods,
		LineItems:                     lineItems,
		Total: types.LineItem{
			Label:  LabelTotal,
			Amount: amounts.Total.Value,
			Type:   types.LineItemTypeFinal,
		},
	}
}

func selectedShippingMethod(methods []models.ShippingMethod) *models.ShippingMethod {
	for i := range methods {
		if methods[i].Selected {
			return &methods[i]
		}
	}
	return nil
}
