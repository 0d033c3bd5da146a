package applepay

import (
	"strings"

	"golang.org/x/text/language"

	"applepay-checkout-api/types"
)

const countryUS = "US"

// Contact fields reported back to the wallet
const (
	FieldLocality           = "locality"
	FieldCountryCode        = "countryCode"
	FieldAdministrativeArea = "administrativeArea"
	FieldPostalCode         = "postalCode"
)

const (
	MessageCityRequired       = "City is required"
	MessageInvalidCountryCode = "Invalid country code"
	MessageStateRequired      = "State is required"
	MessagePostalCodeRequired = "Postal code is required"
)

// ValidateShippingContact checks a wallet shipping contact and returns every
// failed check together with the normalized address. The address is filled
// even when there are errors; callers decide what to do based on the errors.
func ValidateShippingContact(contact *types.Contact) types.ContactValidation {
	if contact == nil {
		contact = &types.Contact{}
	}

	errs := []types.ContactError{}

	if contact.Locality == "" {
		errs = append(errs, contactError(FieldLocality, MessageCityRequired))
	}

	countryCode, resolved := ResolveCountryCode(contact.CountryCode)
	if !resolved {
		errs = append(errs, contactError(FieldCountryCode, MessageInvalidCountryCode))
	}

	if resolved && countryCode == countryUS && contact.AdministrativeArea == "" {
		errs = append(errs, contactError(FieldAdministrativeArea, MessageStateRequired))
	}

	if contact.PostalCode == "" {
		errs = append(errs, contactError(FieldPostalCode, MessagePostalCodeRequired))
	}

	address := types.NormalizedAddress{
		City:       contact.Locality,
		State:      contact.AdministrativeArea,
		PostalCode: contact.PostalCode,
	}
	if resolved {
		address.CountryCode = &countryCode
	}

	return types.ContactValidation{Errors: errs, Address: address}
}

// ResolveCountryCode maps an assigned ISO 3166-1 alpha-2 code, in any case,
// to its canonical upper-case form. Numeric and three-letter codes, groupings
// such as EU or UN, and reserved or withdrawn codes do not resolve.
func ResolveCountryCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return "", false
	}
	if _, ok := assignedCountries[code]; !ok {
		return "", false
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return "", false
	}
	return region.String(), true
}

func contactError(field, message string) types.ContactError {
	return types.ContactError{
		Code:         types.ErrorCodeShippingContactInvalid,
		ContactField: field,
		Message:      message,
	}
}
