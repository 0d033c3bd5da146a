package applepay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applepay-checkout-api/types"
)

func errorFields(errs []types.ContactError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.ContactField)
	}
	return fields
}

func TestValidateShippingContact(t *testing.T) {
	t.Run("empty contact", func(t *testing.T) {
		result := ValidateShippingContact(&types.Contact{})

		assert.Equal(t, []string{"locality", "countryCode", "postalCode"}, errorFields(result.Errors))
		assert.False(t, result.Valid())
		assert.Nil(t, result.Address.CountryCode)
	})

	t.Run("nil contact behaves like an empty one", func(t *testing.T) {
		result := ValidateShippingContact(nil)

		assert.Len(t, result.Errors, 3)
	})

	t.Run("US contact without state", func(t *testing.T) {
		result := ValidateShippingContact(&types.Contact{
			Locality:    "X",
			CountryCode: "US",
			PostalCode:  "10001",
		})

		require.Len(t, result.Errors, 1)
		assert.Equal(t, types.ContactError{
			Code:         "shippingContactInvalid",
			ContactField: "administrativeArea",
			Message:      "State is required",
		}, result.Errors[0])
		require.NotNil(t, result.Address.CountryCode)
		assert.Equal(t, "US", *result.Address.CountryCode)
		assert.Equal(t, "X", result.Address.City)
		assert.Equal(t, "10001", result.Address.PostalCode)
	})

	t.Run("state only required in the US", func(t *testing.T) {
		result := ValidateShippingContact(&types.Contact{
			Locality:    "Berlin",
			CountryCode: "DE",
			PostalCode:  "10115",
		})

		assert.Empty(t, result.Errors)
	})

	t.Run("unknown country skips the state check", func(t *testing.T) {
		result := ValidateShippingContact(&types.Contact{
			Locality:    "Springfield",
			CountryCode: "USA",
			PostalCode:  "12345",
		})

		require.Len(t, result.Errors, 1)
		assert.Equal(t, types.ContactError{
			Code:         "shippingContactInvalid",
			ContactField: "countryCode",
			Message:      "Invalid country code",
		}, result.Errors[0])
		assert.Nil(t, result.Address.CountryCode)
	})

	t.Run("all checks fail together", func(t *testing.T) {
		result := ValidateShippingContact(&types.Contact{CountryCode: "us"})

		assert.Equal(t, []string{"locality", "administrativeArea", "postalCode"}, errorFields(result.Errors))
		for _, e := range result.Errors {
			assert.Equal(t, "shippingContactInvalid", e.Code)
			assert.NotEmpty(t, e.Message)
		}
	})

	t.Run("valid non-US contact round trips", func(t *testing.T) {
		contact := &types.Contact{
			GivenName:          "Grace",
			FamilyName:         "Hopper",
			Locality:           "Toronto",
			AdministrativeArea: "ON",
			PostalCode:         "M5V 2T6",
			CountryCode:        "CA",
		}

		result := ValidateShippingContact(contact)

		assert.True(t, result.Valid())
		assert.NotNil(t, result.Errors)
		assert.Equal(t, "Toronto", result.Address.City)
		assert.Equal(t, "ON", result.Address.State)
		assert.Equal(t, "M5V 2T6", result.Address.PostalCode)
		require.NotNil(t, result.Address.CountryCode)
		assert.Equal(t, "CA", *result.Address.CountryCode)
	})
}

func TestResolveCountryCode(t *testing.T) {
	tests := []struct {
		code     string
		want     string
		resolved bool
	}{
		{code: "US", want: "US", resolved: true},
		{code: "us", want: "US", resolved: true},
		{code: " gb ", want: "GB", resolved: true},
		{code: "FR", want: "FR", resolved: true},
		{code: "", resolved: false},
		{code: "U", resolved: false},
		{code: "USA", resolved: false},
		{code: "840", resolved: false},
		{code: "12", resolved: false},
		{code: "AQ", want: "AQ", resolved: true},
		{code: "ss", want: "SS", resolved: true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := ResolveCountryCode(tt.code)
			assert.Equal(t, tt.resolved, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCountryCodeRejectsNonCountries(t *testing.T) {
	// groupings, reserved, withdrawn and user-assigned codes
	for _, code := range []string{
		"EU", "EZ", "UN", "UK", "XK", "QO",
		"AC", "CP", "DG", "EA", "FX", "IC", "TA",
		"AN", "BU", "CS", "DD", "TP", "YU", "ZR",
	} {
		t.Run(code, func(t *testing.T) {
			got, ok := ResolveCountryCode(code)
			assert.False(t, ok)
			assert.Empty(t, got)
		})
	}
}

func TestValidateShippingContactRejectsOrganizationCodes(t *testing.T) {
	for _, code := range []string{"UN", "EZ"} {
		result := ValidateShippingContact(&types.Contact{Locality: "New York", CountryCode: code, PostalCode: "10017"})

		require.Len(t, result.Errors, 1, code)
		assert.Equal(t, FieldCountryCode, result.Errors[0].ContactField)
		assert.Equal(t, MessageInvalidCountryCode, result.Errors[0].Message)
		assert.Nil(t, result.Address.CountryCode)
	}
}
