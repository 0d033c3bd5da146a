package database

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applepay-checkout-api/models"
)

func valid(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestCheckoutRowToSession(t *testing.T) {
	t.Run("all columns present", func(t *testing.T) {
		row := checkoutRow{
			CheckoutID:       "chk_1",
			CurrencyCode:     "EUR",
			Subtotal:         valid("10.00"),
			TaxTotal:         valid("1.90"),
			ShippingTotal:    valid("0.00"),
			Total:            "11.90",
			ShippingAddress:  valid(`{"first_name":"Marie","city":"Paris","country":"FR","address_line_1":"1 Rue de Rivoli"}`),
			ShippingMethods:  valid(`[{"id":"pickup","label":"Store","type":"PICKUP","selected":true,"amount":{"currency_code":"EUR","value":"0.00"}}]`),
			AllowedIssuers:   valid(`["VISA","CB_NATIONALE"]`),
			ShippingRequired: true,
		}

		session := row.toSession()

		assert.Equal(t, "chk_1", session.ID)
		assert.Equal(t, &models.Money{CurrencyCode: "EUR", Value: "10.00"}, session.Amounts.Subtotal)
		assert.Equal(t, &models.Money{CurrencyCode: "EUR", Value: "1.90"}, session.Amounts.TaxTotal)
		assert.Equal(t, &models.Money{CurrencyCode: "EUR", Value: "0.00"}, session.Amounts.Shipping)
		assert.Equal(t, models.Money{CurrencyCode: "EUR", Value: "11.90"}, session.Amounts.Total)
		require.NotNil(t, session.ShippingAddress)
		assert.Equal(t, "Marie", session.ShippingAddress.FirstName)
		assert.Equal(t, "Paris", session.ShippingAddress.City)
		require.Len(t, session.ShippingMethods, 1)
		assert.True(t, session.ShippingMethods[0].Selected)
		assert.Equal(t, "0.00", session.ShippingMethods[0].Amount.Value)
		assert.Equal(t, []string{"VISA", "CB_NATIONALE"}, session.AllowedIssuers)
		assert.True(t, session.ShippingRequired)
	})

	t.Run("NULL columns degrade to defaults", func(t *testing.T) {
		row := checkoutRow{CheckoutID: "chk_2", CurrencyCode: "USD", Total: "5.00"}

		session := row.toSession()

		assert.Nil(t, session.Amounts.Subtotal)
		assert.Nil(t, session.Amounts.TaxTotal)
		assert.Nil(t, session.Amounts.Shipping)
		assert.Nil(t, session.ShippingAddress)
		assert.NotNil(t, session.ShippingMethods)
		assert.Empty(t, session.ShippingMethods)
		assert.NotNil(t, session.AllowedIssuers)
		assert.Empty(t, session.AllowedIssuers)
	})

	t.Run("malformed JSON is ignored", func(t *testing.T) {
		row := checkoutRow{
			CheckoutID:      "chk_3",
			CurrencyCode:    "USD",
			Total:           "5.00",
			ShippingAddress: valid(`{"first_name":`),
			ShippingMethods: valid(`not json`),
			AllowedIssuers:  valid(`{"visa":true}`),
		}

		session := row.toSession()

		assert.Nil(t, session.ShippingAddress)
		assert.Empty(t, session.ShippingMethods)
		assert.Empty(t, session.AllowedIssuers)
	})

	t.Run("JSON null address", func(t *testing.T) {
		row := checkoutRow{CheckoutID: "chk_4", ShippingAddress: valid("null")}

		assert.Nil(t, row.toSession().ShippingAddress)
	})
}
