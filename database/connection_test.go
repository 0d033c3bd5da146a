package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applepay-checkout-api/models"
)

var checkoutColumns = []string{
	"checkout_id", "currency_code", "subtotal", "tax_total", "shipping_total",
	"total", "shipping_address", "shipping_methods", "allowed_issuers", "shipping_required",
}

func newMockConnection(t *testing.T) (*Connection, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Connection{db: db}, mock
}

func TestGetCheckoutSession(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		conn, mock := newMockConnection(t)
		mock.ExpectQuery(checkoutSessionQuery).
			WithArgs("chk_1").
			WillReturnRows(sqlmock.NewRows(checkoutColumns).AddRow(
				"chk_1", "USD", "20.00", "1.60", nil, "21.60",
				`{"first_name":"Ada","city":"Austin","state":"TX","country":"US"}`,
				nil,
				`["VISA","AMEX"]`,
				true,
			))

		session, err := conn.GetCheckoutSession(context.Background(), "chk_1")
		require.NoError(t, err)

		assert.Equal(t, "chk_1", session.ID)
		assert.Equal(t, &models.Money{CurrencyCode: "USD", Value: "20.00"}, session.Amounts.Subtotal)
		assert.Nil(t, session.Amounts.Shipping)
		assert.Equal(t, models.Money{CurrencyCode: "USD", Value: "21.60"}, session.Amounts.Total)
		require.NotNil(t, session.ShippingAddress)
		assert.Equal(t, "Austin", session.ShippingAddress.City)
		assert.Empty(t, session.ShippingMethods)
		assert.Equal(t, []string{"VISA", "AMEX"}, session.AllowedIssuers)
		assert.True(t, session.ShippingRequired)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row", func(t *testing.T) {
		conn, mock := newMockConnection(t)
		mock.ExpectQuery(checkoutSessionQuery).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(checkoutColumns))

		session, err := conn.GetCheckoutSession(context.Background(), "missing")
		assert.Nil(t, session)
		assert.ErrorIs(t, err, ErrCheckoutNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error is wrapped", func(t *testing.T) {
		conn, mock := newMockConnection(t)
		driverErr := errors.New("connection reset by peer")
		mock.ExpectQuery(checkoutSessionQuery).
			WithArgs("chk_1").
			WillReturnError(driverErr)

		session, err := conn.GetCheckoutSession(context.Background(), "chk_1")
		assert.Nil(t, session)
		require.Error(t, err)
		assert.ErrorIs(t, err, driverErr)
		assert.NotErrorIs(t, err, ErrCheckoutNotFound)
		assert.Contains(t, err.Error(), "error getting checkout session")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPingContext(t *testing.T) {
	conn, mock := newMockConnection(t)
	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("server has gone away"))

	assert.NoError(t, conn.PingContext(context.Background()))
	assert.Error(t, conn.PingContext(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
