package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"applepay-checkout-api/models"
	"applepay-checkout-api/utils"
)

var ErrCheckoutNotFound = errors.New("checkout session not found")

const checkoutSessionQuery = `
	SELECT
		cs.checkout_id,
		cs.currency_code,
		cs.subtotal,
		cs.tax_total,
		cs.shipping_total,
		cs.total,
		cs.shipping_address,
		cs.shipping_methods,
		cs.allowed_issuers,
		cs.shipping_required
	FROM checkout_sessions cs
	WHERE cs.checkout_id = ?
`

// checkoutRow is a checkout_sessions row as scanned from MySQL
type checkoutRow struct {
	CheckoutID       string
	CurrencyCode     string
	Subtotal         sql.NullString
	TaxTotal         sql.NullString
	ShippingTotal    sql.NullString
	Total            string
	ShippingAddress  sql.NullString
	ShippingMethods  sql.NullString
	AllowedIssuers   sql.NullString
	ShippingRequired bool
}

// GetCheckoutSession loads a checkout session and its JSON columns
func (c *Connection) GetCheckoutSession(ctx context.Context, checkoutID string) (*models.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var row checkoutRow
	err := c.db.QueryRowContext(ctx, checkoutSessionQuery, checkoutID).Scan(
		&row.CheckoutID,
		&row.CurrencyCode,
		&row.Subtotal,
		&row.TaxTotal,
		&row.ShippingTotal,
		&row.Total,
		&row.ShippingAddress,
		&row.ShippingMethods,
		&row.AllowedIssuers,
		&row.ShippingRequired,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCheckoutNotFound
		}
		log.Printf("Error getting checkout session %s: %v", checkoutID, err)
		return nil, fmt.Errorf("error getting checkout session: %w", err)
	}

	return row.toSession(), nil
}

func (r checkoutRow) toSession() *models.CheckoutSession {
	session := &models.CheckoutSession{
		ID: r.CheckoutID,
		Amounts: models.CartAmounts{
			Subtotal: r.money(r.Subtotal),
			TaxTotal: r.money(r.TaxTotal),
			Shipping: r.money(r.ShippingTotal),
			Total:    models.Money{CurrencyCode: r.CurrencyCode, Value: r.Total},
		},
		ShippingMethods:  []models.ShippingMethod{},
		AllowedIssuers:   []string{},
		ShippingRequired: r.ShippingRequired,
	}

	var address models.ShippingAddress
	if decodeColumn(r.CheckoutID, "shipping_address", r.ShippingAddress, &address) {
		session.ShippingAddress = &address
	}
	var methods []models.ShippingMethod
	if decodeColumn(r.CheckoutID, "shipping_methods", r.ShippingMethods, &methods) && methods != nil {
		session.ShippingMethods = methods
	}
	var issuers []string
	if decodeColumn(r.CheckoutID, "allowed_issuers", r.AllowedIssuers, &issuers) && issuers != nil {
		session.AllowedIssuers = issuers
	}

	return session
}

func (r checkoutRow) money(value sql.NullString) *models.Money {
	if !value.Valid {
		return nil
	}
	return &models.Money{CurrencyCode: r.CurrencyCode, Value: value.String}
}

// decodeColumn unmarshals a JSON column into dst. NULL, JSON null and
// malformed values leave dst untouched and report false.
func decodeColumn(checkoutID, column string, value sql.NullString, dst interface{}) bool {
	if !value.Valid || value.String == "" || value.String == "null" {
		return false
	}
	if !utils.IsJSON(value.String) {
		log.Printf("Warning: checkout %s has malformed %s, ignoring it", checkoutID, column)
		return false
	}
	if err := json.Unmarshal([]byte(value.String), dst); err != nil {
		log.Printf("Warning: checkout %s has unexpected %s shape: %v", checkoutID, column, err)
		return false
	}
	return true
}
