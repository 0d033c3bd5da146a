package models

import "time"

// AuthMerchant is the merchant identified by an access token
type AuthMerchant struct {
	MerchantID  string `json:"merchant_id"`
	CountryCode string `json:"country_code"`
}

// TokenRequest is sent by the storefront backend to mint a merchant token
type TokenRequest struct {
	MerchantID  string `json:"merchant_id"`
	CountryCode string `json:"country_code"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Merchant  AuthMerchant `json:"merchant"`
}
