package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"applepay-checkout-api/models"
	"applepay-checkout-api/services/applepay"
	"applepay-checkout-api/services/auth"
	"applepay-checkout-api/utils"
)

type AuthHandler struct {
	jwtService *auth.JWTService
}

func NewAuthHandler(jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{jwtService: jwtService}
}

// GenerateToken mints a merchant access token for the storefront backend
func (h *AuthHandler) GenerateToken(w http.ResponseWriter, r *http.Request) {
	var req models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding token request: %v", err)
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.MerchantID == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Merchant ID is required")
		return
	}

	merchant := models.AuthMerchant{MerchantID: req.MerchantID}
	if req.CountryCode != "" {
		countryCode, ok := applepay.ResolveCountryCode(req.CountryCode)
		if !ok {
			utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid country code")
			return
		}
		merchant.CountryCode = countryCode
	}

	resp, err := h.jwtService.IssueToken(merchant)
	if err != nil {
		log.Printf("Error issuing token for merchant %s: %v", req.MerchantID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	log.Printf("Issued token for merchant %s (country: %s)", merchant.MerchantID, merchant.CountryCode)
	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  models.StatusSuccess,
		Message: "Token generated",
		Data:    resp,
	})
}
