package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"applepay-checkout-api/config"
	"applepay-checkout-api/database"
	"applepay-checkout-api/middleware"
	"applepay-checkout-api/models"
	"applepay-checkout-api/services/applepay"
	"applepay-checkout-api/types"
	"applepay-checkout-api/utils"
)

const (
	checkoutSessionName = "checkout-session"
	checkoutIDKey       = "checkout_id"
)

// PaymentRequestService is satisfied by applepay.Service
type PaymentRequestService interface {
	PaymentRequestForCheckout(ctx context.Context, countryCode, checkoutID string) (*types.PaymentRequest, error)
	InvalidateCheckout(ctx context.Context, countryCode, checkoutID string) error
}

type ApplePayHandler struct {
	service PaymentRequestService
	store   sessions.Store
}

func NewSessionStore(cfg config.SessionConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   cfg.MaxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func NewApplePayHandler(service PaymentRequestService, store sessions.Store) *ApplePayHandler {
	return &ApplePayHandler{service: service, store: store}
}

// CreatePaymentRequest returns the wallet payment request for a checkout. The
// checkout id comes from the body, or from the checkout cookie when omitted.
func (h *ApplePayHandler) CreatePaymentRequest(w http.ResponseWriter, r *http.Request) {
	var input models.PaymentRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("Error decoding payment request body: %v", err)
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.store.Get(r, checkoutSessionName)
	if err != nil {
		log.Printf("Ignoring unreadable checkout cookie: %v", err)
	}
	if session == nil {
		session = sessions.NewSession(h.store, checkoutSessionName)
	}

	checkoutID := input.CheckoutID
	if checkoutID == "" {
		checkoutID, _ = session.Values[checkoutIDKey].(string)
	}

	var countryCode string
	if merchant := middleware.GetMerchantFromContext(r.Context()); merchant != nil {
		countryCode = merchant.CountryCode
	}

	request, err := h.service.PaymentRequestForCheckout(r.Context(), countryCode, checkoutID)
	if err != nil {
		switch {
		case errors.Is(err, applepay.ErrMissingCheckoutID):
			utils.SendErrorResponse(w, http.StatusBadRequest, "Checkout ID is required")
		case errors.Is(err, database.ErrCheckoutNotFound):
			utils.SendErrorResponse(w, http.StatusNotFound, "Checkout not found")
		default:
			log.Printf("[%s] Error building payment request for checkout %s: %v",
				middleware.GetRequestID(r.Context()), checkoutID, err)
			utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to build payment request")
		}
		return
	}

	session.Values[checkoutIDKey] = checkoutID
	if err := session.Save(r, w); err != nil {
		log.Printf("Error saving checkout cookie: %v", err)
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  models.StatusSuccess,
		Message: "Payment request created",
		Data:    request,
	})
}

// ValidateShippingContact checks the contact the wallet sends when the shopper
// picks a shipping address. Validation failures are reported with HTTP 200
// and status "invalid".
func (h *ApplePayHandler) ValidateShippingContact(w http.ResponseWriter, r *http.Request) {
	var contact types.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		log.Printf("Error decoding shipping contact: %v", err)
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result := applepay.ValidateShippingContact(&contact)

	response := models.APIResponse{
		Status:  models.StatusSuccess,
		Message: "Shipping contact is valid",
		Data:    result,
	}
	if !result.Valid() {
		response.Status = models.StatusInvalid
		response.Message = "Shipping contact is incomplete"
	}
	utils.SendSuccessResponse(w, response)
}

// InvalidatePaymentRequest drops the cached request after the checkout changed
func (h *ApplePayHandler) InvalidatePaymentRequest(w http.ResponseWriter, r *http.Request) {
	checkoutID := mux.Vars(r)["checkoutID"]

	var countryCode string
	if merchant := middleware.GetMerchantFromContext(r.Context()); merchant != nil {
		countryCode = merchant.CountryCode
	}

	if err := h.service.InvalidateCheckout(r.Context(), countryCode, checkoutID); err != nil {
		if errors.Is(err, applepay.ErrMissingCheckoutID) {
			utils.SendErrorResponse(w, http.StatusBadRequest, "Checkout ID is required")
			return
		}
		log.Printf("Error invalidating payment request for checkout %s: %v", checkoutID, err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to invalidate payment request")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  models.StatusSuccess,
		Message: "Payment request invalidated",
	})
}
