package applepay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"applepay-checkout-api/models"
	"applepay-checkout-api/types"
)

var ErrMissingCheckoutID = errors.New("checkout id is required")

// CheckoutStore loads checkout sessions prepared by the storefront
type CheckoutStore interface {
	GetCheckoutSession(ctx context.Context, checkoutID string) (*models.CheckoutSession, error)
}

// RequestCache keeps built payment requests. Get returns nil, nil on a miss.
type RequestCache interface {
	Get(ctx context.Context, countryCode, checkoutID string) (*types.PaymentRequest, error)
	Set(ctx context.Context, countryCode, checkoutID string, request *types.PaymentRequest) error
	Invalidate(ctx context.Context, countryCode, checkoutID string) error
}

type Service struct {
	store          CheckoutStore
	cache          RequestCache
	defaultCountry string
}

// NewService creates the payment request service. cache may be nil.
func NewService(store CheckoutStore, cache RequestCache, defaultCountry string) *Service {
	return &Service{
		store:          store,
		cache:          cache,
		defaultCountry: strings.ToUpper(defaultCountry),
	}
}

func (s *Service) countryOrDefault(countryCode string) string {
	if countryCode == "" {
		return s.defaultCountry
	}
	return strings.ToUpper(countryCode)
}

// PaymentRequestForCheckout returns the wallet payment request for a stored
// checkout, serving it from the cache when possible
func (s *Service) PaymentRequestForCheckout(ctx context.Context, countryCode, checkoutID string) (*types.PaymentRequest, error) {
	if checkoutID == "" {
		return nil, ErrMissingCheckoutID
	}
	countryCode = s.countryOrDefault(countryCode)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, countryCode, checkoutID)
		if err != nil {
			log.Printf("Payment request cache read failed for checkout %s: %v", checkoutID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	session, err := s.store.GetCheckoutSession(ctx, checkoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout %s: %w", checkoutID, err)
	}

	request := BuildPaymentRequest(countryCode, session)

	if s.cache != nil {
		if err := s.cache.Set(ctx, countryCode, checkoutID, &request); err != nil {
			log.Printf("Payment request cache write failed for checkout %s: %v", checkoutID, err)
		}
	}

	return &request, nil
}

// InvalidateCheckout drops the cached payment request for a checkout
func (s *Service) InvalidateCheckout(ctx context.Context, countryCode, checkoutID string) error {
	if checkoutID == "" {
		return ErrMissingCheckoutID
	}
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, s.countryOrDefault(countryCode), checkoutID)
}
