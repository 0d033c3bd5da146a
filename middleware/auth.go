package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"applepay-checkout-api/models"
	"applepay-checkout-api/services/auth"
	"applepay-checkout-api/utils"
)

type contextKey string

const MerchantContextKey contextKey = "merchant"

// TokenValidator is satisfied by auth.JWTService
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.AuthMerchant, error)
}

// AuthMiddleware requires a valid merchant bearer token
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("Missing Authorization header from %s", r.RemoteAddr)
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("Invalid Authorization header format from %s", r.RemoteAddr)
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			merchant, err := validator.ValidateToken(parts[1])
			if err != nil {
				log.Printf("Token validation failed from %s: %v", r.RemoteAddr, err)

				var message string
				switch err {
				case auth.ErrTokenExpired:
					message = "Token expired"
				case auth.ErrInvalidToken:
					message = "Invalid token"
				default:
					message = "Authentication failed"
				}

				utils.SendErrorResponse(w, http.StatusUnauthorized, message)
				return
			}

			ctx := WithMerchant(r.Context(), merchant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireInternalSecret guards endpoints called by the storefront backend
func RequireInternalSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("X-Internal-Secret")
			if secret == "" || provided != secret {
				log.Printf("Invalid or missing internal secret from %s", r.RemoteAddr)
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithMerchant(ctx context.Context, merchant *models.AuthMerchant) context.Context {
	return context.WithValue(ctx, MerchantContextKey, merchant)
}

// GetMerchantFromContext returns the authenticated merchant, or nil
func GetMerchantFromContext(ctx context.Context) *models.AuthMerchant {
	merchant, ok := ctx.Value(MerchantContextKey).(*models.AuthMerchant)
	if !ok {
		return nil
	}
	return merchant
}
