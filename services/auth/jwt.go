package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"applepay-checkout-api/models"
)

const (
	AccessTokenDuration = 30 * time.Minute

	tokenTypeAccess = "access"
)

var (
	ErrTokenExpired    = errors.New("token expired")
	ErrInvalidToken    = errors.New("invalid token")
	ErrMissingMerchant = errors.New("merchant id is required")
)

type JWTService struct {
	secretKey []byte
	issuer    string
}

type Claims struct {
	MerchantID  string `json:"merchant_id"`
	CountryCode string `json:"country_code"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}

func NewJWTService(secretKey, issuer string) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

// IssueToken mints an access token for a merchant storefront
func (j *JWTService) IssueToken(merchant models.AuthMerchant) (*models.AuthResponse, error) {
	if merchant.MerchantID == "" {
		return nil, ErrMissingMerchant
	}
	merchant.CountryCode = strings.ToUpper(merchant.CountryCode)

	token, err := j.GenerateToken(merchant, AccessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	return &models.AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(AccessTokenDuration),
		Merchant:  merchant,
	}, nil
}

func (j *JWTService) GenerateToken(merchant models.AuthMerchant, duration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		MerchantID:  merchant.MerchantID,
		CountryCode: merchant.CountryCode,
		TokenType:   tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   merchant.MerchantID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// ValidateToken checks an access token and returns the merchant it was issued to
func (j *JWTService) ValidateToken(tokenString string) (*models.AuthMerchant, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithIssuer(j.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != tokenTypeAccess || claims.MerchantID == "" {
		return nil, ErrInvalidToken
	}

	return &models.AuthMerchant{
		MerchantID:  claims.MerchantID,
		CountryCode: claims.CountryCode,
	}, nil
}
