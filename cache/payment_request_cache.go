package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"applepay-checkout-api/types"
)

const keyPrefix = "applepay:payment_request"

type PaymentRequestCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPaymentRequestCache(redisURL string, ttl time.Duration) (*PaymentRequestCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewPaymentRequestCacheWithClient(client, ttl), nil
}

func NewPaymentRequestCacheWithClient(client *redis.Client, ttl time.Duration) *PaymentRequestCache {
	return &PaymentRequestCache{client: client, ttl: ttl}
}

func Key(countryCode, checkoutID string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, countryCode, checkoutID)
}

// Get returns the cached request, or nil on a miss
func (c *PaymentRequestCache) Get(ctx context.Context, countryCode, checkoutID string) (*types.PaymentRequest, error) {
	raw, err := c.client.Get(ctx, Key(countryCode, checkoutID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read payment request: %w", err)
	}

	var request types.PaymentRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment request: %w", err)
	}
	return &request, nil
}

func (c *PaymentRequestCache) Set(ctx context.Context, countryCode, checkoutID string, request *types.PaymentRequest) error {
	raw, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal payment request: %w", err)
	}

	if err := c.client.Set(ctx, Key(countryCode, checkoutID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store payment request: %w", err)
	}
	return nil
}

func (c *PaymentRequestCache) Invalidate(ctx context.Context, countryCode, checkoutID string) error {
	if err := c.client.Del(ctx, Key(countryCode, checkoutID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate payment request: %w", err)
	}
	log.Printf("Invalidated cached payment request for checkout %s (%s)", checkoutID, countryCode)
	return nil
}

func (c *PaymentRequestCache) Client() *redis.Client {
	return c.client
}

func (c *PaymentRequestCache) Close() error {
	return c.client.Close()
}
