package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applepay-checkout-api/types"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "applepay:payment_request:US:chk_123", Key("US", "chk_123"))
}

func TestNewPaymentRequestCacheInvalidURL(t *testing.T) {
	_, err := NewPaymentRequestCache("not-a-redis-url", time.Minute)
	assert.Error(t, err)
}

func TestGetUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewPaymentRequestCacheWithClient(client, time.Minute)

	request, err := c.Get(context.Background(), "US", "chk_123")
	require.Error(t, err)
	assert.Nil(t, request)
}

func newTestCache(t *testing.T, ttl time.Duration) (*PaymentRequestCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewPaymentRequestCache("redis://"+mr.Addr()+"/0", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestPaymentRequestCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t, 10*time.Minute)
	ctx := context.Background()

	request := &types.PaymentRequest{
		CountryCode:          "US",
		CurrencyCode:         "USD",
		MerchantCapabilities: []types.MerchantCapability{types.CapabilitySupports3DS},
		SupportedNetworks:    []types.SupportedNetwork{types.NetworkVisa},
		Total:                types.LineItem{Label: "Total", Amount: "25.00", Type: types.LineItemTypeFinal},
	}

	missing, err := c.Get(ctx, "US", "chk_123")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, c.Set(ctx, "US", "chk_123", request))
	assert.True(t, mr.Exists(Key("US", "chk_123")))
	assert.Equal(t, 10*time.Minute, mr.TTL(Key("US", "chk_123")))

	cached, err := c.Get(ctx, "US", "chk_123")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, request, cached)

	other, err := c.Get(ctx, "CA", "chk_123")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, c.Invalidate(ctx, "US", "chk_123"))
	gone, err := c.Get(ctx, "US", "chk_123")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestPaymentRequestCacheExpires(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "US", "chk_123", &types.PaymentRequest{CountryCode: "US"}))
	mr.FastForward(2 * time.Minute)

	request, err := c.Get(ctx, "US", "chk_123")
	require.NoError(t, err)
	assert.Nil(t, request)
}

func TestGetCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(Key("US", "chk_123"), "not json"))

	request, err := c.Get(context.Background(), "US", "chk_123")
	assert.Error(t, err)
	assert.Nil(t, request)
}
