package ratelimit_test

import (
	"net/http/httptest"
	"testing"

	"github.com/formrelay/formrelay/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientKeyFor(t *testing.T, headers map[string]string) string {
	t.Helper()

	var key string
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		key = ratelimit.ClientKey(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	return key
}

func TestClientKey_ForwardedForFirstHop(t *testing.T) {
	key := clientKeyFor(t, map[string]string{
		"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1, 10.0.0.2",
	})
	assert.Equal(t, "203.0.113.7", key)
}

func TestClientKey_FallsBackToPeerAddress(t *testing.T) {
	key := clientKeyFor(t, nil)
	assert.NotEmpty(t, key)
	assert.NotEqual(t, "unknown", key)
}

func TestClientKey_EmptyForwardedForFallsThrough(t *testing.T) {
	key := clientKeyFor(t, map[string]string{"X-Forwarded-For": " , 10.0.0.1"})
	assert.NotEqual(t, "", key)
	assert.NotContains(t, key, ",")
}
