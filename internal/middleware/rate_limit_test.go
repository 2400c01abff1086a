package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newBurstApp(max int, window time.Duration, userID uint) *fiber.App {
	app := fiber.New()
	app.Get("/limited",
		func(c *fiber.Ctx) error {
			if userID != 0 {
				c.Locals("user_id", userID)
			}
			return c.Next()
		},
		BurstLimit(max, window),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestBurstLimitCapsRequests(t *testing.T) {
	app := newBurstApp(2, time.Minute, 7)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/limited", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/limited", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestBurstLimitKeysByAccount(t *testing.T) {
	app := fiber.New()
	limit := BurstLimit(1, time.Minute)
	app.Get("/limited",
		func(c *fiber.Ctx) error {
			if id := c.Get("X-Test-Account"); id == "7" {
				c.Locals("user_id", uint(7))
			} else if id == "8" {
				c.Locals("user_id", uint(8))
			}
			return c.Next()
		},
		limit,
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	first := httptest.NewRequest("GET", "/limited", nil)
	first.Header.Set("X-Test-Account", "7")
	resp, err := app.Test(first, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	blocked := httptest.NewRequest("GET", "/limited", nil)
	blocked.Header.Set("X-Test-Account", "7")
	resp, err = app.Test(blocked, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	other := httptest.NewRequest("GET", "/limited", nil)
	other.Header.Set("X-Test-Account", "8")
	resp, err = app.Test(other, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
