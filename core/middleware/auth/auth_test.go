package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		header string
		want   int
	}{
		{name: "Valid key", apiKey: "secret", header: "secret", want: fiber.StatusOK},
		{name: "Wrong key", apiKey: "secret", header: "nope", want: fiber.StatusUnauthorized},
		{name: "Missing key", apiKey: "secret", want: fiber.StatusUnauthorized},
		{name: "Disabled", apiKey: "", want: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(New(Config{ApiKey: tt.apiKey}))
			app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(HeaderName, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
