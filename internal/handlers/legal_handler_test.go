package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegalPages(t *testing.T) {
	h := NewLegalHandler("LooksMax AI", "support@looksmax.app")
	app := fiber.New()
	app.Get("/privacy", h.PrivacyPolicy)
	app.Get("/terms", h.TermsOfService)

	for path, title := range map[string]string{"/privacy": "Privacy Policy", "/terms": "Terms of Service"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Contains(t, string(body), "<h1>"+title+"</h1>")
		assert.Contains(t, string(body), "support@looksmax.app")
	}
}
