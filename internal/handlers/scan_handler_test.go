package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/media"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func imagesApp(got *[]media.Image) *fiber.App {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		front, side, err := readImages(c)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		*got = append(*got, front)
		if side != nil {
			*got = append(*got, *side)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func multipartRequest(t *testing.T, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, data := range files {
		part, err := w.CreateFormFile(field, field+".bin")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestReadImages_Multipart(t *testing.T) {
	var got []media.Image
	app := imagesApp(&got)

	resp, err := app.Test(multipartRequest(t, map[string][]byte{"image": pngHeader, "side_image": pngHeader}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	require.Len(t, got, 2)
	assert.Equal(t, "image/png", got[0].ContentType)
	assert.Equal(t, pngHeader, got[1].Data)
}

func TestReadImages_Rejects(t *testing.T) {
	var got []media.Image
	app := imagesApp(&got)

	tests := map[string]*http.Request{
		"missing file": multipartRequest(t, map[string][]byte{"photo": pngHeader}),
		"empty file":   multipartRequest(t, map[string][]byte{"image": {}}),
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Empty(t, got)
}
