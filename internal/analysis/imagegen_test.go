package analysis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/scoring"
)

func TestImageGenerator_Generate(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "img.test", r.Header.Get("x-rapidapi-host"))
		gotPrompt = r.URL.Query().Get("prompt")
		_, _ = w.Write([]byte(`{"data":{"url":"https://cdn.test/future.png"}}`))
	}))
	defer srv.Close()

	gen := NewImageGenerator(srv.URL+"/generate-image", "img.test", "key", srv.Client())
	url, err := gen.Generate(context.Background(), "a portrait, with commas & symbols")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/future.png", url)
	assert.Equal(t, "a portrait, with commas & symbols", gotPrompt)
}

func TestImageGenerator_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()
		_, err := NewImageGenerator(srv.URL, "h", "k", srv.Client()).Generate(context.Background(), "p")
		assert.Error(t, err)
	})

	t.Run("no url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		}))
		defer srv.Close()
		_, err := NewImageGenerator(srv.URL, "h", "k", srv.Client()).Generate(context.Background(), "p")
		assert.ErrorIs(t, err, ErrNoImageURL)
	})
}

func TestProjectionPrompt(t *testing.T) {
	weak := &scoring.FaceScores{SkinQuality: 5, Jawline: 6.9, Cheekbones: 8, EyeArea: 6}
	got := ProjectionPrompt(weak, 1)
	assert.Contains(t, got, "slightly improved clearer and more radiant skin, more defined jawline, brighter more youthful eyes,")
	assert.NotContains(t, got, "cheekbones")
	assert.Contains(t, got, "after 1 months")

	strong := &scoring.FaceScores{SkinQuality: 9, Jawline: 9, Cheekbones: 9, EyeArea: 9}
	assert.Contains(t, ProjectionPrompt(strong, 3), "noticeably improved enhanced facial features and skin quality")
	assert.Contains(t, ProjectionPrompt(nil, 6), "significantly improved enhanced facial features")
}
