package routes

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/analysis"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/coach"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/kv"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/media"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/recommend"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/scoring"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/services"
)

const webhookSecret = "Bearer rc-test"

var photo = base64.StdEncoding.EncodeToString([]byte("\xff\xd8\xff\xe0 fake jpeg"))

type testServer struct {
	app      *fiber.App
	profiles *profile.Manager
	images   *recordingImages
}

// recordingImages keeps photos inline and remembers what was deleted.
type recordingImages struct {
	media.InlineStore

	mu      sync.Mutex
	deleted []string
}

func (r *recordingImages) Delete(_ context.Context, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ref != "" {
		r.deleted = append(r.deleted, ref)
	}
	return nil
}

func (r *recordingImages) Deleted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.deleted...)
}

// newTestServer wires the full stack on sqlite with the vision vendor
// answering 500 and the image vendor answering a fixed URL.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	vision := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(vision.Close)
	imageGen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"url":"https://cdn.test/future.png"}}`))
	}))
	t.Cleanup(imageGen.Close)

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		JWTAccessExpiry: time.Hour,
		WebhookAuth:     webhookSecret,
		AppName:         "LooksMax AI",
		SupportEmail:    "support@looksmax.app",
	}
	profiles := profile.NewManager(kv.NewGormBackend(db))
	images := &recordingImages{}
	hub := coach.NewHub(10 * time.Millisecond)
	t.Cleanup(hub.Close)

	gateway := analysis.NewGateway(analysis.NewRapidAPIVision(vision.URL, "vision.test", "key", vision.Client()), time.Second)
	authService := services.NewAuthService(db, cfg)
	premiumService := services.NewPremiumService(profiles, authService)
	scanService := services.NewScanService(gateway, images, profiles)
	projectionService := services.NewProjectionService(
		analysis.NewImageGenerator(imageGen.URL, "img.test", "key", imageGen.Client()), profiles)

	app := fiber.New()
	Setup(app, cfg, profiles, Handlers{
		Auth:       handlers.NewAuthHandler(authService, profiles),
		Health:     handlers.NewHealthHandler(sqlDB.Ping),
		Legal:      handlers.NewLegalHandler(cfg.AppName, cfg.SupportEmail),
		Webhook:    handlers.NewWebhookHandler(premiumService, cfg.WebhookAuth),
		Profile:    handlers.NewProfileHandler(profiles, premiumService, hub, images),
		Results:    handlers.NewResultsHandler(profiles),
		Scan:       handlers.NewScanHandler(scanService, profiles, images),
		Onboarding: handlers.NewOnboardingHandler(profiles),
		Coach:      handlers.NewCoachHandler(hub),
		Future:     handlers.NewFutureHandler(projectionService),
	})
	return &testServer{app: app, profiles: profiles, images: images}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (s *testServer) register(t *testing.T) dto.DeviceAuthResponse {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"platform": "iOS"})
	require.Equal(t, http.StatusCreated, status, string(body))
	var auth dto.DeviceAuthResponse
	require.NoError(t, json.Unmarshal(body, &auth))
	require.NotEmpty(t, auth.AccessToken)
	return auth
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, status)

	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "ok", health.DB)
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	auth := s.register(t)
	assert.NotEmpty(t, auth.DeviceSecret)

	status, body := s.do(t, http.MethodGet, "/api/me/profile", auth.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	var p profile.UserProfile
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, auth.DeviceID.String(), p.ID)
	assert.NotNil(t, p.CreatedAt)

	status, _ = s.do(t, http.MethodPost, "/api/auth/login", "", dto.DeviceLoginRequest{
		DeviceID: auth.DeviceID.String(), DeviceSecret: auth.DeviceSecret,
	})
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/api/auth/login", "", dto.DeviceLoginRequest{
		DeviceID: auth.DeviceID.String(), DeviceSecret: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMe_RequiresToken(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.do(t, http.MethodGet, "/api/me/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodGet, "/api/me/profile", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

// A vendor outage still yields a stored face result, the same result on
// read, and a plan with at least two items.
type lockedResults struct {
	Locked  bool             `json:"locked"`
	Results dto.ScorePreview `json:"results"`
	Plan    recommend.Plan   `json:"plan"`
}

type historyResponse struct {
	Locked  bool                   `json:"locked"`
	History []profile.HistoryEntry `json:"history"`
}

func TestFaceScan_VendorFailureStillResolves(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t).AccessToken

	status, body := s.do(t, http.MethodPost, "/api/me/scans/face", token, dto.ScanRequest{Image: photo, SideImage: photo})
	require.Equal(t, http.StatusCreated, status, string(body))

	// Without premium the scan response carries only the preview and the plan.
	var scan lockedResults
	require.NoError(t, json.Unmarshal(body, &scan))
	assert.True(t, scan.Locked)
	assert.GreaterOrEqual(t, scan.Results.Overall, 5.0)
	assert.LessOrEqual(t, scan.Results.Overall, 8.0)
	assert.GreaterOrEqual(t, len(scan.Plan.Items), 2)

	status, body = s.do(t, http.MethodGet, "/api/me/results/face", token, nil)
	require.Equal(t, http.StatusOK, status)
	var locked lockedResults
	require.NoError(t, json.Unmarshal(body, &locked))
	assert.True(t, locked.Locked)
	assert.Equal(t, scan.Results, locked.Results)

	status, _ = s.do(t, http.MethodPost, "/api/me/premium/activate", token, dto.ActivatePremiumRequest{Plan: profile.PlanMonthly})
	require.Equal(t, http.StatusOK, status)

	status, body = s.do(t, http.MethodGet, "/api/me/results/face", token, nil)
	require.Equal(t, http.StatusOK, status)
	var full struct {
		Locked  bool               `json:"locked"`
		Results scoring.FaceScores `json:"results"`
	}
	require.NoError(t, json.Unmarshal(body, &full))
	assert.False(t, full.Locked)
	for _, v := range full.Results.Values() {
		assert.GreaterOrEqual(t, v, 5.0)
		assert.LessOrEqual(t, v, 8.0)
	}
	assert.Equal(t, scan.Results.Overall, full.Results.Overall)
	assert.Equal(t, scan.Results.Potential, full.Results.Potential)

	status, body = s.do(t, http.MethodGet, "/api/me/plan/face", token, nil)
	require.Equal(t, http.StatusOK, status)
	var plan recommend.Plan
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.Equal(t, scan.Plan, plan)

	status, body = s.do(t, http.MethodGet, "/api/me/history", token, nil)
	require.Equal(t, http.StatusOK, status)
	var history historyResponse
	require.NoError(t, json.Unmarshal(body, &history))
	assert.False(t, history.Locked)
	require.Len(t, history.History, 1)
	assert.Equal(t, scoring.VariantFace, history.History[0].Type)
	var stored scoring.FaceScores
	require.NoError(t, json.Unmarshal(history.History[0].Results, &stored))
	assert.Equal(t, full.Results, stored)

	status, body = s.do(t, http.MethodGet, "/api/me/images/face", token, nil)
	require.Equal(t, http.StatusOK, status)
	var images profile.Images
	require.NoError(t, json.Unmarshal(body, &images))
	assert.Contains(t, images.Front, "data:image/jpeg;base64,")
	assert.NotEmpty(t, images.Side)
}

func TestScan_NonPremiumSeesOnlyPreview(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t).AccessToken

	status, body := s.do(t, http.MethodPost, "/api/me/scans/face", token, dto.ScanRequest{Image: photo})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.NotContains(t, string(body), "skinQuality")
	assert.NotContains(t, string(body), "harmony")

	status, body = s.do(t, http.MethodPost, "/api/me/scans/body", token, dto.ScanRequest{Image: photo})
	require.Equal(t, http.StatusCreated, status, string(body))
	var scan struct {
		Locked  bool           `json:"locked"`
		Results map[string]any `json:"results"`
	}
	require.NoError(t, json.Unmarshal(body, &scan))
	assert.True(t, scan.Locked)
	assert.ElementsMatch(t, []string{"overall", "potential"}, keys(scan.Results))

	status, body = s.do(t, http.MethodGet, "/api/me/history", token, nil)
	require.Equal(t, http.StatusOK, status)
	var history historyResponse
	require.NoError(t, json.Unmarshal(body, &history))
	assert.True(t, history.Locked)
	require.Len(t, history.History, 2)
	for _, e := range history.History {
		var results map[string]any
		require.NoError(t, json.Unmarshal(e.Results, &results))
		assert.ElementsMatch(t, []string{"overall", "potential"}, keys(results), "entry %s", e.Type)
	}
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestScan_RejectsBadImages(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t).AccessToken

	status, _ := s.do(t, http.MethodPost, "/api/me/scans/face", token, dto.ScanRequest{Image: "%%%"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/api/me/scans/body", token, dto.ScanRequest{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodGet, "/api/me/results/body", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFuture_PremiumOnly(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t).AccessToken

	status, _ := s.do(t, http.MethodPost, "/api/me/future", token, dto.FutureRequest{Months: 3})
	assert.Equal(t, http.StatusPaymentRequired, status)

	status, _ = s.do(t, http.MethodPost, "/api/me/premium/activate", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/api/me/future", token, dto.FutureRequest{Months: 3})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = s.do(t, http.MethodPost, "/api/me/scans/face", token, dto.ScanRequest{Image: photo})
	require.Equal(t, http.StatusCreated, status)

	status, _ = s.do(t, http.MethodPost, "/api/me/future", token, dto.FutureRequest{Months: 2})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := s.do(t, http.MethodPost, "/api/me/future", token, dto.FutureRequest{Months: 6})
	require.Equal(t, http.StatusOK, status, string(body))
	var future dto.FutureResponse
	require.NoError(t, json.Unmarshal(body, &future))
	assert.Equal(t, "https://cdn.test/future.png", future.ImageURL)
	assert.Equal(t, 6, future.Months)
}

func TestOnboarding(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t).AccessToken

	state := func(status int, body []byte) dto.OnboardingResponse {
		t.Helper()
		require.Equal(t, http.StatusOK, status, string(body))
		var out dto.OnboardingResponse
		require.NoError(t, json.Unmarshal(body, &out))
		return out
	}

	got := state(s.do(t, http.MethodGet, "/api/me/onboarding", token, nil))
	assert.Equal(t, "start", string(got.Step))
	assert.False(t, got.SetupCompleted)
	assert.Empty(t, got.Gender)
	assert.Empty(t, got.Goals)

	status, _ := s.do(t, http.MethodPost, "/api/me/onboarding/gender_selected", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)

	got = state(s.do(t, http.MethodPost, "/api/me/onboarding/gender_selected", token, map[string]string{"gender": "male"}))
	assert.Equal(t, "gender_selected", string(got.Step))

	status, _ = s.do(t, http.MethodPost, "/api/me/onboarding/complete", token, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.do(t, http.MethodPost, "/api/me/onboarding/nowhere", token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	got = state(s.do(t, http.MethodPost, "/api/me/onboarding/back", token, nil))
	assert.Equal(t, "start", string(got.Step))
	assert.Equal(t, "male", got.Gender, "back keeps earlier answers")

	status, _ = s.do(t, http.MethodPatch, "/api/me/profile", token, map[string]any{"goals": []string{"fat-loss", "anti-aging"}})
	require.Equal(t, http.StatusOK, status)
	got = state(s.do(t, http.MethodGet, "/api/me/onboarding", token, nil))
	assert.Equal(t, []string{"fat-loss", "anti-aging"}, got.Goals)

	status, body := s.do(t, http.MethodGet, "/api/me/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	var p profile.UserProfile
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "male", p.Gender)
}

func TestProfile_PatchMergesAndValidatesGoals(t *testing.T) {
	s := newTestServer(t)
	auth := s.register(t)

	status, _ := s.do(t, http.MethodPatch, "/api/me/profile", auth.AccessToken, map[string]any{"goals": []string{"fly"}})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := s.do(t, http.MethodPatch, "/api/me/profile", auth.AccessToken, map[string]any{"name": "Sam", "id": "spoofed"})
	require.Equal(t, http.StatusOK, status)
	var p profile.UserProfile
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "Sam", p.Name)
	assert.Equal(t, auth.DeviceID.String(), p.ID)
}

func TestWebhook(t *testing.T) {
	s := newTestServer(t)
	auth := s.register(t)
	event := dto.RevenueCatWebhook{Event: dto.RevenueCatEvent{
		Type:          "INITIAL_PURCHASE",
		AppUserID:     auth.DeviceID.String(),
		ProductID:     "looksmax_lifetime",
		PurchasedAtMs: time.Now().UnixMilli(),
	}}

	status, _ := s.do(t, http.MethodPost, "/api/webhooks/revenuecat", "", event)
	assert.Equal(t, http.StatusUnauthorized, status)

	raw, err := json.Marshal(event)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/revenuecat", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", webhookSecret)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, body := s.do(t, http.MethodGet, "/api/me/premium", auth.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	var premium profile.PremiumStatus
	require.NoError(t, json.Unmarshal(body, &premium))
	assert.True(t, premium.IsPremium)
	assert.Equal(t, profile.PlanLifetime, premium.Plan)
}

func TestCoach(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t).AccessToken

	status, _ := s.do(t, http.MethodPost, "/api/me/coach/messages", token, dto.CoachMessageRequest{Text: "  "})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/api/me/coach/messages", token, dto.CoachMessageRequest{Text: "How do I fix my posture?"})
	require.Equal(t, http.StatusAccepted, status)

	assert.Eventually(t, func() bool {
		_, body := s.do(t, http.MethodGet, "/api/me/coach/messages", token, nil)
		var out struct {
			Messages []coach.Message `json:"messages"`
		}
		return json.Unmarshal(body, &out) == nil && len(out.Messages) == 3
	}, 2*time.Second, 20*time.Millisecond)

	status, body := s.do(t, http.MethodGet, "/api/coach/articles", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "articles")
}

func TestClearAll(t *testing.T) {
	s := newTestServer(t)
	auth := s.register(t)

	status, _ := s.do(t, http.MethodPost, "/api/me/scans/body", auth.AccessToken, dto.ScanRequest{Image: photo})
	require.Equal(t, http.StatusCreated, status)
	status, _ = s.do(t, http.MethodPost, "/api/me/scans/face", auth.AccessToken, dto.ScanRequest{Image: photo, SideImage: photo})
	require.Equal(t, http.StatusCreated, status)

	ctx := context.Background()
	face := s.profiles.For(auth.DeviceID.String()).GetFaceImages(ctx)
	body := s.profiles.For(auth.DeviceID.String()).GetBodyImages(ctx)
	require.NotNil(t, face)
	require.NotNil(t, body)

	status, _ = s.do(t, http.MethodDelete, "/api/me", auth.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, status)
	assert.ElementsMatch(t, []string{face.Front, face.Side, body.Front}, s.images.Deleted())
	assert.Nil(t, s.profiles.For(auth.DeviceID.String()).GetFaceImages(ctx))

	status, _ = s.do(t, http.MethodGet, "/api/me/results/body", auth.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = s.do(t, http.MethodGet, "/api/me/profile", auth.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
