package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BhautikVekariya21/backend/internal/config"
	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/metrics"
	"github.com/BhautikVekariya21/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const goodToken = "good-token"

// stubAuth accepts goodToken and nothing else. Unstubbed methods panic.
type stubAuth struct {
	service.AuthService
	user      *domain.User
	loggedOut bool
	oldPassOK string
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if token != goodToken {
		return nil, service.ErrInvalidToken
	}
	return s.user, nil
}

func (s *stubAuth) Login(_ context.Context, username, _, password string) (*service.TokenPair, *domain.User, error) {
	if username != s.user.Username || password != "secret" {
		return nil, nil, service.ErrInvalidCredentials
	}
	return &service.TokenPair{AccessToken: goodToken, RefreshToken: "refresh"}, s.user, nil
}

func (s *stubAuth) Logout(context.Context, primitive.ObjectID) error {
	s.loggedOut = true
	return nil
}

func (s *stubAuth) ChangePassword(_ context.Context, _ primitive.ObjectID, oldPassword, _ string) error {
	if oldPassword != s.oldPassOK {
		return service.ErrInvalidOldPassword
	}
	return nil
}

type stubVideos struct {
	service.VideoService
	watchErr error
}

func (s *stubVideos) Watch(_ context.Context, id, _ primitive.ObjectID) (*domain.VideoDetail, error) {
	if s.watchErr != nil {
		return nil, s.watchErr
	}
	return &domain.VideoDetail{ID: id, Title: "clip"}, nil
}

type stubLikes struct {
	service.LikeService
	liked bool
}

func (s *stubLikes) Toggle(context.Context, domain.LikeTarget, primitive.ObjectID, primitive.ObjectID) (bool, error) {
	s.liked = !s.liked
	return s.liked, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

type testServer struct {
	router *gin.Engine
	auth   *stubAuth
	videos *stubVideos
	likes  *stubLikes
	reg    *prometheus.Registry
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestServer(t *testing.T, mutate func(*Dependencies)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	router, err := NewRouter(nil)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	ts := &testServer{
		router: router,
		auth:   &stubAuth{user: &domain.User{ID: primitive.NewObjectID(), Username: "alice"}, oldPassOK: "old-pass"},
		videos: &stubVideos{},
		likes:  &stubLikes{},
		reg:    reg,
	}
	deps := Dependencies{
		Log:        quietLogger(),
		Metrics:    metrics.New(reg),
		Gatherer:   reg,
		DB:         stubPinger{},
		Uploads:    NewUploadIntake(config.UploadConfig{TempDir: t.TempDir(), MaxImageBytes: 1024, MaxVideoBytes: 4096}),
		Cookies:    CookieConfig{Secure: true, AccessMaxAge: time.Minute, RefreshMaxAge: time.Hour},
		CORSOrigin: "http://localhost:3000",
		Auth:       ts.auth,
		Videos:     ts.videos,
		Likes:      ts.likes,
	}
	if mutate != nil {
		mutate(&deps)
	}
	SetupRoutes(ts.router, deps)
	return ts
}

func (ts *testServer) do(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func authed(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+goodToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func TestAuthMiddlewareTokenSources(t *testing.T) {
	ts := newTestServer(t, nil)
	path := "/api/v1/videos/" + primitive.NewObjectID().Hex()

	cases := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "accessToken", Value: goodToken}) }, http.StatusOK},
		{"legacy cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access_token", Value: goodToken}) }, http.StatusOK},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+goodToken) }, http.StatusOK},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", goodToken) }, http.StatusUnauthorized},
		{"wrong token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			tc.setup(req)
			w, env := ts.do(req)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.status, env.StatusCode)
			assert.Equal(t, tc.status == http.StatusOK, env.Success)
			if tc.status != http.StatusOK {
				assert.NotNil(t, env.Errors)
			}
		})
	}
}

func TestInvalidObjectIDIs400(t *testing.T) {
	ts := newTestServer(t, nil)
	w, env := ts.do(authed(http.MethodGet, "/api/v1/videos/not-an-id", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid videoId", env.Message)
	assert.False(t, env.Success)
	assert.Empty(t, env.Errors)
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{service.ErrVideoNotFound, http.StatusNotFound, "Video not found"},
		{service.ErrNotOwner, http.StatusForbidden, "You are not the owner of this resource"},
		{service.ErrUserAlreadyExists, http.StatusConflict, "User with email or username already exists"},
		{service.ErrCascadeIncomplete, http.StatusInternalServerError, "Delete did not complete, please retry"},
		{errors.New("mongo exploded"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		ts := newTestServer(t, nil)
		ts.videos.watchErr = tc.err
		w, env := ts.do(authed(http.MethodGet, "/api/v1/videos/"+primitive.NewObjectID().Hex(), nil))
		assert.Equal(t, tc.status, w.Code, tc.message)
		assert.Equal(t, tc.message, env.Message)
		assert.NotContains(t, w.Body.String(), "mongo exploded")
	}
}

func TestLoginSetsCookies(t *testing.T) {
	ts := newTestServer(t, nil)
	body := strings.NewReader(`{"username":"alice","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", body)
	req.Header.Set("Content-Type", "application/json")

	w, env := ts.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	cookies := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, "accessToken")
	require.Contains(t, cookies, "refreshToken")
	assert.Equal(t, goodToken, cookies["accessToken"].Value)
	assert.True(t, cookies["accessToken"].HttpOnly)
	assert.True(t, cookies["accessToken"].Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookies["accessToken"].SameSite)

	var data LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "alice", data.User.Username)
	assert.Equal(t, "refresh", data.RefreshToken)
}

func TestLoginBadCredentials(t *testing.T) {
	ts := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(`{"username":"alice","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w, env := ts.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid user credentials", env.Message)
	assert.Empty(t, w.Result().Cookies())
}

func TestLogoutClearsCookies(t *testing.T) {
	ts := newTestServer(t, nil)
	w, _ := ts.do(authed(http.MethodPost, "/api/v1/users/logout", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ts.auth.loggedOut)

	names := []string{}
	for _, c := range w.Result().Cookies() {
		names = append(names, c.Name)
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
	assert.ElementsMatch(t, []string{"accessToken", "refreshToken", "access_token"}, names)
}

func TestChangePasswordValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	w, env := ts.do(authed(http.MethodPost, "/api/v1/users/change-password",
		strings.NewReader(`{"oldPassword":"   ","newPassword":"abc"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation error", env.Message)
	assert.ElementsMatch(t, []string{"oldPassword is required", "newPassword must be at least 6 characters"}, env.Errors)

	w, env = ts.do(authed(http.MethodPost, "/api/v1/users/change-password",
		strings.NewReader(`{"oldPassword":"wrong","newPassword":"abcdef"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid old password", env.Message)

	w, _ = ts.do(authed(http.MethodPost, "/api/v1/users/change-password",
		strings.NewReader(`{"oldPassword":"old-pass","newPassword":"abcdef"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLikeToggleCountsMetric(t *testing.T) {
	ts := newTestServer(t, nil)
	path := "/api/v1/likes/toggle/v/" + primitive.NewObjectID().Hex()

	_, env := ts.do(authed(http.MethodPost, path, nil))
	assert.JSONEq(t, `{"isLiked":true}`, string(env.Data))
	_, env = ts.do(authed(http.MethodPost, path, nil))
	assert.JSONEq(t, `{"isLiked":false}`, string(env.Data))

	w, _ := ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `videotube_likes_toggled_total{liked="true",target="video"} 1`)
	assert.Contains(t, body, `route="/api/v1/likes/toggle/v/:videoId"`)
}

func TestHealthcheck(t *testing.T) {
	ts := newTestServer(t, nil)
	w, env := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Everything is O.K","dbStatus":"connected"}`, string(env.Data))

	down := newTestServer(t, func(d *Dependencies) { d.DB = stubPinger{err: errors.New("no primary")} })
	w, env = down.do(httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)

	degraded := newTestServer(t, func(d *Dependencies) { d.Cache = stubPinger{err: errors.New("refused")} })
	w, env = degraded.do(httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"cacheStatus":"unavailable"`)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/videos", nil)
	w, _ := ts.do(req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w, _ := ts.do(req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w, _ = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestUnknownRouteEnvelope(t *testing.T) {
	ts := newTestServer(t, nil)
	w, env := ts.do(httptest.NewRequest(http.MethodGet, "/nowhere", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", env.Message)
}

func TestLoginIsRateLimited(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Hour, 1, time.Hour)
	ts := newTestServer(t, func(d *Dependencies) { d.AuthLimiter = limiter })

	login := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(`{"username":"alice","password":"secret"}`))
		req.Header.Set("Content-Type", "application/json")
		w, _ := ts.do(req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, login())
	assert.Equal(t, http.StatusTooManyRequests, login())
}

func TestForwardedForIgnoredWithoutTrustedProxies(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Hour, 1, time.Hour)
	ts := newTestServer(t, func(d *Dependencies) { d.AuthLimiter = limiter })

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(`{"username":"alice","password":"secret"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		w, _ := ts.do(req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 429, 429, 429, 429}, codes)
}

func TestForwardedForHonouredFromTrustedProxy(t *testing.T) {
	router, err := NewRouter([]string{"192.0.2.0/24"})
	require.NoError(t, err)
	router.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "203.0.113.7", w.Body.String())

	_, err = NewRouter([]string{"not-a-cidr"})
	assert.Error(t, err)
}

func TestCORSWildcardEchoesOrigin(t *testing.T) {
	ts := newTestServer(t, func(d *Dependencies) { d.CORSOrigin = "*" })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/videos", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w, _ := ts.do(req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w, _ = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}
