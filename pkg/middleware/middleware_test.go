package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/data/memstore"
	"boxing-booking/internal/data/repository"
	"boxing-booking/pkg/metrics"
	"boxing-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// whoami echoes the resolved caller id.
func whoami(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	utils.ResponseSuccess(w, userID)
}

func TestIdentity(t *testing.T) {
	now := time.Now()
	revokedAt := now.Add(-time.Minute)
	repo := memstore.New(
		entity.Session{TokenDigest: TokenDigest("good-token"), UserID: "user-42", ExpiresAt: now.Add(time.Hour), CreatedAt: now},
		entity.Session{TokenDigest: TokenDigest("old-token"), UserID: "user-7", ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour)},
		entity.Session{TokenDigest: TokenDigest("revoked-token"), UserID: "user-8", ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt, CreatedAt: now},
	)

	tests := []struct {
		name         string
		trustGateway bool
		headers      map[string]string
		wantStatus   int
		wantUser     string
	}{
		{"valid token", false, map[string]string{"Authorization": "Bearer good-token"}, http.StatusOK, "user-42"},
		{"missing header", false, nil, http.StatusUnauthorized, ""},
		{"wrong scheme", false, map[string]string{"Authorization": "Basic good-token"}, http.StatusUnauthorized, ""},
		{"unknown token", false, map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized, ""},
		{"expired session", false, map[string]string{"Authorization": "Bearer old-token"}, http.StatusUnauthorized, ""},
		{"revoked session", false, map[string]string{"Authorization": "Bearer revoked-token"}, http.StatusUnauthorized, ""},
		{"gateway header ignored", false, map[string]string{GatewayUserHeader: "user-9"}, http.StatusUnauthorized, ""},
		{"trusted gateway", true, map[string]string{GatewayUserHeader: "user-9"}, http.StatusOK, "user-9"},
		{"trusted gateway falls back to token", true, map[string]string{"Authorization": "Bearer good-token"}, http.StatusOK, "user-42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Identity(repo.Session, tt.trustGateway, time.Second, zap.NewNop())(http.HandlerFunc(whoami))
			req := httptest.NewRequest(http.MethodGet, "/api/boxers/me", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeEnvelope(t, w)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, utils.CodeSuccess, resp.ErrCode)
				assert.Equal(t, tt.wantUser, resp.Data)
				return
			}
			assert.Equal(t, utils.CodeUnauthorized, resp.ErrCode)
		})
	}
}

func TestTokenDigestIsStable(t *testing.T) {
	assert.Equal(t, TokenDigest("abc"), TokenDigest("abc"))
	assert.NotEqual(t, TokenDigest("abc"), TokenDigest("abd"))
	assert.Len(t, TokenDigest("abc"), 64)
}

// stalledSessions never answers before the caller's deadline.
type stalledSessions struct {
	repository.SessionRepository
}

func (stalledSessions) FindValidSession(ctx context.Context, _ string, _ time.Time) (*entity.Session, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestIdentitySessionLookupTimeout(t *testing.T) {
	h := Identity(stalledSessions{}, false, 20*time.Millisecond, zap.NewNop())(http.HandlerFunc(whoami))
	req := httptest.NewRequest(http.MethodGet, "/api/boxers/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ServeHTTP(w, req)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session lookup was not bounded")
	}

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, utils.CodeStoreTimeout, decodeEnvelope(t, w).ErrCode)
}

func TestInternalToken(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { utils.ResponseSuccess(w, nil) })

	h := InternalToken("s3cret", zap.NewNop())(ok)
	req := httptest.NewRequest(http.MethodPost, "/api/internal/archive", nil)
	req.Header.Set("X-Internal-Token", "s3cret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/internal/archive", nil)
	req.Header.Set("X-Internal-Token", "guess")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/internal/archive", nil)
	req.Header.Set("X-Internal-Token", "s3cret-and-more")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// an unset secret locks the endpoint
	h = InternalToken("", zap.NewNop())(ok)
	req = httptest.NewRequest(http.MethodPost, "/api/internal/archive", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()

	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, utils.CodeInternal, resp.ErrCode)
	assert.Equal(t, "internal server error", resp.ErrMsg)
}

func TestLoggerPassesThrough(t *testing.T) {
	h := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseCreated(w, "ok")
	}))
	w := httptest.NewRecorder()

	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/gyms", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	metrics.HTTPRequestsTotal.Reset()

	r := chi.NewRouter()
	r.Use(Metrics)
	r.Post("/api/slots/{id}/book", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseError(w, http.StatusConflict, 6065, "slot is full")
	})

	for _, id := range []string{"slot_a", "slot_b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/slots/"+id+"/book", nil))
		require.Equal(t, http.StatusConflict, w.Code)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("POST", "/api/slots/{id}/book", "409")))
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(1, 2, time.Minute)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, nil)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/slots", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:2222").Code)

	limited := send("10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, utils.CodeRateLimited, decodeEnvelope(t, limited).ErrCode)

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1111").Code)
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	rl.Allow("10.0.0.1")

	rl.evict(time.Now().Add(30 * time.Second))
	assert.Len(t, rl.visitors, 1)

	rl.evict(time.Now().Add(2 * time.Minute))
	assert.Empty(t, rl.visitors)
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"https://app.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, nil)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/slots", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
