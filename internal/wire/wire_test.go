package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/data/memstore"
	"boxing-booking/internal/data/repository"
	"boxing-booking/internal/notify"
	"boxing-booking/pkg/middleware"
	"boxing-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	ErrCode int             `json:"errcode"`
	ErrMsg  string          `json:"errmsg"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	t          *testing.T
	app        *App
	repo       *repository.Repository
	queue      *notify.MemoryQueue
	dispatcher *notify.QueueDispatcher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	config := &utils.Config{
		App: utils.AppConfig{
			Timezone:             "UTC",
			TrustGatewayIdentity: true,
			InternalToken:        "ops-token",
		},
		RateLimit: utils.RateLimitConfig{RPS: 1000, Burst: 1000},
	}
	repo := memstore.New()
	queue := notify.NewMemoryQueue(32)
	dispatcher := notify.NewQueueDispatcher(queue, time.Second, zap.NewNop())

	app, err := Wiring(repo, dispatcher, config, zap.NewNop())
	require.NoError(t, err)

	return &testApp{t: t, app: app, repo: repo, queue: queue, dispatcher: dispatcher}
}

func (a *testApp) call(method, path, userID string, body any) (int, envelope) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set(middleware.GatewayUserHeader, userID)
	}
	w := httptest.NewRecorder()
	a.app.Router.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (a *testApp) deliverNotifications() {
	a.t.Helper()
	a.dispatcher.Wait()

	worker := notify.NewWorker(a.queue, a.repo.Notification, notify.NewLogPusher(zap.NewNop()),
		utils.SystemClock{}, notify.WorkerConfig{}, zap.NewNop())
	for a.queue.Len() > 0 {
		ev, err := a.queue.Pop(context.Background(), time.Second)
		require.NoError(a.t, err)
		require.NotNil(a.t, ev)
		require.NoError(a.t, worker.Handle(context.Background(), *ev))
	}
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestBookingFlowOverHTTP(t *testing.T) {
	a := newTestApp(t)
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format(utils.DateLayout)

	city := "Berlin"
	require.NoError(t, a.repo.Gym.Create(context.Background(), &entity.Gym{
		GymID: "gym_1", UserID: "gym-user", Name: "Knockout", Address: "Ringstr. 1",
		Latitude: 52.5, Longitude: 13.4, City: &city, Phone: "555", Status: entity.GymStatusApproved,
	}))

	for _, user := range []string{"boxer-a", "boxer-b"} {
		status, env := a.call(http.MethodPost, "/api/boxers", user, map[string]any{
			"nickname": user, "gender": "female", "birthdate": "1999-04-01", "height": 170, "weight": 60,
		})
		require.Equal(t, http.StatusCreated, status, env.ErrMsg)
	}

	status, env := a.call(http.MethodPost, "/api/gym/slots", "gym-user", map[string]any{
		"date": tomorrow, "start_time": "18:00", "end_time": "19:00", "max_boxers": 1,
	})
	require.Equal(t, http.StatusCreated, status, env.ErrMsg)
	slot := decodeData[map[string]any](t, env)
	slotID := slot["slot_id"].(string)

	status, _ = a.call(http.MethodPost, "/api/slots/"+slotID+"/book", "boxer-a", nil)
	require.Equal(t, http.StatusCreated, status)

	status, env = a.call(http.MethodPost, "/api/slots/"+slotID+"/book", "boxer-b", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, 6065, env.ErrCode)

	status, env = a.call(http.MethodGet, "/api/slots?city=Berlin", "boxer-a", nil)
	require.Equal(t, http.StatusOK, status)
	available := decodeData[struct {
		Slots []struct {
			AvailableSpots int  `json:"available_spots"`
			IsBooked       bool `json:"is_booked"`
		} `json:"slots"`
	}](t, env)
	require.Len(t, available.Slots, 1)
	assert.Equal(t, 0, available.Slots[0].AvailableSpots)
	assert.True(t, available.Slots[0].IsBooked)

	status, env = a.call(http.MethodGet, "/api/slots/"+slotID+"/bookings", "boxer-b", nil)
	require.Equal(t, http.StatusOK, status)
	booked := decodeData[map[string]any](t, env)
	assert.Equal(t, float64(1), booked["total"])

	status, env = a.call(http.MethodDelete, "/api/gym/slots/"+slotID, "gym-user", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, 6044, env.ErrCode)

	status, env = a.call(http.MethodPost, "/api/bookings/cancel", "boxer-a", map[string]any{"slot_id": slotID})
	require.Equal(t, http.StatusOK, status, env.ErrMsg)

	status, env = a.call(http.MethodGet, "/api/bookings/me?status=cancelled", "boxer-a", nil)
	require.Equal(t, http.StatusOK, status)
	mine := decodeData[map[string]any](t, env)
	assert.Equal(t, float64(1), mine["total"])

	a.deliverNotifications()

	status, env = a.call(http.MethodGet, "/api/notifications?is_read=false", "gym-user", nil)
	require.Equal(t, http.StatusOK, status)
	inbox := decodeData[map[string]any](t, env)
	assert.Equal(t, float64(2), inbox["total"])
	assert.Equal(t, float64(2), inbox["unread_count"])

	status, env = a.call(http.MethodPost, "/api/notifications/read", "gym-user", map[string]any{"mark_all_as_read": true})
	require.Equal(t, http.StatusOK, status)
	marked := decodeData[map[string]any](t, env)
	assert.Equal(t, float64(2), marked["updated"])

	status, env = a.call(http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, status)
	stats := decodeData[map[string]any](t, env)
	assert.Equal(t, float64(2), stats["boxer_count"])
}

func TestErrorTranslation(t *testing.T) {
	a := newTestApp(t)

	status, env := a.call(http.MethodGet, "/api/bookings/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, utils.CodeUnauthorized, env.ErrCode)

	status, env = a.call(http.MethodGet, "/api/boxers/me", "nobody", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, 2008, env.ErrCode)

	status, env = a.call(http.MethodPost, "/api/gyms", "owner", map[string]any{
		"name": "Pending Gym", "address": "1 Main St", "phone": "555",
		"location": map[string]any{"latitude": 10.0, "longitude": 20.0},
	})
	require.Equal(t, http.StatusCreated, status, env.ErrMsg)

	status, env = a.call(http.MethodPost, "/api/gym/slots", "owner", map[string]any{
		"date": time.Now().UTC().Format(utils.DateLayout), "start_time": "23:00", "end_time": "23:30", "max_boxers": 1,
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, 6007, env.ErrCode)

	status, env = a.call(http.MethodPost, "/api/gym/slots", "owner", map[string]any{"date": "soon"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, 6001, env.ErrCode)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/cancel", bytes.NewBufferString("{not json"))
	req.Header.Set(middleware.GatewayUserHeader, "boxer")
	w := httptest.NewRecorder()
	a.app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	status, env = a.call(http.MethodPost, "/api/bookings/cancel", "boxer", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, 6070, env.ErrCode)
}

func TestInternalArchiveRequiresToken(t *testing.T) {
	a := newTestApp(t)

	status, _ := a.call(http.MethodPost, "/api/internal/archive", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	req := httptest.NewRequest(http.MethodPost, "/api/internal/archive", nil)
	req.Header.Set("X-Internal-Token", "ops-token")
	w := httptest.NewRecorder()
	a.app.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	summary := decodeData[map[string]any](t, env)
	assert.Contains(t, summary, "gym_slots")
}

func TestSystemRoutes(t *testing.T) {
	a := newTestApp(t)

	status, _ := a.call(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env := a.call(http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, utils.CodeNotFound, env.ErrCode)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	a.app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
