package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FChavez82/highlander-tennis/brackets"
	"github.com/FChavez82/highlander-tennis/handlers"
	"github.com/FChavez82/highlander-tennis/models"
	"github.com/FChavez82/highlander-tennis/repositories"
	"github.com/FChavez82/highlander-tennis/services"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("routes-test-secret")

type testServer struct {
	*httptest.Server
	hub   *brackets.Hub
	store *repositories.MemoryStore
	admin string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := repositories.NewMemoryStore()
	for id, rating := range map[int]int{1: 1700, 2: 1600, 3: 1500, 4: 1400} {
		store.AddPlayer(models.Player{ID: models.PlayerID(id), Category: models.CategoryFemale, Rating: rating, Active: true})
		store.SetAvailability(models.Availability{WeekID: 1, PlayerID: models.PlayerID(id), Category: models.CategoryFemale, Available: true})
	}
	store.AddWeek(models.Week{ID: 1, Number: 1})

	hub := brackets.NewHub()
	go hub.Run(ctx)

	router := chi.NewRouter()
	SetupRoutes(router,
		Options{JWTSecret: testSecret, AllowedOrigins: []string{"*"}, SimRateLimitPerMinute: 10},
		handlers.NewScheduleHandler(services.NewScheduleService(store, store, store, store, hub)),
		handlers.NewSwissHandler(services.NewSwissSimulator(store, nil)),
		handlers.NewWebSocketHandler(hub, []string{"*"}),
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "role": "admin"}).SignedString(testSecret)
	require.NoError(t, err)

	return &testServer{Server: srv, hub: hub, store: store, admin: token}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := map[string]json.RawMessage{}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func TestScheduleFlow(t *testing.T) {
	srv := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/weeks/1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return srv.hub.RoomSize("week_1") == 1 }, time.Second, 10*time.Millisecond)

	resp, _ := srv.do(t, http.MethodPost, "/api/weeks/1/schedule", "", map[string]string{"category": "female"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := srv.do(t, http.MethodPost, "/api/weeks/1/schedule", srv.admin, map[string]string{"category": "female"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var schedule services.WeekSchedule
	require.NoError(t, json.Unmarshal(body["schedule"], &schedule))
	require.Len(t, schedule.Matches, 2)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var event brackets.WebSocketMessage
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, services.EventWeekScheduled, event.Type)
	assert.Equal(t, "week_1", event.RoomID)

	resp, _ = srv.do(t, http.MethodPost, "/api/weeks/1/schedule", srv.admin, map[string]string{"category": "female"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/weeks/7/schedule", srv.admin, map[string]string{"category": "female"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/weeks/1/schedule", srv.admin, map[string]string{"category": "mixed"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = srv.do(t, http.MethodGet, "/api/categories/female/matchups", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var matchups []models.Matchup
	require.NoError(t, json.Unmarshal(body["matchups"], &matchups))
	assert.Equal(t, []models.Matchup{models.NewMatchup(1, 2), models.NewMatchup(3, 4)}, matchups)

	resp, body = srv.do(t, http.MethodGet, "/api/categories/female/progress", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var progress brackets.RoundRobinProgress
	require.NoError(t, json.Unmarshal(body["progress"], &progress))
	assert.Equal(t, 6, progress.TotalFixtures)
	assert.Equal(t, 2, progress.Played)

	resp, body = srv.do(t, http.MethodGet, "/api/categories/female/byes", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{}`, string(body["bye_counts"]))

	resp, _ = srv.do(t, http.MethodGet, "/api/categories/mixed/matchups", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/matches/1/cancel", srv.admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = srv.do(t, http.MethodPost, "/api/matches/99/cancel", srv.admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = srv.do(t, http.MethodGet, "/api/categories/female/matchups", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body["matchups"], &matchups))
	assert.Len(t, matchups, 1)
}

func TestSimulateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(t, http.MethodPost, "/api/swiss/simulate", srv.admin, map[string]interface{}{
		"players": []map[string]int{{"id": 1, "rating": 1500}, {"id": 2, "rating": 1500}, {"id": 3, "rating": 1500}, {"id": 4, "rating": 1500}},
		"rounds":  2,
		"seed":    7,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report services.SimulationReport
	require.NoError(t, json.Unmarshal(body["report"], &report))
	require.Len(t, report.Rounds, 2)
	assert.Equal(t, models.PlayerID(1), report.Standings[0].Player)
	assert.Equal(t, 2, report.Standings[0].Wins)

	resp, body = srv.do(t, http.MethodPost, "/api/swiss/simulate", srv.admin, map[string]interface{}{"category": "female", "seed": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body["report"], &report))
	assert.Len(t, report.Rounds, 2)

	resp, _ = srv.do(t, http.MethodPost, "/api/swiss/simulate", srv.admin, map[string]interface{}{
		"players": []map[string]int{{"id": 1}}, "category": "female",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/swiss/simulate", srv.admin, map[string]interface{}{
		"players": []map[string]int{{"id": 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	limited := false
	for i := 0; i < 10 && !limited; i++ {
		resp, _ = srv.do(t, http.MethodPost, "/api/swiss/simulate", srv.admin, map[string]interface{}{"category": "female"})
		limited = resp.StatusCode == http.StatusTooManyRequests
	}
	assert.True(t, limited, "simulate endpoint must be rate limited")
}

func TestDocs(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(t, http.MethodGet, "/docs/doc.json", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"2.0"`, string(body["swagger"]))

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
