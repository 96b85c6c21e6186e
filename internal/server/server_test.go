package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"move-timeline/internal/auth"
	"move-timeline/internal/config"
	"move-timeline/internal/telemetry"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secret"

var tripStart = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

type stubSource struct {
	items    []telemetry.TimelineItem
	itemErr  error
	lastUser string
}

func (s *stubSource) GetTimeline(_ context.Context, userID string, from, to int64, _ int) ([]telemetry.TimelineItem, error) {
	out := []telemetry.TimelineItem{}
	for _, item := range s.items {
		if item.UserID == userID && item.ID() >= from && item.ID() <= to {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubSource) GetTimelineItem(_ context.Context, userID string, start int64) (telemetry.TimelineItem, bool, error) {
	s.lastUser = userID
	if s.itemErr != nil {
		return telemetry.TimelineItem{}, false, s.itemErr
	}
	for _, item := range s.items {
		if item.UserID == userID && item.ID() == start {
			return item, true, nil
		}
	}
	return telemetry.TimelineItem{}, false, nil
}

func (s *stubSource) GetPoints(context.Context, string, int64) ([]telemetry.WayPoint, error) {
	return []telemetry.WayPoint{}, nil
}

func newTestServer(src telemetry.Source, rdb *redis.Client) *Server {
	return NewServer(config.Config{
		JWTSecret:     testSecret,
		ServerPort:    ":0",
		EpochFloor:    1546300800,
		PreviousLimit: 50,
	}, src, rdb)
}

func signToken(t *testing.T, id, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, auth.Claims{
		UserID: id,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

type errorEnvelope struct {
	Status struct {
		Code int `json:"code"`
	} `json:"status"`
	Error string `json:"error"`
}

func get(t *testing.T, s *Server, target, token string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.App.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func decodeError(t *testing.T, body []byte) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(&stubSource{}, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
	if resp.Header.Get(fiber.HeaderXRequestID) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestTimelineRequiresAuth(t *testing.T) {
	s := newTestServer(&stubSource{}, nil)

	status, body := get(t, s, "/api/v1/timeline?from=0&to=10", "")

	assert.Equal(t, fiber.StatusUnauthorized, status)
	env := decodeError(t, body)
	assert.Equal(t, DefaultErrorCode, env.Status.Code)
	assert.Equal(t, "auth header not present", env.Error)
}

func TestTimelineErrorEnvelope(t *testing.T) {
	s := newTestServer(&stubSource{}, nil)
	token := signToken(t, "u-1", "driver@example.com")

	status, body := get(t, s, "/api/v1/timeline?to=10", token)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, errorEnvelope{Status: struct {
		Code int `json:"code"`
	}{Code: -1000}, Error: "from is a required parameter"}, decodeError(t, body))

	status, body = get(t, s, "/api/v1/timeline/1700000000/details", token)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "item not found", decodeError(t, body).Error)
}

func TestTimelineForbiddenWithoutEmail(t *testing.T) {
	s := newTestServer(&stubSource{}, nil)

	status, body := get(t, s, "/api/v1/timeline?from=0&to=10", signToken(t, "u-1", ""))

	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, DefaultErrorCode, decodeError(t, body).Status.Code)
}

func TestTimelineUpstreamFailureIsHidden(t *testing.T) {
	src := &stubSource{itemErr: errors.New("dial tcp 10.0.0.1:443: connection refused")}
	s := newTestServer(src, nil)

	status, body := get(t, s, "/api/v1/timeline/1700000000/details", signToken(t, "u-1", "driver@example.com"))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	env := decodeError(t, body)
	assert.Equal(t, DefaultErrorCode, env.Status.Code)
	assert.Equal(t, "internal server error", env.Error)
}

func TestTripDetailsUsesEmailAsUserKey(t *testing.T) {
	item := telemetry.TimelineItem{
		UserID:  "driver@example.com",
		StartTs: tripStart,
		EndTs:   tripStart.Add(20 * time.Minute),
		Type:    "WALKING",
	}
	src := &stubSource{items: []telemetry.TimelineItem{item}}
	s := newTestServer(src, nil)

	status, body := get(t, s, "/api/v1/timeline/"+strconv.FormatInt(item.ID(), 10)+"/details",
		signToken(t, "u-1", "driver@example.com"))

	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.Equal(t, "driver@example.com", src.lastUser)

	var env struct {
		Status struct {
			Code int `json:"code"`
		} `json:"status"`
		Data struct {
			TripDetail map[string]any `json:"tripDetail"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, 0, env.Status.Code)
	assert.Equal(t, float64(item.ID()), env.Data.TripDetail["id"])
	assert.NotContains(t, env.Data.TripDetail, "tripPoints")
}

func TestLoggedOutUserRejected(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	_, err := mr.SAdd(auth.LoggedOutKey, "u-1")
	require.NoError(t, err)

	s := newTestServer(&stubSource{}, rdb)

	status, body := get(t, s, "/api/v1/timeline?from=0&to=10", signToken(t, "u-1", "driver@example.com"))
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "user with id u-1 was logged out!", decodeError(t, body).Error)

	status, _ = get(t, s, "/api/v1/timeline?from=0&to=10", signToken(t, "u-2", "other@example.com"))
	assert.Equal(t, fiber.StatusOK, status)
}

func TestErrorHandlerGenericError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("secret detail")
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", decodeError(t, body).Error)

	resp, err = app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	env := decodeError(t, body)
	assert.Equal(t, DefaultErrorCode, env.Status.Code)
	assert.Equal(t, "short and stout", env.Error)

	resp, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
