package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/handler"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/repository"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/router"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/service"
)

// newServer wires the full handler stack against the in-memory store.
func newServer(t *testing.T) (*echo.Echo, *repository.Memory) {
	t.Helper()
	mem := repository.NewMemory()

	cinemas := service.NewCinemaService(mem.Cinemas(), nil)
	theatres := service.NewTheatreService(mem.Theatres(), mem.Cinemas(), nil)
	screens := service.NewScreenService(mem.Screens(), mem.Theatres(), nil)
	showtimes := service.NewShowtimeService(mem.Showtimes(), mem.Screens(), nil)

	e := echo.New()
	router.RegisterRoutes(e, router.Handlers{
		Cinemas:   handler.NewCinemaHandler(cinemas),
		Theatres:  handler.NewTheatreHandler(theatres),
		Screens:   handler.NewScreenHandler(screens),
		Showtimes: handler.NewShowtimeHandler(showtimes),
	})
	return e, mem
}

func do(e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createCinema(t *testing.T, e *echo.Echo, name string) (id, tag string) {
	t.Helper()
	rec := do(e, http.MethodPost, "/cinemas", `{"name":"`+name+`"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	return body["cinema_id"].(string), rec.Header().Get("ETag")
}

func TestCinemaLifecycleOverHTTP(t *testing.T) {
	e, _ := newServer(t)

	id, tag := createCinema(t, e, "Grand Plaza")
	require.NotEmpty(t, id)
	require.NotEmpty(t, tag)

	// Plain GET returns the representation and the same tag.
	rec := do(e, http.MethodGet, "/cinemas/"+id, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tag, rec.Header().Get("ETag"))
	assert.Equal(t, "Grand Plaza", decode(t, rec)["name"])

	// Conditional GET with the current tag short-circuits to 304.
	rec = do(e, http.MethodGet, "/cinemas/"+id, "", map[string]string{"If-None-Match": tag})
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Equal(t, tag, rec.Header().Get("ETag"))
	assert.Empty(t, rec.Body.String())

	// PATCH without If-Match is rejected before any validation.
	rec = do(e, http.MethodPatch, "/cinemas/"+id, `{"name":"Renamed"}`, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	// PATCH with the current tag succeeds and rotates the tag.
	rec = do(e, http.MethodPatch, "/cinemas/"+id, `{"name":"Renamed"}`, map[string]string{"If-Match": tag})
	require.Equal(t, http.StatusOK, rec.Code)
	newTag := rec.Header().Get("ETag")
	assert.NotEqual(t, tag, newTag)
	assert.Equal(t, "Renamed", decode(t, rec)["name"])

	// Replaying the consumed tag must 412.
	rec = do(e, http.MethodPatch, "/cinemas/"+id, `{"name":"Third"}`, map[string]string{"If-Match": tag})
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

	// PUT follows the same rules.
	rec = do(e, http.MethodPut, "/cinemas/"+id, `{"name":"Rebuilt"}`, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	rec = do(e, http.MethodPut, "/cinemas/"+id, `{"name":"Rebuilt"}`, map[string]string{"If-Match": newTag})
	assert.Equal(t, http.StatusOK, rec.Code)

	// DELETE without a tag works and hides the row.
	rec = do(e, http.MethodDelete, "/cinemas/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "deleted", body["status"])
	assert.Equal(t, id, body["id"])

	rec = do(e, http.MethodGet, "/cinemas/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMissingIfMatchOutranksPayload(t *testing.T) {
	e, _ := newServer(t)
	id, tag := createCinema(t, e, "Grand")

	// PUT with an invalid body and no If-Match is a missing precondition,
	// never a validation error.
	rec := do(e, http.MethodPut, "/cinemas/"+id, `{"name":"  "}`, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	// Same rule when the body is not even parseable JSON.
	rec = do(e, http.MethodPut, "/cinemas/"+id, `{"name":`, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	rec = do(e, http.MethodPatch, "/cinemas/"+id, `{"name":`, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	// With the precondition satisfied, payload problems surface as 400.
	rec = do(e, http.MethodPut, "/cinemas/"+id, `{"name":"  "}`, map[string]string{"If-Match": tag})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(e, http.MethodPut, "/cinemas/"+id, `{"name":`, map[string]string{"If-Match": tag})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing above may have mutated the resource.
	rec = do(e, http.MethodGet, "/cinemas/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Grand", decode(t, rec)["name"])
	assert.Equal(t, tag, rec.Header().Get("ETag"))
}

func TestCinemaListIsBareArray(t *testing.T) {
	e, _ := newServer(t)
	createCinema(t, e, "Grand")
	createCinema(t, e, "Riverside")

	rec := do(e, http.MethodGet, "/cinemas", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	rec = do(e, http.MethodGet, "/cinemas?name=river", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestCreateValidationOverHTTP(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodPost, "/cinemas", `{"name":"  "}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["error"])

	rec = do(e, http.MethodPost, "/theatres", `{"cinema_id":"missing","name":"X","address":"Y"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUnknownIDReturns404(t *testing.T) {
	e, _ := newServer(t)

	for _, path := range []string{"/cinemas/none", "/theatres/none", "/screens/none", "/showtimes/none"} {
		rec := do(e, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

// seedShowtime builds cinema -> theatre -> screen -> showtime over HTTP and
// returns the showtime ID.
func seedShowtime(t *testing.T, e *echo.Echo, mem *repository.Memory, seatsBooked int) string {
	t.Helper()
	cinemaID, _ := createCinema(t, e, "Grand")

	rec := do(e, http.MethodPost, "/theatres",
		`{"cinema_id":"`+cinemaID+`","name":"Main House","address":"1 Plaza Way"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	theatreID := decode(t, rec)["theatre_id"].(string)

	rec = do(e, http.MethodPost, "/screens",
		`{"theatre_id":"`+theatreID+`","screen_number":1,"num_rows":10,"num_cols":20}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	screenID := decode(t, rec)["screen_id"].(string)

	rec = do(e, http.MethodPost, "/showtimes",
		`{"screen_id":"`+screenID+`","movie_id":"tt0111161","start_time":"2026-09-12T19:30:00Z","price":12.5,"seats_booked":`+itoa(seatsBooked)+`}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Sanity against the backing store.
	id := decode(t, rec)["showtime_id"].(string)
	_, err := mem.Showtimes().GetByID(context.Background(), id)
	require.NoError(t, err)
	return id
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestSeatAdjustmentOverHTTP(t *testing.T) {
	e, mem := newServer(t)
	id := seedShowtime(t, e, mem, 199)

	// Fill the last seat.
	rec := do(e, http.MethodPost, "/showtimes/"+id+"/seats", `{"count":1}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(200), decode(t, rec)["seats_booked"])
	assert.NotEmpty(t, rec.Header().Get("ETag"))

	// Overshoot is a 400 with an explanatory message.
	rec = do(e, http.MethodPost, "/showtimes/"+id+"/seats", `{"count":2}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "cannot book more seats")

	// Release everything, then one more is a 400.
	rec = do(e, http.MethodPost, "/showtimes/"+id+"/seats", `{"count":-200}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decode(t, rec)["seats_booked"])

	rec = do(e, http.MethodPost, "/showtimes/"+id+"/seats", `{"count":-1}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "cannot release more seats")
}

func TestAvailabilityOverHTTP(t *testing.T) {
	e, mem := newServer(t)
	id := seedShowtime(t, e, mem, 30)

	rec := do(e, http.MethodGet, "/showtimes/"+id+"/availability", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(200), body["total_seats"])
	assert.Equal(t, float64(30), body["seats_booked"])
	assert.Equal(t, float64(170), body["seats_available"])
}

func TestShowtimeListTimeFilterValidation(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodGet, "/showtimes?start_time_after=notatime", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(200), body["status"])
	assert.Equal(t, "OK", body["status_message"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotEmpty(t, body["ip_address"])
	assert.Nil(t, body["echo"])
	assert.Nil(t, body["path_echo"])

	ts, err := time.Parse(time.RFC3339Nano, body["timestamp"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)

	rec = do(e, http.MethodGet, "/health/ping?echo=hello", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "hello", body["echo"])
	assert.Equal(t, "ping", body["path_echo"])
}
