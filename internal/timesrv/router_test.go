package timesrv_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kso512/timestamper/internal/timesource"
	"github.com/kso512/timestamper/internal/timesrv"
)

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestRouter_Seconds(t *testing.T) {
	h := timesrv.NewRouter(timesrv.Fixed(1700000000))

	code, body := get(t, h, timesrv.SecondsPath)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "1700000000", body)
}

func TestRouter_OtherFormats(t *testing.T) {
	h := timesrv.NewRouter(timesrv.Fixed(1700000000))

	_, millis := get(t, h, "/api/v2/time/millis")
	assert.Equal(t, "1700000000000", millis)

	_, iso := get(t, h, "/api/v2/time/ISO-8601")
	assert.Equal(t, "2023-11-14T22:13:20Z", iso)

	code, _ := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_UnknownPath(t *testing.T) {
	code, _ := get(t, timesrv.NewRouter(nil), "/api/v2/time/fortnights")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_ServesTimeSource(t *testing.T) {
	srv := httptest.NewServer(timesrv.NewRouter(timesrv.Fixed(1700000123)))
	defer srv.Close()

	secs, err := timesource.New(time.Second).Fetch(context.Background(), srv.URL+timesrv.SecondsPath)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000123), secs)
}
