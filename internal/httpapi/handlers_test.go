package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"linkcut/internal/registry"
	"linkcut/internal/snowflake"
	"linkcut/internal/storage"
)

const testBaseURL = "http://sho.rt"

var testDBSeq atomic.Int64

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:httpapi_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := storage.Open(storage.DriverSQLite, dsn, gormlogger.Default.LogMode(gormlogger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	ids, err := snowflake.New(1)
	require.NoError(t, err)

	reg := registry.New(registry.Config{
		Store:      storage.NewGormStore(db, nil),
		IDs:        ids,
		CodeLength: 6,
	})
	return NewApp(NewHandler(reg, testBaseURL))
}

func createLink(t *testing.T, app *fiber.App, destination, code string) (int, linkResponse) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"destination": destination, "code": code})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/links", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var created linkResponse
	if resp.StatusCode == http.StatusCreated {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	}
	return resp.StatusCode, created
}

func TestCreateLink(t *testing.T) {
	app := newTestApp(t)

	status, created := createLink(t, app, "https://example.com/page", "")
	require.Equal(t, http.StatusCreated, status)
	assert.Len(t, created.Code, 6)
	assert.Equal(t, "https://example.com/page", created.Destination)
	assert.Equal(t, testBaseURL+"/"+created.Code, created.ShortURL)
	assert.EqualValues(t, 0, created.VisitCount)
}

func TestCreateLinkValidation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name        string
		destination string
		code        string
	}{
		{"missing destination", "", ""},
		{"relative url", "not-a-url", ""},
		{"code too short", "https://x.com", "ab"},
		{"code too long", "https://x.com", "abcdefghi"},
		{"code bad charset", "https://x.com", "abc_12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := createLink(t, app, tt.destination, tt.code)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}
}

func TestCreateLinkMalformedBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/links", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateLinkConflict(t *testing.T) {
	app := newTestApp(t)

	status, _ := createLink(t, app, "https://x.com", "abcdef")
	require.Equal(t, http.StatusCreated, status)

	status, _ = createLink(t, app, "https://y.com", "abcdef")
	assert.Equal(t, http.StatusConflict, status)
}

func TestRedirectRecordsVisit(t *testing.T) {
	app := newTestApp(t)

	status, created := createLink(t, app, "https://example.com/page", "")
	require.Equal(t, http.StatusCreated, status)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+created.Code, nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "https://example.com/page", resp.Header.Get("Location"))
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/links", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var links []linkResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&links))
	require.Len(t, links, 1)
	assert.EqualValues(t, 2, links[0].VisitCount)
	assert.NotNil(t, links[0].LastVisitedAt)
}

func TestRedirectNotFound(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/zzzzzz", "/ab", "/waytoolongcode1"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "path %s", path)
	}
}

func TestListNewestFirst(t *testing.T) {
	app := newTestApp(t)

	var codes []string
	for i := 0; i < 3; i++ {
		status, created := createLink(t, app, "https://example.com", "")
		require.Equal(t, http.StatusCreated, status)
		codes = append(codes, created.Code)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/links", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var links []linkResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&links))
	require.Len(t, links, 3)
	assert.Equal(t, codes[2], links[0].Code)
	assert.Equal(t, codes[0], links[2].Code)
}

func TestDeleteLink(t *testing.T) {
	app := newTestApp(t)

	status, created := createLink(t, app, "https://example.com", "")
	require.Equal(t, http.StatusCreated, status)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/links/"+created.Code, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Idempotent in effect: a second delete is a 404, not a failure
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/links/"+created.Code, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/"+created.Code, nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
