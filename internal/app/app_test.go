package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pg/pg/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/tourism-portal/config"
)

const hotelsTOML = `
[[hotel]]
name        = "Villa Ubud"
english_name = "Ubud Villa"
category    = "villa"
listed      = 2024-02-01T00:00:00Z
stars       = 4

[[hotel]]
name     = "Hotel Kuta"
category = "hotel"
listed   = 2024-01-01T00:00:00Z
stars    = 3
featured = true
`

// newTestApp wires the app against an unreachable database; hotels are served
// from memory and never touch it.
func newTestApp(t *testing.T) *App {
	t.Helper()

	dir := t.TempDir()
	hotelsPath := filepath.Join(dir, "hotels.toml")
	require.NoError(t, os.WriteFile(hotelsPath, []byte(hotelsTOML), 0o644))

	var cfg config.Config
	cfg.Database.Addr = "127.0.0.1:1"
	cfg.Hotels.Path = hotelsPath
	cfg.Uploads.Dir = filepath.Join(dir, "uploads")
	cfg.Defaults()

	conn := pg.Connect(&cfg.Database)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := New(&cfg, conn, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return a
}

func TestApp_ServesHotelsFromMemory(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/hotels?sortBy=title", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Data []struct {
			Slug  string `json:"slug"`
			Stars int    `json:"stars"`
		} `json:"data"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "hotel-kuta", res.Data[0].Slug)
	assert.Equal(t, 4, res.Data[1].Stars)
}

func TestApp_HotelsAreReadOnly(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hotels", strings.NewReader(`{"title":"Hotel Baru"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestApp_RPC(t *testing.T) {
	a := newTestApp(t)

	body := `{"jsonrpc":"2.0","id":1,"method":"content.categories","params":{"collection":"hotels"}}`
	req := httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Result []string `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, []string{"hotel", "villa"}, res.Result)
}

func TestApp_MissingHotels(t *testing.T) {
	var cfg config.Config
	cfg.Hotels.Path = filepath.Join(t.TempDir(), "missing.toml")
	cfg.Defaults()

	conn := pg.Connect(&pg.Options{Addr: "127.0.0.1:1"})
	defer conn.Close()

	_, err := New(&cfg, conn, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
