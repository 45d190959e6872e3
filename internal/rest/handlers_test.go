package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/daniilsolovey/tourism-portal/docs"
	"github.com/daniilsolovey/tourism-portal/internal/asset"
	"github.com/daniilsolovey/tourism-portal/internal/listing"
	"github.com/daniilsolovey/tourism-portal/internal/portal"
)

var baseTime = time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)

type mockManager struct {
	createFunc      func(ctx context.Context, c portal.Collection, item portal.Item) (*portal.Item, error)
	updateFunc      func(ctx context.Context, c portal.Collection, itemID int, item portal.Item) (*portal.Item, error)
	deleteFunc      func(ctx context.Context, c portal.Collection, itemID int) error
	createPhotoFunc func(ctx context.Context, title, filePath string) (*portal.Photo, error)
	photosFunc      func(ctx context.Context) ([]portal.Photo, error)
	deletePhotoFunc func(ctx context.Context, photoID int) (*portal.Photo, error)
}

func (m *mockManager) Create(ctx context.Context, c portal.Collection, item portal.Item) (*portal.Item, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, c, item)
	}
	return nil, errors.New("not implemented")
}

func (m *mockManager) Update(ctx context.Context, c portal.Collection, itemID int, item portal.Item) (*portal.Item, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, c, itemID, item)
	}
	return nil, errors.New("not implemented")
}

func (m *mockManager) Delete(ctx context.Context, c portal.Collection, itemID int) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, c, itemID)
	}
	return errors.New("not implemented")
}

func (m *mockManager) CreatePhoto(ctx context.Context, title, filePath string) (*portal.Photo, error) {
	if m.createPhotoFunc != nil {
		return m.createPhotoFunc(ctx, title, filePath)
	}
	return &portal.Photo{ID: 1, Title: title, FilePath: filePath, CreatedAt: baseTime}, nil
}

func (m *mockManager) Photos(ctx context.Context) ([]portal.Photo, error) {
	if m.photosFunc != nil {
		return m.photosFunc(ctx)
	}
	return []portal.Photo{}, nil
}

func (m *mockManager) DeletePhoto(ctx context.Context, photoID int) (*portal.Photo, error) {
	if m.deletePhotoFunc != nil {
		return m.deletePhotoFunc(ctx, photoID)
	}
	return nil, portal.ErrNotFound
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func noOpLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func blogItems() []portal.Item {
	return []portal.Item{
		{ID: 1, Collection: portal.Blog, Slug: "pantai-kuta", Title: "Pantai Kuta", EnglishTitle: "Kuta Beach", Category: "beach", Date: baseTime, Views: 120, Featured: true},
		{ID: 2, Collection: portal.Blog, Slug: "kuliner-ubud", Title: "Kuliner Ubud", Category: "culinary", Date: baseTime.AddDate(0, 0, -1), Views: 300},
		{ID: 3, Collection: portal.Blog, Slug: "pantai-sanur", Title: "Pantai Sanur", EnglishTitle: "Sanur Beach", Category: "beach", Date: baseTime.AddDate(0, 0, -2), Views: 50},
	}
}

type testServer struct {
	e       *echo.Echo
	manager *mockManager
	store   *asset.DiskStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := asset.NewDiskStore(t.TempDir(), "uploads")
	require.NoError(t, err)

	m := &mockManager{}
	readers := map[portal.Collection]portal.Reader{
		portal.Blog: listing.NewLocal(portal.Blog, blogItems()),
		portal.Hotels: listing.NewLocal(portal.Hotels, []portal.Item{
			{ID: 1, Collection: portal.Hotels, Slug: "villa-ubud", Title: "Villa Ubud", Category: "villa", Date: baseTime, Stars: 4},
		}),
	}

	e := echo.New()
	RegisterService(e, pinger{}, noOpLogger())
	NewContentHandler(readers, m, store, "https://cdn.example.com", noOpLogger()).RegisterRoutes(e)

	return &testServer{e: e, manager: m, store: store}
}

func (s *testServer) do(t *testing.T, method, target string, body io.Reader, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestContentHandler_List(t *testing.T) {
	s := newTestServer(t)

	t.Run("FiltersAndPaginates", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/blog?search=PANTAI&category=beach&limit=1&page=2", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		res := decode[ListResponse](t, rec)
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, 2, res.Page)
		assert.Equal(t, 2, res.TotalPages)
		require.Len(t, res.Data, 1)
		assert.Equal(t, 3, res.Data[0].ID)
	})

	t.Run("SortsByViews", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/blog?sortBy=views&sortOrder=desc", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		res := decode[ListResponse](t, rec)
		ids := []int{}
		for _, it := range res.Data {
			ids = append(ids, it.ID)
		}
		assert.Equal(t, []int{2, 1, 3}, ids)
	})

	t.Run("DateRange", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/blog?from=2024-01-13&to=2024-01-13", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, decode[ListResponse](t, rec).Total)
	})

	t.Run("DisplayFollowsLanguage", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/blog", nil, map[string]string{"Accept-Language": "en-US,en;q=0.9"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "en", rec.Header().Get("Content-Language"))

		res := decode[ListResponse](t, rec)
		assert.Equal(t, "Kuta Beach", res.Data[0].Display.Title)
		assert.Equal(t, "Kuliner Ubud", res.Data[1].Display.Title)
	})

	t.Run("UnsortableField", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/hotels?sortBy=views", nil, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[ErrorResponse](t, rec).Fields, "sortBy")
	})

	t.Run("MalformedDate", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/blog?from=14-01-2024", nil, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[ErrorResponse](t, rec).Fields, "from")
	})

	t.Run("UnknownCollection", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/restaurants", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestContentHandler_Item(t *testing.T) {
	s := newTestServer(t)

	t.Run("ByID", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/blog/2", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		item := decode[Item](t, rec)
		assert.Equal(t, "kuliner-ubud", item.Slug)
		assert.Equal(t, "Kuliner Ubud", item.Display.Title)
	})

	t.Run("EnglishFallsBackToIndonesian", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/blog/2?lang=en", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Kuliner Ubud", decode[Item](t, rec).Display.Title)
	})

	t.Run("BySlug", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/hotels/slug/villa-ubud", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 4, decode[Item](t, rec).Stars)
	})

	t.Run("NotFound", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/blog/99", nil, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not found", decode[ErrorResponse](t, rec).Error)
	})

	t.Run("InvalidID", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/blog/abc", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Categories", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/blog/categories", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"beach", "culinary"}, decode[[]string](t, rec))
	})
}

func TestContentHandler_Write(t *testing.T) {
	s := newTestServer(t)
	jsonHeader := map[string]string{echo.HeaderContentType: echo.MIMEApplicationJSON}

	t.Run("Create", func(t *testing.T) {
		var got portal.Item
		s.manager.createFunc = func(_ context.Context, c portal.Collection, item portal.Item) (*portal.Item, error) {
			assert.Equal(t, portal.Blog, c)
			got = item
			item.ID, item.Collection, item.Slug = 10, c, "pura-besakih"
			return &item, nil
		}

		body := `{"title":"Pura Besakih","category":"culture","date":"2024-01-10T00:00:00Z","image":"/uploads/a.png"}`
		rec := s.do(t, http.MethodPost, "/api/v1/blog", strings.NewReader(body), jsonHeader)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		assert.Equal(t, "Pura Besakih", got.Title)
		assert.Equal(t, "/uploads/a.png", got.ImageURL)
		assert.Equal(t, 10, decode[Item](t, rec).ID)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		s.manager.createFunc = func(context.Context, portal.Collection, portal.Item) (*portal.Item, error) {
			return nil, &portal.ValidationError{Fields: map[string]string{"title": "cannot be blank"}}
		}

		rec := s.do(t, http.MethodPost, "/api/v1/blog", strings.NewReader(`{}`), jsonHeader)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "cannot be blank", decode[ErrorResponse](t, rec).Fields["title"])
	})

	t.Run("HotelsAreReadOnly", func(t *testing.T) {
		s.manager.updateFunc = func(context.Context, portal.Collection, int, portal.Item) (*portal.Item, error) {
			return nil, portal.ErrReadOnly
		}

		rec := s.do(t, http.MethodPut, "/api/v1/hotels/1", strings.NewReader(`{}`), jsonHeader)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		s.manager.updateFunc = func(context.Context, portal.Collection, int, portal.Item) (*portal.Item, error) {
			return nil, portal.ErrNotFound
		}

		rec := s.do(t, http.MethodPut, "/api/v1/blog/99", strings.NewReader(`{}`), jsonHeader)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		var deleted int
		s.manager.deleteFunc = func(_ context.Context, _ portal.Collection, itemID int) error {
			deleted = itemID
			return nil
		}

		rec := s.do(t, http.MethodDelete, "/api/v1/blog/3", nil, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, 3, deleted)
	})
}

func multipartBody(t *testing.T, filename, contentType string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Tanah Lot"))

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestContentHandler_Photos(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	t.Run("Upload", func(t *testing.T) {
		s := newTestServer(t)
		body, ct := multipartBody(t, "lot.png", "image/png", png)

		rec := s.do(t, http.MethodPost, "/api/v1/photos", body, map[string]string{echo.HeaderContentType: ct})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		photo := decode[Photo](t, rec)
		assert.Equal(t, "Tanah Lot", photo.Title)
		assert.True(t, strings.HasPrefix(photo.FilePath, "/uploads/"))
		assert.Equal(t, "https://cdn.example.com"+photo.FilePath, photo.URL)

		stored, err := os.ReadFile(filepath.Join(s.store.Dir(), filepath.Base(photo.FilePath)))
		require.NoError(t, err)
		assert.Equal(t, png, stored)
	})

	t.Run("RejectsNonImage", func(t *testing.T) {
		s := newTestServer(t)
		body, ct := multipartBody(t, "cv.pdf", "application/pdf", []byte("%PDF-1.4"))

		rec := s.do(t, http.MethodPost, "/api/v1/photos", body, map[string]string{echo.HeaderContentType: ct})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, asset.ErrUnsupportedType.Error(), decode[ErrorResponse](t, rec).Error)
	})

	t.Run("MissingFile", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPost, "/api/v1/photos", strings.NewReader(""), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("RecordFailureRemovesFile", func(t *testing.T) {
		s := newTestServer(t)
		s.manager.createPhotoFunc = func(context.Context, string, string) (*portal.Photo, error) {
			return nil, errors.New("db down")
		}
		body, ct := multipartBody(t, "lot.png", "image/png", png)

		rec := s.do(t, http.MethodPost, "/api/v1/photos", body, map[string]string{echo.HeaderContentType: ct})
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		entries, err := os.ReadDir(s.store.Dir())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("ListAndDelete", func(t *testing.T) {
		s := newTestServer(t)
		s.manager.photosFunc = func(context.Context) ([]portal.Photo, error) {
			return []portal.Photo{{ID: 5, Title: "Lot", FilePath: "/uploads/5.png"}}, nil
		}
		s.manager.deletePhotoFunc = func(_ context.Context, id int) (*portal.Photo, error) {
			return &portal.Photo{ID: id, FilePath: "/uploads/5.png"}, nil
		}

		rec := s.do(t, http.MethodGet, "/api/v1/photos", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		photos := decode[[]Photo](t, rec)
		require.Len(t, photos, 1)
		assert.Equal(t, "https://cdn.example.com/uploads/5.png", photos[0].URL)

		rec = s.do(t, http.MethodDelete, "/api/v1/photos/5", nil, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = s.do(t, http.MethodDelete, "/api/v1/photos/0", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestService(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])

	rec = s.do(t, http.MethodGet, "/swagger/doc.json", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tourism Portal API")

	e := echo.New()
	RegisterService(e, pinger{err: errors.New("connection refused")}, noOpLogger())
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
