package client

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/tourism-portal/internal/asset"
	"github.com/daniilsolovey/tourism-portal/internal/editor"
	"github.com/daniilsolovey/tourism-portal/internal/kvstore"
	"github.com/daniilsolovey/tourism-portal/internal/listing"
	"github.com/daniilsolovey/tourism-portal/internal/portal"
	"github.com/daniilsolovey/tourism-portal/internal/rest"
)

// gallery records photos in memory; item writes are refused.
type gallery struct {
	photos []portal.Photo
}

func (g *gallery) Create(context.Context, portal.Collection, portal.Item) (*portal.Item, error) {
	return nil, portal.ErrReadOnly
}

func (g *gallery) Update(context.Context, portal.Collection, int, portal.Item) (*portal.Item, error) {
	return nil, portal.ErrReadOnly
}

func (g *gallery) Delete(context.Context, portal.Collection, int) error {
	return portal.ErrReadOnly
}

func (g *gallery) CreatePhoto(_ context.Context, title, filePath string) (*portal.Photo, error) {
	p := portal.Photo{ID: len(g.photos) + 1, Title: title, FilePath: filePath, CreatedAt: time.Now()}
	g.photos = append(g.photos, p)
	return &p, nil
}

func (g *gallery) Photos(context.Context) ([]portal.Photo, error) {
	return g.photos, nil
}

func (g *gallery) DeletePhoto(context.Context, int) (*portal.Photo, error) {
	return nil, portal.ErrNotFound
}

// newPortal serves the REST API over in-memory collections.
func newPortal(t *testing.T) *Client {
	t.Helper()

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var posts []portal.Item
	for i := 1; i <= 12; i++ {
		category := "culinary"
		if i%3 == 0 {
			category = "beach"
		}
		posts = append(posts, portal.Item{
			ID:         i,
			Collection: portal.Blog,
			Slug:       "post-" + string(rune('a'+i)),
			Title:      "Catatan " + string(rune('A'+i)),
			Category:   category,
			Date:       day.AddDate(0, 0, -i),
		})
	}
	posts[4].Title = "Pantai Amed"

	files, err := asset.NewDiskStore(t.TempDir(), "uploads")
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	readers := map[portal.Collection]portal.Reader{
		portal.Blog: listing.NewLocal(portal.Blog, posts),
	}

	e := echo.New()
	rest.NewContentHandler(readers, &gallery{}, files, "", log).RegisterRoutes(e)
	rest.NewKVHandler(kvstore.NewMemory(), log).RegisterRoutes(e)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return New(srv.URL, nil)
}

func TestSession_ListingView(t *testing.T) {
	c := newPortal(t)

	v, err := listing.NewView(c.Collection(portal.Blog), portal.Blog, portal.ListQuery{}, listing.Options{
		SearchDelay: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(v.Close)

	v.Refresh()
	v.Wait()
	st := v.State()
	require.NoError(t, st.Err)
	assert.Equal(t, 12, st.TotalCount)
	assert.Equal(t, 2, st.TotalPages)
	assert.Len(t, st.Items, portal.DefaultPageSize)

	require.NoError(t, v.GoToPage(9))
	v.Wait()
	st = v.State()
	assert.Equal(t, 2, st.Page)
	assert.Len(t, st.Items, 2)

	require.NoError(t, v.SetCategories("beach"))
	v.Wait()
	st = v.State()
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, 4, st.TotalCount)

	require.NoError(t, v.LoadMore(t.Context()))
	assert.Len(t, v.State().Items, 4)

	require.NoError(t, v.SetCategories())
	v.Wait()
	require.NoError(t, v.SetSearch("amed"))
	require.Eventually(t, func() bool {
		st := v.State()
		return !st.Loading && st.TotalCount == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 5, v.State().Items[0].ID)
}

func TestSession_EditorDraftsAndImages(t *testing.T) {
	c := newPortal(t)

	s, err := editor.NewSync(editor.Options{
		Area:         "blog-content",
		Store:        c.Store(),
		Assets:       c,
		AssetBaseURL: "https://cdn.example.com",
		Delay:        10 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	d := editor.NewDocument()
	require.NoError(t, s.EditorReady(t.Context(), d))

	body := []byte("\x89PNG\r\n\x1a\n")
	src, err := s.InsertImage(t.Context(), asset.File{
		Name: "amed.png", Title: "Amed", ContentType: "image/png", Size: int64(len(body)), Body: bytes.NewReader(body),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(src, "https://cdn.example.com/uploads/"), src)

	require.Eventually(t, func() bool { return s.Status() == editor.Synced }, time.Second, 5*time.Millisecond)

	// a new session on another device restores the draft
	restored, err := editor.NewSync(editor.Options{Area: "blog-content", Store: c.Store()})
	require.NoError(t, err)
	t.Cleanup(restored.Close)

	d2 := editor.NewDocument()
	require.NoError(t, restored.EditorReady(t.Context(), d2))
	assert.Equal(t, d.HTML(), d2.HTML())
	assert.Contains(t, d2.HTML(), src)

	photos, err := c.Photos(t.Context())
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, src, asset.URL("https://cdn.example.com", photos[0].FilePath))
}
