package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-pg/urlstruct"
	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/tourism-portal/internal/asset"
	"github.com/daniilsolovey/tourism-portal/internal/i18n"
	"github.com/daniilsolovey/tourism-portal/internal/portal"
)

// ContentManager is the write side of the content store.
type ContentManager interface {
	Create(ctx context.Context, c portal.Collection, item portal.Item) (*portal.Item, error)
	Update(ctx context.Context, c portal.Collection, itemID int, item portal.Item) (*portal.Item, error)
	Delete(ctx context.Context, c portal.Collection, itemID int) error

	CreatePhoto(ctx context.Context, title, filePath string) (*portal.Photo, error)
	Photos(ctx context.Context) ([]portal.Photo, error)
	DeletePhoto(ctx context.Context, photoID int) (*portal.Photo, error)
}

// FileStore keeps uploaded files, implemented by asset.DiskStore.
type FileStore interface {
	Save(f asset.File) (string, error)
	Remove(filePath string) error
}

type ContentHandler struct {
	readers map[portal.Collection]portal.Reader
	manager ContentManager
	files   FileStore
	baseURL string
	log     *slog.Logger
}

// NewContentHandler serves reads of every collection from readers and writes
// through manager. baseURL prefixes the public URL of uploaded photos.
func NewContentHandler(readers map[portal.Collection]portal.Reader, manager ContentManager, files FileStore, baseURL string, log *slog.Logger) *ContentHandler {
	return &ContentHandler{
		readers: readers,
		manager: manager,
		files:   files,
		baseURL: baseURL,
		log:     log,
	}
}

func (h *ContentHandler) handleError(c echo.Context, err error, statusCode int, message string) error {
	if statusCode >= http.StatusInternalServerError {
		h.log.Error("handleError", "error", err, "statusCode", statusCode, "message", message, "path", c.Path())
	} else {
		h.log.Debug("handleError", "error", err, "statusCode", statusCode, "message", message, "path", c.Path())
	}
	return c.JSON(statusCode, ErrorResponse{Error: message})
}

// handleDomainError maps errors of the content layer to responses.
func (h *ContentHandler) handleDomainError(c echo.Context, err error) error {
	var (
		verr *portal.ValidationError
		uerr *asset.UploadError
	)
	switch {
	case errors.As(err, &verr):
		h.log.Debug("validation failed", "fields", verr.Fields, "path", c.Path())
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, portal.ErrNotFound):
		return h.handleError(c, err, http.StatusNotFound, "not found")
	case errors.Is(err, portal.ErrReadOnly):
		return h.handleError(c, err, http.StatusMethodNotAllowed, "collection is read-only")
	case errors.Is(err, asset.ErrTooLarge):
		return h.handleError(c, err, http.StatusRequestEntityTooLarge, asset.ErrTooLarge.Error())
	case errors.As(err, &uerr):
		return h.handleError(c, err, http.StatusBadRequest, uerr.Err.Error())
	}

	return h.handleError(c, err, http.StatusInternalServerError, "internal error")
}

func (h *ContentHandler) reader(c echo.Context) (portal.Collection, portal.Reader, error) {
	collection, err := portal.ParseCollection(c.Param("collection"))
	if err != nil {
		return "", nil, err
	}

	r, ok := h.readers[collection]
	if !ok {
		return "", nil, portal.ErrNotFound
	}
	return collection, r, nil
}

func pathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, &portal.ValidationError{Fields: map[string]string{name: "must be a positive integer"}}
	}
	return id, nil
}

// List handles GET /api/v1/:collection
// @Summary List items of a collection
// @Description Filters, sorts and paginates blog posts, events or hotels.
// @Tags content
// @Produce json
// @Param collection path string true "Collection" Enums(blog, events, hotels)
// @Param search query string false "Case-insensitive text in title or excerpt"
// @Param category query []string false "Category, may repeat" collectionFormat(multi)
// @Param from query string false "First date, YYYY-MM-DD"
// @Param to query string false "Last date, YYYY-MM-DD, inclusive"
// @Param sortBy query string false "title, date, views or comments"
// @Param sortOrder query string false "asc or desc"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10, max: 100)"
// @Param lang query string false "Restrict search to id or en"
// @Success 200 {object} rest.ListResponse
// @Failure 400,404,500 {object} rest.ErrorResponse
// @Router /api/v1/{collection} [get]
func (h *ContentHandler) List(c echo.Context) error {
	_, r, err := h.reader(c)
	if err != nil {
		return h.handleDomainError(c, err)
	}

	var req ListRequest
	if err := urlstruct.Unmarshal(c.Request().Context(), c.QueryParams(), &req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request parameters")
	}

	q, err := req.ToQuery()
	if err != nil {
		return h.handleDomainError(c, err)
	}

	res, err := r.List(c.Request().Context(), q)
	if err != nil {
		return h.handleDomainError(c, err)
	}

	return c.JSON(http.StatusOK, NewListResponse(res, i18n.FromContext(c.Request().Context())))
}

// ByID handles GET /api/v1/:collection/:id
// @Summary Get item by ID
// @Tags content
// @Produce json
// @Param collection path string true "Collection" Enums(blog, events, hotels)
// @Param id path int true "Item ID"
// @Success 200 {object} rest.Item
// @Failure 400,404,500 {object} rest.ErrorResponse
// @Router /api/v1/{collection}/{id} [get]
func (h *ContentHandler) ByID(c echo.Context) error {
	_, r, err := h.reader(c)
	if err != nil {
		return h.handleDomainError(c, err)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return h.handleDomainError(c, err)
	}

	item, err := r.ByID(c.Request().Context(), id)
	if err != nil {
		return h.handleDomainError(c, err)
	}

	return c.JSON(http.StatusOK, NewItem(*item, i18n.FromContext(c.Request().Context())))
}

// BySlug handles GET /api/v1/:collection/slug/:slug
// @Summary Get item by slug
// @Tags content
// @Produce json
// @Param collection path string true "Collection" Enums(blog, events, hotels)
// @Param slug path string true "Item slug"
// @Success 200 {object} rest.Item
// @Failure 404,500 {object} rest.ErrorResponse
// @Router /api/v1/{collection}/slug/{slug} [get]
func (h *ContentHandler) BySlug(c echo.Context) error {
	_, r, err := h.reader(c)
	if err != nil {
		return h.handleDomainError(c, err)
	}

	item, err := r.BySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return h.handleDomainError(c, err)
	}

	return c.JSON(http.StatusOK, NewItem(*item, i18n.FromContext(c.Request().Context())))
}

// Categories handles GET /api/v1/:collection/categories
// @Summary List categories
// @Description Distinct categories of a collection, for the filter controls.
// @Tags content
// @Produce json
// @Param collection path string true "Collection" Enums(blog, events, hotels)
// @Success 200 {array} string
// @Failure 404,500 {object} rest.ErrorResponse
// @Router /api/v1/{collection}/categories [get]
func (h *ContentHandler) Categories(c echo.Context) error {
	_, r, err := h.reader(c)
	if err != nil {
		return h.handleDomainError(c, err)
	}

	categories, err := r.Categories(c.Request().Context())
	if err != nil {
		return h.handleDomainError(c, err)
	}

	return c.JSON(http.StatusOK, categories)
}

// Create handles POST /api/v1/:collection
// @Summary Create an item
// @Tags content
// @Accept json
// @Produce json
// @Param collection path string true "Collection" Enums(blog, events)
// @Param item body rest.ItemInput true "Item"
// @Success 201 {object} rest.Item
// @Failure 400,404,405,500 {object} rest.ErrorResponse
// @Router /api/v1/{collection} [post]
func (h *ContentHandler) Create(c echo.Context) error {
	collection, _, err := h.reader(c)
	if err != nil {
		return h.handleDomainError(c, err)
	}

	var in ItemInput
	if err := c.Bind(&in); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}

	item, err := h.manager.Create(c.Request().Context(), collection, in.ToPortal())
	if err != nil {
		return h.handleDomainError(c, err)
	}

	return c.JSON(http.StatusCreated, NewItem(*item, i18n.FromContext(c.Request().Context())))
}

// Update handles PUT /api/v1/:collection/:id
// @Summary Replace an item
// @Description Replaces every editable field of the item.
// @Tags content
// @Accept json
// @Produce json
// @Param collection path string true "Collection" Enums(blog, events)
// @Param id path int true "Item ID"
// @Param item body rest.ItemInput true "Item"
// @Success 200 {object} rest.Item
// @Failure 400,404,405,500 {object} rest.ErrorResponse
// @Router /api/v1/{collection}/{id} [put]
func (h *ContentHandler) Update(c echo.Context) error {
	collection, _, err := h.reader(c)
	if err != nil {
		return h.handleDomainError(c, err)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return h.handleDomainError(c, err)
	}

	var in ItemInput
	if err := c.Bind(&in); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}

	item, err := h.manager.Update(c.Request().Context(), collection, id, in.ToPortal())
	if err != nil {
		return h.handleDomainError(c, err)
	}

	return c.JSON(http.StatusOK, NewItem(*item, i18n.FromContext(c.Request().Context())))
}

// Delete handles DELETE /api/v1/:collection/:id
// @Summary Delete an item
// @Description Succeeds also when the item does not exist.
// @Tags content
// @Param collection path string true "Collection" Enums(blog, events)
// @Param id path int true "Item ID"
// @Success 204
// @Failure 400,404,405,500 {object} rest.ErrorResponse
// @Router /api/v1/{collection}/{id} [delete]
func (h *ContentHandler) Delete(c echo.Context) error {
	collection, _, err := h.reader(c)
	if err != nil {
		return h.handleDomainError(c, err)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return h.handleDomainError(c, err)
	}

	if err := h.manager.Delete(c.Request().Context(), collection, id); err != nil {
		return h.handleDomainError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadPhoto handles POST /api/v1/photos
// @Summary Upload a photo
// @Description Stores an image (max 20MB) and records it in the gallery.
// @Tags photos
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Image file"
// @Param title formData string false "Photo title"
// @Success 201 {object} rest.Photo
// @Failure 400,413,500 {object} rest.ErrorResponse
// @Router /api/v1/photos [post]
func (h *ContentHandler) UploadPhoto(c echo.Context) error {
	fh, err := c.FormFile("photo")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "photo file is required")
	}

	src, err := fh.Open()
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "cannot read photo")
	}
	defer src.Close()

	title := c.FormValue("title")
	filePath, err := h.files.Save(asset.File{
		Name:        fh.Filename,
		Title:       title,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        src,
	})
	if err != nil {
		return h.handleDomainError(c, err)
	}

	photo, err := h.manager.CreatePhoto(c.Request().Context(), title, filePath)
	if err != nil {
		if rerr := h.files.Remove(filePath); rerr != nil {
			h.log.Warn("failed to remove orphaned upload", "file", filePath, "error", rerr)
		}
		return h.handleDomainError(c, err)
	}

	return c.JSON(http.StatusCreated, NewPhoto(*photo, h.baseURL))
}

// Photos handles GET /api/v1/photos
// @Summary List gallery photos
// @Tags photos
// @Produce json
// @Success 200 {array} rest.Photo
// @Failure 500 {object} rest.ErrorResponse
// @Router /api/v1/photos [get]
func (h *ContentHandler) Photos(c echo.Context) error {
	photos, err := h.manager.Photos(c.Request().Context())
	if err != nil {
		return h.handleDomainError(c, err)
	}

	return c.JSON(http.StatusOK, NewPhotos(photos, h.baseURL))
}

// DeletePhoto handles DELETE /api/v1/photos/:id
// @Summary Delete a photo
// @Tags photos
// @Param id path int true "Photo ID"
// @Success 204
// @Failure 400,404,500 {object} rest.ErrorResponse
// @Router /api/v1/photos/{id} [delete]
func (h *ContentHandler) DeletePhoto(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.handleDomainError(c, err)
	}

	photo, err := h.manager.DeletePhoto(c.Request().Context(), id)
	if err != nil {
		return h.handleDomainError(c, err)
	}

	if err := h.files.Remove(photo.FilePath); err != nil {
		h.log.Warn("failed to remove photo file", "file", photo.FilePath, "error", err)
	}

	return c.NoContent(http.StatusNoContent)
}
