package rest

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/daniilsolovey/tourism-portal/internal/kvstore"
)

const maxKeyLength = 200

type KVValue struct {
	Value string `json:"value"`
}

// KVHandler exposes the key-value store holding editor drafts and language
// preferences.
type KVHandler struct {
	store kvstore.Store
	log   *slog.Logger
}

func NewKVHandler(store kvstore.Store, log *slog.Logger) *KVHandler {
	return &KVHandler{store: store, log: log}
}

func (h *KVHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group(apiV1Prefix + "/kv")
	g.GET("/:key", h.Get)
	g.PUT("/:key", h.Set, middleware.BodyLimit("2M"))
	g.DELETE("/:key", h.Delete)
}

func (h *KVHandler) key(c echo.Context) (string, bool) {
	key, err := url.PathUnescape(c.Param("key"))
	if err != nil || key == "" || len(key) > maxKeyLength {
		return "", false
	}
	return key, true
}

func (h *KVHandler) fail(c echo.Context, err error, msg string) error {
	h.log.Error("kv store failed", "error", err, "path", c.Path())
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msg})
}

// Get handles GET /api/v1/kv/:key
// @Summary Read a stored value
// @Tags kv
// @Produce json
// @Param key path string true "Key, e.g. draft:event-content"
// @Success 200 {object} rest.KVValue
// @Failure 400,404,500 {object} rest.ErrorResponse
// @Router /api/v1/kv/{key} [get]
func (h *KVHandler) Get(c echo.Context) error {
	key, ok := h.key(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid key"})
	}

	value, found, err := h.store.Get(c.Request().Context(), key)
	if err != nil {
		return h.fail(c, err, "cannot read value")
	}
	if !found {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	return c.JSON(http.StatusOK, KVValue{Value: value})
}

// Set handles PUT /api/v1/kv/:key
// @Summary Store a value
// @Tags kv
// @Accept json
// @Param key path string true "Key"
// @Param value body rest.KVValue true "Value"
// @Success 204
// @Failure 400,500 {object} rest.ErrorResponse
// @Router /api/v1/kv/{key} [put]
func (h *KVHandler) Set(c echo.Context) error {
	key, ok := h.key(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid key"})
	}

	var in KVValue
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	if err := h.store.Set(c.Request().Context(), key, in.Value); err != nil {
		return h.fail(c, err, "cannot store value")
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/kv/:key
// @Summary Delete a stored value
// @Tags kv
// @Param key path string true "Key"
// @Success 204
// @Failure 400,500 {object} rest.ErrorResponse
// @Router /api/v1/kv/{key} [delete]
func (h *KVHandler) Delete(c echo.Context) error {
	key, ok := h.key(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid key"})
	}

	if err := h.store.Delete(c.Request().Context(), key); err != nil {
		return h.fail(c, err, "cannot delete value")
	}
	return c.NoContent(http.StatusNoContent)
}
