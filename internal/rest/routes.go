package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/swaggo/swag"

	"github.com/daniilsolovey/tourism-portal/internal/asset"
	"github.com/daniilsolovey/tourism-portal/internal/i18n"
)

const (
	apiV1Prefix = "/api/v1"

	healthPath  = "/health"
	swaggerPath = "/swagger/doc.json"
)

// RegisterRoutes mounts the content API on e.
func (h *ContentHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group(apiV1Prefix, Language)

	// a little above the file limit so the multipart envelope fits
	uploadLimit := middleware.BodyLimit("21M")

	g.GET("/photos", h.Photos)
	g.POST("/photos", h.UploadPhoto, uploadLimit)
	g.DELETE("/photos/:id", h.DeletePhoto)

	g.GET("/:collection", h.List)
	g.POST("/:collection", h.Create)
	g.GET("/:collection/categories", h.Categories)
	g.GET("/:collection/slug/:slug", h.BySlug)
	g.GET("/:collection/:id", h.ByID)
	g.PUT("/:collection/:id", h.Update)
	g.DELETE("/:collection/:id", h.Delete)
}

// Pinger reports whether the storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterService mounts the health check, the swagger document and the
// request log.
func RegisterService(e *echo.Echo, db Pinger, log *slog.Logger) {
	e.Use(middleware.Recover())
	e.Use(loggingMiddleware(log))

	e.GET(healthPath, func(c echo.Context) error {
		if err := db.Ping(c.Request().Context()); err != nil {
			log.Error("health check failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET(swaggerPath, func(c echo.Context) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			log.Error("failed to read swagger doc", "error", err)
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "swagger doc is not registered"})
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(doc))
	})
}

// RegisterUploads serves stored photos.
func RegisterUploads(e *echo.Echo, store *asset.DiskStore) {
	e.Static(store.Prefix(), store.Dir())
}

// Language puts the display language into the request context: the lang
// parameter when valid, else the Accept-Language header.
func Language(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		lang, err := i18n.Parse(c.QueryParam("lang"))
		if err != nil {
			lang = i18n.Negotiate(c.Request().Header.Get("Accept-Language"))
		}

		req := c.Request()
		c.SetRequest(req.WithContext(i18n.WithLanguage(req.Context(), lang)))
		c.Response().Header().Set("Content-Language", string(lang))

		return next(c)
	}
}

func loggingMiddleware(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			log.Info("HTTP request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", c.RealIP(),
			)
			return nil
		}
	}
}
