package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-pg/pg/v10"
	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/tourism-portal/config"
	"github.com/daniilsolovey/tourism-portal/internal/asset"
	"github.com/daniilsolovey/tourism-portal/internal/db"
	"github.com/daniilsolovey/tourism-portal/internal/kvstore"
	"github.com/daniilsolovey/tourism-portal/internal/listing"
	"github.com/daniilsolovey/tourism-portal/internal/portal"
	"github.com/daniilsolovey/tourism-portal/internal/rest"
	"github.com/daniilsolovey/tourism-portal/internal/rpc"
)

type App struct {
	DB     *db.Repository
	Logger *slog.Logger
	Echo   *echo.Echo
	Config *config.Config
}

func New(cfg *config.Config, dbConnect *pg.DB, logger *slog.Logger) (*App, error) {
	if cfg.App.LogQueries {
		dbConnect.AddQueryHook(db.NewQueryHook(logger))
	}

	database := db.New(dbConnect)
	manager := portal.NewManager(database, logger)

	hotels, err := loadHotels(cfg.Hotels.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("hotels loaded", "count", len(hotels), "path", cfg.Hotels.Path)

	readers := map[portal.Collection]portal.Reader{
		portal.Blog:   manager.Catalog(portal.Blog),
		portal.Events: manager.Catalog(portal.Events),
		portal.Hotels: listing.NewLocal(portal.Hotels, hotels),
	}

	files, err := asset.NewDiskStore(cfg.Uploads.Dir, cfg.Uploads.Prefix)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true

	rest.RegisterService(e, database, logger)
	rest.NewContentHandler(readers, manager, files, cfg.Uploads.BaseURL, logger).RegisterRoutes(e)
	rest.NewKVHandler(kvstore.NewPostgres(database), logger).RegisterRoutes(e)
	rest.RegisterUploads(e, files)
	e.Any("/rpc", echo.WrapHandler(rpc.New(logger, readers)))

	return &App{
		DB:     database,
		Logger: logger,
		Echo:   e,
		Config: cfg,
	}, nil
}

func loadHotels(path string) ([]portal.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hotels: %w", err)
	}
	defer f.Close()

	return portal.DecodeHotels(f)
}

func (a *App) Run(ctx context.Context, port int) error {
	addr := fmt.Sprintf("%s:%d", a.Config.App.Host, port)
	a.Logger.InfoContext(ctx, "service starting", "addr", addr)
	return a.Echo.Start(addr)
}

func (a *App) GracefulShutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	if cerr := a.DB.Close(); err == nil {
		err = cerr
	}
	return err
}
