package portal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"

	"github.com/daniilsolovey/tourism-portal/internal/db"
)

// Repository is the storage the manager runs on, implemented by db.Repository.
type Repository interface {
	Items(ctx context.Context, f db.ItemFilter) ([]db.Item, int, error)
	ItemByID(ctx context.Context, collection string, itemID int) (*db.Item, error)
	ItemBySlug(ctx context.Context, collection, slug string) (*db.Item, error)
	CreateItem(ctx context.Context, item *db.Item) (*db.Item, error)
	UpdateItem(ctx context.Context, item *db.Item) (*db.Item, error)
	DeleteItem(ctx context.Context, collection string, itemID int) (bool, error)
	Categories(ctx context.Context, collection string) ([]string, error)

	CreatePhoto(ctx context.Context, photo *db.Photo) (*db.Photo, error)
	Photos(ctx context.Context) ([]db.Photo, error)
	PhotoByID(ctx context.Context, photoID int) (*db.Photo, error)
	DeletePhoto(ctx context.Context, photoID int) (bool, error)
}

type Manager struct {
	db        Repository
	sanitizer *bluemonday.Policy
	log       *slog.Logger
}

func NewManager(repo Repository, log *slog.Logger) *Manager {
	return &Manager{
		db:        repo,
		sanitizer: bluemonday.UGCPolicy(),
		log:       log,
	}
}

// List runs the listing pipeline in the store and returns one page.
func (m *Manager) List(ctx context.Context, c Collection, q ListQuery) (ListResult, error) {
	q, err := q.Normalize(c)
	if err != nil {
		return ListResult{}, err
	}

	rows, total, err := m.db.Items(ctx, q.ToFilter(c))
	if err != nil {
		return ListResult{}, fmt.Errorf("db get items: %w", err)
	}

	return NewListResult(NewItems(rows), total, q.Page, q.PageSize), nil
}

func (m *Manager) ItemByID(ctx context.Context, c Collection, itemID int) (*Item, error) {
	row, err := m.db.ItemByID(ctx, string(c), itemID)
	if err != nil {
		return nil, fmt.Errorf("db get item by id: %w", err)
	} else if row == nil {
		return nil, ErrNotFound
	}

	item := NewItem(row)
	return &item, nil
}

func (m *Manager) ItemBySlug(ctx context.Context, c Collection, slug string) (*Item, error) {
	row, err := m.db.ItemBySlug(ctx, string(c), slug)
	if err != nil {
		return nil, fmt.Errorf("db get item by slug: %w", err)
	} else if row == nil {
		return nil, ErrNotFound
	}

	item := NewItem(row)
	return &item, nil
}

func (m *Manager) Categories(ctx context.Context, c Collection) ([]string, error) {
	categories, err := m.db.Categories(ctx, string(c))
	if err != nil {
		return nil, fmt.Errorf("db get categories: %w", err)
	}

	return categories, nil
}

// Create validates and stores a new item. The id in the submission is ignored.
func (m *Manager) Create(ctx context.Context, c Collection, item Item) (*Item, error) {
	item.ID = 0
	if err := m.prepare(ctx, c, &item); err != nil {
		return nil, err
	}

	row, err := m.db.CreateItem(ctx, item.ToDB())
	if err != nil {
		return nil, fmt.Errorf("db create item: %w", err)
	}

	created := NewItem(row)
	m.log.Info("item created", "collection", c, "id", created.ID, "slug", created.Slug)
	return &created, nil
}

// Update replaces every editable field of an existing item.
func (m *Manager) Update(ctx context.Context, c Collection, itemID int, item Item) (*Item, error) {
	item.ID = itemID
	if err := m.prepare(ctx, c, &item); err != nil {
		return nil, err
	}

	row, err := m.db.UpdateItem(ctx, item.ToDB())
	if err != nil {
		return nil, fmt.Errorf("db update item: %w", err)
	} else if row == nil {
		return nil, ErrNotFound
	}

	updated := NewItem(row)
	m.log.Info("item updated", "collection", c, "id", updated.ID)
	return &updated, nil
}

// Delete removes an item. Deleting a missing item is not an error.
func (m *Manager) Delete(ctx context.Context, c Collection, itemID int) error {
	if c.ReadOnly() {
		return ErrReadOnly
	}

	deleted, err := m.db.DeleteItem(ctx, string(c), itemID)
	if err != nil {
		return fmt.Errorf("db delete item: %w", err)
	}

	m.log.Info("item deleted", "collection", c, "id", itemID, "existed", deleted)
	return nil
}

func (m *Manager) prepare(ctx context.Context, c Collection, item *Item) error {
	if c.ReadOnly() {
		return ErrReadOnly
	}
	item.Collection = c

	if err := item.Validate(); err != nil {
		return err
	}

	slug, err := SlugFor(*item)
	if err != nil || slug == "" {
		return &ValidationError{Fields: map[string]string{"slug": "cannot derive a slug from the title"}}
	}
	item.Slug = slug

	existing, err := m.db.ItemBySlug(ctx, string(c), slug)
	if err != nil {
		return fmt.Errorf("db get item by slug: %w", err)
	}
	if existing != nil && existing.ID != item.ID {
		return &ValidationError{Fields: map[string]string{"slug": "already in use"}}
	}

	item.Content = m.sanitizer.Sanitize(item.Content)
	item.EnglishContent = m.sanitizer.Sanitize(item.EnglishContent)
	return nil
}

func (m *Manager) CreatePhoto(ctx context.Context, title, filePath string) (*Photo, error) {
	row, err := m.db.CreatePhoto(ctx, &db.Photo{Title: title, FilePath: filePath})
	if err != nil {
		return nil, fmt.Errorf("db create photo: %w", err)
	}

	photo := NewPhoto(row)
	return &photo, nil
}

func (m *Manager) Photos(ctx context.Context) ([]Photo, error) {
	rows, err := m.db.Photos(ctx)
	if err != nil {
		return nil, fmt.Errorf("db get photos: %w", err)
	}

	return NewPhotos(rows), nil
}

// DeletePhoto removes the gallery record and returns it so the caller can
// drop the stored file. A missing photo yields ErrNotFound.
func (m *Manager) DeletePhoto(ctx context.Context, photoID int) (*Photo, error) {
	row, err := m.db.PhotoByID(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("db get photo: %w", err)
	} else if row == nil {
		return nil, ErrNotFound
	}

	if _, err := m.db.DeletePhoto(ctx, photoID); err != nil {
		return nil, fmt.Errorf("db delete photo: %w", err)
	}

	photo := NewPhoto(row)
	return &photo, nil
}

// Reader is the read side of one collection, served either from the
// database or from a resident dataset.
type Reader interface {
	List(ctx context.Context, q ListQuery) (ListResult, error)
	ByID(ctx context.Context, itemID int) (*Item, error)
	BySlug(ctx context.Context, slug string) (*Item, error)
	Categories(ctx context.Context) ([]string, error)
}

// Catalog binds the manager to one collection.
func (m *Manager) Catalog(c Collection) *Catalog {
	return &Catalog{m: m, c: c}
}

type Catalog struct {
	m *Manager
	c Collection
}

func (c *Catalog) List(ctx context.Context, q ListQuery) (ListResult, error) {
	return c.m.List(ctx, c.c, q)
}

func (c *Catalog) ByID(ctx context.Context, itemID int) (*Item, error) {
	return c.m.ItemByID(ctx, c.c, itemID)
}

func (c *Catalog) BySlug(ctx context.Context, slug string) (*Item, error) {
	return c.m.ItemBySlug(ctx, c.c, slug)
}

func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	return c.m.Categories(ctx, c.c)
}
