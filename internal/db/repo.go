package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

type Repository struct {
	db pg.DBI
}

func New(db pg.DBI) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Ping(ctx); err != nil {
			return err
		}
		return nil
	}

	return nil
}

func (r *Repository) Close() error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Close(); err != nil {
			return err
		}
		return nil
	}

	return nil
}

// ItemFilter holds the listing parameters in column terms. SortColumn must be
// one of the Columns.Item names, it is interpolated as an identifier.
type ItemFilter struct {
	Collection string
	Search     string
	// Language restricts the search to one language variant: "id", "en" or
	// empty for both.
	Language   string
	Categories []string
	From, To   *time.Time
	SortColumn string
	SortDesc   bool
	Page       int
	PageSize   int
}

func (f ItemFilter) apply(query *orm.Query) *orm.Query {
	query = query.Where(`"t"."collection" = ?`, f.Collection)

	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		query = query.WhereGroup(func(q *orm.Query) (*orm.Query, error) {
			if f.Language != "en" {
				q = q.WhereOr(`"t"."title" ILIKE ?`, pattern).
					WhereOr(`"t"."excerpt" ILIKE ?`, pattern)
			}
			if f.Language != "id" {
				q = q.WhereOr(`"t"."englishTitle" ILIKE ?`, pattern).
					WhereOr(`"t"."englishExcerpt" ILIKE ?`, pattern)
			}
			return q, nil
		})
	}

	if len(f.Categories) > 0 {
		query = query.Where(`"t"."category" IN (?)`, pg.In(f.Categories))
	}

	if f.From != nil {
		query = query.Where(`"t"."date" >= ?`, *f.From)
	}

	if f.To != nil {
		query = query.Where(`"t"."date" < ?`, nextDay(*f.To))
	}

	return query
}

// nextDay returns the midnight following t's calendar day, in t's location.
func nextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// Items returns one page of items of a collection together with the total
// count of matching rows. Ties on the sort column are broken by id ascending
// in both directions.
func (r *Repository) Items(ctx context.Context, f ItemFilter) ([]Item, int, error) {
	if f.Page < 1 || f.PageSize < 1 {
		return nil, 0, fmt.Errorf(
			"page or pageSize must be greater than 0: page=%d, pageSize=%d",
			f.Page, f.PageSize,
		)
	}

	sortColumn := f.SortColumn
	if sortColumn == "" {
		sortColumn = Columns.Item.Date
	}
	direction := "ASC"
	if f.SortDesc {
		direction = "DESC"
	}

	var items []Item
	count, err := f.apply(r.db.ModelContext(ctx, &items)).
		OrderExpr(fmt.Sprintf(`"t".%q %s`, sortColumn, direction)).
		OrderExpr(`"t"."itemId" ASC`).
		Limit(f.PageSize).
		Offset((f.Page - 1) * f.PageSize).
		SelectAndCount()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query items: %w", err)
	}

	return items, count, nil
}

func (r *Repository) ItemByID(ctx context.Context, collection string, itemID int) (*Item, error) {
	item := &Item{}
	err := r.db.ModelContext(ctx, item).
		Where(`"t"."collection" = ?`, collection).
		Where(`"t"."itemId" = ?`, itemID).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get item by id: %w", err)
	}

	return item, nil
}

func (r *Repository) ItemBySlug(ctx context.Context, collection, slug string) (*Item, error) {
	item := &Item{}
	err := r.db.ModelContext(ctx, item).
		Where(`"t"."collection" = ?`, collection).
		Where(`"t"."slug" = ?`, slug).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get item by slug: %w", err)
	}

	return item, nil
}

func (r *Repository) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	item.CreatedAt = time.Now()
	if _, err := r.db.ModelContext(ctx, item).Returning("*").Insert(); err != nil {
		return nil, fmt.Errorf("failed to insert item: %w", err)
	}

	return item, nil
}

// UpdateItem replaces every editable column of the item. It returns nil when
// the item does not exist in the collection.
func (r *Repository) UpdateItem(ctx context.Context, item *Item) (*Item, error) {
	now := time.Now()
	item.UpdatedAt = &now

	res, err := r.db.ModelContext(ctx, item).
		ExcludeColumn(Columns.Item.CreatedAt).
		Where(`"t"."itemId" = ?`, item.ID).
		Where(`"t"."collection" = ?`, item.Collection).
		Returning("*").
		Update()
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if res.RowsAffected() == 0 {
		return nil, nil
	}

	return item, nil
}

// DeleteItem removes the item and reports whether a row was deleted.
func (r *Repository) DeleteItem(ctx context.Context, collection string, itemID int) (bool, error) {
	res, err := r.db.ModelContext(ctx, (*Item)(nil)).
		Where(`"t"."collection" = ?`, collection).
		Where(`"t"."itemId" = ?`, itemID).
		Delete()
	if err != nil {
		return false, fmt.Errorf("failed to delete item: %w", err)
	}

	return res.RowsAffected() > 0, nil
}

func (r *Repository) Categories(ctx context.Context, collection string) ([]string, error) {
	categories := []string{}
	err := r.db.ModelContext(ctx, (*Item)(nil)).
		ColumnExpr(`DISTINCT "t"."category"`).
		Where(`"t"."collection" = ?`, collection).
		Where(`"t"."category" <> ''`).
		OrderExpr(`"t"."category" ASC`).
		Select(&categories)

	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	return categories, nil
}

func (r *Repository) CreatePhoto(ctx context.Context, photo *Photo) (*Photo, error) {
	photo.CreatedAt = time.Now()
	if _, err := r.db.ModelContext(ctx, photo).Returning("*").Insert(); err != nil {
		return nil, fmt.Errorf("failed to insert photo: %w", err)
	}

	return photo, nil
}

func (r *Repository) Photos(ctx context.Context) ([]Photo, error) {
	photos := []Photo{}
	err := r.db.ModelContext(ctx, &photos).
		OrderExpr(`"t"."createdAt" DESC`).
		OrderExpr(`"t"."photoId" DESC`).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}

	return photos, nil
}

func (r *Repository) PhotoByID(ctx context.Context, photoID int) (*Photo, error) {
	photo := &Photo{}
	err := r.db.ModelContext(ctx, photo).
		Where(`"t"."photoId" = ?`, photoID).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get photo by id: %w", err)
	}

	return photo, nil
}

func (r *Repository) DeletePhoto(ctx context.Context, photoID int) (bool, error) {
	res, err := r.db.ModelContext(ctx, (*Photo)(nil)).
		Where(`"t"."photoId" = ?`, photoID).
		Delete()
	if err != nil {
		return false, fmt.Errorf("failed to delete photo: %w", err)
	}

	return res.RowsAffected() > 0, nil
}

// Draft returns the stored draft value and whether it exists.
func (r *Repository) Draft(ctx context.Context, key string) (string, bool, error) {
	draft := &Draft{}
	err := r.db.ModelContext(ctx, draft).
		Where(`"t"."key" = ?`, key).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("failed to get draft: %w", err)
	}

	return draft.Value, true, nil
}

func (r *Repository) SaveDraft(ctx context.Context, key, value string) error {
	draft := &Draft{Key: key, Value: value, UpdatedAt: time.Now()}
	_, err := r.db.ModelContext(ctx, draft).
		OnConflict(`("key") DO UPDATE`).
		Set(`"value" = EXCLUDED."value"`).
		Set(`"updatedAt" = EXCLUDED."updatedAt"`).
		Insert()
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	return nil
}

func (r *Repository) DeleteDraft(ctx context.Context, key string) error {
	_, err := r.db.ModelContext(ctx, (*Draft)(nil)).
		Where(`"t"."key" = ?`, key).
		Delete()
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
