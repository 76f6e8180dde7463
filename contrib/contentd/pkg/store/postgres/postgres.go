// Package postgres provides a PostgreSQL store backend using GORM.
//
// Every document lives in one row of the content_records table, keyed by
// kind and id, with the document body in a jsonb column.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lumenworks/contentkit/contrib/contentd/pkg/store"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// A non-empty slug is unique per kind through a partial unique index.
type recordRow struct {
	Kind      string    `gorm:"primaryKey;size:32;index:idx_content_records_kind_slug_unique,unique,where:slug <> '',priority:1"`
	ID        string    `gorm:"primaryKey;size:255"`
	Slug      string    `gorm:"size:255;index:idx_content_records_kind_slug_unique,unique,where:slug <> '',priority:2"`
	Data      string    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (recordRow) TableName() string { return "content_records" }

func toRow(rec store.Record) recordRow {
	return recordRow{
		Kind:      string(rec.Kind),
		ID:        rec.ID,
		Slug:      rec.Slug,
		Data:      string(rec.Data),
		CreatedAt: rec.CreatedAt.UTC(),
		UpdatedAt: rec.UpdatedAt.UTC(),
	}
}

func (r recordRow) record() store.Record {
	return store.Record{
		Kind:      models.Kind(r.Kind),
		ID:        r.ID,
		Slug:      r.Slug,
		Data:      []byte(r.Data),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// Backend keeps records in PostgreSQL.
type Backend struct {
	db *gorm.DB
}

var _ store.Backend = (*Backend)(nil)

// New connects to the database at dsn.
func New(dsn string) (*Backend, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Backend{db: db}, nil
}

// Migrate creates or extends the content_records table.
func (b *Backend) Migrate(ctx context.Context) error {
	return b.db.WithContext(ctx).AutoMigrate(&recordRow{})
}

func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(kind models.Kind, id string) error {
	return fmt.Errorf("%w: %s %q", constants.ErrNotFound, kind, id)
}

// conflict reports a duplicate id or slug. With TranslateError both unique
// violations arrive as gorm.ErrDuplicatedKey.
func conflict(rec store.Record) error {
	return fmt.Errorf("%w: %s %q (slug %q)", constants.ErrConflict, rec.Kind, rec.ID, rec.Slug)
}

func (b *Backend) List(ctx context.Context, kind models.Kind) ([]store.Record, error) {
	var rows []recordRow
	err := b.db.WithContext(ctx).
		Where("kind = ?", string(kind)).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", kind, err)
	}
	out := make([]store.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

func (b *Backend) Get(ctx context.Context, kind models.Kind, id string) (store.Record, error) {
	var row recordRow
	err := b.db.WithContext(ctx).First(&row, "kind = ? AND id = ?", string(kind), id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return store.Record{}, notFound(kind, id)
		}
		return store.Record{}, fmt.Errorf("failed to get %s %q: %w", kind, id, err)
	}
	return row.record(), nil
}

func (b *Backend) FindBySlug(ctx context.Context, kind models.Kind, slug string) (store.Record, error) {
	if slug == "" {
		return store.Record{}, fmt.Errorf("%w: %s with empty slug", constants.ErrNotFound, kind)
	}
	var row recordRow
	err := b.db.WithContext(ctx).First(&row, "kind = ? AND slug = ?", string(kind), slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return store.Record{}, fmt.Errorf("%w: %s slug %q", constants.ErrNotFound, kind, slug)
		}
		return store.Record{}, fmt.Errorf("failed to find %s by slug %q: %w", kind, slug, err)
	}
	return row.record(), nil
}

func (b *Backend) Insert(ctx context.Context, rec store.Record) error {
	row := toRow(rec)
	if err := b.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflict(rec)
		}
		return fmt.Errorf("failed to insert %s %q: %w", rec.Kind, rec.ID, err)
	}
	return nil
}

func (b *Backend) Replace(ctx context.Context, rec store.Record) error {
	res := b.db.WithContext(ctx).
		Model(&recordRow{}).
		Where("kind = ? AND id = ?", string(rec.Kind), rec.ID).
		Updates(map[string]any{
			"slug":       rec.Slug,
			"data":       string(rec.Data),
			"updated_at": rec.UpdatedAt.UTC(),
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return conflict(rec)
		}
		return fmt.Errorf("failed to replace %s %q: %w", rec.Kind, rec.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(rec.Kind, rec.ID)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, kind models.Kind, id string) error {
	res := b.db.WithContext(ctx).Delete(&recordRow{}, "kind = ? AND id = ?", string(kind), id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s %q: %w", kind, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(kind, id)
	}
	return nil
}
