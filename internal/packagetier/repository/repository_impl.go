package repository

import (
	"context"
	"time"

	domain "github.com/billforgelabs/billforge/internal/packagetier/domain"
	"github.com/billforgelabs/billforge/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, tier *domain.PackageTier) error {
	return db.WithContext(ctx).Create(tier).Error
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, tier *domain.PackageTier) error {
	return db.WithContext(ctx).Save(tier).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.PackageTier, error) {
	var tier domain.PackageTier
	err := db.WithContext(ctx).Model(&domain.PackageTier{}).
		Where("id = ?", id).
		First(&tier).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tier, nil
}

// ListActive returns every non-deleted tier. Soft-deleted rows are excluded
// by gorm's DeletedAt handling.
func (r *repository) ListActive(ctx context.Context, db *gorm.DB) ([]domain.PackageTier, error) {
	var tiers []domain.PackageTier
	err := db.WithContext(ctx).Model(&domain.PackageTier{}).
		Order("min_value ASC").
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*domain.PackageTier, error) {
	query := db.WithContext(ctx).Model(&domain.PackageTier{}).Order("id ASC")

	cursor, err := pagination.DecodeCursor(page.PageToken)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		afterID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, pagination.ErrInvalidPageToken
		}
		query = query.Where("id > ?", afterID)
	}
	if page.PageSize > 0 {
		// Over-fetch one row so the caller can detect another page.
		query = query.Limit(page.PageSize + 1)
	}

	var tiers []*domain.PackageTier
	if err := query.Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

func (r *repository) SetExternalID(ctx context.Context, db *gorm.DB, id snowflake.ID, externalID string) error {
	result := db.WithContext(ctx).Model(&domain.PackageTier{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"external_id": externalID,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.PackageTier{}).Error
}
