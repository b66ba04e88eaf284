package repository

import (
	"context"
	"fmt"

	"github.com/platefull/weekplan/internal/reference/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns the gorm-backed reference loader.
func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

// LoadDirectories reads all six reference tables and builds the lookup
// snapshot. Everything is loaded in one shot; derivation never goes back to
// the database for reference data mid-run.
func (r *repository) LoadDirectories(ctx context.Context) (*domain.Directories, error) {
	var (
		vendors        []domain.Vendor
		mealCategories []domain.MealCategory
		itemCategories []domain.ItemCategory
		mealItems      []domain.MealItem
		menuItems      []domain.MenuItem
		statuses       []domain.ClientStatus
	)

	if err := r.db.WithContext(ctx).Find(&vendors).Error; err != nil {
		return nil, fmt.Errorf("load vendors: %w", err)
	}
	if err := r.db.WithContext(ctx).Find(&mealCategories).Error; err != nil {
		return nil, fmt.Errorf("load meal categories: %w", err)
	}
	if err := r.db.WithContext(ctx).Find(&itemCategories).Error; err != nil {
		return nil, fmt.Errorf("load item categories: %w", err)
	}
	if err := r.db.WithContext(ctx).Find(&mealItems).Error; err != nil {
		return nil, fmt.Errorf("load meal items: %w", err)
	}
	if err := r.db.WithContext(ctx).Find(&menuItems).Error; err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}
	if err := r.db.WithContext(ctx).Find(&statuses).Error; err != nil {
		return nil, fmt.Errorf("load client statuses: %w", err)
	}

	return domain.NewDirectories(vendors, mealCategories, itemCategories, mealItems, menuItems, statuses), nil
}
