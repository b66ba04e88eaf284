// Package migration creates the engine tables on startup so a local or
// self-hosted deployment is usable out of the box.
package migration

import (
	"fmt"

	"gorm.io/gorm"

	clientdomain "github.com/platefull/weekplan/internal/client/domain"
	orderdomain "github.com/platefull/weekplan/internal/orderstore/domain"
	refdomain "github.com/platefull/weekplan/internal/reference/domain"
)

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&clientdomain.Client{},
		&refdomain.Vendor{},
		&refdomain.MealCategory{},
		&refdomain.ItemCategory{},
		&refdomain.MealItem{},
		&refdomain.MenuItem{},
		&refdomain.ClientStatus{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
