package migration

import (
	"fmt"

	"gorm.io/gorm"
	"zesto-backend/entities"
)

func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";").Error; err != nil {
		return fmt.Errorf("error creating uuid-ossp extension: %w", err)
	}

	models := []struct {
		name  string
		model any
	}{
		{"inventory item", &entities.InventoryItem{}},
		{"receipt scan", &entities.ReceiptScan{}},
		{"shopping list item", &entities.ShoppingListItem{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s database: %w", m.name, err)
		}
	}

	return nil
}
