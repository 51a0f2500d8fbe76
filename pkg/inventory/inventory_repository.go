package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"zesto-backend/domain"
	"zesto-backend/entities"
	"zesto-backend/pkg/reconcile"
)

type (
	InventoryRepository interface {
		GetInventoryItems(ctx context.Context, userID string, category string, page, limit int) ([]*entities.InventoryItem, int64, error)
		GetInventoryItemByID(ctx context.Context, id string) (*entities.InventoryItem, error)
		UpdateInventoryItem(ctx context.Context, id string, userID string, changes map[string]any) error
		DeleteInventoryItem(ctx context.Context, id string) error
		ConsumeInventoryItem(ctx context.Context, id string, amount int) (*entities.InventoryItem, bool, error)
		GetInventorySummary(ctx context.Context, userID string) (InventorySummary, error)

		// reconciliation store
		FetchAll(ctx context.Context, userID uuid.UUID) ([]*entities.InventoryItem, error)
		CommitBatch(ctx context.Context, userID uuid.UUID, batch reconcile.Batch) error
	}

	InventorySummary struct {
		TotalItems int64
		TotalUnits int64
		TotalValue decimal.Decimal
		Categories map[string]int64
	}

	inventoryRepository struct {
		db *gorm.DB
	}
)

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetInventoryItems(ctx context.Context, userID string, category string, page, limit int) ([]*entities.InventoryItem, int64, error) {
	var items []*entities.InventoryItem
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.InventoryItem{}).Where("user_id = ?", userID)
	if category != "" && category != "all" {
		query = query.Where("LOWER(category) = LOWER(?)", category)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("name asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

func (r *inventoryRepository) GetInventoryItemByID(ctx context.Context, id string) (*entities.InventoryItem, error) {
	var item entities.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateInventoryItem writes only the given columns, so increments committed
// since the record was read are kept. A record removed in the meantime is
// reported as not found rather than recreated.
func (r *inventoryRepository) UpdateInventoryItem(ctx context.Context, id string, userID string, changes map[string]any) error {
	res := r.db.WithContext(ctx).Model(&entities.InventoryItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInventoryItemNotFound
	}
	return nil
}

func (r *inventoryRepository) DeleteInventoryItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.InventoryItem{}).Error
}

// ConsumeInventoryItem decrements the quantity under a row lock and removes
// the record once nothing is left. The bool reports the removal.
func (r *inventoryRepository) ConsumeInventoryItem(ctx context.Context, id string, amount int) (*entities.InventoryItem, bool, error) {
	var item entities.InventoryItem
	removed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&item).Error; err != nil {
			return err
		}

		item.Quantity -= amount
		if item.Quantity <= 0 {
			item.Quantity = 0
			removed = true
			return tx.Delete(&item).Error
		}

		return tx.Model(&item).Update("quantity", item.Quantity).Error
	})
	if err != nil {
		return nil, false, err
	}

	return &item, removed, nil
}

func (r *inventoryRepository) GetInventorySummary(ctx context.Context, userID string) (InventorySummary, error) {
	var totals struct {
		TotalItems int64
		TotalUnits int64
		TotalValue decimal.Decimal
	}

	if err := r.db.WithContext(ctx).Model(&entities.InventoryItem{}).
		Select("COUNT(*) AS total_items, COALESCE(SUM(quantity), 0) AS total_units, COALESCE(SUM(price * quantity), 0) AS total_value").
		Where("user_id = ?", userID).
		Scan(&totals).Error; err != nil {
		return InventorySummary{}, err
	}

	var rows []struct {
		Category string
		Count    int64
	}
	if err := r.db.WithContext(ctx).Model(&entities.InventoryItem{}).
		Select("category, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("category").
		Scan(&rows).Error; err != nil {
		return InventorySummary{}, err
	}

	categories := make(map[string]int64, len(rows))
	for _, row := range rows {
		categories[row.Category] = row.Count
	}

	return InventorySummary{
		TotalItems: totals.TotalItems,
		TotalUnits: totals.TotalUnits,
		TotalValue: totals.TotalValue,
		Categories: categories,
	}, nil
}

func (r *inventoryRepository) FetchAll(ctx context.Context, userID uuid.UUID) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CommitBatch applies a reconciliation batch in one transaction. Quantity
// updates are increments so decrements committed since the snapshot survive.
func (r *inventoryRepository) CommitBatch(ctx context.Context, userID uuid.UUID, batch reconcile.Batch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range batch.Updates {
			res := tx.Model(&entities.InventoryItem{}).
				Where("id = ? AND user_id = ?", update.ID, userID).
				Update("quantity", gorm.Expr("quantity + ?", update.Delta))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", domain.ErrInventoryItemNotFound, update.ID)
			}
		}

		if len(batch.Inserts) > 0 {
			if err := tx.CreateInBatches(batch.Inserts, 100).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
