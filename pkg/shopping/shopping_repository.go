package shopping

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"zesto-backend/entities"
)

type (
	ShoppingRepository interface {
		AddItem(ctx context.Context, item *entities.ShoppingListItem) error
		GetItems(ctx context.Context, userID string) ([]*entities.ShoppingListItem, error)
		GetItemByID(ctx context.Context, id string) (*entities.ShoppingListItem, error)
		SetChecked(ctx context.Context, id string, checked bool) error
		DeleteItem(ctx context.Context, id string) error
		ClearList(ctx context.Context, userID string) (int64, error)

		// TakeCheckedItems removes every checked item of the user and returns
		// them. Two concurrent calls never return the same row.
		TakeCheckedItems(ctx context.Context, userID string) ([]*entities.ShoppingListItem, error)
		RestoreItems(ctx context.Context, ids []uuid.UUID) error
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

func (r *shoppingRepository) AddItem(ctx context.Context, item *entities.ShoppingListItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *shoppingRepository) GetItems(ctx context.Context, userID string) ([]*entities.ShoppingListItem, error) {
	var items []*entities.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_checked asc, created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *shoppingRepository) GetItemByID(ctx context.Context, id string) (*entities.ShoppingListItem, error) {
	var item entities.ShoppingListItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *shoppingRepository) SetChecked(ctx context.Context, id string, checked bool) error {
	return r.db.WithContext(ctx).Model(&entities.ShoppingListItem{}).
		Where("id = ?", id).
		Update("is_checked", checked).Error
}

func (r *shoppingRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.ShoppingListItem{}).Error
}

func (r *shoppingRepository) ClearList(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entities.ShoppingListItem{})
	return res.RowsAffected, res.Error
}

func (r *shoppingRepository) TakeCheckedItems(ctx context.Context, userID string) ([]*entities.ShoppingListItem, error) {
	var items []*entities.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("user_id = ? AND is_checked = ?", userID, true).
		Delete(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *shoppingRepository) RestoreItems(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Unscoped().Model(&entities.ShoppingListItem{}).
		Where("id IN ?", ids).
		Update("deleted_at", nil).Error
}
