package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"zesto-backend/domain"
	"zesto-backend/entities"
	"zesto-backend/pkg/reconcile"
)

type memoryRepository struct {
	items map[string]*entities.InventoryItem
	// afterGet runs once a record has been read, standing in for writes
	// committed between the read and the update.
	afterGet func()
}

func newMemoryRepository(items ...*entities.InventoryItem) *memoryRepository {
	repo := &memoryRepository{items: make(map[string]*entities.InventoryItem)}
	for _, item := range items {
		repo.items[item.ID.String()] = item
	}
	return repo
}

func (m *memoryRepository) GetInventoryItems(_ context.Context, userID string, _ string, _, _ int) ([]*entities.InventoryItem, int64, error) {
	var out []*entities.InventoryItem
	for _, item := range m.items {
		if item.UserID.String() == userID {
			out = append(out, item)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryRepository) GetInventoryItemByID(_ context.Context, id string) (*entities.InventoryItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	if m.afterGet != nil {
		m.afterGet()
	}
	return &copied, nil
}

func (m *memoryRepository) UpdateInventoryItem(_ context.Context, id string, userID string, changes map[string]any) error {
	item, ok := m.items[id]
	if !ok || item.UserID.String() != userID {
		return domain.ErrInventoryItemNotFound
	}
	for column, value := range changes {
		switch column {
		case "name":
			item.Name = value.(string)
		case "quantity":
			item.Quantity = value.(int)
		case "price":
			item.Price = value.(decimal.Decimal)
		case "category":
			item.Category = value.(string)
		}
	}
	return nil
}

func (m *memoryRepository) DeleteInventoryItem(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memoryRepository) ConsumeInventoryItem(_ context.Context, id string, amount int) (*entities.InventoryItem, bool, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, false, gorm.ErrRecordNotFound
	}
	item.Quantity -= amount
	if item.Quantity <= 0 {
		item.Quantity = 0
		delete(m.items, id)
		return item, true, nil
	}
	return item, false, nil
}

func (m *memoryRepository) GetInventorySummary(_ context.Context, userID string) (InventorySummary, error) {
	summary := InventorySummary{Categories: map[string]int64{}}
	for _, item := range m.items {
		if item.UserID.String() != userID {
			continue
		}
		summary.TotalItems++
		summary.TotalUnits += int64(item.Quantity)
		summary.TotalValue = summary.TotalValue.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		summary.Categories[item.Category]++
	}
	return summary, nil
}

func (m *memoryRepository) FetchAll(_ context.Context, userID uuid.UUID) ([]*entities.InventoryItem, error) {
	var out []*entities.InventoryItem
	for _, item := range m.items {
		if item.UserID == userID {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryRepository) CommitBatch(_ context.Context, _ uuid.UUID, batch reconcile.Batch) error {
	for _, update := range batch.Updates {
		item, ok := m.items[update.ID.String()]
		if !ok {
			return domain.ErrInventoryItemNotFound
		}
		item.Quantity += update.Delta
	}
	for _, insert := range batch.Inserts {
		m.items[insert.ID.String()] = insert
	}
	return nil
}

type stubReconciler struct {
	got []domain.ScannedItem
	err error
}

func (s *stubReconciler) Reconcile(_ context.Context, _ uuid.UUID, items []domain.ScannedItem) (reconcile.Result, error) {
	s.got = items
	if s.err != nil {
		return reconcile.Result{}, s.err
	}
	return reconcile.Result{Created: len(items)}, nil
}

func newItem(userID uuid.UUID, name string, qty int, category string) *entities.InventoryItem {
	return &entities.InventoryItem{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     name,
		Quantity: qty,
		Price:    decimal.RequireFromString("2.50"),
		Category: category,
	}
}

func TestGetInventoryItem_OwnershipAndNotFound(t *testing.T) {
	owner := uuid.New()
	item := newItem(owner, "Milk", 2, "Dairy")
	svc := NewInventoryService(newMemoryRepository(item), &stubReconciler{}, zap.NewNop())

	res, err := svc.GetInventoryItem(context.Background(), item.ID.String(), owner.String())
	require.NoError(t, err)
	assert.Equal(t, "Milk", res.Name)

	_, err = svc.GetInventoryItem(context.Background(), item.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)

	_, err = svc.GetInventoryItem(context.Background(), uuid.NewString(), owner.String())
	assert.ErrorIs(t, err, domain.ErrInventoryItemNotFound)

	_, err = svc.GetInventoryItem(context.Background(), "not-a-uuid", owner.String())
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestConsumeInventoryItem_RemovesAtZero(t *testing.T) {
	owner := uuid.New()
	item := newItem(owner, "Eggs", 3, "Dairy")
	repo := newMemoryRepository(item)
	svc := NewInventoryService(repo, &stubReconciler{}, zap.NewNop())

	res, err := svc.ConsumeInventoryItem(context.Background(), item.ID.String(), domain.ConsumeInventoryItemRequest{Amount: 2}, owner.String())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Quantity)
	assert.False(t, res.IsRemoved)

	res, err = svc.ConsumeInventoryItem(context.Background(), item.ID.String(), domain.ConsumeInventoryItemRequest{Amount: 5}, owner.String())
	require.NoError(t, err)
	assert.True(t, res.IsRemoved)
	assert.Equal(t, 0, res.Quantity)
	assert.Empty(t, repo.items)
}

func TestConsumeInventoryItem_RejectsNonPositiveAmount(t *testing.T) {
	owner := uuid.New()
	item := newItem(owner, "Eggs", 3, "Dairy")
	svc := NewInventoryService(newMemoryRepository(item), &stubReconciler{}, zap.NewNop())

	_, err := svc.ConsumeInventoryItem(context.Background(), item.ID.String(), domain.ConsumeInventoryItemRequest{Amount: 0}, owner.String())
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestUpdateInventoryItem(t *testing.T) {
	owner := uuid.New()
	item := newItem(owner, "Tomato", 1, "Vegetable")
	repo := newMemoryRepository(item)
	svc := NewInventoryService(repo, &stubReconciler{}, zap.NewNop())

	qty := 4
	price := decimal.RequireFromString("3.10")
	err := svc.UpdateInventoryItem(context.Background(), item.ID.String(), domain.UpdateInventoryItemRequest{
		Name:     "  Cherry Tomato ",
		Quantity: &qty,
		Price:    &price,
		Category: "fruit",
	}, owner.String())
	require.NoError(t, err)

	stored := repo.items[item.ID.String()]
	assert.Equal(t, "Cherry Tomato", stored.Name)
	assert.Equal(t, 4, stored.Quantity)
	assert.True(t, price.Equal(stored.Price))
	assert.Equal(t, "Fruit", stored.Category)

	negative := decimal.NewFromInt(-1)
	err = svc.UpdateInventoryItem(context.Background(), item.ID.String(), domain.UpdateInventoryItemRequest{Price: &negative}, owner.String())
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	zero := 0
	err = svc.UpdateInventoryItem(context.Background(), item.ID.String(), domain.UpdateInventoryItemRequest{Quantity: &zero}, owner.String())
	require.NoError(t, err)
	assert.NotContains(t, repo.items, item.ID.String())
}

func TestUpdateInventoryItem_KeepsConcurrentIncrement(t *testing.T) {
	owner := uuid.New()
	item := newItem(owner, "Tomato", 2, "Vegetable")
	repo := newMemoryRepository(item)
	repo.afterGet = func() {
		require.NoError(t, repo.CommitBatch(context.Background(), owner, reconcile.Batch{
			Updates: []reconcile.QuantityUpdate{{ID: item.ID, Delta: 3, Quantity: 5}},
		}))
		repo.afterGet = nil
	}
	svc := NewInventoryService(repo, &stubReconciler{}, zap.NewNop())

	err := svc.UpdateInventoryItem(context.Background(), item.ID.String(), domain.UpdateInventoryItemRequest{Name: "Roma Tomato"}, owner.String())
	require.NoError(t, err)

	stored := repo.items[item.ID.String()]
	assert.Equal(t, "Roma Tomato", stored.Name)
	assert.Equal(t, 5, stored.Quantity)
}

func TestUpdateInventoryItem_DoesNotRecreateConsumedRecord(t *testing.T) {
	owner := uuid.New()
	item := newItem(owner, "Milk", 1, "Dairy")
	repo := newMemoryRepository(item)
	repo.afterGet = func() {
		_, removed, err := repo.ConsumeInventoryItem(context.Background(), item.ID.String(), 1)
		require.NoError(t, err)
		require.True(t, removed)
		repo.afterGet = nil
	}
	svc := NewInventoryService(repo, &stubReconciler{}, zap.NewNop())

	err := svc.UpdateInventoryItem(context.Background(), item.ID.String(), domain.UpdateInventoryItemRequest{Name: "Oat Milk"}, owner.String())
	assert.ErrorIs(t, err, domain.ErrInventoryItemNotFound)
	assert.Empty(t, repo.items)
}

func TestDeleteInventoryItem_OtherUser(t *testing.T) {
	owner := uuid.New()
	item := newItem(owner, "Bread", 1, "Bakery")
	repo := newMemoryRepository(item)
	svc := NewInventoryService(repo, &stubReconciler{}, zap.NewNop())

	err := svc.DeleteInventoryItem(context.Background(), item.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)
	assert.Contains(t, repo.items, item.ID.String())

	require.NoError(t, svc.DeleteInventoryItem(context.Background(), item.ID.String(), owner.String()))
	assert.Empty(t, repo.items)
}

func TestGetInventorySummary(t *testing.T) {
	owner := uuid.New()
	repo := newMemoryRepository(
		newItem(owner, "Milk", 2, "Dairy"),
		newItem(owner, "Cheese", 1, "Dairy"),
		newItem(owner, "Apple", 4, "Fruit"),
		newItem(uuid.New(), "Steak", 9, "Meat"),
	)
	svc := NewInventoryService(repo, &stubReconciler{}, zap.NewNop())

	summary, err := svc.GetInventorySummary(context.Background(), owner.String())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 7, summary.TotalUnits)
	assert.True(t, decimal.RequireFromString("17.5").Equal(summary.TotalValue))
	assert.Equal(t, map[string]int{"Dairy": 2, "Fruit": 1}, summary.Categories)
}

func TestReconcileItems_SanitizesBeforeEngine(t *testing.T) {
	reconciler := &stubReconciler{}
	svc := NewInventoryService(newMemoryRepository(), reconciler, zap.NewNop())

	res, err := svc.ReconcileItems(context.Background(), domain.ReconcileItemsRequest{Items: []domain.ScannedItem{
		{Name: " Milk ", Quantity: 1, Category: "dairy"},
		{Name: "Widget", Quantity: 2, Category: "gadgets"},
	}}, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)

	require.Len(t, reconciler.got, 2)
	assert.Equal(t, "Milk", reconciler.got[0].Name)
	assert.Equal(t, "Dairy", reconciler.got[0].Category)
	assert.Equal(t, domain.DefaultCategory, reconciler.got[1].Category)
}

func TestReconcileItems_EngineErrorPropagates(t *testing.T) {
	reconciler := &stubReconciler{err: errors.Join(domain.ErrInventoryCommitFailed, errors.New("db down"))}
	svc := NewInventoryService(newMemoryRepository(), reconciler, zap.NewNop())

	_, err := svc.ReconcileItems(context.Background(), domain.ReconcileItemsRequest{Items: []domain.ScannedItem{
		{Name: "Milk", Quantity: 1, Category: "Dairy"},
	}}, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrInventoryCommitFailed)

	_, err = svc.ReconcileItems(context.Background(), domain.ReconcileItemsRequest{}, "bad")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestReconcileItems_WithRealEngine(t *testing.T) {
	owner := uuid.New()
	existing := newItem(owner, "Tomatoe", 2, "Vegetable")
	repo := newMemoryRepository(existing)
	engine := reconcile.NewReconcileService(repo, nil, zap.NewNop(), reconcile.Config{})
	svc := NewInventoryService(repo, engine, zap.NewNop())

	res, err := svc.ReconcileItems(context.Background(), domain.ReconcileItemsRequest{Items: []domain.ScannedItem{
		{Name: "Tomatoes", Quantity: 3, Category: "Vegetable"},
	}}, owner.String())
	require.NoError(t, err)
	assert.Equal(t, domain.ReconcileResponse{Updated: 1, Created: 0}, res)
	assert.Equal(t, 5, repo.items[existing.ID.String()].Quantity)
}
