package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"zesto-backend/domain"
	"zesto-backend/entities"
	"zesto-backend/pkg/reconcile"
)

type (
	InventoryService interface {
		GetInventory(ctx context.Context, userID string, category string, page, limit int) ([]domain.InventoryItemResponse, int64, error)
		GetInventoryItem(ctx context.Context, id string, userID string) (domain.InventoryItemResponse, error)
		UpdateInventoryItem(ctx context.Context, id string, req domain.UpdateInventoryItemRequest, userID string) error
		ConsumeInventoryItem(ctx context.Context, id string, req domain.ConsumeInventoryItemRequest, userID string) (domain.ConsumeInventoryItemResponse, error)
		DeleteInventoryItem(ctx context.Context, id string, userID string) error
		GetInventorySummary(ctx context.Context, userID string) (domain.InventorySummaryResponse, error)
		ReconcileItems(ctx context.Context, req domain.ReconcileItemsRequest, userID string) (domain.ReconcileResponse, error)
	}

	inventoryService struct {
		inventoryRepository InventoryRepository
		reconciler          reconcile.ReconcileService
		logger              *zap.Logger
	}
)

func NewInventoryService(inventoryRepository InventoryRepository, reconciler reconcile.ReconcileService, logger *zap.Logger) InventoryService {
	return &inventoryService{
		inventoryRepository: inventoryRepository,
		reconciler:          reconciler,
		logger:              logger,
	}
}

func (s *inventoryService) GetInventory(ctx context.Context, userID string, category string, page, limit int) ([]domain.InventoryItemResponse, int64, error) {
	items, count, err := s.inventoryRepository.GetInventoryItems(ctx, userID, category, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.InventoryItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, ToInventoryItemResponse(item))
	}

	return response, count, nil
}

func (s *inventoryService) GetInventoryItem(ctx context.Context, id string, userID string) (domain.InventoryItemResponse, error) {
	item, err := s.getOwnedItem(ctx, id, userID)
	if err != nil {
		return domain.InventoryItemResponse{}, err
	}

	return ToInventoryItemResponse(item), nil
}

func (s *inventoryService) UpdateInventoryItem(ctx context.Context, id string, req domain.UpdateInventoryItemRequest, userID string) error {
	if _, err := s.getOwnedItem(ctx, id, userID); err != nil {
		return err
	}

	changes := make(map[string]any)

	if name := strings.TrimSpace(req.Name); name != "" {
		changes["name"] = name
	}

	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return domain.ErrInvalidQuantity
		}
		changes["quantity"] = *req.Quantity
	}

	if req.Price != nil {
		if req.Price.IsNegative() {
			return domain.ErrInvalidPrice
		}
		changes["price"] = *req.Price
	}

	if req.Category != "" {
		changes["category"] = domain.CanonicalCategory(req.Category)
	}

	if req.Quantity != nil && *req.Quantity == 0 {
		return s.inventoryRepository.DeleteInventoryItem(ctx, id)
	}

	if len(changes) == 0 {
		return nil
	}

	return s.inventoryRepository.UpdateInventoryItem(ctx, id, userID, changes)
}

func (s *inventoryService) ConsumeInventoryItem(ctx context.Context, id string, req domain.ConsumeInventoryItemRequest, userID string) (domain.ConsumeInventoryItemResponse, error) {
	if req.Amount <= 0 {
		return domain.ConsumeInventoryItemResponse{}, domain.ErrInvalidQuantity
	}

	if _, err := s.getOwnedItem(ctx, id, userID); err != nil {
		return domain.ConsumeInventoryItemResponse{}, err
	}

	item, removed, err := s.inventoryRepository.ConsumeInventoryItem(ctx, id, req.Amount)
	if err != nil {
		if isNotFound(err) {
			return domain.ConsumeInventoryItemResponse{}, domain.ErrInventoryItemNotFound
		}
		return domain.ConsumeInventoryItemResponse{}, err
	}

	if removed {
		s.logger.Info("inventory item used up", zap.String("item_id", id), zap.String("user_id", userID))
	}

	return domain.ConsumeInventoryItemResponse{
		ID:        item.ID.String(),
		Quantity:  item.Quantity,
		IsRemoved: removed,
	}, nil
}

func (s *inventoryService) DeleteInventoryItem(ctx context.Context, id string, userID string) error {
	if _, err := s.getOwnedItem(ctx, id, userID); err != nil {
		return err
	}

	return s.inventoryRepository.DeleteInventoryItem(ctx, id)
}

func (s *inventoryService) GetInventorySummary(ctx context.Context, userID string) (domain.InventorySummaryResponse, error) {
	summary, err := s.inventoryRepository.GetInventorySummary(ctx, userID)
	if err != nil {
		return domain.InventorySummaryResponse{}, err
	}

	categories := make(map[string]int, len(summary.Categories))
	for category, count := range summary.Categories {
		categories[category] = int(count)
	}

	return domain.InventorySummaryResponse{
		TotalItems: int(summary.TotalItems),
		TotalUnits: int(summary.TotalUnits),
		TotalValue: summary.TotalValue.Round(2),
		Categories: categories,
	}, nil
}

func (s *inventoryService) ReconcileItems(ctx context.Context, req domain.ReconcileItemsRequest, userID string) (domain.ReconcileResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ReconcileResponse{}, domain.ErrParseUUID
	}

	items := make([]domain.ScannedItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, SanitizeScannedItem(item))
	}

	res, err := s.reconciler.Reconcile(ctx, userUUID, items)
	if err != nil {
		return domain.ReconcileResponse{}, err
	}

	return domain.ReconcileResponse{Updated: res.Updated, Created: res.Created}, nil
}

func (s *inventoryService) getOwnedItem(ctx context.Context, id string, userID string) (*entities.InventoryItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrParseUUID
	}

	item, err := s.inventoryRepository.GetInventoryItemByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrInventoryItemNotFound
		}
		return nil, err
	}

	if item.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}

	return item, nil
}

// SanitizeScannedItem trims the name and maps the category onto the taxonomy.
// Quantity and price are left as given.
func SanitizeScannedItem(item domain.ScannedItem) domain.ScannedItem {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = domain.CanonicalCategory(item.Category)
	return item
}

func ToInventoryItemResponse(item *entities.InventoryItem) domain.InventoryItemResponse {
	imageURL := ""
	if item.ImageURL != nil {
		imageURL = *item.ImageURL
	}

	return domain.InventoryItemResponse{
		ID:        item.ID.String(),
		Name:      item.Name,
		Quantity:  item.Quantity,
		Price:     item.Price,
		Category:  item.Category,
		ImageURL:  imageURL,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
