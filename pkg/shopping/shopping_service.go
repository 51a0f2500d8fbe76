package shopping

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"zesto-backend/domain"
	"zesto-backend/entities"
	"zesto-backend/pkg/inventory"
	"zesto-backend/pkg/reconcile"
)

type (
	ShoppingService interface {
		AddItem(ctx context.Context, req domain.AddShoppingItemRequest, userID string) (domain.ShoppingItemResponse, error)
		GetItems(ctx context.Context, userID string) ([]domain.ShoppingItemResponse, error)
		ToggleChecked(ctx context.Context, id string, userID string) (domain.ShoppingItemResponse, error)
		DeleteItem(ctx context.Context, id string, userID string) error
		ClearList(ctx context.Context, userID string) error
		PurchaseChecked(ctx context.Context, userID string) (domain.PurchaseShoppingResponse, error)
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
		reconciler         reconcile.ReconcileService
		images             reconcile.ImageLookup
		logger             *zap.Logger
	}
)

func NewShoppingService(
	shoppingRepository ShoppingRepository,
	reconciler reconcile.ReconcileService,
	images reconcile.ImageLookup,
	logger *zap.Logger,
) ShoppingService {
	return &shoppingService{
		shoppingRepository: shoppingRepository,
		reconciler:         reconciler,
		images:             images,
		logger:             logger,
	}
}

func (s *shoppingService) AddItem(ctx context.Context, req domain.AddShoppingItemRequest, userID string) (domain.ShoppingItemResponse, error) {
	if req.Quantity <= 0 {
		return domain.ShoppingItemResponse{}, domain.ErrInvalidQuantity
	}
	if req.Price.IsNegative() {
		return domain.ShoppingItemResponse{}, domain.ErrInvalidPrice
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ShoppingItemResponse{}, domain.ErrParseUUID
	}

	item := &entities.ShoppingListItem{
		ID:       uuid.New(),
		UserID:   userUUID,
		Name:     strings.TrimSpace(req.Name),
		Quantity: req.Quantity,
		Price:    req.Price,
		Category: domain.CanonicalCategory(req.Category),
	}

	if s.images != nil {
		url := s.images.LookupImage(ctx, item.Name, item.Category)
		item.ImageURL = &url
	}

	if err := s.shoppingRepository.AddItem(ctx, item); err != nil {
		return domain.ShoppingItemResponse{}, err
	}

	return ToShoppingItemResponse(item), nil
}

func (s *shoppingService) GetItems(ctx context.Context, userID string) ([]domain.ShoppingItemResponse, error) {
	items, err := s.shoppingRepository.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ShoppingItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, ToShoppingItemResponse(item))
	}
	return response, nil
}

func (s *shoppingService) ToggleChecked(ctx context.Context, id string, userID string) (domain.ShoppingItemResponse, error) {
	item, err := s.getOwnedItem(ctx, id, userID)
	if err != nil {
		return domain.ShoppingItemResponse{}, err
	}

	item.IsChecked = !item.IsChecked
	if err := s.shoppingRepository.SetChecked(ctx, id, item.IsChecked); err != nil {
		return domain.ShoppingItemResponse{}, err
	}

	return ToShoppingItemResponse(item), nil
}

func (s *shoppingService) DeleteItem(ctx context.Context, id string, userID string) error {
	if _, err := s.getOwnedItem(ctx, id, userID); err != nil {
		return err
	}
	return s.shoppingRepository.DeleteItem(ctx, id)
}

func (s *shoppingService) ClearList(ctx context.Context, userID string) error {
	removed, err := s.shoppingRepository.ClearList(ctx, userID)
	if err != nil {
		return err
	}
	s.logger.Info("shopping list cleared", zap.String("user_id", userID), zap.Int64("removed", removed))
	return nil
}

// PurchaseChecked moves every checked item into the inventory through the
// reconciliation engine. Items are restored to the list if the commit fails.
func (s *shoppingService) PurchaseChecked(ctx context.Context, userID string) (domain.PurchaseShoppingResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.PurchaseShoppingResponse{}, domain.ErrParseUUID
	}

	taken, err := s.shoppingRepository.TakeCheckedItems(ctx, userID)
	if err != nil {
		return domain.PurchaseShoppingResponse{}, err
	}
	if len(taken) == 0 {
		return domain.PurchaseShoppingResponse{}, nil
	}

	ids := make([]uuid.UUID, 0, len(taken))
	items := make([]domain.ScannedItem, 0, len(taken))
	for _, item := range taken {
		ids = append(ids, item.ID)
		items = append(items, inventory.SanitizeScannedItem(domain.ScannedItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Category: item.Category,
		}))
	}

	res, err := s.reconciler.Reconcile(ctx, userUUID, items)
	if err != nil {
		if restoreErr := s.shoppingRepository.RestoreItems(context.WithoutCancel(ctx), ids); restoreErr != nil {
			s.logger.Error("failed to restore shopping list items",
				zap.String("user_id", userID),
				zap.Int("items", len(ids)),
				zap.Error(restoreErr),
			)
		}
		return domain.PurchaseShoppingResponse{}, err
	}

	return domain.PurchaseShoppingResponse{
		Purchased: len(taken),
		ReconcileResponse: domain.ReconcileResponse{
			Updated: res.Updated,
			Created: res.Created,
		},
	}, nil
}

func (s *shoppingService) getOwnedItem(ctx context.Context, id string, userID string) (*entities.ShoppingListItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrParseUUID
	}

	item, err := s.shoppingRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShoppingItemNotFound
		}
		return nil, err
	}

	if item.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}

	return item, nil
}

func ToShoppingItemResponse(item *entities.ShoppingListItem) domain.ShoppingItemResponse {
	imageURL := ""
	if item.ImageURL != nil {
		imageURL = *item.ImageURL
	}

	return domain.ShoppingItemResponse{
		ID:        item.ID.String(),
		Name:      item.Name,
		Quantity:  item.Quantity,
		Price:     item.Price,
		Category:  item.Category,
		ImageURL:  imageURL,
		IsChecked: item.IsChecked,
		CreatedAt: item.CreatedAt,
	}
}
