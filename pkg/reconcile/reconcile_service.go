package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"zesto-backend/domain"
	"zesto-backend/entities"
)

const (
	DefaultLookupTimeout     = 5 * time.Second
	DefaultLookupConcurrency = 4
	DefaultPlaceholderImage  = "https://via.placeholder.com/150"
)

type (
	// Store is the persistent inventory seen by the engine: one snapshot read
	// and one batched commit per call.
	Store interface {
		FetchAll(ctx context.Context, userID uuid.UUID) ([]*entities.InventoryItem, error)
		CommitBatch(ctx context.Context, userID uuid.UUID, batch Batch) error
	}

	// ImageLookup resolves a representative image for a product. It must not
	// fail observably; an empty string is treated as "no image".
	ImageLookup interface {
		LookupImage(ctx context.Context, name, category string) string
	}

	QuantityUpdate struct {
		ID       uuid.UUID
		Delta    int
		Quantity int // quantity after the update, from the snapshot
	}

	Batch struct {
		Updates []QuantityUpdate
		Inserts []*entities.InventoryItem
	}

	Result struct {
		Updated int
		Created int
		Batch   Batch
	}

	Config struct {
		MatchThreshold    float64
		LookupTimeout     time.Duration
		LookupConcurrency int
		PlaceholderImage  string
	}

	ReconcileService interface {
		Reconcile(ctx context.Context, userID uuid.UUID, items []domain.ScannedItem) (Result, error)
	}

	reconcileService struct {
		store      Store
		images     ImageLookup
		logger     *zap.Logger
		cfg        Config
		normalizer TextNormalizer
		scorer     SimilarityScorer
		locks      *scopeLocks
	}
)

func NewReconcileService(store Store, images ImageLookup, logger *zap.Logger, cfg Config) ReconcileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MatchThreshold <= 0 {
		cfg.MatchThreshold = DefaultMatchThreshold
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = DefaultLookupTimeout
	}
	if cfg.LookupConcurrency <= 0 {
		cfg.LookupConcurrency = DefaultLookupConcurrency
	}
	if cfg.PlaceholderImage == "" {
		cfg.PlaceholderImage = DefaultPlaceholderImage
	}

	return &reconcileService{
		store:  store,
		images: images,
		logger: logger,
		cfg:    cfg,
		scorer: SimilarityScorer{Threshold: cfg.MatchThreshold},
		locks:  newScopeLocks(),
	}
}

// Reconcile merges a scanned batch into the user's inventory. Calls for the
// same user run one at a time so each snapshot sees every prior commit.
func (s *reconcileService) Reconcile(ctx context.Context, userID uuid.UUID, items []domain.ScannedItem) (Result, error) {
	release, err := s.locks.acquire(ctx, userID.String())
	if err != nil {
		return Result{}, err
	}
	defer release()

	existing, err := s.store.FetchAll(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch inventory: %w", err)
	}

	merged := MergeBatch(items)
	batch := s.plan(userID, merged, existing)

	if err := s.backfillImages(ctx, batch.Inserts); err != nil {
		return Result{}, err
	}

	if err := s.store.CommitBatch(ctx, userID, batch); err != nil {
		s.logger.Error("inventory commit failed",
			zap.String("user_id", userID.String()),
			zap.Int("updates", len(batch.Updates)),
			zap.Int("inserts", len(batch.Inserts)),
			zap.Error(err),
		)
		return Result{}, fmt.Errorf("%w: %w", domain.ErrInventoryCommitFailed, err)
	}

	s.logger.Info("inventory reconciled",
		zap.String("user_id", userID.String()),
		zap.Int("scanned", len(items)),
		zap.Int("merged", len(merged)),
		zap.Int("updated", len(batch.Updates)),
		zap.Int("created", len(batch.Inserts)),
	)

	return Result{
		Updated: len(batch.Updates),
		Created: len(batch.Inserts),
		Batch:   batch,
	}, nil
}

// MergeBatch collapses lines sharing a normalized key. Quantities are summed;
// name, category and price come from the first line seen.
func MergeBatch(items []domain.ScannedItem) []domain.ScannedItem {
	merged := make([]domain.ScannedItem, 0, len(items))
	positions := make(map[string]int, len(items))

	for _, item := range items {
		key := NormalizedKey(item.Name, item.Category)
		if i, ok := positions[key]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		positions[key] = len(merged)
		merged = append(merged, item)
	}

	return merged
}

type indexEntry struct {
	item      *entities.InventoryItem
	name      string // normalized
	category  string // normalized
	isNew     bool
	delta     int
	touchedAt int
}

// inventoryIndex is the per-call view of the snapshot. It is never shared
// between calls.
type inventoryIndex struct {
	byKey    map[string]*indexEntry
	existing []*indexEntry
}

func (s *reconcileService) newIndex(existing []*entities.InventoryItem) *inventoryIndex {
	idx := &inventoryIndex{
		byKey:    make(map[string]*indexEntry, len(existing)),
		existing: make([]*indexEntry, 0, len(existing)),
	}
	for _, item := range existing {
		entry := &indexEntry{
			item:      item,
			name:      s.normalizer.Normalize(item.Name),
			category:  s.normalizer.Normalize(item.Category),
			touchedAt: -1,
		}
		idx.existing = append(idx.existing, entry)
		key := NormalizedKey(item.Name, item.Category)
		if _, ok := idx.byKey[key]; !ok {
			idx.byKey[key] = entry
		}
	}
	return idx
}

// matches reports whether a record clears the threshold on both name and
// category.
func (s *reconcileService) matches(entry *indexEntry, name, category string) bool {
	return s.scorer.LikelySame(entry.name, name) && s.scorer.LikelySame(entry.category, category)
}

// candidate returns the pre-existing record a line belongs to: the exact key
// hit if it verifies, else the closest record by name and category score
// among those that clear both thresholds. Nil means a new record.
func (s *reconcileService) candidate(idx *inventoryIndex, key, name, category string) *indexEntry {
	if entry, ok := idx.byKey[key]; ok && !entry.isNew && s.matches(entry, name, category) {
		return entry
	}

	var best *indexEntry
	bestScore := -1.0
	for _, entry := range idx.existing {
		if !s.matches(entry, name, category) {
			continue
		}
		score := s.scorer.Ratio(entry.name, name) + s.scorer.Ratio(entry.category, category)
		if score > bestScore {
			best, bestScore = entry, score
		}
	}
	return best
}

func (s *reconcileService) plan(userID uuid.UUID, merged []domain.ScannedItem, existing []*entities.InventoryItem) Batch {
	idx := s.newIndex(existing)
	batch := Batch{}
	var touched []*indexEntry

	for i, item := range merged {
		key := NormalizedKey(item.Name, item.Category)

		// records created earlier in this call only match on the exact key
		if entry, ok := idx.byKey[key]; ok && entry.isNew {
			entry.item.Quantity += item.Quantity
			continue
		}

		name := s.normalizer.Normalize(item.Name)
		category := s.normalizer.Normalize(item.Category)

		if entry := s.candidate(idx, key, name, category); entry != nil {
			if entry.touchedAt < 0 {
				entry.touchedAt = i
				touched = append(touched, entry)
			}
			entry.delta += item.Quantity
			continue
		}

		s.logger.Debug("no matching record, creating one",
			zap.String("scanned", item.Name),
			zap.String("category", item.Category),
		)

		record := &entities.InventoryItem{
			ID:       uuid.New(),
			UserID:   userID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Category: item.Category,
		}
		batch.Inserts = append(batch.Inserts, record)
		idx.byKey[key] = &indexEntry{item: record, name: name, category: category, isNew: true}
	}

	for _, entry := range touched {
		batch.Updates = append(batch.Updates, QuantityUpdate{
			ID:       entry.item.ID,
			Delta:    entry.delta,
			Quantity: entry.item.Quantity + entry.delta,
		})
	}

	return batch
}

// backfillImages resolves images for new records concurrently and waits for
// all of them. Lookups never fail; a cancelled context aborts the call.
func (s *reconcileService) backfillImages(ctx context.Context, records []*entities.InventoryItem) error {
	if len(records) == 0 {
		return ctx.Err()
	}

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.LookupConcurrency)
	for _, record := range records {
		g.Go(func() error {
			url := s.lookupImage(ctx, record.Name, record.Category)
			record.ImageURL = &url
			return nil
		})
	}
	_ = g.Wait()

	return ctx.Err()
}

func (s *reconcileService) lookupImage(ctx context.Context, name, category string) string {
	if s.images == nil {
		return s.cfg.PlaceholderImage
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.cfg.LookupTimeout)
	defer cancel()

	found := make(chan string, 1)
	go func() {
		found <- s.images.LookupImage(lookupCtx, name, category)
	}()

	select {
	case url := <-found:
		if url == "" {
			return s.cfg.PlaceholderImage
		}
		return url
	case <-lookupCtx.Done():
		s.logger.Warn("image lookup timed out", zap.String("name", name), zap.String("category", category))
		return s.cfg.PlaceholderImage
	}
}
