package scan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"zesto-backend/domain"
	"zesto-backend/entities"
	"zesto-backend/internal/utils/extractor"
	"zesto-backend/internal/utils/ocr"
	"zesto-backend/internal/utils/storage"
	"zesto-backend/pkg/inventory"
	"zesto-backend/pkg/reconcile"
)

type (
	ScanService interface {
		UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, userID string) (domain.ReceiptScanResponse, error)
		GetReceiptScan(ctx context.Context, id string, userID string) (domain.ReceiptScanResponse, error)
		ConfirmReceiptScan(ctx context.Context, id string, req domain.ConfirmReceiptScanRequest, userID string) (domain.ReceiptScanResponse, error)
	}

	scanService struct {
		scanRepository ScanRepository
		s3             storage.AwsS3
		recognizer     ocr.Recognizer
		extractor      extractor.Extractor
		reconciler     reconcile.ReconcileService
		logger         *zap.Logger
	}
)

func NewScanService(
	scanRepository ScanRepository,
	s3 storage.AwsS3,
	recognizer ocr.Recognizer,
	extractor extractor.Extractor,
	reconciler reconcile.ReconcileService,
	logger *zap.Logger,
) ScanService {
	return &scanService{
		scanRepository: scanRepository,
		s3:             s3,
		recognizer:     recognizer,
		extractor:      extractor,
		reconciler:     reconciler,
		logger:         logger,
	}
}

// UploadReceipt stores the photo, then runs OCR and extraction before
// returning. A scan that yields nothing usable is persisted as Failed and the
// matching error is returned alongside the response.
func (s *scanService) UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, userID string) (domain.ReceiptScanResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ReceiptScanResponse{}, domain.ErrParseUUID
	}

	file, err := req.ReceiptImage.Open()
	if err != nil {
		return domain.ReceiptScanResponse{}, err
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return domain.ReceiptScanResponse{}, err
	}

	scanID := uuid.New()
	objectKey, err := s.s3.UploadFile(ctx, fmt.Sprintf("receipt-%s", scanID.String()), req.ReceiptImage, "receipts", storage.AllowImage...)
	if err != nil {
		return domain.ReceiptScanResponse{}, err
	}

	receiptScan := &entities.ReceiptScan{
		ID:       scanID,
		UserID:   userUUID,
		ImageURL: s.s3.GetPublicLinkKey(objectKey),
		Status:   entities.ScanStatusPending,
	}

	if err := s.scanRepository.CreateReceiptScan(ctx, receiptScan); err != nil {
		_ = s.s3.DeleteFile(ctx, objectKey)
		return domain.ReceiptScanResponse{}, err
	}

	scanErr := s.process(ctx, receiptScan, image, req.ReceiptImage.Header.Get("Content-Type"))
	if scanErr != nil {
		receiptScan.Status = entities.ScanStatusFailed
		receiptScan.FailReason = scanErr.Error()
		s.logger.Warn("receipt scan failed",
			zap.String("scan_id", scanID.String()),
			zap.String("user_id", userID),
			zap.Error(scanErr),
		)
	} else {
		receiptScan.Status = entities.ScanStatusProcessed
	}

	if err := s.scanRepository.UpdateReceiptScan(ctx, receiptScan); err != nil {
		return domain.ReceiptScanResponse{}, err
	}

	return ToReceiptScanResponse(receiptScan), scanErr
}

func (s *scanService) process(ctx context.Context, receiptScan *entities.ReceiptScan, image []byte, contentType string) error {
	text, err := s.recognizer.Recognize(ctx, image, contentType)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	receiptScan.OcrText = text

	if text == "" {
		return domain.ErrNoItemsRecognized
	}

	items, err := s.extractor.Extract(ctx, text, domain.Categories)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	if len(items) == 0 {
		return domain.ErrNoItemsRecognized
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		return err
	}
	receiptScan.Items = datatypes.JSON(encoded)

	return nil
}

func (s *scanService) GetReceiptScan(ctx context.Context, id string, userID string) (domain.ReceiptScanResponse, error) {
	receiptScan, err := s.getOwnedScan(ctx, id, userID)
	if err != nil {
		return domain.ReceiptScanResponse{}, err
	}

	return ToReceiptScanResponse(receiptScan), nil
}

// ConfirmReceiptScan feeds the scan's items, or the user's edited list, into
// the reconciliation engine. A scan can be confirmed once.
func (s *scanService) ConfirmReceiptScan(ctx context.Context, id string, req domain.ConfirmReceiptScanRequest, userID string) (domain.ReceiptScanResponse, error) {
	receiptScan, err := s.getOwnedScan(ctx, id, userID)
	if err != nil {
		return domain.ReceiptScanResponse{}, err
	}

	switch receiptScan.Status {
	case entities.ScanStatusCompleted, entities.ScanStatusConfirming:
		return domain.ReceiptScanResponse{}, domain.ErrScanAlreadyCompleted
	case entities.ScanStatusPending:
		return domain.ReceiptScanResponse{}, domain.ErrScanNotProcessed
	}

	items := req.Items
	if len(items) == 0 {
		items = decodeItems(receiptScan.Items)
	}
	if len(items) == 0 {
		return domain.ReceiptScanResponse{}, domain.ErrScanNotProcessed
	}
	for i := range items {
		items[i] = inventory.SanitizeScannedItem(items[i])
	}

	previous := receiptScan.Status
	claimed, err := s.scanRepository.ClaimForConfirm(ctx, id, entities.ScanStatusProcessed, entities.ScanStatusFailed)
	if err != nil {
		return domain.ReceiptScanResponse{}, err
	}
	if !claimed {
		return domain.ReceiptScanResponse{}, domain.ErrScanAlreadyCompleted
	}

	res, err := s.reconciler.Reconcile(ctx, receiptScan.UserID, items)
	if err != nil {
		if resetErr := s.scanRepository.SetStatus(context.WithoutCancel(ctx), id, previous); resetErr != nil {
			s.logger.Error("failed to release receipt scan", zap.String("scan_id", id), zap.Error(resetErr))
		}
		return domain.ReceiptScanResponse{}, err
	}

	encoded, err := json.Marshal(items)
	if err == nil {
		receiptScan.Items = datatypes.JSON(encoded)
	}
	receiptScan.Status = entities.ScanStatusCompleted
	receiptScan.FailReason = ""
	receiptScan.CreatedCount = res.Created
	receiptScan.UpdatedCount = res.Updated

	// inventory is already committed; a failed bookkeeping write leaves the
	// scan in Confirming, which still blocks a second confirm
	if err := s.scanRepository.UpdateReceiptScan(context.WithoutCancel(ctx), receiptScan); err != nil {
		s.logger.Error("failed to mark receipt scan completed", zap.String("scan_id", id), zap.Error(err))
	}

	return ToReceiptScanResponse(receiptScan), nil
}

func (s *scanService) getOwnedScan(ctx context.Context, id string, userID string) (*entities.ReceiptScan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrParseUUID
	}

	receiptScan, err := s.scanRepository.GetReceiptScanByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReceiptScanNotFound
		}
		return nil, err
	}

	if receiptScan.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}

	return receiptScan, nil
}

func decodeItems(raw datatypes.JSON) []domain.ScannedItem {
	if len(raw) == 0 {
		return nil
	}
	var items []domain.ScannedItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func ToReceiptScanResponse(receiptScan *entities.ReceiptScan) domain.ReceiptScanResponse {
	items := decodeItems(receiptScan.Items)
	if items == nil {
		items = []domain.ScannedItem{}
	}

	return domain.ReceiptScanResponse{
		ScanID:       receiptScan.ID.String(),
		ImageURL:     receiptScan.ImageURL,
		Status:       receiptScan.Status,
		Items:        items,
		OcrText:      receiptScan.OcrText,
		FailReason:   receiptScan.FailReason,
		CreatedCount: receiptScan.CreatedCount,
		UpdatedCount: receiptScan.UpdatedCount,
		CreatedAt:    receiptScan.CreatedAt,
	}
}
