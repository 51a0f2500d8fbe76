package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessUploadReceipt  = "receipt processed successfully"
	MessageSuccessGetReceiptScan = "receipt scan retrieved successfully"
	MessageSuccessConfirmScan    = "scanned items saved to inventory"

	MessageFailedUploadReceipt  = "failed to upload receipt"
	MessageFailedProcessReceipt = "failed to process receipt"
	MessageFailedGetReceiptScan = "failed to retrieve receipt scan"
	MessageFailedConfirmScan    = "failed to save scanned items"
	MessageNoItemsRecognized    = "no items recognized"

	ErrReceiptScanNotFound  = errors.New("receipt scan not found")
	ErrNoItemsRecognized    = errors.New("no items recognized")
	ErrExtractionFailed     = errors.New("receipt extraction failed")
	ErrScanNotProcessed     = errors.New("receipt scan has no items to confirm")
	ErrScanAlreadyCompleted = errors.New("receipt scan already saved to inventory")
	ErrInvalidImageFormat   = errors.New("invalid image format")
)

type (
	UploadReceiptRequest struct {
		ReceiptImage *multipart.FileHeader `json:"receipt_image" form:"receipt_image" validate:"required"`
	}

	ReceiptScanResponse struct {
		ScanID       string        `json:"scan_id"`
		ImageURL     string        `json:"image_url"`
		Status       string        `json:"status"`
		Items        []ScannedItem `json:"items"`
		OcrText      string        `json:"ocr_text,omitempty"`
		FailReason   string        `json:"fail_reason,omitempty"`
		CreatedCount int           `json:"created_count"`
		UpdatedCount int           `json:"updated_count"`
		CreatedAt    time.Time     `json:"created_at"`
	}

	ConfirmReceiptScanRequest struct {
		Items []ScannedItem `json:"items" validate:"dive"`
	}
)
