package scan

import (
	"context"

	"gorm.io/gorm"
	"zesto-backend/entities"
)

type (
	ScanRepository interface {
		CreateReceiptScan(ctx context.Context, receiptScan *entities.ReceiptScan) error
		GetReceiptScanByID(ctx context.Context, id string) (*entities.ReceiptScan, error)
		UpdateReceiptScan(ctx context.Context, receiptScan *entities.ReceiptScan) error

		// ClaimForConfirm moves a scan from one of the given statuses to
		// Confirming. It reports false when another request got there first.
		ClaimForConfirm(ctx context.Context, id string, from ...string) (bool, error)
		SetStatus(ctx context.Context, id string, status string) error
	}

	scanRepository struct {
		db *gorm.DB
	}
)

func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) CreateReceiptScan(ctx context.Context, receiptScan *entities.ReceiptScan) error {
	return r.db.WithContext(ctx).Create(receiptScan).Error
}

func (r *scanRepository) GetReceiptScanByID(ctx context.Context, id string) (*entities.ReceiptScan, error) {
	var receiptScan entities.ReceiptScan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&receiptScan).Error; err != nil {
		return nil, err
	}
	return &receiptScan, nil
}

func (r *scanRepository) UpdateReceiptScan(ctx context.Context, receiptScan *entities.ReceiptScan) error {
	return r.db.WithContext(ctx).Save(receiptScan).Error
}

func (r *scanRepository) ClaimForConfirm(ctx context.Context, id string, from ...string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entities.ReceiptScan{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", entities.ScanStatusConfirming)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *scanRepository) SetStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).Model(&entities.ReceiptScan{}).
		Where("id = ?", id).
		Update("status", status).Error
}
