package repositories

import (
	"context"
	"errors"
	"time"

	"kartvizit.link/models"

	"gorm.io/gorm"
)

// ILicenseRequestRepository lisans talepleri için arayüz.
type ILicenseRequestRepository interface {
	Create(ctx context.Context, req *models.LicenseRequest) error
	FindByID(ctx context.Context, id uint) (*models.LicenseRequest, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.LicenseRequest, error)
	MarkHandled(ctx context.Context, id uint, status models.LicenseRequestStatus, at time.Time) (bool, error)
	List(ctx context.Context, filter LicenseRequestFilter) ([]models.LicenseRequest, error)
}

// LicenseRequestFilter listeleme filtresi. Sıfır değerli alanlar filtrelenmez.
type LicenseRequestFilter struct {
	EnterpriseID uint
	Status       models.LicenseRequestStatus
}

type LicenseRequestRepository struct {
	base *BaseRepository[models.LicenseRequest]
	db   *gorm.DB
}

func NewLicenseRequestRepository(db *gorm.DB) ILicenseRequestRepository {
	return &LicenseRequestRepository{base: NewBaseRepository[models.LicenseRequest](db), db: db}
}

func (r *LicenseRequestRepository) Create(ctx context.Context, req *models.LicenseRequest) error {
	if req == nil {
		return errors.New("oluşturulacak talep nil olamaz")
	}
	return r.base.Create(ctx, req)
}

func (r *LicenseRequestRepository) FindByID(ctx context.Context, id uint) (*models.LicenseRequest, error) {
	return r.base.FindByID(ctx, id)
}

func (r *LicenseRequestRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.LicenseRequest, error) {
	return r.base.FindByIDForUpdate(ctx, id)
}

// MarkHandled talebi sadece hâlâ pending ise günceller.
// false dönerse talep başka bir işlem tarafından zaten sonuçlandırılmıştır.
func (r *LicenseRequestRepository) MarkHandled(ctx context.Context, id uint, status models.LicenseRequestStatus, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.LicenseRequest{}).
		Where("id = ? AND status = ?", id, models.LicenseRequestPending).
		Updates(map[string]interface{}{"status": status, "handled_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *LicenseRequestRepository) List(ctx context.Context, filter LicenseRequestFilter) ([]models.LicenseRequest, error) {
	q := r.db.WithContext(ctx).Model(&models.LicenseRequest{})
	if filter.EnterpriseID != 0 {
		q = q.Where("enterprise_id = ?", filter.EnterpriseID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	var list []models.LicenseRequest
	err := q.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

var _ ILicenseRequestRepository = (*LicenseRequestRepository)(nil)
