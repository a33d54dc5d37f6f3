package repositories

import (
	"context"
	"errors"
	"fmt"

	"kartvizit.link/models"

	"gorm.io/gorm"
)

// Kapasite sütunları. IncrementCapacity sadece bunları kabul eder.
const (
	ColumnLicenseCount    = "license_count"
	ColumnSubLicenseCount = "sub_license_count"
)

// IEnterpriseRepository kurum kayıtları için arayüz.
type IEnterpriseRepository interface {
	Create(ctx context.Context, enterprise *models.Enterprise) error
	FindByID(ctx context.Context, id uint) (*models.Enterprise, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Enterprise, error)
	Update(ctx context.Context, id uint, data map[string]interface{}) error
	IncrementCapacity(ctx context.Context, id uint, column string, amount int) error
	List(ctx context.Context) ([]models.Enterprise, error)
}

// EnterpriseRepository IEnterpriseRepository arayüzünü uygular.
type EnterpriseRepository struct {
	base *BaseRepository[models.Enterprise]
	db   *gorm.DB
}

// NewEnterpriseRepository verilen bağlantı veya transaction ile repo oluşturur.
func NewEnterpriseRepository(db *gorm.DB) IEnterpriseRepository {
	return &EnterpriseRepository{base: NewBaseRepository[models.Enterprise](db), db: db}
}

func (r *EnterpriseRepository) Create(ctx context.Context, enterprise *models.Enterprise) error {
	if enterprise == nil {
		return errors.New("oluşturulacak kurum nil olamaz")
	}
	return r.base.Create(ctx, enterprise)
}

func (r *EnterpriseRepository) FindByID(ctx context.Context, id uint) (*models.Enterprise, error) {
	return r.base.FindByID(ctx, id)
}

func (r *EnterpriseRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Enterprise, error) {
	return r.base.FindByIDForUpdate(ctx, id)
}

func (r *EnterpriseRepository) Update(ctx context.Context, id uint, data map[string]interface{}) error {
	return r.base.Update(ctx, id, data)
}

// IncrementCapacity sütunu mevcut değeri üzerinden artırır (col = col + amount).
// Eski bir okuma üzerine yazılmadığı için eşzamanlı doğrudan düzenlemelerle çakışmaz.
func (r *EnterpriseRepository) IncrementCapacity(ctx context.Context, id uint, column string, amount int) error {
	if column != ColumnLicenseCount && column != ColumnSubLicenseCount {
		return fmt.Errorf("geçersiz kapasite sütunu: %s", column)
	}
	result := r.db.WithContext(ctx).Model(&models.Enterprise{}).
		Where("id = ?", id).
		Update(column, gorm.Expr(column+" + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EnterpriseRepository) List(ctx context.Context) ([]models.Enterprise, error) {
	var list []models.Enterprise
	err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

var _ IEnterpriseRepository = (*EnterpriseRepository)(nil)
