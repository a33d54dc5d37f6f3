package repositories

import (
	"context"
	"errors"
	"strings"

	"kartvizit.link/models"

	"gorm.io/gorm"
)

// IUserRepository kullanıcı veritabanı işlemleri için arayüz.
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id uint, data map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	CountByEnterprise(ctx context.Context, enterpriseID uint) (int64, error)
	SumSubLicensesByEnterprise(ctx context.Context, enterpriseID uint, excludeUserID uint) (int64, error)
	ListByEnterprise(ctx context.Context, enterpriseID uint) ([]models.User, error)
	ListByAssignedAdmin(ctx context.Context, adminID uint) ([]models.User, error)
	ClearAssignedAdmin(ctx context.Context, adminID uint) (int64, error)
}

// UserRepository IUserRepository arayüzünü uygular.
type UserRepository struct {
	base *BaseRepository[models.User]
	db   *gorm.DB
}

func NewUserRepository(db *gorm.DB) IUserRepository {
	return &UserRepository{base: NewBaseRepository[models.User](db), db: db}
}

// NormalizeEmail e-postayı karşılaştırma için trim + lowercase yapar.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("oluşturulacak kullanıcı nil olamaz")
	}
	user.Email = NormalizeEmail(user.Email)
	return r.base.Create(ctx, user)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.base.FindByID(ctx, id)
}

func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.User, error) {
	return r.base.FindByIDForUpdate(ctx, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", NormalizeEmail(email)).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(ctx context.Context, id uint, data map[string]interface{}) error {
	return r.base.Update(ctx, id, data)
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.base.Delete(ctx, id)
}

// CountByEnterprise kurumdaki profil hesabı sayısı (profil kotası kullanımı).
func (r *UserRepository) CountByEnterprise(ctx context.Context, enterpriseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("enterprise_id = ?", enterpriseID).Count(&count).Error
	return count, err
}

// SumSubLicensesByEnterprise kurum içinde dağıtılmış kişisel alt lisansların toplamı.
// excludeUserID 0 değilse o kullanıcı toplama dahil edilmez.
func (r *UserRepository) SumSubLicensesByEnterprise(ctx context.Context, enterpriseID uint, excludeUserID uint) (int64, error) {
	var sum int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("enterprise_id = ?", enterpriseID)
	if excludeUserID != 0 {
		q = q.Where("id <> ?", excludeUserID)
	}
	err := q.Select("COALESCE(SUM(sub_license_count), 0)").Scan(&sum).Error
	return sum, err
}

func (r *UserRepository) ListByEnterprise(ctx context.Context, enterpriseID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("enterprise_id = ?", enterpriseID).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) ListByAssignedAdmin(ctx context.Context, adminID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("assigned_admin_id = ?", adminID).Order("id ASC").Find(&users).Error
	return users, err
}

// ClearAssignedAdmin yöneticiye atanmış tüm kullanıcıların atamasını kaldırır.
func (r *UserRepository) ClearAssignedAdmin(ctx context.Context, adminID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("assigned_admin_id = ?", adminID).
		Update("assigned_admin_id", nil)
	return result.RowsAffected, result.Error
}

var _ IUserRepository = (*UserRepository)(nil)
