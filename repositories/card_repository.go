package repositories

import (
	"context"
	"errors"

	"kartvizit.link/models"

	"gorm.io/gorm"
)

// ICardRepository kartvizit veritabanı işlemleri için arayüz.
type ICardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	FindByID(ctx context.Context, id uint) (*models.Card, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Card, error)
	FindBySlug(ctx context.Context, slug string) (*models.Card, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	FindMainCardByUserID(ctx context.Context, userID uint) (*models.Card, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	CountMainCardsByUserID(ctx context.Context, userID uint) (int64, error)
	CountProductCardsByEnterprise(ctx context.Context, enterpriseID uint) (int64, error)
	Update(ctx context.Context, id uint, data map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	DeleteByUserID(ctx context.Context, userID uint) (int64, error)
	DetachByUserID(ctx context.Context, userID uint) (int64, error)
	RescopeByUserID(ctx context.Context, userID uint, enterpriseID *uint) (int64, error)
	MoveChildren(ctx context.Context, parentID uint, userID uint, newParentID uint, enterpriseID *uint) (int64, error)
	ListByUserIDs(ctx context.Context, userIDs []uint) ([]models.Card, error)
	ListByEnterprise(ctx context.Context, enterpriseID uint) ([]models.Card, error)
}

// CardRepository ICardRepository arayüzünü uygular.
type CardRepository struct {
	base *BaseRepository[models.Card]
	db   *gorm.DB
}

// NewCardRepository yeni bir CardRepository örneği oluşturur.
// Transaction içinde kullanılacaksa tx verilmelidir.
func NewCardRepository(db *gorm.DB) ICardRepository {
	return &CardRepository{base: NewBaseRepository[models.Card](db), db: db}
}

func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	if card == nil {
		return errors.New("oluşturulacak kart nil olamaz")
	}
	return r.base.Create(ctx, card)
}

func (r *CardRepository) FindByID(ctx context.Context, id uint) (*models.Card, error) {
	return r.base.FindByID(ctx, id)
}

func (r *CardRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Card, error) {
	return r.base.FindByIDForUpdate(ctx, id)
}

// FindBySlug normalize edilmiş slug ile kartı bulur.
func (r *CardRepository) FindBySlug(ctx context.Context, slug string) (*models.Card, error) {
	var card models.Card
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Card{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// FindMainCardByUserID kullanıcının ana profil kartını (parent_id IS NULL) bulur.
func (r *CardRepository) FindMainCardByUserID(ctx context.Context, userID uint) (*models.Card, error) {
	var card models.Card
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND parent_id IS NULL", userID).
		First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// CountByUserID kullanıcının sahip olduğu toplam kart sayısı (askıdakiler dahil).
func (r *CardRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Card{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *CardRepository) CountMainCardsByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Card{}).
		Where("user_id = ? AND parent_id IS NULL", userID).
		Count(&count).Error
	return count, err
}

// CountProductCardsByEnterprise kuruma bağlı ürün kartlarının sayısı (sahipsizler dahil).
func (r *CardRepository) CountProductCardsByEnterprise(ctx context.Context, enterpriseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Card{}).
		Where("enterprise_id = ? AND parent_id IS NOT NULL", enterpriseID).
		Count(&count).Error
	return count, err
}

func (r *CardRepository) Update(ctx context.Context, id uint, data map[string]interface{}) error {
	return r.base.Update(ctx, id, data)
}

func (r *CardRepository) Delete(ctx context.Context, id uint) error {
	return r.base.Delete(ctx, id)
}

// DeleteByUserID kullanıcının tüm kartlarını siler.
func (r *CardRepository) DeleteByUserID(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Card{})
	return result.RowsAffected, result.Error
}

// DetachByUserID kartları sahipsiz bırakır; enterprise_id korunur, kartlar kotada kalır.
func (r *CardRepository) DetachByUserID(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Card{}).
		Where("user_id = ?", userID).
		Update("user_id", nil)
	return result.RowsAffected, result.Error
}

// RescopeByUserID kullanıcının kartlarının enterprise_id alanını eşitler.
func (r *CardRepository) RescopeByUserID(ctx context.Context, userID uint, enterpriseID *uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Card{}).
		Where("user_id = ?", userID).
		Update("enterprise_id", enterpriseID)
	return result.RowsAffected, result.Error
}

// MoveChildren parentID'ye bağlı ürün kartlarının sahibini, ebeveynini ve kurumunu birlikte günceller.
func (r *CardRepository) MoveChildren(ctx context.Context, parentID uint, userID uint, newParentID uint, enterpriseID *uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Card{}).
		Where("parent_id = ?", parentID).
		Updates(map[string]interface{}{
			"user_id":       userID,
			"parent_id":     newParentID,
			"enterprise_id": enterpriseID,
		})
	return result.RowsAffected, result.Error
}

func (r *CardRepository) ListByUserIDs(ctx context.Context, userIDs []uint) ([]models.Card, error) {
	var cards []models.Card
	if len(userIDs) == 0 {
		return cards, nil
	}
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Order("id ASC").Find(&cards).Error
	return cards, err
}

// ListByEnterprise kuruma bağlı tüm kartlar (sahipsiz kartlar dahil).
func (r *CardRepository) ListByEnterprise(ctx context.Context, enterpriseID uint) ([]models.Card, error) {
	var cards []models.Card
	err := r.db.WithContext(ctx).Where("enterprise_id = ?", enterpriseID).Order("id ASC").Find(&cards).Error
	return cards, err
}

var _ ICardRepository = (*CardRepository)(nil)
