package repositories

import (
	"context"

	"kartvizit.link/models"

	"gorm.io/gorm"
)

// IConnectionRepository kartlar üzerinden bırakılan iletişim kayıtları.
type IConnectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) error
	ListByCardIDs(ctx context.Context, cardIDs []uint) ([]models.Connection, error)
	DeleteByCardIDs(ctx context.Context, cardIDs []uint) (int64, error)
}

type ConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) IConnectionRepository {
	return &ConnectionRepository{db: db}
}

func (r *ConnectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	return r.db.WithContext(ctx).Create(conn).Error
}

func (r *ConnectionRepository) ListByCardIDs(ctx context.Context, cardIDs []uint) ([]models.Connection, error) {
	var list []models.Connection
	if len(cardIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("card_id IN ?", cardIDs).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

// DeleteByCardIDs silinen kartların iletişim kayıtlarını siler.
func (r *ConnectionRepository) DeleteByCardIDs(ctx context.Context, cardIDs []uint) (int64, error) {
	if len(cardIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("card_id IN ?", cardIDs).Delete(&models.Connection{})
	return result.RowsAffected, result.Error
}

var _ IConnectionRepository = (*ConnectionRepository)(nil)
