package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound kayıt bulunamadığında repository katmanının döndürdüğü hata.
var ErrNotFound = errors.New("kayıt bulunamadı")

// IBaseRepository tüm modeller için ortak CRUD işlemleri.
type IBaseRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uint) (*T, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*T, error)
	Update(ctx context.Context, id uint, data map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	GetCount(ctx context.Context) (int64, error)
}

// BaseRepository IBaseRepository'nin gorm ile generik uygulaması.
type BaseRepository[T any] struct {
	db *gorm.DB
}

// NewBaseRepository verilen bağlantı (veya transaction) ile bir base repo oluşturur.
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db}
}

func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).First(&entity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// FindByIDForUpdate satırı transaction sonuna kadar kilitler (SELECT ... FOR UPDATE).
// Transaction dışında çağrılırsa kilit hemen bırakılır.
func (r *BaseRepository[T]) FindByIDForUpdate(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&entity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Update map ile kısmi güncelleme yapar. Satır yoksa ErrNotFound döner.
func (r *BaseRepository[T]) Update(ctx context.Context, id uint, data map[string]interface{}) error {
	if len(data) == 0 {
		return errors.New("güncellenecek veri boş olamaz")
	}
	var entity T
	result := r.db.WithContext(ctx).Model(&entity).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&entity).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

func (r *BaseRepository[T]) Delete(ctx context.Context, id uint) error {
	var entity T
	result := r.db.WithContext(ctx).Delete(&entity, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BaseRepository[T]) GetCount(ctx context.Context) (int64, error) {
	var entity T
	var count int64
	err := r.db.WithContext(ctx).Model(&entity).Count(&count).Error
	return count, err
}

// IsUniqueViolation hatanın bir unique constraint ihlali olup olmadığını döndürür.
// gorm TranslateError, postgres (23505) ve sqlite mesajlarını kapsar.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key value")
}
