package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type contextKey string

// contextUserIDKey işlemi yapan kullanıcının ID'sini context'te taşır.
const contextUserIDKey contextKey = "user_id"

// ContextWithUserID işlemi yapan kullanıcıyı context'e ekler (BaseModel hook'ları için).
func ContextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, contextUserIDKey, userID)
}

// UserIDFromContext context'teki kullanıcı ID'sini döndürür.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(contextUserIDKey).(uint)
	return id, ok && id != 0
}

// BaseModel tüm tabloların ortak alanları.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy *uint     `gorm:"index" json:"-"`
	UpdatedBy *uint     `json:"-"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if id, ok := UserIDFromContext(tx.Statement.Context); ok {
		b.CreatedBy = &id
		b.UpdatedBy = &id
	}
	return nil
}

func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if id, ok := UserIDFromContext(tx.Statement.Context); ok {
		b.UpdatedBy = &id
	}
	return nil
}
