package migrations

import (
	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateCardsTable cards tablosunu oluşturur. Slug üzerinde unique index ve
// kullanıcı başına tek ana kart için kısmi unique index (idx_cards_main_per_user) modelden gelir.
func MigrateCardsTable(db *gorm.DB) error {
	configslog.SLog.Info("cards tablosu migrate ediliyor...")
	if err := db.AutoMigrate(&models.Card{}); err != nil {
		configslog.Log.Error("cards tablosu migrate edilemedi", zap.Error(err))
		return err
	}
	return nil
}
