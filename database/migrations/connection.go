package migrations

import (
	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateConnectionsTable(db *gorm.DB) error {
	configslog.SLog.Info("connections tablosu migrate ediliyor...")
	if err := db.AutoMigrate(&models.Connection{}); err != nil {
		configslog.Log.Error("connections tablosu migrate edilemedi", zap.Error(err))
		return err
	}
	return nil
}
