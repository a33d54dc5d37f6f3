package migrations

import (
	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateEnterprisesTable(db *gorm.DB) error {
	configslog.SLog.Info("enterprises tablosu migrate ediliyor...")
	if err := db.AutoMigrate(&models.Enterprise{}); err != nil {
		configslog.Log.Error("enterprises tablosu migrate edilemedi", zap.Error(err))
		return err
	}
	return nil
}
