package migrations

import (
	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateLicenseRequestsTable(db *gorm.DB) error {
	configslog.SLog.Info("license_requests tablosu migrate ediliyor...")
	if err := db.AutoMigrate(&models.LicenseRequest{}); err != nil {
		configslog.Log.Error("license_requests tablosu migrate edilemedi", zap.Error(err))
		return err
	}
	return nil
}
