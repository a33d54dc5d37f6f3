package database

import (
	"context"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/database/migrations"
	"kartvizit.link/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate bekleyen şema migrasyonlarını çalıştırır. Sadece CLI'dan çağrılır, istek işleyicilerinden asla.
func Migrate(db *gorm.DB) error {
	configslog.SLog.Info("Migrasyonlar sırayla çalıştırılıyor...")
	done, err := migrations.Run(db)
	if err != nil {
		configslog.Log.Error("Migrasyon başarısız oldu", zap.Error(err))
		return err
	}
	if len(done) == 0 {
		configslog.SLog.Info("Bekleyen migrasyon yok.")
		return nil
	}
	configslog.SLog.Infof("Migrasyonlar tamamlandı: %v", done)
	return nil
}

// Seed demo verisini oluşturur. Şemanın güncel olması gerekir.
func Seed(ctx context.Context, db *gorm.DB, opts seeders.DemoOptions) error {
	configslog.SLog.Info(" -> Demo kurum seeder çalıştırılıyor...")
	if err := seeders.SeedDemoEnterprise(ctx, db, opts); err != nil {
		configslog.Log.Error("Seeding başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Demo kurum seeder tamamlandı.")
	return nil
}
