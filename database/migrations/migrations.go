package migrations

import (
	"errors"
	"fmt"
	"time"

	"kartvizit.link/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migration sıralı ve bir kez uygulanan şema adımı.
type Migration struct {
	Version string
	Name    string
	Up      func(tx *gorm.DB) error
}

// SchemaMigration uygulanmış migrasyonların kaydı.
type SchemaMigration struct {
	Version   string    `gorm:"primaryKey;type:varchar(64)"`
	Name      string    `gorm:"type:varchar(150);not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

// All tüm migrasyonları uygulanma sırasıyla döndürür. Yeni adımlar sona eklenir.
func All() []Migration {
	return []Migration{
		{Version: "0001", Name: "enterprises", Up: MigrateEnterprisesTable},
		{Version: "0002", Name: "users", Up: MigrateUsersTable},
		{Version: "0003", Name: "cards", Up: MigrateCardsTable},
		{Version: "0004", Name: "license_requests", Up: MigrateLicenseRequestsTable},
		{Version: "0005", Name: "connections", Up: MigrateConnectionsTable},
	}
}

// Applied veritabanında kayıtlı migrasyon sürümlerini döndürür.
func Applied(db *gorm.DB) (map[string]bool, error) {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return nil, fmt.Errorf("schema_migrations tablosu oluşturulamadı: %w", err)
	}
	var rows []SchemaMigration
	if err := db.Order("version ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(rows))
	for _, r := range rows {
		applied[r.Version] = true
	}
	return applied, nil
}

// Run bekleyen migrasyonları sırayla, her biri kendi transaction'ında çalıştırır.
// Uygulanan sürümleri döndürür; hata olursa o adım geri alınır ve sonrakiler çalışmaz.
func Run(db *gorm.DB) ([]string, error) {
	return run(db, All())
}

func run(db *gorm.DB, steps []Migration) ([]string, error) {
	applied, err := Applied(db)
	if err != nil {
		return nil, err
	}
	var done []string
	for _, m := range steps {
		if applied[m.Version] {
			configslog.SLog.Debugf("Migrasyon %s_%s zaten uygulanmış, atlanıyor.", m.Version, m.Name)
			continue
		}
		if m.Up == nil {
			return done, errors.New("migrasyon " + m.Version + " için Up fonksiyonu yok")
		}
		configslog.SLog.Infof(" -> %s_%s migrasyonu çalıştırılıyor...", m.Version, m.Name)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: m.Version, Name: m.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			configslog.Log.Error("Migrasyon başarısız oldu", zap.String("version", m.Version), zap.String("name", m.Name), zap.Error(err))
			return done, fmt.Errorf("migrasyon %s_%s: %w", m.Version, m.Name, err)
		}
		done = append(done, m.Version)
	}
	return done, nil
}
