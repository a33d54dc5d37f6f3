package configsdatabase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kartvizit.link/configs"
	"kartvizit.link/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

// zapWriter gorm logger çıktısını zap'e yönlendirir.
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	configslog.SLog.Debugf(format, args...)
}

func gormConfig(debug bool) *gorm.Config {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(zapWriter{}, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// Open yapılandırmaya göre postgres veya sqlite bağlantısı açar ve ping atar.
func Open(cfg *configs.AppConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("desteklenmeyen veritabanı sürücüsü: %s", cfg.DBDriver)
	}

	conn, err := gorm.Open(dialector, gormConfig(cfg.Debug))
	if err != nil {
		return nil, fmt.Errorf("veritabanı açılamadı: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB alınamadı: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		// sqlite tek yazıcıya izin verir
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("veritabanına ping atılamadı: %w", err)
	}
	return conn, nil
}

// InitDB global bağlantıyı kurar. Hata durumunda uygulama sonlanır.
func InitDB(cfg *configs.AppConfig) {
	conn, err := Open(cfg)
	if err != nil {
		configslog.Log.Fatal("Veritabanı bağlantısı kurulamadı", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	db = conn
	configslog.SLog.Infof("Veritabanı bağlantısı kuruldu (%s)", cfg.DBDriver)
}

// GetDB global bağlantıyı döndürür. InitDB'den önce çağrılırsa panic olur.
func GetDB() *gorm.DB {
	if db == nil {
		panic(errors.New("veritabanı başlatılmadı: önce InitDB çağrılmalı"))
	}
	return db
}

// CloseDB bağlantı havuzunu kapatır.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("sql.DB alınamadı", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Veritabanı bağlantısı kapatılamadı", zap.Error(err))
		return
	}
	configslog.SLog.Info("Veritabanı bağlantısı kapatıldı")
}
