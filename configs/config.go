package configs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Bilinen zayıf operatör anahtarları. Bunlardan biri ayarlıysa servis başlamaz.
var insecureOperatorKeys = map[string]struct{}{
	"changeme": {},
	"secret":   {},
	"admin":    {},
	"password": {},
}

// AppConfig uygulama genelindeki ayarları tutar. Başlangıçta bir kez yüklenir.
type AppConfig struct {
	Env      string
	Debug    bool
	HTTPAddr string

	DBDriver   string // postgres | sqlite
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimeZone string
	SQLitePath string

	JWTSecret   string
	OperatorKey string

	LogLevel string
	LogFile  string
}

var ErrInsecureOperatorKey = errors.New("OPERATOR_KEY boş veya bilinen bir varsayılan değer")

// Load .env dosyasını (varsa) ve ortam değişkenlerini okuyarak AppConfig üretir.
func Load() (*AppConfig, error) {
	// .env yoksa gerçek ortam değişkenleriyle devam edilir.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_DEBUG", false)
	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "kartvizit")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("SQLITE_PATH", "kartvizit.db")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &AppConfig{
		Env:         v.GetString("APP_ENV"),
		Debug:       v.GetBool("APP_DEBUG"),
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetInt("DB_PORT"),
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  v.GetString("DB_PASSWORD"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSL_MODE"),
		DBTimeZone:  v.GetString("DB_TIMEZONE"),
		SQLitePath:  v.GetString("SQLITE_PATH"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		OperatorKey: v.GetString("OPERATOR_KEY"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFile:     v.GetString("LOG_FILE"),
	}

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("desteklenmeyen DB_DRIVER: %q", cfg.DBDriver)
	}
	return cfg, nil
}

// IsProduction APP_ENV production ise true döner.
func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// PostgresDSN gorm postgres sürücüsü için DSN üretir.
func (c *AppConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.DBTimeZone)
}

// ValidateServeSecrets HTTP katmanının ihtiyaç duyduğu gizli anahtarları kontrol eder.
// Operatör anahtarı yoksa veya varsayılan bir değerse bu bir yapılandırma hatasıdır.
func (c *AppConfig) ValidateServeSecrets() error {
	key := strings.TrimSpace(c.OperatorKey)
	if key == "" {
		return ErrInsecureOperatorKey
	}
	if _, weak := insecureOperatorKeys[strings.ToLower(key)]; weak {
		return ErrInsecureOperatorKey
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET en az 32 karakter olmalı")
	}
	return nil
}
