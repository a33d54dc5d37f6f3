package configslog

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log yapılandırılmış loglama için, SLog printf tarzı loglama için kullanılır.
// InitLogger çağrılmadan önce ikisi de no-op logger'dır (testler için).
var (
	Log  = zap.NewNop()
	SLog = Log.Sugar()
)

// LoggerOptions InitLogger'ın okuduğu ayarlar.
type LoggerOptions struct {
	Level      string
	File       string // boşsa sadece stdout
	Production bool
}

func levelFromString(l string) zapcore.Level {
	switch strings.ToLower(l) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// InitLogger global logger'ları kurar.
func InitLogger(opts LoggerOptions) {
	lvl := levelFromString(opts.Level)

	var encoder zapcore.Encoder
	if opts.Production {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), lvl)}

	if opts.File != "" {
		writer, err := newRotatingWriter(opts.File)
		if err != nil {
			// Dosya açılamazsa stdout ile devam edilir.
			_, _ = os.Stderr.WriteString("log dosyası açılamadı: " + err.Error() + "\n")
		} else {
			fileEnc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
			cores = append(cores, zapcore.NewCore(fileEnc, zapcore.AddSync(writer), lvl))
		}
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	SLog = Log.Sugar()
}

// newRotatingWriter günlük döndürülen, 14 gün saklanan bir log dosyası açar.
func newRotatingWriter(path string) (*rotatelogs.RotateLogs, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return rotatelogs.New(
		path+".%Y%m%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(14*24*time.Hour),
	)
}

// SyncLogger buffer'daki logları yazar. Uygulama kapanırken defer ile çağrılmalı.
func SyncLogger() {
	_ = Log.Sync()
}
