package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kartvizit.link/configs"
	"kartvizit.link/configs/configsdatabase"
	"kartvizit.link/configs/configslog"
	"kartvizit.link/database"
	"kartvizit.link/database/seeders"
	"kartvizit.link/routes"
	"kartvizit.link/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// bootstrap yapılandırmayı okur, logger'ı ve veritabanını başlatır.
func bootstrap() (*configs.AppConfig, error) {
	cfg, err := configs.Load()
	if err != nil {
		return nil, err
	}
	configslog.InitLogger(configslog.LoggerOptions{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		Production: cfg.IsProduction(),
	})
	configsdatabase.InitDB(cfg)
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kartvizit",
		Short:         "kartvizit.link lisans ve kart yönetim servisi",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "HTTP sunucusunu başlatır",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			defer configsdatabase.CloseDB()

			if err := cfg.ValidateServeSecrets(); err != nil {
				return fmt.Errorf("yapılandırma hatası: %w", err)
			}
			container, err := services.NewContainer(configsdatabase.GetDB(), services.Options{
				JWTSecret:   cfg.JWTSecret,
				OperatorKey: cfg.OperatorKey,
			})
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.HTTPAddr
			}

			app := routes.NewApp(container, cfg.Debug)

			errCh := make(chan error, 1)
			go func() {
				configslog.SLog.Infof("HTTP sunucusu başlatılıyor: %s", addr)
				errCh <- app.Listen(addr)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			select {
			case sig := <-quit:
				configslog.Log.Info("Kapatma sinyali alındı", zap.String("signal", sig.String()))
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("sunucu durdu: %w", err)
				}
				return nil
			}

			if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
				configslog.Log.Error("Sunucu düzgün kapatılamadı", zap.Error(err))
				return err
			}
			configslog.SLog.Info("Sunucu kapatıldı")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "dinlenecek adres (varsayılan HTTP_ADDR)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bekleyen veritabanı migrasyonlarını çalıştırır",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			defer configsdatabase.CloseDB()
			return database.Migrate(configsdatabase.GetDB())
		},
	}
}

func newSeedCmd() *cobra.Command {
	var opts seeders.DemoOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Demo kurum verisini oluşturur",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			defer configsdatabase.CloseDB()
			if opts.SuperAdminPassword == "" {
				opts.SuperAdminPassword = os.Getenv("SEED_ADMIN_PASSWORD")
			}
			if opts.SuperAdminPassword == "" {
				return errors.New("--admin-password veya SEED_ADMIN_PASSWORD gerekli")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			return database.Seed(ctx, configsdatabase.GetDB(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.SuperAdminPassword, "admin-password", "", "demo super_admin parolası")
	cmd.Flags().IntVar(&opts.LicenseCount, "licenses", 5, "demo kurum profil lisansı")
	cmd.Flags().IntVar(&opts.SubLicenseCount, "sub-licenses", 10, "demo kurum alt lisansı")
	return cmd
}
