package seeders

import (
	"context"
	"errors"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/repositories"
	"kartvizit.link/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DemoCompanyName     = "Demo Kartvizit A.Ş."
	DemoSuperAdminEmail = "demo@kartvizit.link"
)

// DemoOptions demo verisi için ayarlar.
type DemoOptions struct {
	SuperAdminPassword string
	LicenseCount       int
	SubLicenseCount    int
}

// SeedDemoEnterprise demo kurumu, super_admin'i ve bir staff hesabı oluşturur.
// super_admin e-postası zaten kayıtlıysa hiçbir şey yapmaz.
func SeedDemoEnterprise(ctx context.Context, db *gorm.DB, opts DemoOptions) error {
	if opts.SuperAdminPassword == "" {
		return errors.New("demo super_admin parolası boş olamaz")
	}
	if opts.LicenseCount == 0 {
		opts.LicenseCount = 5
	}
	if opts.SubLicenseCount == 0 {
		opts.SubLicenseCount = 10
	}

	exists, err := repositories.NewUserRepository(db).EmailExists(ctx, DemoSuperAdminEmail)
	if err != nil {
		return err
	}
	if exists {
		configslog.SLog.Infof("Demo kurum zaten mevcut (%s), seed atlanıyor.", DemoSuperAdminEmail)
		return nil
	}

	authz := services.NewAuthorizationService()
	cards := services.NewCardService(db, authz)
	provisioning := services.NewProvisioningService(db, authz, cards, services.NewBcryptHasher(0))

	created, err := provisioning.CreateEnterprise(ctx, models.OperatorPrincipal(), services.CreateEnterpriseInput{
		CompanyName:        DemoCompanyName,
		SuperAdminName:     "Demo Yönetici",
		SuperAdminEmail:    DemoSuperAdminEmail,
		SuperAdminPassword: opts.SuperAdminPassword,
		TotalLicenses:      opts.LicenseCount,
		SubLicenses:        opts.SubLicenseCount,
	})
	if err != nil {
		configslog.Log.Error("Demo kurum oluşturulamadı", zap.Error(err))
		return err
	}

	superAdmin, err := models.PrincipalFor(created.SuperAdmin)
	if err != nil {
		return err
	}
	staff, err := provisioning.ProvisionUser(ctx, superAdmin, services.ProvisionUserInput{
		Name:        "Demo Personel",
		Email:       "personel@kartvizit.link",
		Password:    opts.SuperAdminPassword,
		Role:        models.RoleStaff,
		SubLicenses: 1,
	})
	if err != nil {
		configslog.Log.Error("Demo personel oluşturulamadı", zap.Error(err))
		return err
	}

	configslog.Log.Info("Demo kurum oluşturuldu",
		zap.Uint("enterprise_id", created.Enterprise.ID),
		zap.Uint("super_admin_id", created.SuperAdmin.ID),
		zap.Uint("staff_id", staff.User.ID))
	return nil
}
