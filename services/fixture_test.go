package services

import (
	"context"
	"fmt"
	"testing"

	"kartvizit.link/database/migrations"
	"kartvizit.link/models"
	"kartvizit.link/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testJWTSecret   = "test-jwt-secret-0123456789abcdef0123"
	testOperatorKey = "test-operator-key-9f8e7d"
	testPassword    = "Parola.123"
)

func uintPtr(v uint) *uint { return &v }

// newTestDB her test için ayrı, migrasyonları uygulanmış bir in-memory sqlite açar.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = migrations.Run(db)
	require.NoError(t, err)
	return db
}

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	c   *Container
	op  models.Principal
	seq int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	c, err := NewContainer(db, Options{
		JWTSecret:   testJWTSecret,
		OperatorKey: testOperatorKey,
		BcryptCost:  bcrypt.MinCost,
	})
	require.NoError(t, err)
	return &fixture{t: t, ctx: context.Background(), db: db, c: c, op: models.OperatorPrincipal()}
}

func (f *fixture) nextEmail(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d@example.com", prefix, f.seq)
}

// enterprise operatör olarak kurum ve super_admin oluşturur.
func (f *fixture) enterprise(licenses, subLicenses int) (*models.Enterprise, *models.User) {
	f.t.Helper()
	res, err := f.c.Provisioning.CreateEnterprise(f.ctx, f.op, CreateEnterpriseInput{
		CompanyName:        fmt.Sprintf("Firma %d", f.seq+1),
		SuperAdminName:     "Yönetici",
		SuperAdminEmail:    f.nextEmail("super"),
		SuperAdminPassword: testPassword,
		TotalLicenses:      licenses,
		SubLicenses:        subLicenses,
	})
	require.NoError(f.t, err)
	return res.Enterprise, res.SuperAdmin
}

// provision verilen aktörle kurum içi hesap açar. E-posta boşsa otomatik üretilir.
func (f *fixture) provision(actor models.Principal, in ProvisionUserInput) *ProvisionResult {
	f.t.Helper()
	if in.Name == "" {
		in.Name = "Personel"
	}
	if in.Email == "" {
		in.Email = f.nextEmail("user")
	}
	if in.Password == "" {
		in.Password = testPassword
	}
	res, err := f.c.Provisioning.ProvisionUser(f.ctx, actor, in)
	require.NoError(f.t, err)
	return res
}

func (f *fixture) independent(name string) *ProvisionResult {
	f.t.Helper()
	res, err := f.c.Provisioning.RegisterIndependent(f.ctx, name, f.nextEmail("bireysel"), testPassword)
	require.NoError(f.t, err)
	return res
}

// principal kullanıcıyı veritabanından yeniden yükleyip aktöre çevirir.
func (f *fixture) principal(u *models.User) models.Principal {
	f.t.Helper()
	fresh := f.reloadUser(u.ID)
	p, err := models.PrincipalFor(fresh)
	require.NoError(f.t, err)
	return p
}

func (f *fixture) reloadUser(id uint) *models.User {
	f.t.Helper()
	u, err := repositories.NewUserRepository(f.db).FindByID(f.ctx, id)
	require.NoError(f.t, err)
	return u
}

func (f *fixture) reloadCard(id uint) *models.Card {
	f.t.Helper()
	card, err := repositories.NewCardRepository(f.db).FindByID(f.ctx, id)
	require.NoError(f.t, err)
	return card
}

func (f *fixture) reloadEnterprise(id uint) *models.Enterprise {
	f.t.Helper()
	ent, err := repositories.NewEnterpriseRepository(f.db).FindByID(f.ctx, id)
	require.NoError(f.t, err)
	return ent
}

func (f *fixture) mainCardCount(userID uint) int64 {
	f.t.Helper()
	n, err := repositories.NewCardRepository(f.db).CountMainCardsByUserID(f.ctx, userID)
	require.NoError(f.t, err)
	return n
}
