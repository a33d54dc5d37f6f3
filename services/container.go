package services

import (
	"errors"

	"gorm.io/gorm"
)

// Options Container'ın ihtiyaç duyduğu gizli anahtarlar ve ayarlar.
type Options struct {
	JWTSecret   string
	OperatorKey string
	BcryptCost  int // 0 ise bcrypt.DefaultCost
}

// Container tüm servisleri tek bir bağlantı üzerinde kurar.
// routes ve seeders buradan okur.
type Container struct {
	Authz           IAuthorizationService
	Cards           ICardService
	Provisioning    IProvisioningService
	Enterprises     IEnterpriseService
	LicenseRequests ILicenseRequestService
	Connections     IConnectionService
	Identity        *JWTIdentityService
	Operator        IOperatorAuthorizer
	Hasher          IPasswordHasher
}

func NewContainer(db *gorm.DB, opts Options) (*Container, error) {
	if db == nil {
		return nil, errors.New("veritabanı bağlantısı nil olamaz")
	}
	if opts.JWTSecret == "" {
		return nil, errors.New("JWT anahtarı boş olamaz")
	}
	operator, err := NewStaticKeyOperatorAuthorizer(opts.OperatorKey)
	if err != nil {
		return nil, err
	}

	hasher := NewBcryptHasher(opts.BcryptCost)
	authz := NewAuthorizationService()
	cards := NewCardService(db, authz)
	return &Container{
		Authz:           authz,
		Cards:           cards,
		Provisioning:    NewProvisioningService(db, authz, cards, hasher),
		Enterprises:     NewEnterpriseService(db),
		LicenseRequests: NewLicenseRequestService(db),
		Connections:     NewConnectionService(db, cards),
		Identity:        NewJWTIdentityService(db, opts.JWTSecret, hasher),
		Operator:        operator,
		Hasher:          hasher,
	}, nil
}
