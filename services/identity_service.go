package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kartvizit.link/configs"
	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/repositories"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// IPasswordHasher parola saklama sözleşmesi.
type IPasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// BcryptHasher bcrypt tabanlı parola hash'leyici.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher cost 0 ise bcrypt.DefaultCost kullanılır.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// IIdentityResolver bir kimlik bilgisinden işlemi yapan aktörü çözer.
type IIdentityResolver interface {
	ResolveActor(ctx context.Context, credential string) (*models.User, models.Principal, error)
}

// ITokenIssuer geliştirme ve testler için erişim token'ı üretir.
type ITokenIssuer interface {
	Issue(user *models.User) (string, error)
}

const defaultTokenTTL = 12 * time.Hour

// JWTIdentityService HS256 imzalı JWT'leri doğrular; sub alanı kullanıcı ID'sidir.
// Kullanıcı her istekte veritabanından yeniden yüklenir, rol değişiklikleri anında geçerli olur.
type JWTIdentityService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	hasher IPasswordHasher
	now    func() time.Time
}

func NewJWTIdentityService(db *gorm.DB, secret string, hasher IPasswordHasher) *JWTIdentityService {
	return &JWTIdentityService{
		db:     db,
		secret: []byte(secret),
		ttl:    defaultTokenTTL,
		hasher: hasher,
		now:    time.Now,
	}
}

func (s *JWTIdentityService) Issue(user *models.User) (string, error) {
	if user == nil || user.ID == 0 {
		return "", fmt.Errorf("%w: token için kullanıcı gerekli", ErrInvalidInput)
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		Issuer:    "kartvizit.link",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *JWTIdentityService) ResolveActor(ctx context.Context, credential string) (*models.User, models.Principal, error) {
	raw := strings.TrimSpace(credential)
	if raw == "" {
		return nil, models.Principal{}, ErrUnauthenticated
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, models.Principal{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, models.Principal{}, fmt.Errorf("%w: geçersiz sub", ErrUnauthenticated)
	}

	user, err := repositories.NewUserRepository(s.db).FindByID(ctx, uint(id))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.Principal{}, fmt.Errorf("%w: kullanıcı yok", ErrUnauthenticated)
	}
	if err != nil {
		return nil, models.Principal{}, storageErr(err)
	}
	if user.IsSuspended {
		return nil, models.Principal{}, fmt.Errorf("%w: hesap askıda", ErrUnauthenticated)
	}

	principal, err := models.PrincipalFor(user)
	if err != nil {
		configslog.Log.Error("Kullanıcı kaydı geçersiz rol durumunda", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, models.Principal{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	return user, principal, nil
}

// Login e-posta ve parola ile token üretir.
func (s *JWTIdentityService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := repositories.NewUserRepository(s.db).FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", nil, ErrUnauthenticated
	}
	if err != nil {
		return "", nil, storageErr(err)
	}
	if user.IsSuspended {
		return "", nil, ErrUnauthenticated
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, ErrUnauthenticated
	}
	token, err := s.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IOperatorAuthorizer platform operatörü kimlik bilgisini doğrular.
type IOperatorAuthorizer interface {
	IsPlatformOperator(credential string) bool
}

// StaticKeyOperatorAuthorizer yapılandırmadan gelen anahtarı sabit zamanlı karşılaştırır.
type StaticKeyOperatorAuthorizer struct {
	key []byte
}

// NewStaticKeyOperatorAuthorizer boş anahtarla oluşturulamaz.
func NewStaticKeyOperatorAuthorizer(key string) (*StaticKeyOperatorAuthorizer, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, configs.ErrInsecureOperatorKey
	}
	return &StaticKeyOperatorAuthorizer{key: []byte(key)}, nil
}

func (a *StaticKeyOperatorAuthorizer) IsPlatformOperator(credential string) bool {
	if credential == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(credential), a.key) == 1
}

var (
	_ IIdentityResolver   = (*JWTIdentityService)(nil)
	_ ITokenIssuer        = (*JWTIdentityService)(nil)
	_ IOperatorAuthorizer = (*StaticKeyOperatorAuthorizer)(nil)
	_ IPasswordHasher     = (*BcryptHasher)(nil)
)
