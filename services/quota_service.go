package services

import (
	"context"

	"kartvizit.link/models"
	"kartvizit.link/repositories"

	"gorm.io/gorm"
)

// QuotaStatus bir kota kontrolünün sonucu.
type QuotaStatus struct {
	OK        bool
	Scope     string
	Used      int64
	Limit     int64
	Remaining int64
}

// Err kontrol başarısızsa *QuotaError döndürür.
func (q QuotaStatus) Err() error {
	if q.OK {
		return nil
	}
	return &QuotaError{Scope: q.Scope, Used: q.Used, Limit: q.Limit, Remaining: q.Remaining}
}

// IQuotaService kurum kapasitesine karşı anlık tüketimi hesaplar.
// Sayımlar her çağrıda veritabanından okunur, önbelleğe alınmaz.
type IQuotaService interface {
	CheckProfileQuota(ctx context.Context, enterpriseID uint) (QuotaStatus, error)
	CheckSubLicenseQuota(ctx context.Context, enterpriseID uint, delta int) (QuotaStatus, error)
	CheckUserCardQuota(ctx context.Context, user *models.User) (QuotaStatus, error)
	CheckAllocation(ctx context.Context, enterpriseID uint, targetUserID uint, newCount int) (QuotaStatus, error)
	CheckAllocationIntact(ctx context.Context, enterpriseID uint) (QuotaStatus, error)
}

// QuotaService IQuotaService uygular. Kilitli kontrol için transaction (tx) ile oluşturulmalı;
// kurum satırını FOR UPDATE ile kilitlemek çağıranın sorumluluğundadır.
type QuotaService struct {
	enterpriseRepo repositories.IEnterpriseRepository
	userRepo       repositories.IUserRepository
	cardRepo       repositories.ICardRepository
}

func NewQuotaService(db *gorm.DB) IQuotaService {
	return &QuotaService{
		enterpriseRepo: repositories.NewEnterpriseRepository(db),
		userRepo:       repositories.NewUserRepository(db),
		cardRepo:       repositories.NewCardRepository(db),
	}
}

func (s *QuotaService) enterprise(ctx context.Context, id uint) (*models.Enterprise, error) {
	ent, err := s.enterpriseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "kurum")
	}
	return ent, nil
}

// CheckProfileQuota bir kullanıcı daha eklenebilir mi: used < LicenseCount.
func (s *QuotaService) CheckProfileQuota(ctx context.Context, enterpriseID uint) (QuotaStatus, error) {
	ent, err := s.enterprise(ctx, enterpriseID)
	if err != nil {
		return QuotaStatus{}, err
	}
	used, err := s.userRepo.CountByEnterprise(ctx, enterpriseID)
	if err != nil {
		return QuotaStatus{}, storageErr(err)
	}
	limit := int64(ent.LicenseCount)
	return QuotaStatus{
		OK:        used < limit,
		Scope:     QuotaScopeProfile,
		Used:      used,
		Limit:     limit,
		Remaining: limit - used,
	}, nil
}

// CheckSubLicenseQuota kurum genelindeki ürün kartı tavanı: used + delta <= SubLicenseCount.
func (s *QuotaService) CheckSubLicenseQuota(ctx context.Context, enterpriseID uint, delta int) (QuotaStatus, error) {
	ent, err := s.enterprise(ctx, enterpriseID)
	if err != nil {
		return QuotaStatus{}, err
	}
	used, err := s.cardRepo.CountProductCardsByEnterprise(ctx, enterpriseID)
	if err != nil {
		return QuotaStatus{}, storageErr(err)
	}
	limit := int64(ent.SubLicenseCount)
	return QuotaStatus{
		OK:        used+int64(delta) <= limit,
		Scope:     QuotaScopeEnterpriseCards,
		Used:      used,
		Limit:     limit,
		Remaining: limit - used,
	}, nil
}

// CheckUserCardQuota kullanıcı başına tavan: toplam kart <= 1 + SubLicenseCount.
func (s *QuotaService) CheckUserCardQuota(ctx context.Context, user *models.User) (QuotaStatus, error) {
	if user == nil {
		return QuotaStatus{}, ErrNotFound
	}
	used, err := s.cardRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		return QuotaStatus{}, storageErr(err)
	}
	limit := int64(1 + user.SubLicenseCount)
	return QuotaStatus{
		OK:        used+1 <= limit,
		Scope:     QuotaScopeUserCards,
		Used:      used,
		Limit:     limit,
		Remaining: limit - used,
	}, nil
}

// CheckAllocation hedef kullanıcının kişisel alt lisansı newCount olursa
// kurum toplamı tavanı aşıyor mu. Remaining = limit - diğerlerinin toplamı.
func (s *QuotaService) CheckAllocation(ctx context.Context, enterpriseID uint, targetUserID uint, newCount int) (QuotaStatus, error) {
	ent, err := s.enterprise(ctx, enterpriseID)
	if err != nil {
		return QuotaStatus{}, err
	}
	others, err := s.userRepo.SumSubLicensesByEnterprise(ctx, enterpriseID, targetUserID)
	if err != nil {
		return QuotaStatus{}, storageErr(err)
	}
	limit := int64(ent.SubLicenseCount)
	return QuotaStatus{
		OK:        others+int64(newCount) <= limit,
		Scope:     QuotaScopeAllocation,
		Used:      others,
		Limit:     limit,
		Remaining: limit - others,
	}, nil
}

// CheckAllocationIntact dağıtılmış alt lisans toplamının tavanın altında kaldığını doğrular.
func (s *QuotaService) CheckAllocationIntact(ctx context.Context, enterpriseID uint) (QuotaStatus, error) {
	ent, err := s.enterprise(ctx, enterpriseID)
	if err != nil {
		return QuotaStatus{}, err
	}
	sum, err := s.userRepo.SumSubLicensesByEnterprise(ctx, enterpriseID, 0)
	if err != nil {
		return QuotaStatus{}, storageErr(err)
	}
	limit := int64(ent.SubLicenseCount)
	return QuotaStatus{
		OK:        sum <= limit,
		Scope:     QuotaScopeAllocation,
		Used:      sum,
		Limit:     limit,
		Remaining: limit - sum,
	}, nil
}

var _ IQuotaService = (*QuotaService)(nil)
