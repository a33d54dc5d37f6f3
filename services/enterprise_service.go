package services

import (
	"context"
	"fmt"
	"strings"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UsageSummary kurumun kapasite kullanım özeti.
type UsageSummary struct {
	EnterpriseID         uint  `json:"enterprise_id"`
	ProfilesUsed         int64 `json:"profiles_used"`
	ProfilesLimit        int64 `json:"profiles_limit"`
	ProductCardsUsed     int64 `json:"product_cards_used"`
	ProductCardsLimit    int64 `json:"product_cards_limit"`
	SubLicensesAllocated int64 `json:"sub_licenses_allocated"`
}

// UpdateEnterpriseInput super_admin'in düzenleyebildiği alanlar. nil alanlar değişmez.
type UpdateEnterpriseInput struct {
	Name *string `json:"name"`
	Logo *string `json:"logo"`
}

// SetCapacityInput operatörün doğrudan kapasite düzenlemesi. nil alanlar değişmez.
type SetCapacityInput struct {
	LicenseCount    *int `json:"license_count"`
	SubLicenseCount *int `json:"sub_license_count"`
}

// IEnterpriseService kurum kaydı ve kapasite işlemleri.
type IEnterpriseService interface {
	Get(ctx context.Context, actor models.Principal, id uint) (*models.Enterprise, error)
	List(ctx context.Context, actor models.Principal) ([]models.Enterprise, error)
	Update(ctx context.Context, actor models.Principal, id uint, in UpdateEnterpriseInput) (*models.Enterprise, error)
	SetCapacity(ctx context.Context, actor models.Principal, id uint, in SetCapacityInput) (*models.Enterprise, error)
	Usage(ctx context.Context, actor models.Principal, id uint) (*UsageSummary, error)
}

type EnterpriseService struct {
	db *gorm.DB
}

func NewEnterpriseService(db *gorm.DB) IEnterpriseService {
	return &EnterpriseService{db: db}
}

// canView operatör veya kurumun super_admin / admin'i.
func canViewEnterprise(actor models.Principal, id uint) error {
	if actor.IsOperator() {
		return nil
	}
	if !actor.IsSuperAdmin() && !actor.IsAdmin() {
		return forbidden(actor, ReasonRole, &id, nil)
	}
	if !models.SameEnterprise(actor.EnterpriseIDPtr(), &id) {
		return forbidden(actor, ReasonWrongEnterprise, &id, nil)
	}
	return nil
}

func (s *EnterpriseService) Get(ctx context.Context, actor models.Principal, id uint) (*models.Enterprise, error) {
	if err := canViewEnterprise(actor, id); err != nil {
		return nil, err
	}
	ent, err := repositories.NewEnterpriseRepository(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "kurum")
	}
	return ent, nil
}

func (s *EnterpriseService) List(ctx context.Context, actor models.Principal) ([]models.Enterprise, error) {
	if !actor.IsOperator() {
		return nil, forbidden(actor, ReasonRole, nil, nil)
	}
	list, err := repositories.NewEnterpriseRepository(s.db).List(ctx)
	return list, storageErr(err)
}

// Update kurum adı ve logosu; sadece kurumun super_admin'i veya operatör.
func (s *EnterpriseService) Update(ctx context.Context, actor models.Principal, id uint, in UpdateEnterpriseInput) (*models.Enterprise, error) {
	if !actor.IsOperator() {
		if !actor.IsSuperAdmin() {
			return nil, forbidden(actor, ReasonRole, &id, nil)
		}
		if !models.SameEnterprise(actor.EnterpriseIDPtr(), &id) {
			return nil, forbidden(actor, ReasonWrongEnterprise, &id, nil)
		}
	}
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: kurum adı boş olamaz", ErrInvalidInput)
		}
		updates["name"] = name
	}
	if in.Logo != nil {
		updates["logo"] = strings.TrimSpace(*in.Logo)
	}
	repo := repositories.NewEnterpriseRepository(s.db)
	if len(updates) > 0 {
		if err := repo.Update(actorContext(ctx, actor), id, updates); err != nil {
			return nil, notFound(err, "kurum")
		}
	}
	ent, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "kurum")
	}
	return ent, nil
}

// SetCapacity operatörün kapasiteyi doğrudan değiştirmesi. Bekleyen talepleri etkilemez;
// onay her zaman güncel değere ekler. Mevcut kullanımın altına düşürme reddedilir.
func (s *EnterpriseService) SetCapacity(ctx context.Context, actor models.Principal, id uint, in SetCapacityInput) (*models.Enterprise, error) {
	if !actor.IsOperator() {
		return nil, forbidden(actor, ReasonRole, &id, nil)
	}
	if (in.LicenseCount != nil && *in.LicenseCount < 0) || (in.SubLicenseCount != nil && *in.SubLicenseCount < 0) {
		return nil, fmt.Errorf("%w: kapasite negatif olamaz", ErrInvalidInput)
	}

	var result *models.Enterprise
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entRepo := repositories.NewEnterpriseRepository(tx)
		userRepo := repositories.NewUserRepository(tx)
		cardRepo := repositories.NewCardRepository(tx)

		ent, err := entRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "kurum")
		}
		updates := map[string]interface{}{}
		if in.LicenseCount != nil {
			used, err := userRepo.CountByEnterprise(ctx, id)
			if err != nil {
				return storageErr(err)
			}
			if int64(*in.LicenseCount) < used {
				return &QuotaError{Scope: QuotaScopeProfile, Used: used, Limit: int64(*in.LicenseCount), Remaining: int64(*in.LicenseCount) - used}
			}
			updates[repositories.ColumnLicenseCount] = *in.LicenseCount
			ent.LicenseCount = *in.LicenseCount
		}
		if in.SubLicenseCount != nil {
			limit := int64(*in.SubLicenseCount)
			cards, err := cardRepo.CountProductCardsByEnterprise(ctx, id)
			if err != nil {
				return storageErr(err)
			}
			if limit < cards {
				return &QuotaError{Scope: QuotaScopeEnterpriseCards, Used: cards, Limit: limit, Remaining: limit - cards}
			}
			allocated, err := userRepo.SumSubLicensesByEnterprise(ctx, id, 0)
			if err != nil {
				return storageErr(err)
			}
			if limit < allocated {
				return &QuotaError{Scope: QuotaScopeAllocation, Used: allocated, Limit: limit, Remaining: limit - allocated}
			}
			updates[repositories.ColumnSubLicenseCount] = *in.SubLicenseCount
			ent.SubLicenseCount = *in.SubLicenseCount
		}
		if len(updates) > 0 {
			if err := entRepo.Update(ctx, id, updates); err != nil {
				return storageErr(err)
			}
		}
		result = ent
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	configslog.Log.Info("Kurum kapasitesi güncellendi",
		zap.Uint("enterprise_id", id),
		zap.Int("license_count", result.LicenseCount),
		zap.Int("sub_license_count", result.SubLicenseCount))
	return result, nil
}

func (s *EnterpriseService) Usage(ctx context.Context, actor models.Principal, id uint) (*UsageSummary, error) {
	if err := canViewEnterprise(actor, id); err != nil {
		return nil, err
	}
	ent, err := repositories.NewEnterpriseRepository(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "kurum")
	}
	userRepo := repositories.NewUserRepository(s.db)
	profiles, err := userRepo.CountByEnterprise(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	allocated, err := userRepo.SumSubLicensesByEnterprise(ctx, id, 0)
	if err != nil {
		return nil, storageErr(err)
	}
	cards, err := repositories.NewCardRepository(s.db).CountProductCardsByEnterprise(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return &UsageSummary{
		EnterpriseID:         id,
		ProfilesUsed:         profiles,
		ProfilesLimit:        int64(ent.LicenseCount),
		ProductCardsUsed:     cards,
		ProductCardsLimit:    int64(ent.SubLicenseCount),
		SubLicensesAllocated: allocated,
	}, nil
}

var _ IEnterpriseService = (*EnterpriseService)(nil)
