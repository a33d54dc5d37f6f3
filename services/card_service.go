package services

import (
	"context"
	"errors"
	"fmt"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/repositories"
	"kartvizit.link/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ICardService kart yaşam döngüsü işlemleri.
type ICardService interface {
	CreateMainCard(ctx context.Context, tx *gorm.DB, user *models.User) (*models.Card, error)
	CreateProductCard(ctx context.Context, actor models.Principal, userID uint, title, slug string) (*models.Card, error)
	ReassignCard(ctx context.Context, actor models.Principal, cardID, newUserID uint) (*models.Card, error)
	SuspendCard(ctx context.Context, actor models.Principal, cardID uint) (*models.Card, error)
	ReactivateCard(ctx context.Context, actor models.Principal, cardID uint) (*models.Card, error)
	DeleteCard(ctx context.Context, actor models.Principal, cardID uint) error
	GetCard(ctx context.Context, actor models.Principal, cardID uint) (*models.Card, error)
	ListCards(ctx context.Context, actor models.Principal) ([]models.Card, error)
	ListEnterpriseCards(ctx context.Context, actor models.Principal, enterpriseID uint) ([]models.Card, error)
	GetPublicCard(ctx context.Context, slug string) (*models.Card, *models.User, error)
}

// CardService ICardService arayüzünü uygular.
type CardService struct {
	db    *gorm.DB
	authz IAuthorizationService
}

// NewCardService yeni bir CardService örneği oluşturur.
func NewCardService(db *gorm.DB, authz IAuthorizationService) ICardService {
	return &CardService{db: db, authz: authz}
}

// CreateMainCard kullanıcı oluşturulurken bir kez çağrılır. Kota kontrolü yoktur.
// tx nil ise servis bağlantısı kullanılır.
func (s *CardService) CreateMainCard(ctx context.Context, tx *gorm.DB, user *models.User) (*models.Card, error) {
	if user == nil || user.ID == 0 {
		return nil, fmt.Errorf("%w: ana kart için kullanıcı gerekli", ErrInvalidInput)
	}
	if tx == nil {
		tx = s.db
	}
	cardRepo := repositories.NewCardRepository(tx)

	existing, err := cardRepo.CountMainCardsByUserID(ctx, user.ID)
	if err != nil {
		return nil, storageErr(err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: kullanıcının zaten ana kartı var (user %d)", ErrInvariantViolation, user.ID)
	}

	slug, err := uniqueGeneratedSlug(ctx, cardRepo, user.Name)
	if err != nil {
		return nil, err
	}

	userID := user.ID
	card := &models.Card{
		UserID:       &userID,
		EnterpriseID: user.EnterpriseID,
		Slug:         slug,
		Title:        user.Name,
	}
	if err := cardRepo.Create(ctx, card); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: ana kart eklenemedi (user %d): %v", ErrInvariantViolation, user.ID, err)
		}
		return nil, storageErr(err)
	}
	configslog.Log.Info("Ana kart oluşturuldu", zap.Uint("user_id", user.ID), zap.Uint("card_id", card.ID), zap.String("slug", slug))
	return card, nil
}

// authorizeOwner kart sahibi adına işlem: kendisi, veya yönetme yetkisi olan aktör.
func (s *CardService) authorizeOwner(actor models.Principal, owner *models.User) error {
	if isSelf(actor, owner) {
		return nil
	}
	return s.authz.CanManageUser(actor, owner)
}

// CreateProductCard kullanıcının ana kartına bağlı yeni bir ürün kartı oluşturur.
// Kontroller kurum satırı kilitlendikten sonra aynı transaction içinde yapılır.
func (s *CardService) CreateProductCard(ctx context.Context, actor models.Principal, userID uint, title, slug string) (*models.Card, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: kullanıcı ID gerekli", ErrInvalidInput)
	}
	var requestedSlug string
	if slug != "" {
		var err error
		if requestedSlug, err = normalizeRequestedSlug(slug); err != nil {
			return nil, err
		}
	}

	ctx = actorContext(ctx, actor)
	var created *models.Card
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)
		entRepo := repositories.NewEnterpriseRepository(tx)
		cardRepo := repositories.NewCardRepository(tx)
		quota := NewQuotaService(tx)

		owner, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return notFound(err, "kullanıcı")
		}
		if err := s.authorizeOwner(actor, owner); err != nil {
			return err
		}

		// Kilit sırası: kurum -> kullanıcı.
		if owner.EnterpriseID != nil {
			if _, err := entRepo.FindByIDForUpdate(ctx, *owner.EnterpriseID); err != nil {
				return notFound(err, "kurum")
			}
		}
		owner, err = userRepo.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return notFound(err, "kullanıcı")
		}

		status, err := quota.CheckUserCardQuota(ctx, owner)
		if err != nil {
			return err
		}
		if err := status.Err(); err != nil {
			return err
		}
		if owner.EnterpriseID != nil {
			entStatus, err := quota.CheckSubLicenseQuota(ctx, *owner.EnterpriseID, 1)
			if err != nil {
				return err
			}
			if err := entStatus.Err(); err != nil {
				return err
			}
			alloc, err := quota.CheckAllocationIntact(ctx, *owner.EnterpriseID)
			if err != nil {
				return err
			}
			if err := alloc.Err(); err != nil {
				return err
			}
		}

		mainCard, err := cardRepo.FindMainCardByUserID(ctx, owner.ID)
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: kullanıcının ana kartı yok (user %d)", ErrInvariantViolation, owner.ID)
		}
		if err != nil {
			return storageErr(err)
		}

		finalSlug := requestedSlug
		if finalSlug == "" {
			base := title
			if base == "" {
				base = owner.Name
			}
			if finalSlug, err = uniqueGeneratedSlug(ctx, cardRepo, base); err != nil {
				return err
			}
		} else {
			exists, err := cardRepo.SlugExists(ctx, finalSlug)
			if err != nil {
				return storageErr(err)
			}
			if exists {
				return &SlugTakenError{Slug: finalSlug, Field: "slug"}
			}
		}

		ownerID := owner.ID
		parentID := mainCard.ID
		card := &models.Card{
			UserID:       &ownerID,
			EnterpriseID: owner.EnterpriseID,
			Slug:         finalSlug,
			Title:        title,
			ParentID:     &parentID,
		}
		if err := cardRepo.Create(ctx, card); err != nil {
			if repositories.IsUniqueViolation(err) {
				return &SlugTakenError{Slug: finalSlug, Field: "slug"}
			}
			return storageErr(err)
		}
		created = card
		return nil
	})
	if txErr != nil {
		configslog.Log.Warn("Ürün kartı oluşturulamadı", zap.Uint("user_id", userID), zap.Stringer("actor", actor), zap.Error(txErr))
		return nil, txErr
	}

	configslog.Log.Info("Ürün kartı oluşturuldu",
		zap.Uint("card_id", created.ID), zap.Uint("user_id", userID), zap.String("slug", created.Slug))
	return created, nil
}

// loadOwner kartın sahibini yükler; sahipsiz kart için nil döner.
func loadOwner(ctx context.Context, userRepo repositories.IUserRepository, card *models.Card) (*models.User, error) {
	if card.UserID == nil {
		return nil, nil
	}
	owner, err := userRepo.FindByID(ctx, *card.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return owner, nil
}

// sameScope iki nullable kurum alanı aynı kapsamı mı gösteriyor (ikisi de nil dahil).
func sameScope(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ReassignCard kartı aynı kurum içindeki başka bir kullanıcıya taşır.
// Hedefin ana kartı varsa kart onun altına ürün kartı olur, yoksa hedefin ana kartı olur.
// UserID, ParentID ve EnterpriseID birlikte güncellenir. Ana kart taşınırken ona bağlı
// ürün kartları da aynı transaction içinde hedefe geçer ve hedefin ana kartına bağlanır.
func (s *CardService) ReassignCard(ctx context.Context, actor models.Principal, cardID, newUserID uint) (*models.Card, error) {
	if cardID == 0 || newUserID == 0 {
		return nil, fmt.Errorf("%w: kart ve hedef kullanıcı gerekli", ErrInvalidInput)
	}

	ctx = actorContext(ctx, actor)
	var result *models.Card
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)
		entRepo := repositories.NewEnterpriseRepository(tx)
		cardRepo := repositories.NewCardRepository(tx)

		card, err := cardRepo.FindByID(ctx, cardID)
		if err != nil {
			return notFound(err, "kart")
		}
		target, err := userRepo.FindByID(ctx, newUserID)
		if err != nil {
			return notFound(err, "hedef kullanıcı")
		}

		// Kurum sınırı her şeyden önce kontrol edilir.
		if !sameScope(card.EnterpriseID, target.EnterpriseID) {
			return crossEnterprise(actor, target.EnterpriseID)
		}
		if !actor.IsOperator() {
			if _, ok := actor.EnterpriseID(); !ok {
				return forbidden(actor, ReasonRole, card.EnterpriseID, nil)
			}
			if !models.SameEnterprise(actor.EnterpriseIDPtr(), card.EnterpriseID) {
				return crossEnterprise(actor, card.EnterpriseID)
			}
		}

		owner, err := loadOwner(ctx, userRepo, card)
		if err != nil {
			return err
		}
		if err := s.authz.CanManageCard(actor, card, owner); err != nil {
			return err
		}
		if !isSelf(actor, target) {
			if err := s.authz.CanManageUser(actor, target); err != nil {
				return err
			}
		}

		if card.UserID != nil && *card.UserID == target.ID {
			result = card
			return nil
		}

		var entID uint
		if card.EnterpriseID != nil {
			entID = *card.EnterpriseID
			if _, err := entRepo.FindByIDForUpdate(ctx, entID); err != nil {
				return notFound(err, "kurum")
			}
		}
		card, err = cardRepo.FindByIDForUpdate(ctx, cardID)
		if err != nil {
			return notFound(err, "kart")
		}

		var newParentID *uint
		targetMain, err := cardRepo.FindMainCardByUserID(ctx, target.ID)
		switch {
		case err == nil:
			id := targetMain.ID
			newParentID = &id
		case errors.Is(err, repositories.ErrNotFound):
			newParentID = nil
		default:
			return storageErr(err)
		}

		if card.ParentID == nil && newParentID != nil && entID != 0 {
			status, err := NewQuotaService(tx).CheckSubLicenseQuota(ctx, entID, 1)
			if err != nil {
				return err
			}
			if err := status.Err(); err != nil {
				return err
			}
		}

		targetID := target.ID
		updates := map[string]interface{}{
			"user_id":       targetID,
			"parent_id":     newParentID,
			"enterprise_id": target.EnterpriseID,
		}
		if err := cardRepo.Update(ctx, card.ID, updates); err != nil {
			if repositories.IsUniqueViolation(err) {
				return fmt.Errorf("%w: hedef kullanıcıda ikinci ana kart oluşacaktı", ErrInvariantViolation)
			}
			return storageErr(err)
		}
		if card.ParentID == nil {
			childParent := card.ID
			if newParentID != nil {
				childParent = *newParentID
			}
			moved, err := cardRepo.MoveChildren(ctx, card.ID, targetID, childParent, target.EnterpriseID)
			if err != nil {
				return storageErr(err)
			}
			if moved > 0 {
				configslog.Log.Info("Ana karta bağlı ürün kartları da taşındı",
					zap.Uint("card_id", card.ID), zap.Uint("target_user_id", targetID), zap.Int64("count", moved))
			}
		}
		card.UserID = &targetID
		card.ParentID = newParentID
		card.EnterpriseID = target.EnterpriseID
		result = card
		return nil
	})
	if txErr != nil {
		configslog.Log.Warn("Kart taşınamadı", zap.Uint("card_id", cardID), zap.Uint("target_user_id", newUserID), zap.Stringer("actor", actor), zap.Error(txErr))
		return nil, txErr
	}
	configslog.Log.Info("Kart taşındı", zap.Uint("card_id", cardID), zap.Uint("target_user_id", newUserID), zap.Bool("is_main", result.IsMain()))
	return result, nil
}

// loadAuthorizedCard kartı yükler ve aktörün yetkisini doğrular.
func (s *CardService) loadAuthorizedCard(ctx context.Context, db *gorm.DB, actor models.Principal, cardID uint) (*models.Card, error) {
	card, err := repositories.NewCardRepository(db).FindByID(ctx, cardID)
	if err != nil {
		return nil, notFound(err, "kart")
	}
	owner, err := loadOwner(ctx, repositories.NewUserRepository(db), card)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanManageCard(actor, card, owner); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *CardService) setSuspended(ctx context.Context, actor models.Principal, cardID uint, suspended bool) (*models.Card, error) {
	ctx = actorContext(ctx, actor)
	var result *models.Card
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, err := s.loadAuthorizedCard(ctx, tx, actor, cardID)
		if err != nil {
			return err
		}
		if card.IsSuspended != suspended {
			if err := repositories.NewCardRepository(tx).Update(ctx, card.ID, map[string]interface{}{"is_suspended": suspended}); err != nil {
				return storageErr(err)
			}
			card.IsSuspended = suspended
		}
		result = card
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	configslog.Log.Info("Kart durumu güncellendi", zap.Uint("card_id", cardID), zap.Bool("is_suspended", suspended))
	return result, nil
}

// SuspendCard kartı askıya alır; askıdaki kart kotadan düşmeye devam eder.
func (s *CardService) SuspendCard(ctx context.Context, actor models.Principal, cardID uint) (*models.Card, error) {
	return s.setSuspended(ctx, actor, cardID, true)
}

func (s *CardService) ReactivateCard(ctx context.Context, actor models.Principal, cardID uint) (*models.Card, error) {
	return s.setSuspended(ctx, actor, cardID, false)
}

// DeleteCard kartı iletişim kayıtlarıyla birlikte kalıcı olarak siler ve kapasiteyi serbest bırakır.
// Ana kart silinirse yerine ürün kartı terfi ettirilmez.
func (s *CardService) DeleteCard(ctx context.Context, actor models.Principal, cardID uint) error {
	ctx = actorContext(ctx, actor)
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, err := s.loadAuthorizedCard(ctx, tx, actor, cardID)
		if err != nil {
			return err
		}
		if _, err := repositories.NewConnectionRepository(tx).DeleteByCardIDs(ctx, []uint{card.ID}); err != nil {
			return storageErr(err)
		}
		if err := repositories.NewCardRepository(tx).Delete(ctx, card.ID); err != nil {
			return notFound(err, "kart")
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}
	configslog.Log.Info("Kart silindi", zap.Uint("card_id", cardID), zap.Stringer("actor", actor))
	return nil
}

func (s *CardService) GetCard(ctx context.Context, actor models.Principal, cardID uint) (*models.Card, error) {
	return s.loadAuthorizedCard(ctx, s.db, actor, cardID)
}

// ListCards aktörün yönetebildiği kartlar: super_admin için kurumun tüm kartları
// (sahipsizler dahil), admin için kendisi ve atanmış kullanıcıları, diğerleri için kendi kartları.
func (s *CardService) ListCards(ctx context.Context, actor models.Principal) ([]models.Card, error) {
	cardRepo := repositories.NewCardRepository(s.db)
	switch actor.Kind() {
	case models.PrincipalEnterpriseSuperAdmin:
		entID, _ := actor.EnterpriseID()
		cards, err := cardRepo.ListByEnterprise(ctx, entID)
		return cards, storageErr(err)
	case models.PrincipalEnterpriseAdmin:
		assigned, err := repositories.NewUserRepository(s.db).ListByAssignedAdmin(ctx, actor.UserID())
		if err != nil {
			return nil, storageErr(err)
		}
		ids := []uint{actor.UserID()}
		for _, u := range assigned {
			ids = append(ids, u.ID)
		}
		cards, err := cardRepo.ListByUserIDs(ctx, ids)
		return cards, storageErr(err)
	case models.PrincipalEnterpriseStaff, models.PrincipalIndependent:
		cards, err := cardRepo.ListByUserIDs(ctx, []uint{actor.UserID()})
		return cards, storageErr(err)
	}
	return nil, fmt.Errorf("%w: operatör kurum belirterek listelemeli", ErrInvalidInput)
}

// ListEnterpriseCards bir kurumun tüm kartlarını listeler (operatör veya o kurumun super_admin'i).
func (s *CardService) ListEnterpriseCards(ctx context.Context, actor models.Principal, enterpriseID uint) ([]models.Card, error) {
	if !actor.IsOperator() {
		if !actor.IsSuperAdmin() {
			return nil, forbidden(actor, ReasonRole, &enterpriseID, nil)
		}
		if !models.SameEnterprise(actor.EnterpriseIDPtr(), &enterpriseID) {
			return nil, forbidden(actor, ReasonWrongEnterprise, &enterpriseID, nil)
		}
	}
	cards, err := repositories.NewCardRepository(s.db).ListByEnterprise(ctx, enterpriseID)
	return cards, storageErr(err)
}

// GetPublicCard herkese açık sayfa için aktif kartı slug ile bulur.
// Askıdaki, sahipsiz veya sahibi askıda olan kartlar bulunamadı sayılır.
func (s *CardService) GetPublicCard(ctx context.Context, slug string) (*models.Card, *models.User, error) {
	normalized := utils.NormalizeSlug(slug)
	if utils.ValidateSlug(normalized) != nil {
		return nil, nil, fmt.Errorf("%w: kart", ErrNotFound)
	}
	card, err := repositories.NewCardRepository(s.db).FindBySlug(ctx, normalized)
	if err != nil {
		return nil, nil, notFound(err, "kart")
	}
	if card.IsSuspended || card.UserID == nil {
		return nil, nil, fmt.Errorf("%w: kart", ErrNotFound)
	}
	owner, err := loadOwner(ctx, repositories.NewUserRepository(s.db), card)
	if err != nil {
		return nil, nil, err
	}
	if owner == nil || owner.IsSuspended {
		return nil, nil, fmt.Errorf("%w: kart", ErrNotFound)
	}
	return card, owner, nil
}

var _ ICardService = (*CardService)(nil)
