package services

import (
	"context"
	"fmt"
	"strings"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/repositories"
	"kartvizit.link/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const temporaryPasswordLength = 12

// CreateEnterpriseInput operatörün yeni kurum açarken verdiği bilgiler.
type CreateEnterpriseInput struct {
	CompanyName        string `json:"company_name"`
	SuperAdminName     string `json:"super_admin_name"`
	SuperAdminEmail    string `json:"super_admin_email"`
	SuperAdminPassword string `json:"super_admin_password"`
	TotalLicenses      int    `json:"total_licenses"`
	SubLicenses        int    `json:"sub_licenses"`
}

// CreateEnterpriseResult oluşturulan kurum, ilk super_admin ve ana kartı.
type CreateEnterpriseResult struct {
	Enterprise *models.Enterprise `json:"enterprise"`
	SuperAdmin *models.User       `json:"super_admin"`
	MainCard   *models.Card       `json:"main_card"`
}

// ProvisionUserInput kurum içinde yeni hesap açmak için.
// EnterpriseID sadece operatör için kullanılır; diğer aktörlerde kendi kurumları geçerlidir.
type ProvisionUserInput struct {
	EnterpriseID    uint        `json:"enterprise_id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	Role            models.Role `json:"role"`
	SubLicenses     int         `json:"sub_licenses"`
	AssignedAdminID *uint       `json:"assigned_admin_id"`
	EmployeeID      string      `json:"employee_id"`
}

// ProvisionResult TemporaryPassword sadece parola verilmediyse doludur ve bir kez döner.
type ProvisionResult struct {
	User              *models.User `json:"user"`
	MainCard          *models.Card `json:"main_card"`
	TemporaryPassword string       `json:"temporary_password,omitempty"`
}

// ChangeRoleInput rol ve/veya yönetici ataması değişikliği.
type ChangeRoleInput struct {
	Role            models.Role `json:"role"`
	AssignedAdminID *uint       `json:"assigned_admin_id"`
}

// MoveUserInput operatörün kullanıcı üyeliğini değiştirmesi. EnterpriseID nil ise bireysel hesaba döner.
type MoveUserInput struct {
	EnterpriseID *uint       `json:"enterprise_id"`
	Role         models.Role `json:"role"`
}

// IProvisioningService hesap açma ve hesap yönetimi işlemleri.
type IProvisioningService interface {
	CreateEnterprise(ctx context.Context, actor models.Principal, in CreateEnterpriseInput) (*CreateEnterpriseResult, error)
	RegisterIndependent(ctx context.Context, name, email, password string) (*ProvisionResult, error)
	ProvisionUser(ctx context.Context, actor models.Principal, in ProvisionUserInput) (*ProvisionResult, error)
	SetUserSubLicenses(ctx context.Context, actor models.Principal, userID uint, count int) (*models.User, error)
	SuspendUser(ctx context.Context, actor models.Principal, userID uint) (*models.User, error)
	ReactivateUser(ctx context.Context, actor models.Principal, userID uint) (*models.User, error)
	DeleteUser(ctx context.Context, actor models.Principal, userID uint, detachCards bool) error
	ChangeRole(ctx context.Context, actor models.Principal, userID uint, in ChangeRoleInput) (*models.User, error)
	MoveUser(ctx context.Context, actor models.Principal, userID uint, in MoveUserInput) (*models.User, error)
	ListUsers(ctx context.Context, actor models.Principal) ([]models.User, error)
}

// ProvisioningService IProvisioningService arayüzünü uygular.
type ProvisioningService struct {
	db     *gorm.DB
	authz  IAuthorizationService
	cards  ICardService
	hasher IPasswordHasher
}

func NewProvisioningService(db *gorm.DB, authz IAuthorizationService, cards ICardService, hasher IPasswordHasher) IProvisioningService {
	return &ProvisioningService{db: db, authz: authz, cards: cards, hasher: hasher}
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n")
}

// preparePassword parola yoksa geçici bir parola üretir ve hash'ler.
func (s *ProvisioningService) preparePassword(plain string) (hash, temporary string, err error) {
	if plain == "" {
		temporary, err = utils.GenerateSecureRandomString(temporaryPasswordLength)
		if err != nil {
			return "", "", fmt.Errorf("%w: geçici parola üretilemedi: %v", ErrInvariantViolation, err)
		}
		plain = temporary
	}
	hash, err = s.hasher.Hash(plain)
	if err != nil {
		return "", "", fmt.Errorf("%w: parola hash'lenemedi: %v", ErrInvalidInput, err)
	}
	return hash, temporary, nil
}

// createUserWithMainCard kullanıcıyı ve ana kartını verilen transaction içinde oluşturur.
func (s *ProvisioningService) createUserWithMainCard(ctx context.Context, tx *gorm.DB, user *models.User) (*models.Card, error) {
	userRepo := repositories.NewUserRepository(tx)
	exists, err := userRepo.EmailExists(ctx, user.Email)
	if err != nil {
		return nil, storageErr(err)
	}
	if exists {
		return nil, ErrEmailTaken
	}
	if err := userRepo.Create(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, storageErr(err)
	}
	return s.cards.CreateMainCard(ctx, tx, user)
}

// CreateEnterprise kurum + ilk super_admin + ana kartını tek transaction içinde oluşturur.
// Yeni kurum için profil kotası kontrolü yapılmaz; super_admin ilk lisansı kullanır.
func (s *ProvisioningService) CreateEnterprise(ctx context.Context, actor models.Principal, in CreateEnterpriseInput) (*CreateEnterpriseResult, error) {
	if !actor.IsOperator() {
		return nil, forbidden(actor, ReasonRole, nil, nil)
	}
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.SuperAdminEmail = repositories.NormalizeEmail(in.SuperAdminEmail)
	if in.CompanyName == "" {
		return nil, fmt.Errorf("%w: şirket adı zorunludur", ErrInvalidInput)
	}
	if !validEmail(in.SuperAdminEmail) {
		return nil, fmt.Errorf("%w: geçerli bir e-posta adresi gerekli", ErrInvalidInput)
	}
	if in.SuperAdminPassword == "" {
		return nil, fmt.Errorf("%w: super_admin parolası zorunludur", ErrInvalidInput)
	}
	if in.TotalLicenses < 1 || in.SubLicenses < 0 {
		return nil, fmt.Errorf("%w: lisans sayıları geçersiz", ErrInvalidInput)
	}
	name := strings.TrimSpace(in.SuperAdminName)
	if name == "" {
		name = in.CompanyName
	}

	hash, _, err := s.preparePassword(in.SuperAdminPassword)
	if err != nil {
		return nil, err
	}

	result := &CreateEnterpriseResult{}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ent := &models.Enterprise{
			Name:            in.CompanyName,
			LicenseCount:    in.TotalLicenses,
			SubLicenseCount: in.SubLicenses,
		}
		if err := repositories.NewEnterpriseRepository(tx).Create(ctx, ent); err != nil {
			return storageErr(err)
		}
		entID := ent.ID
		admin := &models.User{
			Name:         name,
			Email:        in.SuperAdminEmail,
			PasswordHash: hash,
			Role:         models.RoleSuperAdmin,
			EnterpriseID: &entID,
		}
		card, err := s.createUserWithMainCard(ctx, tx, admin)
		if err != nil {
			return err
		}
		result.Enterprise = ent
		result.SuperAdmin = admin
		result.MainCard = card
		return nil
	})
	if txErr != nil {
		configslog.Log.Warn("Kurum oluşturulamadı", zap.String("company", in.CompanyName), zap.Error(txErr))
		return nil, txErr
	}
	configslog.Log.Info("Kurum oluşturuldu",
		zap.Uint("enterprise_id", result.Enterprise.ID),
		zap.Uint("super_admin_id", result.SuperAdmin.ID),
		zap.Int("license_count", in.TotalLicenses),
		zap.Int("sub_license_count", in.SubLicenses))
	return result, nil
}

// RegisterIndependent bireysel kayıt: kurumsuz kullanıcı + ana kart.
func (s *ProvisioningService) RegisterIndependent(ctx context.Context, name, email, password string) (*ProvisionResult, error) {
	name = strings.TrimSpace(name)
	email = repositories.NormalizeEmail(email)
	if name == "" || !validEmail(email) || password == "" {
		return nil, fmt.Errorf("%w: isim, e-posta ve parola zorunludur", ErrInvalidInput)
	}
	hash, _, err := s.preparePassword(password)
	if err != nil {
		return nil, err
	}
	result := &ProvisionResult{}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: models.RoleUser}
		card, err := s.createUserWithMainCard(ctx, tx, user)
		if err != nil {
			return err
		}
		result.User, result.MainCard = user, card
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	configslog.Log.Info("Bireysel hesap oluşturuldu", zap.Uint("user_id", result.User.ID))
	return result, nil
}

// provisionTarget aktöre göre hedef kurumu ve izin verilen rolü belirler.
func provisionTarget(actor models.Principal, in *ProvisionUserInput) (uint, error) {
	if in.Role == "" {
		in.Role = models.RoleStaff
	}
	if in.Role == models.RoleUser {
		in.Role = models.RoleStaff
	}
	switch actor.Kind() {
	case models.PrincipalPlatformOperator:
		if in.EnterpriseID == 0 {
			return 0, fmt.Errorf("%w: kurum belirtilmeli", ErrInvalidInput)
		}
		if !in.Role.IsValid() {
			return 0, fmt.Errorf("%w: geçersiz rol", ErrInvalidInput)
		}
		return in.EnterpriseID, nil
	case models.PrincipalEnterpriseSuperAdmin:
		entID, _ := actor.EnterpriseID()
		if in.EnterpriseID != 0 && in.EnterpriseID != entID {
			return 0, crossEnterprise(actor, &in.EnterpriseID)
		}
		if in.Role != models.RoleAdmin && in.Role != models.RoleStaff {
			return 0, forbidden(actor, ReasonRole, &entID, nil)
		}
		return entID, nil
	case models.PrincipalEnterpriseAdmin:
		entID, _ := actor.EnterpriseID()
		if in.EnterpriseID != 0 && in.EnterpriseID != entID {
			return 0, crossEnterprise(actor, &in.EnterpriseID)
		}
		if in.Role != models.RoleStaff {
			return 0, forbidden(actor, ReasonRole, &entID, nil)
		}
		self := actor.UserID()
		if in.AssignedAdminID != nil && *in.AssignedAdminID != self {
			return 0, forbidden(actor, ReasonWrongAssignment, &entID, in.AssignedAdminID)
		}
		in.AssignedAdminID = &self
		return entID, nil
	}
	return 0, forbidden(actor, ReasonRole, nil, nil)
}

// validateAssignedAdmin atanacak yöneticinin aynı kurumda aktif bir admin olduğunu doğrular.
func validateAssignedAdmin(ctx context.Context, userRepo repositories.IUserRepository, enterpriseID uint, adminID uint) error {
	admin, err := userRepo.FindByID(ctx, adminID)
	if err != nil {
		return notFound(err, "atanacak yönetici")
	}
	if admin.Role != models.RoleAdmin {
		return fmt.Errorf("%w: atanacak kullanıcı admin değil", ErrInvalidInput)
	}
	if admin.EnterpriseID == nil || *admin.EnterpriseID != enterpriseID {
		return &ForbiddenError{Reason: ReasonWrongEnterprise, ActorEnterpriseID: &enterpriseID, TargetEnterpriseID: admin.EnterpriseID, crossEnterprise: true}
	}
	return nil
}

// ProvisionUser kurum içinde admin veya staff hesabı ve ana kartını oluşturur.
// Profil kotası kurum satırı kilitliyken kontrol edilir.
func (s *ProvisioningService) ProvisionUser(ctx context.Context, actor models.Principal, in ProvisionUserInput) (*ProvisionResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = repositories.NormalizeEmail(in.Email)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: isim zorunludur", ErrInvalidInput)
	}
	if !validEmail(in.Email) {
		return nil, fmt.Errorf("%w: geçerli bir e-posta adresi gerekli", ErrInvalidInput)
	}
	if in.SubLicenses < 0 {
		return nil, fmt.Errorf("%w: alt lisans sayısı negatif olamaz", ErrInvalidInput)
	}
	entID, err := provisionTarget(actor, &in)
	if err != nil {
		return nil, err
	}
	if in.Role != models.RoleStaff && in.AssignedAdminID != nil {
		return nil, fmt.Errorf("%w: yönetici ataması sadece staff için geçerlidir", ErrInvalidInput)
	}

	hash, temporary, err := s.preparePassword(in.Password)
	if err != nil {
		return nil, err
	}

	ctx = actorContext(ctx, actor)
	result := &ProvisionResult{TemporaryPassword: temporary}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)
		quota := NewQuotaService(tx)

		if _, err := repositories.NewEnterpriseRepository(tx).FindByIDForUpdate(ctx, entID); err != nil {
			return notFound(err, "kurum")
		}

		status, err := quota.CheckProfileQuota(ctx, entID)
		if err != nil {
			return err
		}
		if err := status.Err(); err != nil {
			return err
		}
		if in.SubLicenses > 0 {
			alloc, err := quota.CheckAllocation(ctx, entID, 0, in.SubLicenses)
			if err != nil {
				return err
			}
			if err := alloc.Err(); err != nil {
				return err
			}
		}
		if in.AssignedAdminID != nil && !actor.IsAdmin() {
			if err := validateAssignedAdmin(ctx, userRepo, entID, *in.AssignedAdminID); err != nil {
				return err
			}
		}

		user := &models.User{
			Name:            in.Name,
			Email:           in.Email,
			PasswordHash:    hash,
			Role:            in.Role,
			EnterpriseID:    &entID,
			AssignedAdminID: in.AssignedAdminID,
			EmployeeID:      strings.TrimSpace(in.EmployeeID),
			SubLicenseCount: in.SubLicenses,
		}
		card, err := s.createUserWithMainCard(ctx, tx, user)
		if err != nil {
			return err
		}
		result.User, result.MainCard = user, card
		return nil
	})
	if txErr != nil {
		configslog.Log.Warn("Kullanıcı oluşturulamadı", zap.Stringer("actor", actor), zap.String("email", in.Email), zap.Error(txErr))
		return nil, txErr
	}
	configslog.Log.Info("Kullanıcı oluşturuldu",
		zap.Uint("user_id", result.User.ID), zap.Uint("enterprise_id", entID), zap.String("role", string(in.Role)))
	return result, nil
}

// SetUserSubLicenses kullanıcının kişisel alt lisans sayısını değiştirir.
// Kurum toplamı tavanı aşarsa kalan boşluk QuotaError ile bildirilir.
func (s *ProvisioningService) SetUserSubLicenses(ctx context.Context, actor models.Principal, userID uint, count int) (*models.User, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: alt lisans sayısı negatif olamaz", ErrInvalidInput)
	}
	ctx = actorContext(ctx, actor)
	var result *models.User
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)
		target, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return notFound(err, "kullanıcı")
		}
		if err := s.authz.CanManageUser(actor, target); err != nil {
			return err
		}
		if target.EnterpriseID != nil {
			if _, err := repositories.NewEnterpriseRepository(tx).FindByIDForUpdate(ctx, *target.EnterpriseID); err != nil {
				return notFound(err, "kurum")
			}
			alloc, err := NewQuotaService(tx).CheckAllocation(ctx, *target.EnterpriseID, target.ID, count)
			if err != nil {
				return err
			}
			if err := alloc.Err(); err != nil {
				return err
			}
		} else if !actor.IsOperator() {
			return forbidden(actor, ReasonRole, nil, nil)
		}
		if err := userRepo.Update(ctx, target.ID, map[string]interface{}{"sub_license_count": count}); err != nil {
			return storageErr(err)
		}
		target.SubLicenseCount = count
		result = target
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	configslog.Log.Info("Kullanıcı alt lisansı güncellendi", zap.Uint("user_id", userID), zap.Int("sub_license_count", count))
	return result, nil
}

func (s *ProvisioningService) setSuspended(ctx context.Context, actor models.Principal, userID uint, suspended bool) (*models.User, error) {
	ctx = actorContext(ctx, actor)
	var result *models.User
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)
		target, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return notFound(err, "kullanıcı")
		}
		if suspended {
			err = s.authz.CanTargetForDestructiveAction(actor, target)
		} else {
			err = s.authz.CanManageUser(actor, target)
		}
		if err != nil {
			return err
		}
		if target.IsSuspended != suspended {
			if err := userRepo.Update(ctx, target.ID, map[string]interface{}{"is_suspended": suspended}); err != nil {
				return storageErr(err)
			}
			target.IsSuspended = suspended
		}
		result = target
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	configslog.Log.Info("Kullanıcı durumu güncellendi", zap.Uint("user_id", userID), zap.Bool("is_suspended", suspended))
	return result, nil
}

// SuspendUser kendi hesabını askıya alma reddedilir.
func (s *ProvisioningService) SuspendUser(ctx context.Context, actor models.Principal, userID uint) (*models.User, error) {
	return s.setSuspended(ctx, actor, userID, true)
}

func (s *ProvisioningService) ReactivateUser(ctx context.Context, actor models.Principal, userID uint) (*models.User, error) {
	return s.setSuspended(ctx, actor, userID, false)
}

// DeleteUser kullanıcıyı siler. detachCards false ise kartları iletişim kayıtlarıyla birlikte silinir;
// true ise kartlar kurum kapsamında sahipsiz kalır ve kotadan düşmeye devam eder.
func (s *ProvisioningService) DeleteUser(ctx context.Context, actor models.Principal, userID uint, detachCards bool) error {
	ctx = actorContext(ctx, actor)
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)
		cardRepo := repositories.NewCardRepository(tx)
		target, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return notFound(err, "kullanıcı")
		}
		if err := s.authz.CanTargetForDestructiveAction(actor, target); err != nil {
			return err
		}
		if target.EnterpriseID != nil {
			if _, err := repositories.NewEnterpriseRepository(tx).FindByIDForUpdate(ctx, *target.EnterpriseID); err != nil {
				return notFound(err, "kurum")
			}
		}
		if detachCards {
			if _, err := cardRepo.DetachByUserID(ctx, target.ID); err != nil {
				return storageErr(err)
			}
		} else {
			cards, err := cardRepo.ListByUserIDs(ctx, []uint{target.ID})
			if err != nil {
				return storageErr(err)
			}
			cardIDs := make([]uint, 0, len(cards))
			for _, c := range cards {
				cardIDs = append(cardIDs, c.ID)
			}
			if _, err := repositories.NewConnectionRepository(tx).DeleteByCardIDs(ctx, cardIDs); err != nil {
				return storageErr(err)
			}
			if _, err := cardRepo.DeleteByUserID(ctx, target.ID); err != nil {
				return storageErr(err)
			}
		}
		if target.Role == models.RoleAdmin {
			if _, err := userRepo.ClearAssignedAdmin(ctx, target.ID); err != nil {
				return storageErr(err)
			}
		}
		if err := userRepo.Delete(ctx, target.ID); err != nil {
			return notFound(err, "kullanıcı")
		}
		return nil
	})
	if txErr != nil {
		configslog.Log.Warn("Kullanıcı silinemedi", zap.Uint("user_id", userID), zap.Stringer("actor", actor), zap.Error(txErr))
		return txErr
	}
	configslog.Log.Info("Kullanıcı silindi", zap.Uint("user_id", userID), zap.Bool("detach_cards", detachCards))
	return nil
}

// ChangeRole kurum içinde rol ve yönetici atamasını değiştirir (super_admin veya operatör).
// Admin rolünden düşürülen kullanıcının atamaları temizlenir.
func (s *ProvisioningService) ChangeRole(ctx context.Context, actor models.Principal, userID uint, in ChangeRoleInput) (*models.User, error) {
	if in.Role == models.RoleUser {
		in.Role = models.RoleStaff
	}
	if !in.Role.IsValid() {
		return nil, fmt.Errorf("%w: geçersiz rol", ErrInvalidInput)
	}
	if !actor.IsOperator() && !actor.IsSuperAdmin() {
		return nil, forbidden(actor, ReasonRole, nil, nil)
	}
	if in.Role == models.RoleSuperAdmin && !actor.IsOperator() {
		return nil, forbidden(actor, ReasonRole, actor.EnterpriseIDPtr(), nil)
	}
	if in.Role != models.RoleStaff && in.AssignedAdminID != nil {
		return nil, fmt.Errorf("%w: yönetici ataması sadece staff için geçerlidir", ErrInvalidInput)
	}

	ctx = actorContext(ctx, actor)
	var result *models.User
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)
		target, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return notFound(err, "kullanıcı")
		}
		if isSelf(actor, target) {
			return forbidden(actor, ReasonSelf, target.EnterpriseID, target.AssignedAdminID)
		}
		if err := s.authz.CanManageUser(actor, target); err != nil {
			return err
		}
		if target.EnterpriseID == nil {
			return fmt.Errorf("%w: bireysel hesabın kurum rolü olamaz", ErrInvalidInput)
		}
		if in.AssignedAdminID != nil {
			if *in.AssignedAdminID == target.ID {
				return fmt.Errorf("%w: kullanıcı kendisine atanamaz", ErrInvalidInput)
			}
			if err := validateAssignedAdmin(ctx, userRepo, *target.EnterpriseID, *in.AssignedAdminID); err != nil {
				return err
			}
		}
		if target.Role == models.RoleAdmin && in.Role != models.RoleAdmin {
			cleared, err := userRepo.ClearAssignedAdmin(ctx, target.ID)
			if err != nil {
				return storageErr(err)
			}
			configslog.SLog.Infof("Admin rolü kaldırıldı, %d kullanıcının ataması temizlendi (user %d)", cleared, target.ID)
		}
		updates := map[string]interface{}{
			"role":              in.Role,
			"assigned_admin_id": in.AssignedAdminID,
		}
		if err := userRepo.Update(ctx, target.ID, updates); err != nil {
			return storageErr(err)
		}
		target.Role = in.Role
		target.AssignedAdminID = in.AssignedAdminID
		result = target
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	configslog.Log.Info("Kullanıcı rolü güncellendi", zap.Uint("user_id", userID), zap.String("role", string(in.Role)))
	return result, nil
}

// MoveUser operatörün bir kullanıcıyı kuruma alması, kurumdan çıkarması veya kurumlar arası taşıması.
// Hedef kurumun profil, ürün kartı ve dağıtım tavanları kontrol edilir; kartlar yeni kapsama taşınır.
func (s *ProvisioningService) MoveUser(ctx context.Context, actor models.Principal, userID uint, in MoveUserInput) (*models.User, error) {
	if !actor.IsOperator() {
		return nil, forbidden(actor, ReasonRole, nil, nil)
	}
	if in.EnterpriseID == nil {
		in.Role = models.RoleUser
	} else {
		if in.Role == "" || in.Role == models.RoleUser {
			in.Role = models.RoleStaff
		}
		if !in.Role.IsValid() {
			return nil, fmt.Errorf("%w: geçersiz rol", ErrInvalidInput)
		}
	}

	var result *models.User
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)
		cardRepo := repositories.NewCardRepository(tx)

		target, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return notFound(err, "kullanıcı")
		}

		if in.EnterpriseID != nil {
			destID := *in.EnterpriseID
			if _, err := repositories.NewEnterpriseRepository(tx).FindByIDForUpdate(ctx, destID); err != nil {
				return notFound(err, "kurum")
			}
			if !models.SameEnterprise(target.EnterpriseID, in.EnterpriseID) {
				quota := NewQuotaService(tx)
				profile, err := quota.CheckProfileQuota(ctx, destID)
				if err != nil {
					return err
				}
				if err := profile.Err(); err != nil {
					return err
				}
				total, err := cardRepo.CountByUserID(ctx, target.ID)
				if err != nil {
					return storageErr(err)
				}
				mains, err := cardRepo.CountMainCardsByUserID(ctx, target.ID)
				if err != nil {
					return storageErr(err)
				}
				cards, err := quota.CheckSubLicenseQuota(ctx, destID, int(total-mains))
				if err != nil {
					return err
				}
				if err := cards.Err(); err != nil {
					return err
				}
				alloc, err := quota.CheckAllocation(ctx, destID, target.ID, target.SubLicenseCount)
				if err != nil {
					return err
				}
				if err := alloc.Err(); err != nil {
					return err
				}
			}
		}

		if target.Role == models.RoleAdmin && (in.Role != models.RoleAdmin || !sameScope(target.EnterpriseID, in.EnterpriseID)) {
			if _, err := userRepo.ClearAssignedAdmin(ctx, target.ID); err != nil {
				return storageErr(err)
			}
		}

		updates := map[string]interface{}{
			"enterprise_id":     in.EnterpriseID,
			"role":              in.Role,
			"assigned_admin_id": nil,
		}
		if err := userRepo.Update(ctx, target.ID, updates); err != nil {
			return storageErr(err)
		}
		if _, err := cardRepo.RescopeByUserID(ctx, target.ID, in.EnterpriseID); err != nil {
			return storageErr(err)
		}
		target.EnterpriseID = in.EnterpriseID
		target.Role = in.Role
		target.AssignedAdminID = nil
		result = target
		return nil
	})
	if txErr != nil {
		configslog.Log.Warn("Kullanıcı taşınamadı", zap.Uint("user_id", userID), zap.Error(txErr))
		return nil, txErr
	}
	configslog.Log.Info("Kullanıcı üyeliği değişti", zap.Uint("user_id", userID), zap.Uintp("enterprise_id", in.EnterpriseID))
	return result, nil
}

// ListUsers super_admin için kurumun tüm kullanıcıları, admin için kendisine atanmış olanlar.
func (s *ProvisioningService) ListUsers(ctx context.Context, actor models.Principal) ([]models.User, error) {
	userRepo := repositories.NewUserRepository(s.db)
	switch actor.Kind() {
	case models.PrincipalEnterpriseSuperAdmin:
		entID, _ := actor.EnterpriseID()
		users, err := userRepo.ListByEnterprise(ctx, entID)
		return users, storageErr(err)
	case models.PrincipalEnterpriseAdmin:
		users, err := userRepo.ListByAssignedAdmin(ctx, actor.UserID())
		return users, storageErr(err)
	}
	return nil, forbidden(actor, ReasonRole, nil, nil)
}

var _ IProvisioningService = (*ProvisioningService)(nil)
