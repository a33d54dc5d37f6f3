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

// LeadInput herkese açık kart sayfasından bırakılan iletişim bilgisi.
type LeadInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Note  string `json:"note"`
}

// IConnectionService kartlar üzerinden toplanan bağlantılar.
type IConnectionService interface {
	Capture(ctx context.Context, slug string, lead LeadInput) (*models.Connection, error)
	ListPersonal(ctx context.Context, actor models.Principal) ([]models.Connection, error)
}

type ConnectionService struct {
	db    *gorm.DB
	cards ICardService
}

func NewConnectionService(db *gorm.DB, cards ICardService) IConnectionService {
	return &ConnectionService{db: db, cards: cards}
}

// Capture aktif bir kart için bağlantıyı kartın o anki sahibiyle birlikte kaydeder.
func (s *ConnectionService) Capture(ctx context.Context, slug string, lead LeadInput) (*models.Connection, error) {
	lead.Name = strings.TrimSpace(lead.Name)
	lead.Email = strings.TrimSpace(lead.Email)
	lead.Phone = strings.TrimSpace(lead.Phone)
	if lead.Name == "" {
		return nil, fmt.Errorf("%w: isim zorunludur", ErrInvalidInput)
	}
	if lead.Email == "" && lead.Phone == "" {
		return nil, fmt.Errorf("%w: e-posta veya telefon gerekli", ErrInvalidInput)
	}

	card, owner, err := s.cards.GetPublicCard(ctx, slug)
	if err != nil {
		return nil, err
	}
	ownerID := owner.ID
	conn := &models.Connection{
		CardID:      card.ID,
		OwnerUserID: &ownerID,
		Name:        lead.Name,
		Email:       lead.Email,
		Phone:       lead.Phone,
		Note:        strings.TrimSpace(lead.Note),
	}
	if err := repositories.NewConnectionRepository(s.db).Create(ctx, conn); err != nil {
		return nil, storageErr(err)
	}
	configslog.Log.Info("Bağlantı kaydedildi", zap.Uint("card_id", card.ID), zap.Uint("owner_user_id", ownerID))
	return conn, nil
}

// ListPersonal aktörün şu an sahip olduğu tüm kartlar (ana ve ürün) üzerinden gelen bağlantılar.
func (s *ConnectionService) ListPersonal(ctx context.Context, actor models.Principal) ([]models.Connection, error) {
	if actor.IsOperator() || actor.UserID() == 0 {
		return nil, forbidden(actor, ReasonRole, nil, nil)
	}
	cards, err := repositories.NewCardRepository(s.db).ListByUserIDs(ctx, []uint{actor.UserID()})
	if err != nil {
		return nil, storageErr(err)
	}
	ids := make([]uint, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	list, err := repositories.NewConnectionRepository(s.db).ListByCardIDs(ctx, ids)
	return list, storageErr(err)
}

var _ IConnectionService = (*ConnectionService)(nil)
