package models

// Connection herkese açık bir kart üzerinden bırakılan iletişim bilgisi (lead).
type Connection struct {
	BaseModel
	CardID      uint   `gorm:"not null;index" json:"card_id"`
	OwnerUserID *uint  `gorm:"index" json:"owner_user_id"` // kaydedildiği andaki kart sahibi
	Name        string `gorm:"type:varchar(150);not null" json:"name"`
	Email       string `gorm:"type:varchar(150)" json:"email"`
	Phone       string `gorm:"type:varchar(30)" json:"phone"`
	Note        string `gorm:"type:text" json:"note"`
}
