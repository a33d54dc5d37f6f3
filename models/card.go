package models

// Card dijital kartvizit. ParentID nil ise kullanıcının ana profil kartıdır,
// değilse o kullanıcının ana kartına bağlı bir ürün (alt) kartıdır.
type Card struct {
	BaseModel
	// UserID nil ise kart sahipsizdir ama kurum kotasından düşmeye devam eder.
	UserID *uint `gorm:"index;uniqueIndex:idx_cards_main_per_user,where:parent_id IS NULL AND user_id IS NOT NULL" json:"user_id"`
	// EnterpriseID sahibin kurumundan kopyalanır; sahibi değiştiren her işlem bunu da günceller.
	EnterpriseID *uint  `gorm:"index" json:"enterprise_id"`
	Slug         string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"` // trim + lowercase saklanır
	Title        string `gorm:"type:varchar(150)" json:"title"`
	ParentID     *uint  `gorm:"index" json:"parent_id"`
	IsSuspended  bool   `gorm:"not null;default:false;index" json:"is_suspended"`
}

// IsMain kartın ana profil kartı olup olmadığını döndürür.
func (c *Card) IsMain() bool {
	return c.ParentID == nil
}

// IsOrphan kartın sahipsiz olup olmadığını döndürür.
func (c *Card) IsOrphan() bool {
	return c.UserID == nil
}
