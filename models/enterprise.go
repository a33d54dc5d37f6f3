package models

// Enterprise kartları personeline alt lisanslayan kurumsal müşteridir.
type Enterprise struct {
	BaseModel
	Name            string `gorm:"type:varchar(150);not null" json:"name"`
	LicenseCount    int    `gorm:"not null;default:0" json:"license_count"`     // azami profil hesabı
	SubLicenseCount int    `gorm:"not null;default:0" json:"sub_license_count"` // kurum genelinde azami ürün kartı
	Logo            string `gorm:"type:varchar(500)" json:"logo"`
}
