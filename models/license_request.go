package models

import "time"

// LicenseRequestType talebin hangi kapasiteyi artırdığı.
type LicenseRequestType string

const (
	LicenseRequestProfile LicenseRequestType = "profile" // Enterprise.LicenseCount
	LicenseRequestSub     LicenseRequestType = "sub"     // Enterprise.SubLicenseCount
)

func (t LicenseRequestType) IsValid() bool {
	return t == LicenseRequestProfile || t == LicenseRequestSub
}

// LicenseRequestStatus talebin durumu. pending dışındaki durumlar nihaidir.
type LicenseRequestStatus string

const (
	LicenseRequestPending  LicenseRequestStatus = "pending"
	LicenseRequestApproved LicenseRequestStatus = "approved"
	LicenseRequestRejected LicenseRequestStatus = "rejected"
)

// LicenseRequest kurum süper yöneticisinin platform operatöründen ek kapasite talebi.
type LicenseRequest struct {
	BaseModel
	EnterpriseID      uint                 `gorm:"not null;index" json:"enterprise_id"`
	RequestedByUserID uint                 `gorm:"not null;index" json:"requested_by_user_id"`
	RequestType       LicenseRequestType   `gorm:"type:varchar(20);not null" json:"request_type"`
	Amount            int                  `gorm:"not null" json:"amount"`
	Message           string               `gorm:"type:text" json:"message"`
	Status            LicenseRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	HandledAt         *time.Time           `json:"handled_at"`

	Enterprise *Enterprise `gorm:"foreignKey:EnterpriseID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// IsPending talebin henüz sonuçlanmadığını döndürür.
func (r *LicenseRequest) IsPending() bool {
	return r.Status == LicenseRequestPending
}
