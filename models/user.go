package models

// Role kullanıcının sistemdeki rolü.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
	RoleUser       Role = "user"
)

// IsValid rolün tanımlı değerlerden biri olup olmadığını döndürür.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleStaff, RoleUser:
		return true
	}
	return false
}

// IsMember staff ve user rollerini (yönetici olmayan üyeler) kapsar.
func (r Role) IsMember() bool {
	return r == RoleStaff || r == RoleUser
}

// User bireysel veya kurumsal bir hesap.
// EnterpriseID nil ise bireysel hesaptır.
type User struct {
	BaseModel
	Name            string `gorm:"type:varchar(150);not null" json:"name"`
	Email           string `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	PasswordHash    string `gorm:"type:varchar(255);not null" json:"-"`
	Role            Role   `gorm:"type:varchar(20);not null;default:'user';index" json:"role"`
	EnterpriseID    *uint  `gorm:"index" json:"enterprise_id"`
	AssignedAdminID *uint  `gorm:"index" json:"assigned_admin_id"`
	EmployeeID      string `gorm:"type:varchar(50)" json:"employee_id,omitempty"`
	SubLicenseCount int    `gorm:"not null;default:0" json:"sub_license_count"`
	IsSuspended     bool   `gorm:"not null;default:false;index" json:"is_suspended"`

	Enterprise *Enterprise `gorm:"foreignKey:EnterpriseID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// SameEnterprise iki nullable kurum ID'sinin eşit ve dolu olup olmadığını döndürür.
func SameEnterprise(a, b *uint) bool {
	return a != nil && b != nil && *a == *b
}
