package models

type UserRole string

const (
	CompanyAdminRole UserRole = "COMPANY_ADMIN"
	CompanyUserRole  UserRole = "COMPANY_USER"
)

var roleHumanName = map[UserRole]string{
	CompanyAdminRole: "Administrator",
	CompanyUserRole:  "Member",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == CompanyAdminRole
}

func (r UserRole) IsKnown() bool {
	_, exist := roleHumanName[r]
	return exist
}

const SystemUser = "system"

type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusDisabled UserStatus = "DISABLED"
)
