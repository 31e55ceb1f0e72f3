package domain

// User is a back-office account.
type User struct {
	AuditedEntity
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;not null;uniqueIndex:uk_users_email,where:is_deleted = false" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Roles        []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

// NaturalKey returns the login email.
func (u *User) NaturalKey() string { return u.Email }

// Role groups permissions and is assigned to users.
type Role struct {
	AuditedEntity
	Code        string       `gorm:"size:50;not null;uniqueIndex:uk_roles_code,where:is_deleted = false" json:"code"`
	Name        string       `gorm:"size:100;not null" json:"name"`
	Description string       `gorm:"size:500" json:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

// NaturalKey returns the role code.
func (r *Role) NaturalKey() string { return r.Code }

// Permission is a lookup of grantable actions, coded "<resource>:<action>".
type Permission struct {
	AuditedEntity
	Code     string `gorm:"size:100;not null;uniqueIndex:uk_permissions_code" json:"code"`
	Name     string `gorm:"size:200;not null" json:"name"`
	Resource string `gorm:"size:50;not null;index" json:"resource"`
	Action   string `gorm:"size:20;not null" json:"action"`
	Roles    []Role `gorm:"many2many:role_permissions" json:"-"`
}

// NaturalKey returns the permission code.
func (p *Permission) NaturalKey() string { return p.Code }

// PermissionCode builds the permission code for a resource and action.
func PermissionCode(resource, action string) string {
	return resource + ":" + action
}
