package role

import (
	"context"

	"gorm.io/gorm"
)

// Checker resolves permissions through a user's live, active roles.
type Checker struct {
	db *gorm.DB
}

// NewChecker creates a Checker over db.
func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db}
}

// HasPermission reports whether any of the user's roles grants code.
func (c *Checker) HasPermission(ctx context.Context, userID uint, code string) (bool, error) {
	var n int64
	err := c.granted(ctx, userID).
		Where("permissions.code = ?", code).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Codes lists the distinct permission codes the user holds.
func (c *Checker) Codes(ctx context.Context, userID uint) ([]string, error) {
	var codes []string
	err := c.granted(ctx, userID).
		Distinct("permissions.code").
		Order("permissions.code").
		Pluck("permissions.code", &codes).Error
	return codes, err
}

func (c *Checker) granted(ctx context.Context, userID uint) *gorm.DB {
	return c.db.WithContext(ctx).Table("users").
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Joins("JOIN role_permissions ON role_permissions.role_id = roles.id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("users.id = ? AND users.is_deleted = ? AND users.is_active = ?", userID, false, true).
		Where("roles.is_deleted = ? AND roles.is_active = ?", false, true).
		Where("permissions.is_active = ?", true)
}
