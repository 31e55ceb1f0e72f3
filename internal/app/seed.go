package app

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/module/configlist"
	"github.com/simp-lee/backoffice/internal/module/customer"
	"github.com/simp-lee/backoffice/internal/module/item"
	"github.com/simp-lee/backoffice/internal/module/organization"
	"github.com/simp-lee/backoffice/internal/module/role"
	"github.com/simp-lee/backoffice/internal/module/salesorder"
	"github.com/simp-lee/backoffice/internal/module/user"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// AdminRoleCode is the role granted every seeded permission.
const AdminRoleCode = "ADMIN"

var guardedActions = []string{"read", "write"}

// Resources returns the resource names of every guarded module.
func Resources() []string {
	return []string{
		customer.Spec.Resource,
		item.Spec.Resource,
		organization.OrganizationSpec.Resource,
		organization.DivisionSpec.Resource,
		configlist.Spec.Resource,
		salesorder.Spec.Resource,
		role.RoleSpec.Resource,
		role.PermissionSpec.Resource,
		user.Spec.Resource,
	}
}

// SeedAccessControl makes sure a read and a write permission exist for every
// resource and that the ADMIN role holds all of them. Running it again only
// fills in what is missing.
func SeedAccessControl(ctx context.Context, db *gorm.DB, clock pkg.Clock) error {
	now := clock.Now()
	return pkg.WithTx(ctx, db, func(tx *gorm.DB) error {
		var perms []domain.Permission
		for _, res := range Resources() {
			for _, act := range guardedActions {
				code := domain.PermissionCode(res, act)
				p := domain.Permission{
					AuditedEntity: domain.AuditedEntity{IsActive: true, CreatedAt: now},
					Code:          code,
					Name:          fmt.Sprintf("%s %s", strings.ToUpper(act[:1])+act[1:], res),
					Resource:      res,
					Action:        act,
				}
				if err := tx.Where("code = ?", code).FirstOrCreate(&p).Error; err != nil {
					return fmt.Errorf("seed permission %s: %w", code, err)
				}
				perms = append(perms, p)
			}
		}

		admin := domain.Role{
			AuditedEntity: domain.AuditedEntity{IsActive: true, CreatedAt: now},
			Code:          AdminRoleCode,
			Name:          "Administrator",
			Description:   "Holds every permission",
		}
		if err := tx.Where("code = ? AND is_deleted = ?", AdminRoleCode, false).FirstOrCreate(&admin).Error; err != nil {
			return fmt.Errorf("seed admin role: %w", err)
		}
		if err := tx.Model(&admin).Omit("Permissions.*").Association("Permissions").Append(perms); err != nil {
			return fmt.Errorf("grant admin permissions: %w", err)
		}
		return nil
	})
}

// GrantRole assigns the live role roleCode to the live user with email,
// keeping the roles the user already holds.
func GrantRole(ctx context.Context, db *gorm.DB, email, roleCode string) error {
	return pkg.WithTx(ctx, db, func(tx *gorm.DB) error {
		var u domain.User
		err := tx.Where("email = ? AND is_deleted = ?", strings.ToLower(strings.TrimSpace(email)), false).First(&u).Error
		if err != nil {
			return fmt.Errorf("find user %q: %w", email, err)
		}
		var r domain.Role
		if err := tx.Where("code = ? AND is_deleted = ?", roleCode, false).First(&r).Error; err != nil {
			return fmt.Errorf("find role %q: %w", roleCode, err)
		}
		if err := tx.Model(&u).Omit("Roles.*").Association("Roles").Append(&r); err != nil {
			return fmt.Errorf("grant role %q to %q: %w", roleCode, email, err)
		}
		return nil
	})
}

// GrantRole assigns roleCode to the user with email on the app's database.
func (a *App) GrantRole(ctx context.Context, email, roleCode string) error {
	return GrantRole(ctx, a.db, email, roleCode)
}
