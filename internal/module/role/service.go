package role

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// RoleSpec describes how roles are queried and stored.
var RoleSpec = crud.Spec{
	Name:          "role",
	Resource:      "roles",
	KeyColumn:     "code",
	KeyField:      "code",
	SearchColumns: []string{"code", "name", "description"},
	SortFields:    map[string]string{"name": "name"},
	Delete:        crud.SoftDelete,
	Preloads:      []string{"Permissions"},
}

// PermissionSpec describes how permissions are queried and stored.
var PermissionSpec = crud.Spec{
	Name:          "permission",
	Resource:      "permissions",
	KeyColumn:     "code",
	KeyField:      "code",
	SearchColumns: []string{"code", "name"},
	EqualFilters: map[string]string{
		"resource": "resource",
		"action":   "action",
	},
	SortFields: map[string]string{
		"name":     "name",
		"resource": "resource",
	},
	Delete: crud.HardDelete,
}

// RoleMapper converts role requests and records.
type RoleMapper struct{}

// FromCreate builds a new active role from in.
func (m RoleMapper) FromCreate(in RoleRequest) (*domain.Role, error) {
	r := &domain.Role{}
	r.IsActive = true
	if err := m.ApplyUpdate(r, in); err != nil {
		return nil, err
	}
	return r, nil
}

// ApplyUpdate copies in onto r. Codes are stored upper case.
func (RoleMapper) ApplyUpdate(r *domain.Role, in RoleRequest) error {
	r.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	r.Name = strings.TrimSpace(in.Name)
	r.Description = strings.TrimSpace(in.Description)
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
	return nil
}

// ToDTO converts r to its API representation.
func (RoleMapper) ToDTO(r *domain.Role) RoleResponse {
	resp := RoleResponse{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		CreatedBy:   r.CreatedBy,
		UpdatedBy:   r.UpdatedBy,
	}
	for i := range r.Permissions {
		resp.Permissions = append(resp.Permissions, PermissionMapper{}.ToDTO(&r.Permissions[i]))
	}
	return resp
}

// PermissionMapper converts permission requests and records.
type PermissionMapper struct{}

// FromCreate builds a new active permission from in.
func (m PermissionMapper) FromCreate(in PermissionRequest) (*domain.Permission, error) {
	p := &domain.Permission{}
	p.IsActive = true
	if err := m.ApplyUpdate(p, in); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyUpdate copies in onto p and derives its code.
func (PermissionMapper) ApplyUpdate(p *domain.Permission, in PermissionRequest) error {
	resource := strings.ToLower(strings.TrimSpace(in.Resource))
	action := strings.ToLower(strings.TrimSpace(in.Action))
	if strings.Contains(resource, ":") || strings.Contains(action, ":") {
		return domain.NewAppError(domain.CodeValidation, "resource and action must not contain ':'", nil)
	}
	p.Resource = resource
	p.Action = action
	p.Code = domain.PermissionCode(resource, action)
	p.Name = strings.TrimSpace(in.Name)
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return nil
}

// ToDTO converts p to its API representation.
func (PermissionMapper) ToDTO(p *domain.Permission) PermissionResponse {
	return PermissionResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Resource:  p.Resource,
		Action:    p.Action,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type (
	roleRepo = crud.Repository[domain.Role, *domain.Role]
	roleBase = crud.Service[domain.Role, *domain.Role, RoleRequest, RoleRequest, RoleResponse]

	// PermissionService is the generic service for the permission lookup.
	PermissionService = crud.Service[domain.Permission, *domain.Permission, PermissionRequest, PermissionRequest, PermissionResponse]
)

// NewPermissionService creates the permission service over repo.
func NewPermissionService(repo domain.Repository[domain.Permission]) *PermissionService {
	return crud.NewService[domain.Permission, *domain.Permission, PermissionRequest, PermissionRequest, PermissionResponse](repo, PermissionMapper{}, PermissionSpec)
}

// RoleService adds permission assignment to the generic role service.
type RoleService struct {
	*roleBase
	repo *roleRepo
}

// NewRoleService creates the role service over repo.
func NewRoleService(repo *roleRepo) *RoleService {
	return &RoleService{
		roleBase: crud.NewService[domain.Role, *domain.Role, RoleRequest, RoleRequest, RoleResponse](repo, RoleMapper{}, RoleSpec),
		repo:     repo,
	}
}

// SetPermissions replaces the permission set of the role with id.
func (s *RoleService) SetPermissions(ctx context.Context, id uint, permissionIDs []uint, actingUserID uint) (RoleResponse, error) {
	var saved *domain.Role
	err := pkg.WithTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		role, err := txRepo.GetByID(ctx, id)
		if err != nil {
			return s.Translate(ctx, "load", err)
		}
		if role == nil {
			return domain.NewAppError(domain.CodeNotFound, RoleSpec.Name+" not found", nil)
		}
		if err := crud.ReplaceLinks[domain.Permission](ctx, tx, role, "Permissions", PermissionSpec.Name, permissionIDs); err != nil {
			return err
		}
		role.UpdatedBy = crud.ActorRef(actingUserID)
		if err := txRepo.Update(ctx, role); err != nil {
			return s.Translate(ctx, "update", err)
		}
		saved, err = txRepo.GetByID(ctx, id)
		if err != nil {
			return s.Translate(ctx, "load", err)
		}
		return nil
	})
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			return RoleResponse{}, err
		}
		return RoleResponse{}, s.Translate(ctx, "update", crud.MapError(RoleSpec.Name, err))
	}
	return s.ToDTO(saved), nil
}
