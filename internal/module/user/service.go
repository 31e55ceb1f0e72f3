package user

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/pkg"
)

type baseService = crud.Service[domain.User, *domain.User, CreateUserRequest, UpdateUserRequest, UserResponse]

// Service implements the user operations on top of the generic service.
type Service struct {
	*baseService
	repo *Repository
}

// NewService creates a user service. mapper controls password hashing.
func NewService(repo *Repository, mapper Mapper) *Service {
	return &Service{
		baseService: crud.NewService[domain.User, *domain.User, CreateUserRequest, UpdateUserRequest, UserResponse](repo, mapper, Spec),
		repo:        repo,
	}
}

// GetByNaturalKey returns the user whose email matches key in any case.
func (s *Service) GetByNaturalKey(ctx context.Context, key string) (UserResponse, error) {
	return s.baseService.GetByNaturalKey(ctx, strings.ToLower(key))
}

// GetByEmail returns the live user record with email for credential checks,
// or nil when there is none.
func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.Translate(ctx, "load", err)
	}
	return u, nil
}

// SetRoles replaces the role set of the user with id.
func (s *Service) SetRoles(ctx context.Context, id uint, roleIDs []uint, actingUserID uint) (UserResponse, error) {
	var saved *domain.User
	err := pkg.WithTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		u, err := txRepo.GetByID(ctx, id)
		if err != nil {
			return s.Translate(ctx, "load", err)
		}
		if u == nil {
			return domain.NewAppError(domain.CodeNotFound, Spec.Name+" not found", nil)
		}
		if err := crud.ReplaceLinks[domain.Role](ctx, tx, u, "Roles", "role", roleIDs); err != nil {
			return err
		}
		u.UpdatedBy = crud.ActorRef(actingUserID)
		if err := txRepo.Update(ctx, u); err != nil {
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
			return UserResponse{}, err
		}
		return UserResponse{}, s.Translate(ctx, "update", crud.MapError(Spec.Name, err))
	}
	return s.ToDTO(saved), nil
}
