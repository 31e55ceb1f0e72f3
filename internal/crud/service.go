package crud

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/simp-lee/backoffice/internal/domain"
)

// Mapper converts between transfer objects and records for one entity.
//
// FromCreate and ApplyUpdate validate their input and return a validation
// AppError when it is unusable. They never touch audit fields other than
// IsActive.
type Mapper[T, C, U, D any] interface {
	FromCreate(in C) (*T, error)
	ApplyUpdate(entity *T, in U) error
	ToDTO(entity *T) D
}

// Service implements domain.Service on top of a domain.Repository.
type Service[T any, P Entity[T], C, U, D any] struct {
	repo   domain.Repository[T]
	mapper Mapper[T, C, U, D]
	spec   Spec
}

// NewService creates a service for the entity described by spec.
func NewService[T any, P Entity[T], C, U, D any](repo domain.Repository[T], mapper Mapper[T, C, U, D], spec Spec) *Service[T, P, C, U, D] {
	return &Service[T, P, C, U, D]{repo: repo, mapper: mapper, spec: spec}
}

// GetAll returns one page of transfer objects matching filter.
func (s *Service[T, P, C, U, D]) GetAll(ctx context.Context, filter domain.Filter) (*domain.PaginatedResult[D], error) {
	page, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, s.translate(ctx, "list", err)
	}
	return domain.MapPage(page, s.mapper.ToDTO), nil
}

// GetByID returns the record with id, or NotFound.
func (s *Service[T, P, C, U, D]) GetByID(ctx context.Context, id uint) (D, error) {
	var zero D
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return zero, s.translate(ctx, "load", err)
	}
	if entity == nil {
		return zero, s.notFound()
	}
	return s.mapper.ToDTO(entity), nil
}

// GetByNaturalKey returns the record whose natural key equals key, or NotFound.
func (s *Service[T, P, C, U, D]) GetByNaturalKey(ctx context.Context, key string) (D, error) {
	var zero D
	entity, err := s.repo.GetByNaturalKey(ctx, strings.TrimSpace(key))
	if err != nil {
		return zero, s.translate(ctx, "load", err)
	}
	if entity == nil {
		return zero, s.notFound()
	}
	return s.mapper.ToDTO(entity), nil
}

// Create validates in, rejects duplicate natural keys, and persists a new record.
func (s *Service[T, P, C, U, D]) Create(ctx context.Context, in C, actingUserID uint) (D, error) {
	var zero D
	entity, err := s.Prepare(ctx, in, actingUserID)
	if err != nil {
		return zero, err
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return zero, s.translate(ctx, "create", err)
	}
	return s.mapper.ToDTO(entity), nil
}

// Prepare builds and checks a new record without saving it.
func (s *Service[T, P, C, U, D]) Prepare(ctx context.Context, in C, actingUserID uint) (*T, error) {
	entity, err := s.mapper.FromCreate(in)
	if err != nil {
		return nil, err
	}
	if err := s.CheckUnique(ctx, P(entity).NaturalKey(), nil); err != nil {
		return nil, err
	}
	audit := P(entity).Audit()
	audit.CreatedBy = ActorRef(actingUserID)
	audit.UpdatedBy = nil
	return entity, nil
}

// Update applies in to the live record with id and persists it.
func (s *Service[T, P, C, U, D]) Update(ctx context.Context, id uint, in U, actingUserID uint) (D, error) {
	var zero D
	entity, err := s.Apply(ctx, id, in, actingUserID)
	if err != nil {
		return zero, err
	}
	if err := s.repo.Update(ctx, entity); err != nil {
		return zero, s.translate(ctx, "update", err)
	}
	return s.mapper.ToDTO(entity), nil
}

// Apply loads the record with id, applies in, and checks uniqueness without saving.
func (s *Service[T, P, C, U, D]) Apply(ctx context.Context, id uint, in U, actingUserID uint) (*T, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, "load", err)
	}
	if entity == nil {
		return nil, s.notFound()
	}
	if err := s.mapper.ApplyUpdate(entity, in); err != nil {
		return nil, err
	}
	if err := s.CheckUnique(ctx, P(entity).NaturalKey(), &id); err != nil {
		return nil, err
	}
	P(entity).Audit().UpdatedBy = ActorRef(actingUserID)
	return entity, nil
}

// Delete removes the record with id per the entity's delete policy. Absent
// and already soft-deleted records report NotFound.
func (s *Service[T, P, C, U, D]) Delete(ctx context.Context, id uint, actingUserID uint) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return s.translate(ctx, "check", err)
	}
	if !exists {
		return s.notFound()
	}
	if err := s.repo.Delete(ctx, id, actingUserID); err != nil {
		return s.translate(ctx, "delete", err)
	}
	return nil
}

// CheckUnique returns Conflict when another live record holds key.
func (s *Service[T, P, C, U, D]) CheckUnique(ctx context.Context, key string, excludeID *uint) error {
	if key == "" {
		return domain.NewAppError(domain.CodeValidation, s.spec.KeyField+" is required", nil)
	}
	exists, err := s.repo.ExistsByNaturalKey(ctx, key, excludeID)
	if err != nil {
		return s.translate(ctx, "check", err)
	}
	if exists {
		return s.conflict(key, nil)
	}
	return nil
}

// ToDTO exposes the mapper for entity-specific operations.
func (s *Service[T, P, C, U, D]) ToDTO(entity *T) D {
	return s.mapper.ToDTO(entity)
}

// Translate maps an error from storage to the taxonomy returned to callers.
func (s *Service[T, P, C, U, D]) Translate(ctx context.Context, op string, err error) error {
	return s.translate(ctx, op, err)
}

func (s *Service[T, P, C, U, D]) translate(ctx context.Context, op string, err error) error {
	switch {
	case domain.IsNotFound(err):
		return s.notFound()
	case domain.IsConstraintViolation(err):
		if isForeignKeyError(err) {
			return err
		}
		return s.conflict("", err)
	case domain.IsValidation(err), domain.IsConflict(err), domain.IsInvalidTransition(err),
		domain.IsUnauthorized(err), domain.IsForbidden(err):
		return err
	}
	slog.ErrorContext(ctx, "storage operation failed",
		slog.String("entity", s.spec.Name),
		slog.String("op", op),
		slog.Any("error", err),
	)
	return domain.NewAppError(domain.CodeInternal, fmt.Sprintf("failed to %s %s", op, s.spec.Name), err)
}

func (s *Service[T, P, C, U, D]) notFound() error {
	return domain.NewAppError(domain.CodeNotFound, s.spec.Name+" not found", nil)
}

func (s *Service[T, P, C, U, D]) conflict(key string, cause error) error {
	if key == "" {
		return domain.NewAppError(domain.CodeConflict,
			fmt.Sprintf("%s with this %s already exists", s.spec.Name, s.spec.KeyField), cause)
	}
	return domain.NewAppError(domain.CodeConflict,
		fmt.Sprintf("%s with %s %q already exists", s.spec.Name, s.spec.KeyField, key), cause)
}
