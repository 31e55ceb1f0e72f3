package crud

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Repository is the GORM implementation of domain.Repository for any entity
// embedding domain.AuditedEntity.
type Repository[T any, P Entity[T]] struct {
	db     *gorm.DB
	spec   Spec
	clock  pkg.Clock
	limits pkg.PageLimits
	sorts  map[string]string
}

// NewRepository creates a repository for the entity described by spec.
func NewRepository[T any, P Entity[T]](db *gorm.DB, spec Spec, clock pkg.Clock) *Repository[T, P] {
	if clock == nil {
		clock = pkg.SystemClock{}
	}
	return &Repository[T, P]{
		db:     db,
		spec:   spec,
		clock:  clock,
		limits: pkg.DefaultPageLimits(),
		sorts:  spec.sortFields(),
	}
}

// WithTx returns a copy of the repository bound to tx.
func (r *Repository[T, P]) WithTx(tx *gorm.DB) *Repository[T, P] {
	cp := *r
	cp.db = tx
	return &cp
}

// WithLimits returns a copy of the repository paging with l.
func (r *Repository[T, P]) WithLimits(l pkg.PageLimits) *Repository[T, P] {
	cp := *r
	cp.limits = l
	return &cp
}

// DB returns the underlying handle, for entity-specific queries.
func (r *Repository[T, P]) DB() *gorm.DB {
	return r.db
}

// Spec returns the entity description.
func (r *Repository[T, P]) Spec() Spec {
	return r.spec
}

// Clock returns the clock used for audit stamps.
func (r *Repository[T, P]) Clock() pkg.Clock {
	return r.clock
}

// GetAll returns one page of records matching filter, plus the total match count.
func (r *Repository[T, P]) GetAll(ctx context.Context, filter domain.Filter) (*domain.PaginatedResult[T], error) {
	filter = r.limits.Apply(filter)
	if err := pkg.IntFilterError(filter, r.spec.IntFilters); err != nil {
		return nil, err
	}

	// Count and Find each get a fresh chain so the count never carries paging.
	query := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(new(T)).Scopes(
			pkg.Lifecycle(filter, r.spec.SoftDeletes()),
			pkg.Search(filter.SearchTerm, r.spec.SearchColumns),
			pkg.Filter(filter, r.spec.EqualFilters),
			pkg.FilterInt(filter, r.spec.IntFilters),
			pkg.Ranges(filter, r.spec.RangeFilters),
		)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, r.mapError(err)
	}

	var items []T
	if err := query().Scopes(
		pkg.Sort(filter, r.sorts),
		pkg.Paginate(filter),
	).Find(&items).Error; err != nil {
		return nil, r.mapError(err)
	}

	return domain.NewPaginatedResult(items, total, filter.PageNumber, filter.PageSize), nil
}

// GetByID returns the live record with its children, or (nil, nil) when absent.
func (r *Repository[T, P]) GetByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := r.single(ctx).Where("id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.mapError(err)
	}
	return &entity, nil
}

// GetByNaturalKey returns the live record whose natural key equals key, or
// (nil, nil) when absent.
func (r *Repository[T, P]) GetByNaturalKey(ctx context.Context, key string) (*T, error) {
	var entity T
	err := r.single(ctx).Where(r.spec.KeyColumn+" = ?", key).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.mapError(err)
	}
	return &entity, nil
}

// Create inserts entity and any has-many children set on it.
func (r *Repository[T, P]) Create(ctx context.Context, entity *T) error {
	audit := P(entity).Audit()
	audit.CreatedAt = r.clock.Now()
	audit.UpdatedAt = nil
	audit.IsDeleted = false

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return r.mapError(err)
	}
	return nil
}

// Update writes every column of entity except id and the creation stamps.
// Associations are left untouched.
func (r *Repository[T, P]) Update(ctx context.Context, entity *T) error {
	audit := P(entity).Audit()
	now := r.clock.Now()
	audit.UpdatedAt = &now

	q := r.db.WithContext(ctx).Model(entity)
	if r.spec.SoftDeletes() {
		q = q.Where("is_deleted = ?", false)
	}
	result := q.Select("*").
		Omit("id", "created_at", "created_by", "is_deleted", clause.Associations).
		Updates(entity)
	if result.Error != nil {
		return r.mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the record by the entity's delete policy. actingUserID 0
// means the caller is unknown.
func (r *Repository[T, P]) Delete(ctx context.Context, id uint, actingUserID uint) error {
	if r.spec.SoftDeletes() {
		return r.softDelete(ctx, id, actingUserID)
	}
	return r.hardDelete(ctx, id)
}

func (r *Repository[T, P]) softDelete(ctx context.Context, id uint, actingUserID uint) error {
	result := r.db.WithContext(ctx).Model(new(T)).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"updated_at": r.clock.Now(),
			"updated_by": ActorRef(actingUserID),
		})
	if result.Error != nil {
		return r.mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository[T, P]) hardDelete(ctx context.Context, id uint) error {
	var entity T
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return r.mapError(err)
	}

	result := r.db.WithContext(ctx).Select(clause.Associations).Delete(&entity)
	if result.Error != nil {
		return r.mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Exists reports whether a live record with id exists.
func (r *Repository[T, P]) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.live(r.db.WithContext(ctx).Model(new(T))).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, r.mapError(err)
	}
	return count > 0, nil
}

// ExistsByNaturalKey reports whether a live record other than excludeID holds key.
func (r *Repository[T, P]) ExistsByNaturalKey(ctx context.Context, key string, excludeID *uint) (bool, error) {
	q := r.live(r.db.WithContext(ctx).Model(new(T))).Where(r.spec.KeyColumn+" = ?", key)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, r.mapError(err)
	}
	return count > 0, nil
}

// single builds the base query for single-record reads.
func (r *Repository[T, P]) single(ctx context.Context) *gorm.DB {
	q := r.live(r.db.WithContext(ctx))
	for _, assoc := range r.spec.Preloads {
		q = q.Preload(assoc, orderByID)
	}
	return q
}

func (r *Repository[T, P]) live(q *gorm.DB) *gorm.DB {
	if r.spec.SoftDeletes() {
		return q.Where("is_deleted = ?", false)
	}
	return q
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

// mapError converts GORM errors to domain errors.
func (r *Repository[T, P]) mapError(err error) error {
	return MapError(r.spec.Name, err)
}

// MapError converts GORM errors to domain errors. AppErrors pass through.
func MapError(entity string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeConstraintViolation,
			fmt.Sprintf("%s violates a unique constraint", entity), err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || isForeignKeyError(err) {
		return domain.NewAppError(domain.CodeConstraintViolation,
			fmt.Sprintf("%s is referenced by or references a missing record", entity), err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. Not all GORM dialectors translate driver-level errors to
// gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func isForeignKeyError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// ActorRef converts an acting user id to a nullable audit reference.
func ActorRef(actingUserID uint) *uint {
	if actingUserID == 0 {
		return nil
	}
	id := actingUserID
	return &id
}
