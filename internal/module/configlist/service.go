package configlist

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Spec describes how config lists are queried and stored.
var Spec = crud.Spec{
	Name:          "config list",
	Resource:      "config-lists",
	KeyColumn:     "list_code",
	KeyField:      "listCode",
	SearchColumns: []string{"list_code", "name", "description"},
	SortFields:    map[string]string{"name": "name"},
	Delete:        crud.HardDelete,
	Preloads:      []string{"Values"},
}

// Mapper converts config list requests and records.
type Mapper struct{}

// FromCreate builds a new active list and its values from in.
func (m Mapper) FromCreate(in ConfigListRequest) (*domain.ConfigList, error) {
	l := &domain.ConfigList{}
	l.IsActive = true
	if err := m.ApplyUpdate(l, in); err != nil {
		return nil, err
	}
	return l, nil
}

// ApplyUpdate copies in onto l, replacing l.Values in memory.
func (Mapper) ApplyUpdate(l *domain.ConfigList, in ConfigListRequest) error {
	values, err := toValues(in.Values)
	if err != nil {
		return err
	}
	l.ListCode = strings.TrimSpace(in.ListCode)
	l.Name = strings.TrimSpace(in.Name)
	l.Description = strings.TrimSpace(in.Description)
	l.Metadata = datatypes.JSONMap(in.Metadata)
	l.Values = values
	if in.IsActive != nil {
		l.IsActive = *in.IsActive
	}
	return nil
}

// ToDTO converts l to its API representation with values in display order.
func (Mapper) ToDTO(l *domain.ConfigList) ConfigListResponse {
	resp := ConfigListResponse{
		ID:          l.ID,
		ListCode:    l.ListCode,
		Name:        l.Name,
		Description: l.Description,
		Metadata:    l.Metadata,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
		CreatedBy:   l.CreatedBy,
		UpdatedBy:   l.UpdatedBy,
	}
	for _, v := range l.Values {
		resp.Values = append(resp.Values, ConfigValueResponse{
			ID:          v.ID,
			ValueCode:   v.ValueCode,
			DisplayName: v.DisplayName,
			SortOrder:   v.SortOrder,
			IsActive:    v.IsActive,
		})
	}
	slices.SortStableFunc(resp.Values, func(a, b ConfigValueResponse) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
	return resp
}

func toValues(in []ConfigValueRequest) ([]domain.ConfigValue, error) {
	seen := make(map[string]struct{}, len(in))
	values := make([]domain.ConfigValue, 0, len(in))
	for i, v := range in {
		code := strings.ToUpper(strings.TrimSpace(v.ValueCode))
		if _, dup := seen[code]; dup {
			return nil, domain.NewAppError(domain.CodeValidation,
				fmt.Sprintf("value code %q appears more than once", code), nil)
		}
		seen[code] = struct{}{}

		value := domain.ConfigValue{
			ValueCode:   code,
			DisplayName: strings.TrimSpace(v.DisplayName),
			SortOrder:   i + 1,
			IsActive:    true,
		}
		if v.SortOrder != nil {
			value.SortOrder = *v.SortOrder
		}
		if v.IsActive != nil {
			value.IsActive = *v.IsActive
		}
		values = append(values, value)
	}
	return values, nil
}

type (
	repository  = crud.Repository[domain.ConfigList, *domain.ConfigList]
	baseService = crud.Service[domain.ConfigList, *domain.ConfigList, ConfigListRequest, ConfigListRequest, ConfigListResponse]
)

// Service saves config lists together with their values.
type Service struct {
	*baseService
	repo *repository
}

// NewService creates a config list service over repo.
func NewService(repo *repository) *Service {
	return &Service{baseService: bind(repo), repo: repo}
}

func bind(repo *repository) *baseService {
	return crud.NewService[domain.ConfigList, *domain.ConfigList, ConfigListRequest, ConfigListRequest, ConfigListResponse](repo, Mapper{}, Spec)
}

// Create inserts the list and its values in one transaction.
func (s *Service) Create(ctx context.Context, in ConfigListRequest, actingUserID uint) (ConfigListResponse, error) {
	var created *domain.ConfigList
	err := pkg.WithTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		svc := bind(txRepo)
		entity, err := svc.Prepare(ctx, in, actingUserID)
		if err != nil {
			return err
		}
		if err := txRepo.Create(ctx, entity); err != nil {
			return svc.Translate(ctx, "create", err)
		}
		created = entity
		return nil
	})
	if err != nil {
		return ConfigListResponse{}, s.txError(ctx, "create", err)
	}
	return s.ToDTO(created), nil
}

// Update changes the list header and replaces its values in one transaction.
func (s *Service) Update(ctx context.Context, id uint, in ConfigListRequest, actingUserID uint) (ConfigListResponse, error) {
	var saved *domain.ConfigList
	err := pkg.WithTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		svc := bind(txRepo)
		entity, err := svc.Apply(ctx, id, in, actingUserID)
		if err != nil {
			return err
		}
		if err := txRepo.Update(ctx, entity); err != nil {
			return svc.Translate(ctx, "update", err)
		}

		db := tx.WithContext(ctx)
		if err := db.Where("config_list_id = ?", id).Delete(&domain.ConfigValue{}).Error; err != nil {
			return svc.Translate(ctx, "update", crud.MapError(Spec.Name, err))
		}
		if len(entity.Values) > 0 {
			for i := range entity.Values {
				entity.Values[i].ConfigListID = id
			}
			if err := db.Create(&entity.Values).Error; err != nil {
				return svc.Translate(ctx, "update", crud.MapError(Spec.Name, err))
			}
		}
		saved = entity
		return nil
	})
	if err != nil {
		return ConfigListResponse{}, s.txError(ctx, "update", err)
	}
	return s.ToDTO(saved), nil
}

// ActiveValues returns the active values of the list with listCode, in
// display order. Lookup consumers use it to populate pick lists.
func (s *Service) ActiveValues(ctx context.Context, listCode string) ([]ConfigValueResponse, error) {
	list, err := s.GetByNaturalKey(ctx, strings.TrimSpace(listCode))
	if err != nil {
		return nil, err
	}
	active := make([]ConfigValueResponse, 0, len(list.Values))
	for _, v := range list.Values {
		if v.IsActive {
			active = append(active, v)
		}
	}
	return active, nil
}

func (s *Service) txError(ctx context.Context, op string, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return s.Translate(ctx, op, crud.MapError(Spec.Name, err))
}
