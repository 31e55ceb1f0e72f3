package item

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// Spec describes how items are queried and stored.
var Spec = crud.Spec{
	Name:          "item",
	Resource:      "items",
	KeyColumn:     "item_code",
	KeyField:      "itemCode",
	SearchColumns: []string{"item_code", "name", "description", "hsn_code"},
	EqualFilters: map[string]string{
		"category": "category",
		"uom":      "uom",
		"hsnCode":  "hsn_code",
	},
	RangeFilters: map[string]string{"unitPrice": "unit_price"},
	SortFields: map[string]string{
		"name":      "name",
		"category":  "category",
		"unitPrice": "unit_price",
	},
	Delete: crud.SoftDelete,
}

var maxTaxRate = decimal.NewFromInt(100)

// Service is the item service.
type Service = crud.Service[domain.ItemMaster, *domain.ItemMaster, ItemRequest, ItemRequest, ItemResponse]

// Mapper converts item requests and records.
type Mapper struct{}

// FromCreate builds a new active item from in.
func (m Mapper) FromCreate(in ItemRequest) (*domain.ItemMaster, error) {
	it := &domain.ItemMaster{}
	it.IsActive = true
	if err := m.ApplyUpdate(it, in); err != nil {
		return nil, err
	}
	return it, nil
}

// ApplyUpdate copies in onto it.
func (Mapper) ApplyUpdate(it *domain.ItemMaster, in ItemRequest) error {
	if in.UnitPrice.IsNegative() {
		return domain.NewAppError(domain.CodeValidation, "unitPrice must not be negative", nil)
	}
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(maxTaxRate) {
		return domain.NewAppError(domain.CodeValidation, "taxRate must be between 0 and 100", nil)
	}
	it.ItemCode = strings.TrimSpace(in.ItemCode)
	it.Name = strings.TrimSpace(in.Name)
	it.Description = strings.TrimSpace(in.Description)
	it.Category = strings.TrimSpace(in.Category)
	it.UOM = strings.ToUpper(strings.TrimSpace(in.UOM))
	it.HSNCode = strings.TrimSpace(in.HSNCode)
	it.UnitPrice = in.UnitPrice
	it.TaxRate = in.TaxRate
	if in.IsActive != nil {
		it.IsActive = *in.IsActive
	}
	return nil
}

// ToDTO converts it to its API representation.
func (Mapper) ToDTO(it *domain.ItemMaster) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		ItemCode:    it.ItemCode,
		Name:        it.Name,
		Description: it.Description,
		Category:    it.Category,
		UOM:         it.UOM,
		HSNCode:     it.HSNCode,
		UnitPrice:   it.UnitPrice,
		TaxRate:     it.TaxRate,
		IsActive:    it.IsActive,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
		CreatedBy:   it.CreatedBy,
		UpdatedBy:   it.UpdatedBy,
	}
}

// Module serves the item API.
type Module struct {
	svc     *Service
	handler *crud.Handler[ItemRequest, ItemRequest, ItemResponse]
}

// NewModule wires the item repository, service, and handler.
func NewModule(db *gorm.DB, clock pkg.Clock, limits pkg.PageLimits) *Module {
	repo := crud.NewRepository[domain.ItemMaster](db, Spec, clock).WithLimits(limits)
	svc := crud.NewService[domain.ItemMaster, *domain.ItemMaster, ItemRequest, ItemRequest, ItemResponse](repo, Mapper{}, Spec)
	return &Module{
		svc:     svc,
		handler: crud.NewHandler[ItemRequest, ItemRequest, ItemResponse](svc, limits),
	}
}

// Service exposes the item service to other modules.
func (m *Module) Service() *Service {
	return m.svc
}

// RegisterRoutes mounts /items.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, guard crud.Guard) {
	m.handler.Register(api.Group("/"+Spec.Resource), Spec.Resource, guard)
}
