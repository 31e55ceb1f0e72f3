package crud

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// widget is a minimal audited entity with a child collection.
type widget struct {
	domain.AuditedEntity
	Code    string          `gorm:"size:50;not null;uniqueIndex:uk_widgets_code,where:is_deleted = false"`
	Name    string          `gorm:"size:100;not null"`
	Kind    string          `gorm:"size:20"`
	Price   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	OwnerID uint
	Parts   []widgetPart `gorm:"foreignKey:WidgetID;constraint:OnDelete:CASCADE"`
}

func (w *widget) NaturalKey() string { return w.Code }

type widgetPart struct {
	ID       uint `gorm:"primaryKey"`
	WidgetID uint `gorm:"not null;index"`
	Label    string
}

// gadget is a hard-deleted lookup entity.
type gadget struct {
	domain.AuditedEntity
	Code  string `gorm:"size:50;not null;uniqueIndex:uk_gadgets_code"`
	Label string
}

func (g *gadget) NaturalKey() string { return g.Code }

var widgetSpec = Spec{
	Name:          "widget",
	Resource:      "widgets",
	KeyColumn:     "code",
	KeyField:      "code",
	SearchColumns: []string{"code", "name"},
	EqualFilters:  map[string]string{"kind": "kind"},
	IntFilters:    map[string]string{"ownerId": "owner_id"},
	RangeFilters:  map[string]string{"price": "price"},
	SortFields:    map[string]string{"name": "name", "price": "price"},
	Delete:        SoftDelete,
	Preloads:      []string{"Parts"},
}

var gadgetSpec = Spec{
	Name:      "gadget",
	Resource:  "gadgets",
	KeyColumn: "code",
	KeyField:  "code",
	Delete:    HardDelete,
}

type widgetInput struct {
	Code     string  `json:"code" binding:"required,max=50"`
	Name     string  `json:"name" binding:"required"`
	Kind     string  `json:"kind"`
	Price    float64 `json:"price" binding:"gte=0"`
	IsActive *bool   `json:"isActive"`
}

type widgetDTO struct {
	ID        uint       `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
	Price     string     `json:"price"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	CreatedBy *uint      `json:"createdBy"`
	UpdatedBy *uint      `json:"updatedBy"`
	Parts     int        `json:"parts"`
}

type widgetMapper struct{}

func (widgetMapper) FromCreate(in widgetInput) (*widget, error) {
	w := &widget{}
	w.IsActive = true
	if err := (widgetMapper{}).ApplyUpdate(w, in); err != nil {
		return nil, err
	}
	return w, nil
}

func (widgetMapper) ApplyUpdate(w *widget, in widgetInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.NewAppError(domain.CodeValidation, "name is required", nil)
	}
	w.Code = strings.TrimSpace(in.Code)
	w.Name = strings.TrimSpace(in.Name)
	w.Kind = in.Kind
	w.Price = decimal.NewFromFloat(in.Price)
	if in.IsActive != nil {
		w.IsActive = *in.IsActive
	}
	return nil
}

func (widgetMapper) ToDTO(w *widget) widgetDTO {
	return widgetDTO{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Kind:      w.Kind,
		Price:     w.Price.StringFixed(2),
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
		CreatedBy: w.CreatedBy,
		UpdatedBy: w.UpdatedBy,
		Parts:     len(w.Parts),
	}
}

var testEpoch = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

// setupTestDB creates an in-memory SQLite database with the test tables.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&widget{}, &widgetPart{}, &gadget{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newWidgetRepo(t *testing.T) (*Repository[widget, *widget], *pkg.FixedClock) {
	t.Helper()
	clock := &pkg.FixedClock{T: testEpoch}
	return NewRepository[widget](setupTestDB(t), widgetSpec, clock), clock
}

func seedWidget(t *testing.T, repo *Repository[widget, *widget], code, name string) *widget {
	t.Helper()
	w := &widget{Code: code, Name: name, Price: decimal.NewFromInt(10)}
	w.IsActive = true
	if err := repo.Create(t.Context(), w); err != nil {
		t.Fatalf("seed %s: %v", code, err)
	}
	return w
}

func boolPtr(b bool) *bool { return &b }

func uintPtr(v uint) *uint { return &v }

func codeOf(i int) string { return fmt.Sprintf("W-%03d", i) }
