package organization

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
)

type services struct {
	orgs      *OrganizationService
	divisions *DivisionService
	db        *gorm.DB
}

func newTestServices(t *testing.T) services {
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
	if err := db.AutoMigrate(&domain.Organization{}, &domain.Division{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	orgRepo := crud.NewRepository[domain.Organization](db, OrganizationSpec, nil)
	divRepo := crud.NewRepository[domain.Division](db, DivisionSpec, nil)
	return services{
		orgs:      NewOrganizationService(orgRepo, divRepo),
		divisions: NewDivisionService(divRepo, orgRepo),
		db:        db,
	}
}

func TestDivision_RequiresLiveOrganization(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	if _, err := s.divisions.Create(ctx, DivisionRequest{DivisionCode: "D-1", Name: "d", OrganizationID: 99}, 1); !domain.IsValidation(err) {
		t.Fatalf("unknown organization: expected validation error, got %v", err)
	}

	org, err := s.orgs.Create(ctx, OrganizationRequest{OrgCode: "ORG-1", Name: "Org"}, 1)
	if err != nil {
		t.Fatalf("Create org: %v", err)
	}
	div, err := s.divisions.Create(ctx, DivisionRequest{DivisionCode: "D-1", Name: "d", OrganizationID: org.ID}, 1)
	if err != nil {
		t.Fatalf("Create division: %v", err)
	}
	if div.OrganizationID != org.ID {
		t.Errorf("OrganizationID = %d; want %d", div.OrganizationID, org.ID)
	}
}

func TestDivision_FilterByOrganization(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	a, _ := s.orgs.Create(ctx, OrganizationRequest{OrgCode: "A", Name: "A"}, 1)
	b, _ := s.orgs.Create(ctx, OrganizationRequest{OrgCode: "B", Name: "B"}, 1)
	for i, orgID := range []uint{a.ID, a.ID, b.ID} {
		in := DivisionRequest{DivisionCode: string(rune('X' + i)), Name: "div", OrganizationID: orgID}
		if _, err := s.divisions.Create(ctx, in, 1); err != nil {
			t.Fatalf("Create division: %v", err)
		}
	}

	page, err := s.divisions.GetAll(ctx, domain.Filter{Equals: map[string]string{"organizationId": "1"}})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if page.TotalCount != 2 {
		t.Errorf("TotalCount = %d; want 2", page.TotalCount)
	}
}

func TestDivision_HardDelete(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	org, _ := s.orgs.Create(ctx, OrganizationRequest{OrgCode: "O", Name: "O"}, 1)
	div, err := s.divisions.Create(ctx, DivisionRequest{DivisionCode: "D", Name: "d", OrganizationID: org.ID}, 1)
	if err != nil {
		t.Fatalf("Create division: %v", err)
	}
	if err := s.divisions.Delete(ctx, div.ID, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var rows int64
	s.db.Model(&domain.Division{}).Count(&rows)
	if rows != 0 {
		t.Errorf("expected the row to be removed, %d remain", rows)
	}
	if _, err := s.divisions.Create(ctx, DivisionRequest{DivisionCode: "D", Name: "again", OrganizationID: org.ID}, 1); err != nil {
		t.Errorf("recreate after hard delete: %v", err)
	}
}

func TestOrganization_DeleteWithDivisions(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	org, _ := s.orgs.Create(ctx, OrganizationRequest{OrgCode: "O", Name: "O"}, 1)
	div, _ := s.divisions.Create(ctx, DivisionRequest{DivisionCode: "D", Name: "d", OrganizationID: org.ID}, 1)

	if err := s.orgs.Delete(ctx, org.ID, 1); !domain.IsConflict(err) {
		t.Fatalf("expected Conflict while divisions exist, got %v", err)
	}
	if err := s.divisions.Delete(ctx, div.ID, 1); err != nil {
		t.Fatalf("Delete division: %v", err)
	}
	if err := s.orgs.Delete(ctx, org.ID, 1); err != nil {
		t.Fatalf("Delete organization: %v", err)
	}
	if _, err := s.orgs.GetByID(ctx, org.ID); !domain.IsNotFound(err) {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
}

func TestOrganization_UpdateKeepsOwnCode(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	org, _ := s.orgs.Create(ctx, OrganizationRequest{OrgCode: "ORG", Name: "Old", Country: "IN"}, 1)
	if _, err := s.orgs.Create(ctx, OrganizationRequest{OrgCode: "OTHER", Name: "Other"}, 1); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.orgs.Update(ctx, org.ID, OrganizationRequest{OrgCode: "ORG", Name: "New", Country: "IN"}, 2)
	if err != nil {
		t.Fatalf("Update own code: %v", err)
	}
	if got.Name != "New" {
		t.Errorf("Name = %q", got.Name)
	}
	if _, err := s.orgs.Update(ctx, org.ID, OrganizationRequest{OrgCode: "OTHER", Name: "New"}, 2); !domain.IsConflict(err) {
		t.Errorf("taking another code: expected Conflict, got %v", err)
	}
}
