package crud

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/pkg"
)

func TestCreateAndGetByID(t *testing.T) {
	repo, _ := newWidgetRepo(t)
	ctx := context.Background()

	w := &widget{Code: "W-1", Name: "Anvil", Price: decimal.RequireFromString("12.50")}
	w.IsActive = true
	w.Parts = []widgetPart{{Label: "head"}, {Label: "base"}}
	if err := repo.Create(ctx, w); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if w.ID == 0 {
		t.Fatal("expected non-zero ID after Create")
	}
	if !w.CreatedAt.Equal(testEpoch) {
		t.Errorf("CreatedAt = %v; want %v", w.CreatedAt, testEpoch)
	}
	if w.UpdatedAt != nil {
		t.Errorf("UpdatedAt = %v; want nil before first update", w.UpdatedAt)
	}

	got, err := repo.GetByID(ctx, w.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil")
	}
	if got.Name != "Anvil" || !got.Price.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("got %+v; want Name=Anvil Price=12.50", got)
	}
	if len(got.Parts) != 2 {
		t.Errorf("expected 2 preloaded parts, got %d", len(got.Parts))
	}
}

func TestGetByID_Absent(t *testing.T) {
	repo, _ := newWidgetRepo(t)

	got, err := repo.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("expected nil error for absent record, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil record, got %+v", got)
	}
}

func TestGetByNaturalKey(t *testing.T) {
	repo, _ := newWidgetRepo(t)
	ctx := context.Background()
	seedWidget(t, repo, "ACME-1", "Acme rocket")

	got, err := repo.GetByNaturalKey(ctx, "ACME-1")
	if err != nil || got == nil {
		t.Fatalf("GetByNaturalKey: %v, %v", got, err)
	}
	if got.Name != "Acme rocket" {
		t.Errorf("Name = %q; want %q", got.Name, "Acme rocket")
	}

	// Natural keys are matched exactly.
	got, err = repo.GetByNaturalKey(ctx, "acme-1")
	if err != nil {
		t.Fatalf("GetByNaturalKey: %v", err)
	}
	if got != nil {
		t.Errorf("expected case-sensitive miss, got %+v", got)
	}
}

func TestCreate_DuplicateNaturalKey(t *testing.T) {
	repo, _ := newWidgetRepo(t)
	seedWidget(t, repo, "DUP", "first")

	w := &widget{Code: "DUP", Name: "second"}
	err := repo.Create(context.Background(), w)
	if !domain.IsConstraintViolation(err) {
		t.Errorf("expected ConstraintViolation, got %v", err)
	}
}

func TestGetAll_AcmeSecondPage(t *testing.T) {
	repo, _ := newWidgetRepo(t)
	ctx := context.Background()

	acme := 0
	for i := 1; i <= 30; i++ {
		if i%6 == 0 {
			seedWidget(t, repo, codeOf(i), fmt.Sprintf("Globex %02d", i))
			continue
		}
		acme++
		seedWidget(t, repo, codeOf(i), fmt.Sprintf("ACME %02d", acme))
	}

	page, err := repo.GetAll(ctx, domain.Filter{SearchTerm: "ACME", PageNumber: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(page.Items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(page.Items))
	}
	if page.TotalCount != 25 {
		t.Errorf("TotalCount = %d; want 25", page.TotalCount)
	}
	if page.TotalPages != 3 {
		t.Errorf("TotalPages = %d; want 3", page.TotalPages)
	}
	if !page.HasNextPage || !page.HasPreviousPage {
		t.Errorf("HasNextPage=%v HasPreviousPage=%v; want both true", page.HasNextPage, page.HasPreviousPage)
	}
	for i, w := range page.Items {
		if want := fmt.Sprintf("ACME %02d", i+11); w.Name != want {
			t.Errorf("item %d = %q; want %q", i, w.Name, want)
		}
	}
}

func TestGetAll_SearchMatchesWildcardsLiterally(t *testing.T) {
	repo, _ := newWidgetRepo(t)
	ctx := context.Background()

	seedWidget(t, repo, "W-1", "50% off")
	seedWidget(t, repo, "W-2", "500 units")
	seedWidget(t, repo, "B_1", "bracket")
	seedWidget(t, repo, "BX1", "box")
	seedWidget(t, repo, "W-5", `path\to`)

	tests := []struct {
		term string
		want string
	}{
		{"50%", "50% off"},
		{"b_", "bracket"},
		{`h\t`, `path\to`},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			page, err := repo.GetAll(ctx, domain.Filter{SearchTerm: tt.term})
			if err != nil {
				t.Fatalf("GetAll: %v", err)
			}
			if page.TotalCount != 1 || len(page.Items) != 1 {
				t.Fatalf("TotalCount = %d, items = %d; want 1", page.TotalCount, len(page.Items))
			}
			if page.Items[0].Name != tt.want {
				t.Errorf("matched %q; want %q", page.Items[0].Name, tt.want)
			}
		})
	}
}

func TestGetAll_Filters(t *testing.T) {
	repo, _ := newWidgetRepo(t)
	ctx := context.Background()

	rows := []struct {
		code   string
		name   string
		kind   string
		price  int64
		owner  uint
		active bool
	}{
		{"A", "Alpha Acme", "TOOL", 5, 1, true},
		{"B", "Bravo", "TOOL", 15, 2, true},
		{"C", "Charlie ACME", "PART", 25, 1, false},
		{"D", "Delta", "PART", 35, 2, true},
	}
	for _, r := range rows {
		w := &widget{Code: r.code, Name: r.name, Kind: r.kind, Price: decimal.NewFromInt(r.price), OwnerID: r.owner}
		w.IsActive = r.active
		if err := repo.Create(ctx, w); err != nil {
			t.Fatalf("Create %s: %v", r.code, err)
		}
	}

	ten := decimal.NewFromInt(10)
	thirty := decimal.NewFromInt(30)

	tests := []struct {
		name   string
		filter domain.Filter
		want   []string
	}{
		{"no filter", domain.Filter{}, []string{"A", "B", "C", "D"}},
		{"case-insensitive search", domain.Filter{SearchTerm: "acme"}, []string{"A", "C"}},
		{"search matches code column", domain.Filter{SearchTerm: "d"}, []string{"D"}},
		{"active only", domain.Filter{IsActive: boolPtr(true)}, []string{"A", "B", "D"}},
		{"inactive only", domain.Filter{IsActive: boolPtr(false)}, []string{"C"}},
		{"equality filter", domain.Filter{Equals: map[string]string{"kind": "PART"}}, []string{"C", "D"}},
		{"integer filter", domain.Filter{Equals: map[string]string{"ownerId": "2"}}, []string{"B", "D"}},
		{"unknown equality ignored", domain.Filter{Equals: map[string]string{"color": "red"}}, []string{"A", "B", "C", "D"}},
		{"range", domain.Filter{Ranges: map[string]domain.Range{"price": {Min: &ten, Max: &thirty}}}, []string{"B", "C"}},
		{"min only", domain.Filter{Ranges: map[string]domain.Range{"price": {Min: &thirty}}}, []string{"D"}},
		{"AND-combined", domain.Filter{SearchTerm: "acme", IsActive: boolPtr(true), Equals: map[string]string{"kind": "TOOL"}}, []string{"A"}},
		{"sort by name desc", domain.Filter{SortBy: "name", SortOrder: domain.SortDesc}, []string{"D", "C", "B", "A"}},
		{"sort by price asc", domain.Filter{SortBy: "price"}, []string{"A", "B", "C", "D"}},
		{"unknown sort falls back to id", domain.Filter{SortBy: "secret", SortOrder: domain.SortDesc}, []string{"A", "B", "C", "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.GetAll(ctx, tt.filter)
			if err != nil {
				t.Fatalf("GetAll: %v", err)
			}
			if page.TotalCount != int64(len(tt.want)) {
				t.Errorf("TotalCount = %d; want %d", page.TotalCount, len(tt.want))
			}
			var got []string
			for _, w := range page.Items {
				got = append(got, w.Code)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("codes = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestGetAll_InvalidIntegerFilter(t *testing.T) {
	repo, _ := newWidgetRepo(t)

	_, err := repo.GetAll(context.Background(), domain.Filter{Equals: map[string]string{"ownerId": "abc"}})
	if !domain.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGetAll_PageInvariants(t *testing.T) {
	repo, _ := newWidgetRepo(t)
	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		seedWidget(t, repo, codeOf(i), fmt.Sprintf("item %d", i))
	}

	for _, size := range []int{1, 2, 3, 7, 10} {
		for pageNo := 1; pageNo <= 8; pageNo++ {
			page, err := repo.GetAll(ctx, domain.Filter{PageNumber: pageNo, PageSize: size})
			if err != nil {
				t.Fatalf("GetAll: %v", err)
			}
			if len(page.Items) > size {
				t.Errorf("size %d page %d: %d items exceed page size", size, pageNo, len(page.Items))
			}
			if page.TotalCount != 7 {
				t.Errorf("size %d page %d: TotalCount = %d; want 7", size, pageNo, page.TotalCount)
			}
			wantPages := (7 + size - 1) / size
			if page.TotalPages != wantPages {
				t.Errorf("size %d: TotalPages = %d; want %d", size, page.TotalPages, wantPages)
			}
			if page.HasNextPage != (pageNo < wantPages) || page.HasPreviousPage != (pageNo > 1) {
				t.Errorf("size %d page %d: next=%v prev=%v", size, pageNo, page.HasNextPage, page.HasPreviousPage)
			}
		}
	}
}

func TestGetAll_DefaultsPaging(t *testing.T) {
	repo, _ := newWidgetRepo(t)
	for i := 1; i <= 25; i++ {
		seedWidget(t, repo, codeOf(i), "w")
	}

	page, err := repo.GetAll(context.Background(), domain.Filter{})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if page.PageNumber != 1 || page.PageSize != 20 || len(page.Items) != 20 {
		t.Errorf("got page %d size %d with %d items; want 1/20/20", page.PageNumber, page.PageSize, len(page.Items))
	}
}

func TestGetAll_ListRowsOmitChildren(t *testing.T) {
	repo, _ := newWidgetRepo(t)
	w := &widget{Code: "P", Name: "parent", Parts: []widgetPart{{Label: "x"}}}
	if err := repo.Create(context.Background(), w); err != nil {
		t.Fatalf("Create: %v", err)
	}

	page, err := repo.GetAll(context.Background(), domain.Filter{})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(page.Items) != 1 || len(page.Items[0].Parts) != 0 {
		t.Errorf("expected one row without parts, got %+v", page.Items)
	}
}

func TestUpdate(t *testing.T) {
	repo, clock := newWidgetRepo(t)
	ctx := context.Background()
	w := seedWidget(t, repo, "U-1", "before")
	w.CreatedBy = nil

	clock.Advance(time.Hour)
	w.Name = "after"
	w.IsActive = false
	w.CreatedAt = time.Time{}
	w.CreatedBy = uintPtr(99)
	w.UpdatedBy = uintPtr(5)
	if err := repo.Update(ctx, w); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, w.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v, %v", got, err)
	}
	if got.Name != "after" {
		t.Errorf("Name = %q; want after", got.Name)
	}
	if got.IsActive {
		t.Error("expected IsActive=false to be written")
	}
	if !got.CreatedAt.Equal(testEpoch) {
		t.Errorf("CreatedAt changed to %v", got.CreatedAt)
	}
	if got.CreatedBy != nil {
		t.Errorf("CreatedBy changed to %v", *got.CreatedBy)
	}
	if got.UpdatedAt == nil || !got.UpdatedAt.Equal(testEpoch.Add(time.Hour)) {
		t.Errorf("UpdatedAt = %v; want %v", got.UpdatedAt, testEpoch.Add(time.Hour))
	}
	if got.UpdatedBy == nil || *got.UpdatedBy != 5 {
		t.Errorf("UpdatedBy = %v; want 5", got.UpdatedBy)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, _ := newWidgetRepo(t)

	w := &widget{Code: "GHOST", Name: "ghost"}
	w.ID = 404
	if err := repo.Update(context.Background(), w); !domain.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestSoftDelete(t *testing.T) {
	repo, clock := newWidgetRepo(t)
	ctx := context.Background()
	w := seedWidget(t, repo, "S-1", "doomed")
	seedWidget(t, repo, "S-2", "survivor")

	clock.Advance(time.Minute)
	if err := repo.Delete(ctx, w.ID, 7); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := repo.GetByID(ctx, w.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("expected soft-deleted record to be hidden, got %+v", got)
	}
	if exists, _ := repo.Exists(ctx, w.ID); exists {
		t.Error("Exists should be false after soft delete")
	}

	page, err := repo.GetAll(ctx, domain.Filter{})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if page.TotalCount != 1 || page.Items[0].Code != "S-2" {
		t.Errorf("default list should exclude deleted rows, got %+v", page.Items)
	}

	page, err = repo.GetAll(ctx, domain.Filter{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if page.TotalCount != 2 {
		t.Errorf("includeDeleted list: TotalCount = %d; want 2", page.TotalCount)
	}
	var deleted widget
	for _, item := range page.Items {
		if item.ID == w.ID {
			deleted = item
		}
	}
	if !deleted.IsDeleted || deleted.UpdatedBy == nil || *deleted.UpdatedBy != 7 {
		t.Errorf("deleted row = %+v; want IsDeleted and UpdatedBy=7", deleted.AuditedEntity)
	}

	if err := repo.Delete(ctx, w.ID, 7); !domain.IsNotFound(err) {
		t.Errorf("second Delete: expected NotFound, got %v", err)
	}
}

func TestSoftDelete_KeyReusable(t *testing.T) {
	repo, _ := newWidgetRepo(t)
	ctx := context.Background()
	w := seedWidget(t, repo, "REUSE", "first")

	if err := repo.Delete(ctx, w.ID, 0); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if exists, err := repo.ExistsByNaturalKey(ctx, "REUSE", nil); err != nil || exists {
		t.Fatalf("ExistsByNaturalKey after delete = %v, %v; want false", exists, err)
	}
	again := seedWidget(t, repo, "REUSE", "second")
	if again.ID == w.ID {
		t.Error("expected a new id for the recreated record")
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, _ := newWidgetRepo(t)
	if err := repo.Delete(context.Background(), 12345, 1); !domain.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestHardDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository[gadget](db, gadgetSpec, &pkg.FixedClock{T: testEpoch})
	ctx := context.Background()

	g := &gadget{Code: "G-1", Label: "lookup"}
	if err := repo.Create(ctx, g); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, g.ID, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var count int64
	db.Model(&gadget{}).Where("id = ?", g.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected row to be removed, %d remain", count)
	}
	if err := repo.Delete(ctx, g.ID, 1); !domain.IsNotFound(err) {
		t.Errorf("second Delete: expected NotFound, got %v", err)
	}
}

func TestHardDelete_RemovesChildren(t *testing.T) {
	db := setupTestDB(t)
	spec := widgetSpec
	spec.Delete = HardDelete
	repo := NewRepository[widget](db, spec, nil)
	ctx := context.Background()

	w := &widget{Code: "H", Name: "parent", Parts: []widgetPart{{Label: "a"}, {Label: "b"}}}
	if err := repo.Create(ctx, w); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, w.ID, 0); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var parts int64
	db.Model(&widgetPart{}).Where("widget_id = ?", w.ID).Count(&parts)
	if parts != 0 {
		t.Errorf("expected children removed, %d remain", parts)
	}
}

func TestExistsByNaturalKey_ExcludeID(t *testing.T) {
	repo, _ := newWidgetRepo(t)
	ctx := context.Background()
	a := seedWidget(t, repo, "K-A", "a")
	b := seedWidget(t, repo, "K-B", "b")

	tests := []struct {
		name    string
		key     string
		exclude *uint
		want    bool
	}{
		{"create sees existing key", "K-A", nil, true},
		{"update excludes own record", "K-A", uintPtr(a.ID), false},
		{"update sees other record", "K-A", uintPtr(b.ID), true},
		{"unused key", "K-Z", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ExistsByNaturalKey(ctx, tt.key, tt.exclude)
			if err != nil {
				t.Fatalf("ExistsByNaturalKey: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExistsByNaturalKey(%q) = %v; want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestWithTx_RollsBack(t *testing.T) {
	repo, _ := newWidgetRepo(t)
	ctx := context.Background()

	err := pkg.WithTx(ctx, repo.DB(), func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Create(ctx, &widget{Code: "TX", Name: "tx"}); err != nil {
			return err
		}
		return domain.ErrValidation
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected the callback error, got %v", err)
	}
	if exists, _ := repo.ExistsByNaturalKey(ctx, "TX", nil); exists {
		t.Error("expected insert to be rolled back")
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"unique", fmt.Errorf("UNIQUE constraint failed: widgets.code"), domain.IsConstraintViolation},
		{"postgres duplicate", fmt.Errorf("ERROR: duplicate key value violates unique constraint"), domain.IsConstraintViolation},
		{"foreign key", fmt.Errorf("FOREIGN KEY constraint failed"), domain.IsConstraintViolation},
		{"other", fmt.Errorf("disk I/O error"), domain.IsInternal},
		{"app error passes through", domain.ErrValidation, domain.IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapError("widget", tt.err); !tt.check(got) {
				t.Errorf("MapError(%v) = %v", tt.err, got)
			}
		})
	}
	if MapError("widget", nil) != nil {
		t.Error("MapError(nil) should be nil")
	}
}
