package backoffice_test

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestModuleDependencies_Present(t *testing.T) {
	for _, module := range []string{
		"github.com/gin-gonic/gin",
		"gorm.io/gorm",
		"github.com/glebarez/sqlite",
		"gorm.io/driver/postgres",
		"gorm.io/datatypes",
		"github.com/shopspring/decimal",
		"github.com/golang-jwt/jwt/v5",
		"golang.org/x/crypto",
		"github.com/go-resty/resty/v2",
		"github.com/urfave/cli/v2",
		"golang.org/x/sync",
	} {
		t.Run(module, func(t *testing.T) {
			testModulePresence(t, module)
		})
	}
}

func TestSources_NoRetiredImports(t *testing.T) {
	retired := []string{
		"github.com/simp-lee/gobase/",
		"github.com/simp-lee/pagination",
		"github.com/simp-lee/jwt",
		"github.com/simp-lee/rbac",
		"github.com/simp-lee/ginx",
	}

	t.Run("happy_repo_has_no_retired_import", func(t *testing.T) {
		matches, err := findImports(".", retired)
		if err != nil {
			t.Fatalf("scan repository: %v", err)
		}
		if len(matches) != 0 {
			t.Fatalf("expected no retired imports, found in: %v", matches)
		}
	})

	t.Run("error_fixture_with_retired_import_is_detected", func(t *testing.T) {
		fixture := `package pkg
import "github.com/simp-lee/pagination"`
		if !importsAny(fixture, retired) {
			t.Fatal("expected retired import to be detected in fixture")
		}
	})
}

func testModulePresence(t *testing.T, module string) {
	t.Helper()

	goMod, err := os.ReadFile("go.mod")
	if err != nil {
		t.Fatalf("read go.mod: %v", err)
	}
	if !moduleRequired(string(goMod), module) {
		t.Fatalf("expected module %q to be present in go.mod", module)
	}

	fixture := `module example.com/demo

go 1.25.0

require (
	example.com/other v1.0.0
)`
	if moduleRequired(fixture, module) {
		t.Fatalf("expected fixture to not contain module %q", module)
	}
}

func moduleRequired(goModContent, module string) bool {
	re := regexp.MustCompile(`(?m)^\s*(require\s+)?` + regexp.QuoteMeta(module) + `\s+v\S+`)
	return re.MatchString(goModContent)
}

func findImports(root string, prefixes []string) ([]string, error) {
	matches := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || path == "dependencies_acceptance_test.go" {
			return nil
		}
		b, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		if importsAny(string(b), prefixes) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func importsAny(content string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.Contains(content, `"`+p) {
			return true
		}
	}
	return false
}
