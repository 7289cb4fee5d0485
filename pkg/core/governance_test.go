//go:build governance

package core_test

import (
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/litegate"

// =============================================================================
// COHESION TEST - Core types must be shared by multiple packages
// =============================================================================

// TestGovernance_CoreCohesion verifies that types in pkg/core are genuinely
// shared across multiple packages. Single-use types should be moved to their
// sole consumer to maintain cohesion.
func TestGovernance_CoreCohesion(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	// Find pkg/core and collect exported types
	coreDefs := make(map[types.Object]string)
	var corePkg *packages.Package

	for _, p := range pkgs {
		if p.PkgPath == modulePath+"/pkg/core" {
			corePkg = p
			scope := p.Types.Scope()
			for _, name := range scope.Names() {
				obj := scope.Lookup(name)
				if _, isType := obj.(*types.TypeName); isType && obj.Exported() {
					coreDefs[obj] = name
				}
			}
			break
		}
	}

	if corePkg == nil {
		t.Fatal("Could not find pkg/core")
	}

	// Count usages: CoreTypeName -> set of importing packages
	usageMap := make(map[string]map[string]bool)
	for _, name := range coreDefs {
		usageMap[name] = make(map[string]bool)
	}

	base := modulePath + "/"

	for _, p := range pkgs {
		if p.PkgPath == corePkg.PkgPath || strings.HasSuffix(p.PkgPath, "_test") {
			continue
		}
		if p.TypesInfo == nil {
			continue
		}

		for _, info := range p.TypesInfo.Uses {
			if name, exists := coreDefs[info]; exists {
				importer := strings.TrimPrefix(p.PkgPath, base)
				usageMap[name][importer] = true
			}
		}
	}

	for typeName, importers := range usageMap {
		if len(importers) == 0 {
			t.Logf("WARNING: Unused Core Type: %s (consider deleting)", typeName)
		} else if len(importers) == 1 {
			var user string
			for k := range importers {
				user = k
			}
			t.Errorf("COHESION VIOLATION: 'core.%s' is used ONLY by '%s'.\n"+
				"   Fix: Move type from pkg/core to %s.",
				typeName, user, user)
		}
	}
}

// =============================================================================
// LAYERING TEST - Dependencies point from transport towards core
// =============================================================================

// TestGovernance_Layering ensures lower layers never import higher ones:
// pkg/* never imports internal/*, and the gateway and catalog never import
// the HTTP or CLI layers.
func TestGovernance_Layering(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	forbidden := map[string][]string{
		modulePath + "/pkg/":              {modulePath + "/internal/"},
		modulePath + "/internal/gateway":  {modulePath + "/internal/api", modulePath + "/internal/cli", modulePath + "/internal/metrics"},
		modulePath + "/internal/catalog":  {modulePath + "/internal/api", modulePath + "/internal/cli", modulePath + "/internal/gateway"},
		modulePath + "/internal/metrics":  {modulePath + "/internal/api", modulePath + "/internal/cli"},
		modulePath + "/internal/api":      {modulePath + "/internal/cli"},
		modulePath + "/internal/testutil": {modulePath + "/internal/api", modulePath + "/internal/cli"},
	}

	for _, pkg := range pkgs {
		for prefix, denied := range forbidden {
			if !strings.HasPrefix(pkg.PkgPath, prefix) {
				continue
			}
			for imp := range pkg.Imports {
				for _, d := range denied {
					if strings.HasPrefix(imp, d) {
						t.Errorf("LAYERING VIOLATION: '%s' imports '%s'.",
							strings.TrimPrefix(pkg.PkgPath, modulePath+"/"),
							strings.TrimPrefix(imp, modulePath+"/"))
					}
				}
			}
		}
	}
}
