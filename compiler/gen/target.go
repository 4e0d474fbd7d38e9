package gen

import (
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// checkTarget reports the types that cannot be generated into the target
// directory. Generated code names its model unqualified and declares the
// model's package, so the target must hold a package of the same name
// declaring the model type, e.g. a copy of the model package.
func (g *Generator) checkTarget(ts []*Type) []error {
	if g.cfg.Target == "" || len(ts) == 0 {
		return nil
	}
	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:  g.cfg.Target,
	}, ".")
	if err != nil {
		return []error{NewConfigError("Target", g.cfg.Target, fmt.Sprintf("loading target package: %v", err))}
	}
	var scope *types.Scope
	name := ""
	if len(pkgs) == 1 && pkgs[0].Types != nil {
		scope, name = pkgs[0].Types.Scope(), pkgs[0].Name
	}
	var errs []error
	for _, t := range ts {
		if scope != nil && name == t.PkgName {
			if _, ok := scope.Lookup(t.Name).(*types.TypeName); ok {
				continue
			}
		}
		errs = append(errs, NewConfigError("Target", g.cfg.Target,
			fmt.Sprintf("no type %s of package %s declared in the target directory", t.Name, t.PkgName)))
	}
	return errs
}
