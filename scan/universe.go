package scan

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"

	jtdgen "github.com/reoring/jtdgen"
)

// Config controls package loading.
type Config struct {
	// Dir is the directory patterns are resolved in. Empty means the
	// current directory.
	Dir string
	// BuildFlags are passed to the build system, e.g. -tags=integration.
	BuildFlags []string
	Logger     *slog.Logger
}

// Root is a type marked +jtd:derive.
type Root struct {
	Names   jtdgen.Names
	Pos     token.Position
	Typedef jtdgen.Typedef
}

type decl struct {
	obj     *types.TypeName
	markers markers
	doc     string
	pos     token.Position
}

// Universe is the set of loaded packages plus everything derived from
// their declarations. It is read-only after Load and safe for concurrent
// use, so one Universe can feed several Generators.
type Universe struct {
	logger *slog.Logger
	pkgs   []*packages.Package
	decls  map[*types.TypeName]*decl
	roots  []Root

	// variants of every marked interface, in declaration order
	variants map[*types.TypeName][]*types.TypeName

	mu    sync.Mutex
	enums map[*types.TypeName][]string
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports | packages.NeedModule

// Load loads the packages matching patterns and collects their marked
// types. Package errors fail the load; questionable markers are reported
// through the Diag.
func Load(ctx context.Context, cfg Config, patterns ...string) (*Universe, Diag, error) {
	d := &simpleDiag{}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	pcfg := &packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        cfg.Dir,
		BuildFlags: cfg.BuildFlags,
	}
	pkgs, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, d, fmt.Errorf("scan: loading %s: %w", strings.Join(patterns, " "), err)
	}
	var errs []error
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, fmt.Errorf("scan: %s: %s", p.PkgPath, e.Msg))
		}
	})
	if len(errs) > 0 {
		return nil, d, errors.Join(errs...)
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	u := &Universe{
		logger:   logger,
		pkgs:     pkgs,
		decls:    map[*types.TypeName]*decl{},
		variants: map[*types.TypeName][]*types.TypeName{},
		enums:    map[*types.TypeName][]string{},
	}
	var ordered []*decl
	for _, p := range pkgs {
		ordered = append(ordered, u.registerTypes(p)...)
		logger.Debug("package loaded", "package", p.PkgPath, "files", len(p.Syntax))
	}
	u.collectVariants(ordered, d)
	u.collectRoots(ordered, d)
	return u, d, nil
}

// registerTypes records every package-level type declaration of p.
func (u *Universe) registerTypes(p *packages.Package) []*decl {
	var out []*decl
	for _, file := range p.Syntax {
		for _, node := range file.Decls {
			gd, ok := node.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				obj, ok := p.TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}
				m, doc := readDoc(docOf(ts, gd))
				dc := &decl{
					obj:     obj,
					markers: m,
					doc:     doc,
					pos:     p.Fset.Position(ts.Pos()),
				}
				u.decls[obj] = dc
				out = append(out, dc)
			}
		}
	}
	return out
}

// collectVariants finds, for every interface marked +jtd:derive, the
// types of its package that implement it.
func (u *Universe) collectVariants(ordered []*decl, d *simpleDiag) {
	for _, dc := range ordered {
		if !dc.markers.derive {
			continue
		}
		iface, ok := dc.obj.Type().Underlying().(*types.Interface)
		if !ok {
			continue
		}
		if iface.Empty() {
			d.warnf("%s: interface %s has no methods; it cannot select variants", dc.pos, dc.obj.Name())
			u.variants[dc.obj] = nil
			continue
		}
		var vs []*types.TypeName
		for _, cand := range ordered {
			if cand.obj.Pkg() != dc.obj.Pkg() || cand.obj == dc.obj {
				continue
			}
			t := cand.obj.Type()
			if _, isIface := t.Underlying().(*types.Interface); isIface {
				continue
			}
			if n, ok := t.(*types.Named); ok && n.TypeParams().Len() > 0 {
				continue
			}
			if types.Implements(t, iface) || types.Implements(types.NewPointer(t), iface) {
				vs = append(vs, cand.obj)
			}
		}
		u.variants[dc.obj] = vs
		u.logger.Debug("union variants", "union", dc.obj.Name(), "count", len(vs))
	}
}

func (u *Universe) collectRoots(ordered []*decl, d *simpleDiag) {
	for _, dc := range ordered {
		if dc.markers.variant != "" && !u.isVariant(dc.obj) {
			d.warnf("%s: %s has a variant marker but implements no derived interface", dc.pos, dc.obj.Name())
		}
		if !dc.markers.derive {
			if len(dc.markers.directive) > 0 {
				d.warnf("%s: %s has %s markers but no %s; they are ignored", dc.pos, dc.obj.Name(), MarkerPrefix, MarkerDerive)
			}
			continue
		}
		if dc.obj.IsAlias() {
			d.warnf("%s: alias %s cannot be derived; mark the aliased type", dc.pos, dc.obj.Name())
			continue
		}
		if n, ok := dc.obj.Type().(*types.Named); ok && n.TypeParams().Len() > 0 {
			d.warnf("%s: generic type %s is only derived through its instantiations", dc.pos, dc.obj.Name())
			continue
		}
		td := u.TypeOf(dc.obj.Type())
		u.roots = append(u.roots, Root{Names: td.Names(), Pos: dc.pos, Typedef: td})
		u.logger.Debug("root found", "type", td.Names().Key())
	}
}

func (u *Universe) isVariant(obj *types.TypeName) bool {
	for _, vs := range u.variants {
		for _, v := range vs {
			if v == obj {
				return true
			}
		}
	}
	return false
}

// Roots returns the marked types in package path order, then source order.
func (u *Universe) Roots() []Root { return append([]Root(nil), u.roots...) }

// Lookup finds a root by short or long name.
func (u *Universe) Lookup(name string) (Root, bool) {
	for _, r := range u.roots {
		if r.Names.Key() == name || r.Names.Render(jtdgen.NamingShort) == name {
			return r, true
		}
	}
	return Root{}, false
}

// Packages returns the import paths of the loaded packages.
func (u *Universe) Packages() []string {
	out := make([]string, len(u.pkgs))
	for i, p := range u.pkgs {
		out[i] = p.PkgPath
	}
	return out
}

// enumValues returns the values of the typed string constants declared
// for obj in its package, in source order.
func (u *Universe) enumValues(obj *types.TypeName) []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if vs, ok := u.enums[obj]; ok {
		return vs
	}
	var consts []*types.Const
	if pkg := obj.Pkg(); pkg != nil {
		scope := pkg.Scope()
		for _, name := range scope.Names() {
			c, ok := scope.Lookup(name).(*types.Const)
			if ok && types.Identical(c.Type(), obj.Type()) {
				consts = append(consts, c)
			}
		}
	}
	sort.SliceStable(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })
	vs := make([]string, 0, len(consts))
	for _, c := range consts {
		vs = append(vs, constantString(c))
	}
	u.enums[obj] = vs
	return vs
}
