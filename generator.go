package jtdgen

import (
	"log/slog"
	"sync"

	"github.com/reoring/jtdgen/jtd"
)

// Option configures a Generator.
type Option func(*Generator)

// WithNaming selects short or long definition names. Short is the default.
func WithNaming(n Naming) Option { return func(g *Generator) { g.naming = n } }

// WithNamer renders definition names with a custom function instead of a
// Naming.
func WithNamer(f func(Names) string) Option { return func(g *Generator) { g.namer = f } }

// WithLogger sets the logger used for registry events (debug level).
func WithLogger(l *slog.Logger) Option { return func(g *Generator) { g.logger = l } }

// Generator is the schema registry of one derivation session. Referenceable
// types are synthesized at most once per identity and replaced by refs at
// every use site; a type that is requested again while its own synthesis is
// still running gets a ref too, which is what terminates recursive types.
//
// The lock guards the bookkeeping only and is never held during synthesis,
// so re-entrant SubSchema calls are fine. Concurrent derivations of the same
// type on one Generator are not supported; use one Generator per session.
type Generator struct {
	naming Naming
	namer  func(Names) string
	logger *slog.Logger

	mu     sync.Mutex
	defs   *jtd.Members      // definition name -> schema, nil while pending
	owners map[string]string // definition name -> identity key
	refs   map[string]int    // definition name -> refs handed out
}

// NewGenerator returns an empty session.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		logger: slog.Default(),
		defs:   jtd.NewMembers(),
		owners: map[string]string{},
		refs:   map[string]int{},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// DefinitionName renders the definition name g uses for names.
func (g *Generator) DefinitionName(names Names) string {
	if g.namer != nil {
		return g.namer(names)
	}
	return names.Render(g.naming)
}

// CheckNames fails with ErrNameCollision when two distinct identities among
// names render to the same definition name. Repeated identities are fine.
func (g *Generator) CheckNames(names ...Names) error {
	owners := make(map[string]string, len(names))
	var errs Errors
	for _, n := range names {
		key, def := n.Key(), g.DefinitionName(n)
		if owner, ok := owners[def]; ok && owner != key {
			errs = append(errs, newError(KindNameCollision, key,
				"definition name %q is already used by %s", def, owner))
			continue
		}
		owners[def] = key
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SubSchema returns the schema of t for use inside another schema: inlined
// when t is not referenceable, otherwise a ref to its definition.
func (g *Generator) SubSchema(t Typedef) (*jtd.Schema, error) {
	if !t.Referenceable() {
		return t.Schema(g)
	}
	names := t.Names()
	def, known, err := g.claim(names)
	if err != nil {
		return nil, err
	}
	if known {
		return ref(def), nil
	}

	s, err := t.Schema(g)
	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.rollback(def)
		return nil, err
	}
	g.defs.Set(def, s)
	g.refs[def]++
	g.logger.Debug("definition registered", "definition", def, "type", names.Key())
	return ref(def), nil
}

// RootSchema returns the top-level schema of t with every definition of the
// session attached. The root itself is inlined; it also becomes a definition
// only when something inside refers back to it.
func (g *Generator) RootSchema(t Typedef) (*jtd.Schema, error) {
	if !t.Referenceable() {
		s, err := t.Schema(g)
		if err != nil {
			return nil, err
		}
		return g.withDefinitions(s), nil
	}

	names := t.Names()
	def, known, err := g.claim(names)
	if err != nil {
		return nil, err
	}
	if known {
		// Already derived in this session; reuse the stored schema.
		g.mu.Lock()
		s, _ := g.defs.Get(def)
		g.mu.Unlock()
		if s == nil {
			// Requested from inside its own synthesis.
			return ref(def), nil
		}
		return g.withDefinitions(s), nil
	}

	s, err := t.Schema(g)
	g.mu.Lock()
	if err != nil {
		g.rollback(def)
		g.mu.Unlock()
		return nil, err
	}
	if g.refs[def] > 0 {
		g.defs.Set(def, s)
		g.logger.Debug("recursive root kept as definition", "definition", def)
	} else {
		g.defs.Delete(def)
		delete(g.owners, def)
	}
	g.mu.Unlock()
	return g.withDefinitions(s), nil
}

// Definitions returns a copy of the definitions registered so far.
func (g *Generator) Definitions() *jtd.Members {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := jtd.NewMembers()
	for p := g.defs.Oldest(); p != nil; p = p.Next() {
		if p.Value != nil {
			out.Set(p.Key, p.Value)
		}
	}
	return out
}

// claim reserves the definition name for names. known is true when the
// identity was already registered or is being synthesized right now, in
// which case the caller must only hand out a ref.
func (g *Generator) claim(names Names) (def string, known bool, err error) {
	key := names.Key()
	def = g.DefinitionName(names)

	g.mu.Lock()
	defer g.mu.Unlock()
	if owner, ok := g.owners[def]; ok {
		if owner != key {
			return "", false, newError(KindNameCollision, key,
				"definition name %q is already used by %s", def, owner)
		}
		g.refs[def]++
		g.logger.Debug("reference substituted", "definition", def)
		return def, true, nil
	}
	g.owners[def] = key
	g.defs.Set(def, nil)
	return def, false, nil
}

// rollback forgets def and every definition claimed after it, since those
// were registered while def was being synthesized and may refer to it.
// Callers hold g.mu.
func (g *Generator) rollback(def string) {
	pair := g.defs.GetPair(def)
	var drop []string
	for ; pair != nil; pair = pair.Next() {
		drop = append(drop, pair.Key)
	}
	for _, k := range drop {
		g.defs.Delete(k)
		delete(g.owners, k)
		delete(g.refs, k)
	}
}

func (g *Generator) withDefinitions(s *jtd.Schema) *jtd.Schema {
	root := *s
	defs := g.Definitions()
	if defs.Len() > 0 {
		root.Definitions = defs
	} else {
		root.Definitions = nil
	}
	return &root
}

func ref(def string) *jtd.Schema { return jtd.New(jtd.Ref{Definition: def}) }

// Generate derives the root schema of t in a fresh session.
func Generate(t Typedef, opts ...Option) (*jtd.Schema, error) {
	return NewGenerator(opts...).RootSchema(t)
}
