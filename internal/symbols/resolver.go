package symbols

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/danielchristiancazares/forgegate/internal/scan"
	"github.com/danielchristiancazares/forgegate/internal/workspace"
)

// UnknownModuleError reports a path whose first segment is not a workspace
// module.
type UnknownModuleError struct {
	Path   string
	Module string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("path '%s': unknown module '%s'", e.Path, e.Module)
}

// UnresolvedSymbolError reports a path that names a known module but whose
// symbol has no match in the search scope.
type UnresolvedSymbolError struct {
	Path   string
	Symbol string
	Scope  string
}

func (e *UnresolvedSymbolError) Error() string {
	return fmt.Sprintf("path '%s': symbol '%s' not found in %s", e.Path, e.Symbol, e.Scope)
}

// Evidence is the source location that satisfied a resolution.
type Evidence struct {
	File string
	Line int
}

// Resolver resolves paths against one workspace through the run's cache.
type Resolver struct {
	ws    *workspace.Workspace
	cache *workspace.Cache
}

// NewResolver creates a resolver over the given workspace and cache.
func NewResolver(ws *workspace.Workspace, cache *workspace.Cache) *Resolver {
	return &Resolver{ws: ws, cache: cache}
}

// parsed is the decomposition of a dotted path.
type parsed struct {
	module   *workspace.Module
	middle   []string // lowercase narrowing segments
	typeName string   // set for Type::method pairs
	symbol   string   // final symbol, wildcard suffix intact
}

func (r *Resolver) parse(path string) (parsed, error) {
	segs := strings.Split(path, "::")
	mod := r.ws.Module(segs[0])
	if mod == nil {
		return parsed{}, &UnknownModuleError{Path: path, Module: segs[0]}
	}
	rest := segs[1:]
	if len(rest) == 0 {
		return parsed{module: mod}, nil
	}

	p := parsed{module: mod}
	last := rest[len(rest)-1]
	if len(rest) >= 2 && capitalized(rest[len(rest)-2]) && !capitalized(last) {
		p.typeName = rest[len(rest)-2]
		p.symbol = last
		p.middle = rest[:len(rest)-2]
	} else {
		p.symbol = last
		p.middle = rest[:len(rest)-1]
	}
	return p, nil
}

// scope returns the files to search: a single narrowed file when the middle
// segments name one that exists, otherwise the whole module.
func (r *Resolver) scope(p parsed) ([]string, string) {
	if len(p.middle) > 0 {
		candidate := p.module.Dir + "/src/" + strings.Join(p.middle, "/") + ".rs"
		for _, f := range p.module.Files {
			if f == candidate {
				return []string{candidate}, candidate
			}
		}
	}
	return p.module.Files, "module '" + p.module.Name + "'"
}

// Resolve checks that a path has source evidence and returns its location.
//
// Wildcard resolution keeps the loose legacy behavior: any identifier sharing
// the prefix anywhere in the search scope satisfies the path, without
// confirming it belongs to the named type.
func (r *Resolver) Resolve(path string) (Evidence, error) {
	p, err := r.parse(path)
	if err != nil {
		return Evidence{}, err
	}
	if p.symbol == "" {
		return Evidence{}, &UnresolvedSymbolError{Path: path, Symbol: "", Scope: "module '" + p.module.Name + "'"}
	}
	files, scopeName := r.scope(p)

	if prefix, ok := strings.CutSuffix(p.symbol, "*"); ok {
		if ev, found, err := r.wordMatch(files, prefix, true); err != nil || found {
			return ev, err
		}
		return Evidence{}, &UnresolvedSymbolError{Path: path, Symbol: p.symbol, Scope: scopeName}
	}

	if p.typeName != "" {
		if ev, _, found, err := r.method(files, p.typeName, p.symbol); err != nil || found {
			return ev, err
		}
		return Evidence{}, &UnresolvedSymbolError{Path: path, Symbol: p.typeName + "::" + p.symbol, Scope: scopeName}
	}

	if capitalized(p.symbol) {
		if ev, _, found, err := r.typeDecl(files, p.symbol); err != nil || found {
			return ev, err
		}
	}
	if ev, found, err := r.wordMatch(files, p.symbol, false); err != nil || found {
		return ev, err
	}
	return Evidence{}, &UnresolvedSymbolError{Path: path, Symbol: p.symbol, Scope: scopeName}
}

// ResolveModule checks a module path: the first segment must be a workspace
// module and any remaining segments must name an existing file or directory
// under its source root.
func (r *Resolver) ResolveModule(path string) error {
	segs := strings.Split(path, "::")
	mod := r.ws.Module(segs[0])
	if mod == nil {
		return &UnknownModuleError{Path: path, Module: segs[0]}
	}
	if len(segs) == 1 {
		return nil
	}
	rel := mod.Dir + "/src/" + strings.Join(segs[1:], "/")
	for _, probe := range []string{rel + ".rs", rel + "/mod.rs"} {
		for _, f := range mod.Files {
			if f == probe {
				return nil
			}
		}
	}
	if info, err := os.Stat(filepath.Join(r.ws.Root, filepath.FromSlash(rel))); err == nil && info.IsDir() {
		return nil
	}
	return &UnresolvedSymbolError{Path: path, Symbol: segs[len(segs)-1], Scope: "module '" + mod.Name + "'"}
}

// ConstructorVisibility derives the actual visibility rung of a constructor
// path. Capitalized bare symbols resolve as type declarations and use the
// type's own rung. Type::method pairs resolve via inherent blocks first; a
// method found only in an interface-implementation block is always public,
// since interface-bound visibility cannot be restricted below the interface's
// own exposure.
func (r *Resolver) ConstructorVisibility(path string) (scan.Visibility, Evidence, error) {
	p, err := r.parse(path)
	if err != nil {
		return scan.VisibilityPrivate, Evidence{}, err
	}
	files, scopeName := r.scope(p)

	if p.typeName != "" {
		ev, vis, found, err := r.method(files, p.typeName, p.symbol)
		if err != nil {
			return scan.VisibilityPrivate, Evidence{}, err
		}
		if found {
			return vis, ev, nil
		}
		return scan.VisibilityPrivate, Evidence{}, &UnresolvedSymbolError{Path: path, Symbol: p.typeName + "::" + p.symbol, Scope: scopeName}
	}

	if capitalized(p.symbol) {
		ev, vis, found, err := r.typeDecl(files, p.symbol)
		if err != nil {
			return scan.VisibilityPrivate, Evidence{}, err
		}
		if found {
			return vis, ev, nil
		}
	} else {
		ev, vis, found, err := r.fnDecl(files, p.symbol)
		if err != nil {
			return scan.VisibilityPrivate, Evidence{}, err
		}
		if found {
			return vis, ev, nil
		}
	}
	return scan.VisibilityPrivate, Evidence{}, &UnresolvedSymbolError{Path: path, Symbol: p.symbol, Scope: scopeName}
}

// TypeDeclaration returns the aggregate or enumeration declaration a
// capitalized path names, together with its file.
func (r *Resolver) TypeDeclaration(path string) (*scan.Declaration, *scan.File, error) {
	p, err := r.parse(path)
	if err != nil {
		return nil, nil, err
	}
	files, scopeName := r.scope(p)
	for _, rel := range files {
		f, err := r.cache.File(rel)
		if err != nil {
			return nil, nil, err
		}
		if d := f.TypeDecl(p.symbol); d != nil {
			return d, f, nil
		}
	}
	return nil, nil, &UnresolvedSymbolError{Path: path, Symbol: p.symbol, Scope: scopeName}
}

// MethodHeader returns the accumulated header of an inherent method named by
// a Type::method path.
func (r *Resolver) MethodHeader(path string) (string, Evidence, error) {
	p, err := r.parse(path)
	if err != nil {
		return "", Evidence{}, err
	}
	files, scopeName := r.scope(p)
	for _, rel := range files {
		f, err := r.cache.File(rel)
		if err != nil {
			return "", Evidence{}, err
		}
		for i := range f.Decls {
			d := &f.Decls[i]
			if !d.Inherent() || d.ForType != p.typeName {
				continue
			}
			for _, c := range d.Children {
				if c.Kind == scan.ChildMethod && c.Name == p.symbol {
					return c.Header, Evidence{File: rel, Line: c.Line}, nil
				}
			}
		}
	}
	return "", Evidence{}, &UnresolvedSymbolError{Path: path, Symbol: p.typeName + "::" + p.symbol, Scope: scopeName}
}

// method scans inherent blocks for Type and falls back to
// interface-implementation blocks, where the effective rung is public.
func (r *Resolver) method(files []string, typeName, name string) (Evidence, scan.Visibility, bool, error) {
	var traitEv *Evidence
	for _, rel := range files {
		f, err := r.cache.File(rel)
		if err != nil {
			return Evidence{}, scan.VisibilityPrivate, false, err
		}
		for i := range f.Decls {
			d := &f.Decls[i]
			if d.Kind != scan.KindImplBlock || d.ForType != typeName {
				continue
			}
			for _, c := range d.Children {
				if c.Kind != scan.ChildMethod || c.Name != name {
					continue
				}
				if d.Inherent() {
					return Evidence{File: rel, Line: c.Line}, c.Visibility, true, nil
				}
				if traitEv == nil {
					traitEv = &Evidence{File: rel, Line: c.Line}
				}
			}
		}
	}
	if traitEv != nil {
		return *traitEv, scan.VisibilityPublic, true, nil
	}
	return Evidence{}, scan.VisibilityPrivate, false, nil
}

func (r *Resolver) typeDecl(files []string, name string) (Evidence, scan.Visibility, bool, error) {
	for _, rel := range files {
		f, err := r.cache.File(rel)
		if err != nil {
			return Evidence{}, scan.VisibilityPrivate, false, err
		}
		if d := f.TypeDecl(name); d != nil {
			return Evidence{File: rel, Line: d.Line}, d.Visibility, true, nil
		}
	}
	return Evidence{}, scan.VisibilityPrivate, false, nil
}

func (r *Resolver) fnDecl(files []string, name string) (Evidence, scan.Visibility, bool, error) {
	for _, rel := range files {
		f, err := r.cache.File(rel)
		if err != nil {
			return Evidence{}, scan.VisibilityPrivate, false, err
		}
		for i := range f.Decls {
			d := &f.Decls[i]
			if d.Kind == scan.KindFunction && d.Name == name {
				return Evidence{File: rel, Line: d.Line}, d.Visibility, true, nil
			}
		}
	}
	return Evidence{}, scan.VisibilityPrivate, false, nil
}

// wordMatch searches comment-stripped text for a whole-word (or, for
// wildcards, prefix) occurrence of the identifier. Both sides are NFC
// normalized before comparison so visually identical identifiers compare
// equal.
func (r *Resolver) wordMatch(files []string, name string, prefix bool) (Evidence, bool, error) {
	pattern := `\b` + regexp.QuoteMeta(norm.NFC.String(name))
	if prefix {
		pattern += `\w*`
	} else {
		pattern += `\b`
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Evidence{}, false, err
	}
	for _, rel := range files {
		f, err := r.cache.File(rel)
		if err != nil {
			return Evidence{}, false, err
		}
		for i, line := range f.Lines {
			if re.MatchString(norm.NFC.String(line)) {
				return Evidence{File: rel, Line: i + 1}, true, nil
			}
		}
	}
	return Evidence{}, false, nil
}

func capitalized(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
