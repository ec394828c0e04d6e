package scan

import "fmt"

// Visibility is one of four ordered disclosure rungs. The ordering is total:
// a constructor at a higher rung is visible to strictly more callers.
type Visibility int

const (
	// VisibilityPrivate is the default rung: no modifier in source.
	VisibilityPrivate Visibility = iota
	// VisibilityModule corresponds to pub(super): visible to the parent module.
	VisibilityModule
	// VisibilityUnit corresponds to pub(crate): visible unit-wide.
	VisibilityUnit
	// VisibilityPublic corresponds to a bare pub modifier.
	VisibilityPublic
)

// String returns the source spelling of the rung.
func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityModule:
		return "pub(super)"
	case VisibilityUnit:
		return "pub(crate)"
	case VisibilityPublic:
		return "pub"
	default:
		return fmt.Sprintf("Visibility(%d)", int(v))
	}
}

// ParseVisibility maps a document or source spelling to a rung.
// Accepted spellings: "private", "pub(super)", "pub(crate)", "pub".
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "private":
		return VisibilityPrivate, true
	case "pub(super)":
		return VisibilityModule, true
	case "pub(crate)":
		return VisibilityUnit, true
	case "pub":
		return VisibilityPublic, true
	default:
		return VisibilityPrivate, false
	}
}

// DeclKind identifies the declaration form recovered by the scanner.
type DeclKind string

const (
	KindAggregate   DeclKind = "struct"
	KindEnumeration DeclKind = "enum"
	KindInterface   DeclKind = "trait"
	KindFunction    DeclKind = "fn"
	KindImplBlock   DeclKind = "impl"
)

// ChildKind identifies a depth-1 child of a declaration.
type ChildKind string

const (
	ChildField   ChildKind = "field"   // named aggregate field
	ChildSlot    ChildKind = "slot"    // positional (tuple) aggregate slot
	ChildVariant ChildKind = "variant" // enumeration variant
	ChildMethod  ChildKind = "method"  // fn inside a trait or impl block
)

// Child is a single depth-1 member of a declaration. Members nested deeper
// than one brace level are never attributed here.
type Child struct {
	Kind       ChildKind
	Name       string
	Type       string // declared type text for fields and slots, "" otherwise
	Visibility Visibility
	Line       int    // 1-based line of the member
	Header     string // accumulated header text for methods
}

// Declaration is one recovered top-level declaration.
type Declaration struct {
	Kind       DeclKind
	Name       string // type/function name; impl blocks use the target type name
	Visibility Visibility
	Line       int    // 1-based start line
	Header     string // accumulated header up to the block-open or terminator
	Tuple      bool   // positional aggregate (struct Name(...);)

	// Impl-block fields. TraitName is empty for an inherent block; for an
	// interface-implementation block it names the implemented trait and
	// ForType names the implementing type.
	TraitName string
	ForType   string

	Children []Child
}

// Inherent reports whether an impl block is inherent (no trait clause).
// Only inherent-block methods carry independently meaningful visibility.
func (d *Declaration) Inherent() bool {
	return d.Kind == KindImplBlock && d.TraitName == ""
}

// File is the scan of one source file.
type File struct {
	Path  string   // workspace-relative, forward slashes
	Lines []string // comment-stripped, same count as the raw file
	Decls []Declaration
}

// TypeDecl returns the aggregate or enumeration declaration with the given
// name, or nil.
func (f *File) TypeDecl(name string) *Declaration {
	for i := range f.Decls {
		d := &f.Decls[i]
		if (d.Kind == KindAggregate || d.Kind == KindEnumeration) && d.Name == name {
			return d
		}
	}
	return nil
}
