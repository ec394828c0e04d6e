package gate

import (
	"fmt"

	"github.com/danielchristiancazares/forgegate/internal/scan"
)

// checkRegistry resolves every registry entry's proof type and boundary
// module against source.
func (r *run) checkRegistry() error {
	for _, e := range r.docs.Registry.Invariants {
		if _, err := r.resolver.Resolve(e.CanonicalProofTypePath); err != nil {
			return err
		}
		if err := r.resolver.ResolveModule(e.AuthorityBoundaryModulePath); err != nil {
			return err
		}
	}
	return nil
}

// checkAuthorityMap resolves every authority entry: the controlled type, the
// boundary module, each constructor, and each allowed caller.
func (r *run) checkAuthorityMap() error {
	for _, e := range r.docs.Authority.Entries {
		if _, err := r.resolver.Resolve(e.ControlledTypePath); err != nil {
			return err
		}
		if err := r.resolver.ResolveModule(e.BoundaryModulePath); err != nil {
			return err
		}
		for _, ctor := range e.ConstructorPaths {
			if _, err := r.resolver.Resolve(ctor); err != nil {
				return err
			}
		}
		for _, caller := range e.AllowedCallerModulePaths {
			if err := r.resolver.ResolveModule(caller); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkUnforgeability rejects any controlled type with a publicly writable
// field or positional slot: outside code must not be able to forge one.
func (r *run) checkUnforgeability() error {
	for _, e := range r.docs.Authority.Entries {
		decl, file, err := r.resolver.TypeDeclaration(e.ControlledTypePath)
		if err != nil {
			return err
		}
		for _, c := range decl.Children {
			if c.Kind != scan.ChildField && c.Kind != scan.ChildSlot {
				continue
			}
			if c.Visibility == scan.VisibilityPublic {
				return &BanViolationError{
					File:    file.Path,
					Line:    c.Line,
					Message: fmt.Sprintf("controlled type '%s' has publicly writable member '%s'", e.ControlledTypePath, c.Name),
				}
			}
		}
	}
	return nil
}

// checkConstructorCeilings derives each constructor's actual rung and
// compares it against the declared ceiling. A constructor below its ceiling
// is fine; above it is a violation.
func (r *run) checkConstructorCeilings() error {
	for _, e := range r.docs.Authority.Entries {
		for _, ctor := range e.ConstructorPaths {
			actual, ev, err := r.resolver.ConstructorVisibility(ctor)
			if err != nil {
				return err
			}
			if actual > e.Ceiling {
				return &VisibilityExceedanceError{
					Path:    ctor,
					Actual:  actual,
					Ceiling: e.Ceiling,
					File:    ev.File,
					Line:    ev.Line,
				}
			}
		}
	}
	return nil
}
