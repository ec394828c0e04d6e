package gate

import (
	"fmt"
	"strings"

	"github.com/danielchristiancazares/forgegate/internal/scan"
	"github.com/danielchristiancazares/forgegate/internal/workspace"
)

// placeholderVariants is the banned enumeration vocabulary: variants that
// defer a real decision instead of modeling the domain.
var placeholderVariants = map[string]bool{
	"Unknown":     true,
	"Unspecified": true,
	"Other":       true,
	"Todo":        true,
	"Placeholder": true,
}

// checkCoreBans enforces the structural bans that apply only to
// core-classified files. Fails fast on the first violation.
func (r *run) checkCoreBans(coreFiles []string) error {
	for _, rel := range coreFiles {
		f, err := r.cache.File(rel)
		if err != nil {
			return err
		}
		if err := r.checkCoreFile(f); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) checkCoreFile(f *scan.File) error {
	for i := range f.Decls {
		d := &f.Decls[i]
		switch d.Kind {
		case scan.KindAggregate:
			if err := r.checkAggregateBans(f, d); err != nil {
				return err
			}
		case scan.KindEnumeration:
			for _, c := range d.Children {
				if c.Kind == scan.ChildVariant && placeholderVariants[c.Name] {
					return &BanViolationError{
						File:    f.Path,
						Line:    c.Line,
						Message: fmt.Sprintf("enumeration '%s' declares banned placeholder variant '%s'", d.Name, c.Name),
					}
				}
			}
		case scan.KindFunction:
			if strings.Contains(d.Header, "Option<") {
				return &BanViolationError{
					File:    f.Path,
					Line:    d.Line,
					Message: fmt.Sprintf("function '%s' uses an optional-value wrapper in its signature", d.Name),
				}
			}
		case scan.KindInterface:
			for _, c := range d.Children {
				if c.Kind == scan.ChildMethod && returnsOptionalDuration(c.Header) {
					return &BanViolationError{
						File:    f.Path,
						Line:    c.Line,
						Message: fmt.Sprintf("interface '%s' method '%s' returns an optional duration", d.Name, c.Name),
					}
				}
			}
		}
	}
	return nil
}

// checkAggregateBans covers the optional-wrapper field ban and the
// parallel-boolean anti-pattern: a raw bool flag living next to an
// enumeration-typed field in the same aggregate.
func (r *run) checkAggregateBans(f *scan.File, d *scan.Declaration) error {
	var boolField, enumField *scan.Child
	var enums map[string]bool
	if mod := r.ws.ModuleForFile(f.Path); mod != nil {
		enums = r.moduleEnums(mod.Name)
	}

	for i := range d.Children {
		c := &d.Children[i]
		if c.Kind != scan.ChildField && c.Kind != scan.ChildSlot {
			continue
		}
		if strings.Contains(c.Type, "Option<") {
			return &BanViolationError{
				File:    f.Path,
				Line:    c.Line,
				Message: fmt.Sprintf("aggregate '%s' field '%s' uses an optional-value wrapper", d.Name, c.Name),
			}
		}
		if c.Type == "bool" && boolField == nil {
			boolField = c
		}
		if enums[baseTypeIdent(c.Type)] && enumField == nil {
			enumField = c
		}
	}

	if boolField != nil && enumField != nil {
		return &BanViolationError{
			File: f.Path,
			Line: boolField.Line,
			Message: fmt.Sprintf("aggregate '%s' pairs raw boolean '%s' with enumeration-typed field '%s'",
				d.Name, boolField.Name, enumField.Name),
		}
	}
	return nil
}

// checkEngineBans rejects "already warned" style boolean tracking fields in
// engine-scoped files, regardless of classification.
func (r *run) checkEngineBans(engine *workspace.Module) error {
	if engine == nil {
		return nil
	}
	for _, rel := range engine.Files {
		f, err := r.cache.File(rel)
		if err != nil {
			return err
		}
		for i := range f.Decls {
			d := &f.Decls[i]
			if d.Kind != scan.KindAggregate {
				continue
			}
			for _, c := range d.Children {
				if c.Kind == scan.ChildField && c.Type == "bool" && strings.Contains(c.Name, "warned") {
					return &BanViolationError{
						File:    f.Path,
						Line:    c.Line,
						Message: fmt.Sprintf("aggregate '%s' declares boolean warning-tracking field '%s'", d.Name, c.Name),
					}
				}
			}
		}
	}
	return nil
}

// moduleEnums indexes the enumeration names declared anywhere in a module.
// The index is built once per module and reused across ban checks.
func (r *run) moduleEnums(moduleName string) map[string]bool {
	if enums, ok := r.enumIndex[moduleName]; ok {
		return enums
	}
	enums := make(map[string]bool)
	if mod := r.ws.Module(moduleName); mod != nil {
		for _, rel := range mod.Files {
			f, err := r.cache.File(rel)
			if err != nil {
				continue
			}
			for i := range f.Decls {
				if f.Decls[i].Kind == scan.KindEnumeration {
					enums[f.Decls[i].Name] = true
				}
			}
		}
	}
	r.enumIndex[moduleName] = enums
	return enums
}

// baseTypeIdent reduces a field type to the identifier an enumeration would
// be named by: strip references, cut generics, take the last path segment.
// A container of enumerations (Vec<Mode>) is deliberately not flagged.
func baseTypeIdent(t string) string {
	t = strings.TrimSpace(t)
	t = strings.TrimPrefix(t, "&")
	t = strings.TrimPrefix(t, "mut ")
	t = strings.TrimSpace(t)
	if idx := strings.Index(t, "<"); idx >= 0 {
		t = t[:idx]
	}
	segs := strings.Split(t, "::")
	return strings.TrimSpace(segs[len(segs)-1])
}

// returnsOptionalDuration matches the banned interface return shape.
func returnsOptionalDuration(header string) bool {
	idx := strings.Index(header, "->")
	if idx < 0 {
		return false
	}
	ret := header[idx+2:]
	optIdx := strings.Index(ret, "Option<")
	return optIdx >= 0 && strings.Contains(ret[optIdx:], "Duration")
}
