package scan

import (
	"regexp"
	"strconv"
	"strings"
)

// Declaration anchors. A declaration keyword may carry one optional leading
// visibility modifier; anything else in front (attributes, doc text) has been
// stripped or disqualifies the line.
var (
	declRe   = regexp.MustCompile(`^(pub(?:\s*\([^)]*\))?\s+)?(struct|enum|trait|fn|impl)\b\s*(.*)$`)
	methodRe = regexp.MustCompile(`^(pub(?:\s*\([^)]*\))?\s+)?fn\s+([A-Za-z_][A-Za-z0-9_]*)`)
	fieldRe  = regexp.MustCompile(`^(pub(?:\s*\([^)]*\))?\s+)?([A-Za-z_][A-Za-z0-9_]*)\s*:\s*(.+)$`)
	identRe  = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	slotRe   = regexp.MustCompile(`^pub(?:\s*\([^)]*\))?\s+`)
)

// Scan recovers declarations from raw source lines. Comments are stripped
// first; reported line numbers refer to the original text.
func Scan(path string, raw []string) *File {
	lines := StripComments(raw)
	f := &File{Path: path, Lines: lines}

	depth := 0
	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if depth == 0 {
			if m := declRe.FindStringSubmatch(trimmed); m != nil {
				decl, next := scanDecl(lines, i, m)
				f.Decls = append(f.Decls, decl)
				i = next
				continue
			}
		}
		delta, _ := braceDelta(lines[i])
		depth += delta
		if depth < 0 {
			depth = 0
		}
		i++
	}
	return f
}

// scanDecl consumes one declaration starting at line start (whose trimmed text
// matched declRe as m) and returns it together with the index of the first
// line after the declaration.
func scanDecl(lines []string, start int, m []string) (Declaration, int) {
	// Multi-line headers accumulate until a block-open or terminator shows up.
	header := strings.TrimSpace(lines[start])
	i := start
	for !strings.ContainsAny(header, "{;") && i+1 < len(lines) {
		i++
		header += " " + strings.TrimSpace(lines[i])
	}

	kind := DeclKind(m[2])
	d := Declaration{
		Kind:       kind,
		Visibility: parseModifier(m[1]),
		Line:       start + 1,
		Header:     header,
	}

	if kind == KindImplBlock {
		d.TraitName, d.ForType = splitImplHeader(header)
		d.Name = d.ForType
	} else {
		d.Name = nameAfterKeyword(header, string(kind))
	}

	openIdx := strings.Index(lines[i], "{")
	semiIdx := strings.Index(lines[i], ";")
	if openIdx < 0 || (semiIdx >= 0 && semiIdx < openIdx) {
		// Terminator without a body: unit struct, tuple struct, or a
		// bodiless fn signature.
		if kind == KindAggregate && slotListStart(header) >= 0 {
			d.Tuple = true
			d.Children = tupleSlots(header, d.Line)
		}
		return d, i + 1
	}

	// Body present. Count braces from the block-open onward so a header line
	// that also closes the body is handled.
	delta, _ := braceDelta(lines[i][openIdx:])
	rel := delta
	if rel == 0 {
		// Single-line body: children live between the braces.
		inner := innerBraces(lines[i][openIdx:])
		d.Children = append(d.Children, inlineChildren(kind, inner, i+1)...)
		return d, i + 1
	}
	i++

	for i < len(lines) && rel > 0 {
		trimmed := strings.TrimSpace(lines[i])
		consumed := false
		if rel == 1 && trimmed != "" && !strings.HasPrefix(trimmed, "}") && !strings.HasPrefix(trimmed, "#") {
			switch kind {
			case KindImplBlock, KindInterface:
				if mm := methodRe.FindStringSubmatch(trimmed); mm != nil {
					child, next, newRel := scanMethod(lines, i, rel, mm)
					d.Children = append(d.Children, child)
					i, rel = next, newRel
					consumed = true
				}
			case KindAggregate:
				if fm := fieldRe.FindStringSubmatch(trimmed); fm != nil {
					d.Children = append(d.Children, Child{
						Kind:       ChildField,
						Name:       fm[2],
						Type:       trimFieldType(fm[3]),
						Visibility: parseModifier(fm[1]),
						Line:       i + 1,
					})
				}
			case KindEnumeration:
				if id := identRe.FindString(trimmed); id != "" && strings.HasPrefix(trimmed, id) {
					d.Children = append(d.Children, Child{
						Kind: ChildVariant,
						Name: id,
						Line: i + 1,
					})
				}
			}
		}
		if !consumed {
			delta, _ := braceDelta(lines[i])
			rel += delta
			i++
		}
	}
	return d, i
}

// scanMethod consumes a method header (possibly multi-line) inside a trait or
// impl body. It returns the child, the index of the line after the header's
// terminator, and the updated relative depth.
func scanMethod(lines []string, start, rel int, mm []string) (Child, int, int) {
	header := strings.TrimSpace(lines[start])
	i := start
	for !strings.ContainsAny(header, "{;") && i+1 < len(lines) {
		delta, _ := braceDelta(lines[i])
		rel += delta
		i++
		header += " " + strings.TrimSpace(lines[i])
	}
	delta, _ := braceDelta(lines[i])
	rel += delta
	return Child{
		Kind:       ChildMethod,
		Name:       mm[2],
		Visibility: parseModifier(mm[1]),
		Line:       start + 1,
		Header:     header,
	}, i + 1, rel
}

// parseModifier maps a leading visibility modifier to its rung.
func parseModifier(mod string) Visibility {
	mod = strings.TrimSpace(mod)
	if mod == "" {
		return VisibilityPrivate
	}
	if mod == "pub" {
		return VisibilityPublic
	}
	open := strings.Index(mod, "(")
	closing := strings.LastIndex(mod, ")")
	if open < 0 || closing < open {
		return VisibilityPublic
	}
	switch inner := strings.TrimSpace(mod[open+1 : closing]); {
	case inner == "crate":
		return VisibilityUnit
	case inner == "super" || strings.HasPrefix(inner, "in "):
		return VisibilityModule
	case inner == "self":
		return VisibilityPrivate
	default:
		return VisibilityPrivate
	}
}

// nameAfterKeyword extracts the declared name following the keyword token.
func nameAfterKeyword(header, keyword string) string {
	idx := strings.Index(header, keyword)
	if idx < 0 {
		return ""
	}
	rest := header[idx+len(keyword):]
	return identRe.FindString(rest)
}

// splitImplHeader separates an impl header into (trait, type). An inherent
// block returns ("", type). Detection keys on a top-level "for" clause, which
// is what distinguishes an interface-implementation block.
func splitImplHeader(header string) (traitName, forType string) {
	rest := header[strings.Index(header, "impl")+len("impl"):]
	if end := strings.IndexAny(rest, "{;"); end >= 0 {
		rest = rest[:end]
	}
	// Skip a leading generic parameter list.
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "<") {
		depth := 0
		cut := len(rest)
		for i := 0; i < len(rest); i++ {
			switch rest[i] {
			case '<':
				depth++
			case '>':
				depth--
			}
			if depth == 0 {
				cut = i + 1
				break
			}
		}
		rest = strings.TrimSpace(rest[cut:])
	}
	if before, after, ok := cutTopLevelFor(rest); ok {
		return lastPathIdent(before), lastPathIdent(after)
	}
	return "", lastPathIdent(rest)
}

// cutTopLevelFor splits on the word "for" outside any angle brackets.
func cutTopLevelFor(s string) (before, after string, ok bool) {
	depth := 0
	for i := 0; i+3 <= len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		}
		if depth == 0 && s[i:i+3] == "for" {
			leftOK := i == 0 || s[i-1] == ' ' || s[i-1] == '>'
			rightOK := i+3 == len(s) || s[i+3] == ' '
			if leftOK && rightOK {
				return s[:i], s[i+3:], true
			}
		}
	}
	return "", "", false
}

// lastPathIdent returns the final identifier of a (possibly ::-qualified,
// possibly generic) type path.
func lastPathIdent(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "<"); idx >= 0 {
		s = s[:idx]
	}
	segs := strings.Split(s, "::")
	return identRe.FindString(segs[len(segs)-1])
}

// slotListStart returns the index of a tuple aggregate's slot-list paren, or
// -1. The list follows the struct keyword; a leading visibility modifier's
// own parens must not be mistaken for it.
func slotListStart(header string) int {
	idx := strings.Index(header, "struct")
	if idx < 0 {
		return -1
	}
	off := strings.Index(header[idx:], "(")
	if off < 0 {
		return -1
	}
	return idx + off
}

// tupleSlots parses positional slots from a tuple-aggregate header. Slot
// visibility is scanned inside the parens, which is where positional
// aggregates differ from named-field aggregates.
func tupleSlots(header string, line int) []Child {
	open := slotListStart(header)
	if open < 0 {
		return nil
	}
	inner := innerParens(header[open:])
	var children []Child
	for idx, part := range splitTopLevel(inner) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		vis := VisibilityPrivate
		if m := slotRe.FindString(part); m != "" {
			vis = parseModifier(m)
			part = strings.TrimSpace(part[len(m):])
		}
		children = append(children, Child{
			Kind:       ChildSlot,
			Name:       strconv.Itoa(idx),
			Type:       part,
			Visibility: vis,
			Line:       line,
		})
	}
	return children
}

// inlineChildren parses the members of a single-line body.
func inlineChildren(kind DeclKind, inner string, line int) []Child {
	var children []Child
	for _, part := range splitTopLevel(inner) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch kind {
		case KindEnumeration:
			if id := identRe.FindString(part); id != "" && strings.HasPrefix(part, id) {
				children = append(children, Child{Kind: ChildVariant, Name: id, Line: line})
			}
		case KindAggregate:
			if fm := fieldRe.FindStringSubmatch(part); fm != nil {
				children = append(children, Child{
					Kind:       ChildField,
					Name:       fm[2],
					Type:       trimFieldType(fm[3]),
					Visibility: parseModifier(fm[1]),
					Line:       line,
				})
			}
		}
	}
	return children
}

// innerBraces returns the text between the leading '{' of s and its match.
func innerBraces(s string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i]
			}
		}
	}
	return strings.TrimPrefix(s, "{")
}

// innerParens returns the text between the leading '(' of s and its match.
func innerParens(s string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i]
			}
		}
	}
	return strings.TrimPrefix(s, "(")
}

// splitTopLevel splits on commas outside any bracket nesting.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// trimFieldType normalizes a field's declared type text.
func trimFieldType(t string) string {
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, ",")
	t = strings.TrimSuffix(strings.TrimSpace(t), "{")
	return strings.TrimSpace(t)
}
