package gate

import (
	"fmt"
	"strings"
)

// checkMoveSemantics verifies every declared transition: the state-bearing
// type resolves, the method resolves as an inherent method, and the method
// genuinely consumes its receiver in source. The non-empty guarantee text and
// the consumes_self flag were already enforced at the load boundary.
func (r *run) checkMoveSemantics() error {
	for _, sbt := range r.docs.MoveSemantics.StateBearingTypes {
		if _, err := r.resolver.Resolve(sbt.TypePath); err != nil {
			return err
		}
		for _, tm := range sbt.ConsumedTransitionMethods {
			header, ev, err := r.resolver.MethodHeader(tm.MethodPath)
			if err != nil {
				return err
			}
			if !consumesReceiver(header) {
				return &ConsistencyError{
					Message: fmt.Sprintf("%s:%d: transition '%s' is declared consuming but does not take self by value",
						ev.File, ev.Line, tm.MethodPath),
				}
			}
		}
	}
	return nil
}

// consumesReceiver reports whether a method header takes self by value. A
// borrowed receiver (&self, &mut self) leaves the value usable after the
// call, which breaks the post-move unusability guarantee.
func consumesReceiver(header string) bool {
	open := strings.Index(header, "(")
	if open < 0 {
		return false
	}
	inner := header[open+1:]
	if closing := strings.Index(inner, ")"); closing >= 0 {
		inner = inner[:closing]
	}
	first, _, _ := strings.Cut(inner, ",")
	first = strings.TrimSpace(first)
	return first == "self" || first == "mut self" || strings.HasPrefix(first, "self:")
}
