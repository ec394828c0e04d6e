package gate

import (
	"fmt"

	"github.com/danielchristiancazares/forgegate/internal/scan"
)

// BanViolationError reports a structural ban violated in source. It is
// localized to a file and line, sufficient to jump to the offending text.
type BanViolationError struct {
	File    string
	Line    int
	Message string
}

func (e *BanViolationError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

// VisibilityExceedanceError reports a constructor whose actual rung exceeds
// the declared ceiling.
type VisibilityExceedanceError struct {
	Path    string
	Actual  scan.Visibility
	Ceiling scan.Visibility
	File    string
	Line    int
}

func (e *VisibilityExceedanceError) Error() string {
	return fmt.Sprintf("%s:%d: constructor '%s' is %s, exceeding declared ceiling %s",
		e.File, e.Line, e.Path, e.Actual, e.Ceiling)
}

// ConsistencyError reports a cross-document or document-versus-source
// mismatch, such as a broken DRY/Registry bijection or a transition method
// that does not actually consume its receiver.
type ConsistencyError struct {
	Document string
	Message  string
}

func (e *ConsistencyError) Error() string {
	if e.Document != "" {
		return fmt.Sprintf("%s: %s", e.Document, e.Message)
	}
	return e.Message
}
