// Package scan provides the line-oriented structural scanner for workspace
// source files.
//
// This package contains the foundational declaration model. All other internal
// packages import scan; scan imports nothing internal. This ensures the
// declaration model remains the base layer with no circular dependencies.
//
// The scanner is deliberately not a parser. It recovers declarations,
// visibility, and depth-1 nesting from comment-stripped text using anchored
// keyword matches and running brace counts. That is sufficient for the bounded
// declaration grammar the gate asks about; it is not suitable for arbitrary
// syntactic questions.
package scan
