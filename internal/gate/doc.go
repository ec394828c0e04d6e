// Package gate sequences the policy validators and aggregates them into one
// pass/fail result.
//
// Validators run in a fixed order and the run halts at the first failing
// validator: later checks presuppose earlier results (core bans presuppose
// classification) and would otherwise produce meaningless diagnostics. Each
// validator also fails fast on its first internal violation. The only batched
// check is workspace README health, where enumeration is cheap and
// exhaustive.
package gate
