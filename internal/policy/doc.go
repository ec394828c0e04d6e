// Package policy loads and schema-validates the six policy documents the
// gate enforces.
//
// Each document is a versioned TOML table with a fixed, tagged schema,
// validated once at the load boundary. Validators downstream consume the
// decoded structs and never re-read the documents. Loading is a pure read:
// documents are immutable for the rest of the run.
package policy
