package gate

import (
	"fmt"
	"sort"
)

// checkDRYProofMap enforces the bijection between the DRY proof map and the
// invariant registry: exact id coverage in both directions, per-id agreement
// on proof and boundary paths, and independent resolution of every
// referenced path.
func (r *run) checkDRYProofMap() error {
	registry := make(map[string]int, len(r.docs.Registry.Invariants))
	for i, e := range r.docs.Registry.Invariants {
		registry[e.ID] = i
	}

	seen := make(map[string]bool, len(r.docs.DRYProof.Entries))
	for _, e := range r.docs.DRYProof.Entries {
		idx, known := registry[e.InvariantID]
		if !known {
			return &ConsistencyError{
				Document: r.dryProofPath,
				Message:  fmt.Sprintf("invariant_id '%s' not present in invariant registry", e.InvariantID),
			}
		}
		seen[e.InvariantID] = true

		reg := r.docs.Registry.Invariants[idx]
		if e.CanonicalProofTypePath != reg.CanonicalProofTypePath {
			return &ConsistencyError{
				Document: r.dryProofPath,
				Message: fmt.Sprintf("invariant '%s': canonical proof type '%s' disagrees with registry '%s'",
					e.InvariantID, e.CanonicalProofTypePath, reg.CanonicalProofTypePath),
			}
		}
		if e.AuthorityBoundaryModulePath != reg.AuthorityBoundaryModulePath {
			return &ConsistencyError{
				Document: r.dryProofPath,
				Message: fmt.Sprintf("invariant '%s': authority boundary module '%s' disagrees with registry '%s'",
					e.InvariantID, e.AuthorityBoundaryModulePath, reg.AuthorityBoundaryModulePath),
			}
		}

		if _, err := r.resolver.Resolve(e.CanonicalProofTypePath); err != nil {
			return err
		}
		if err := r.resolver.ResolveModule(e.AuthorityBoundaryModulePath); err != nil {
			return err
		}
	}

	var missing []string
	for id := range registry {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &ConsistencyError{
			Document: r.dryProofPath,
			Message:  fmt.Sprintf("missing invariant IDs from DRY proof map: %v", missing),
		}
	}
	return nil
}
