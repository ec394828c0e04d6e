package policy

import (
	"github.com/danielchristiancazares/forgegate/internal/classify"
	"github.com/danielchristiancazares/forgegate/internal/scan"
)

// Document file names, relative to the policy directory.
const (
	InvariantRegistryFile    = "invariant_registry.toml"
	AuthorityBoundaryMapFile = "authority_boundary_map.toml"
	ParametricityRulesFile   = "parametricity_rules.toml"
	MoveSemanticsRulesFile   = "move_semantics_rules.toml"
	DRYProofMapFile          = "dry_proof_map.toml"
	ClassificationMapFile    = "classification_map.toml"
)

// RequiredFiles lists every mandatory document, in load order.
var RequiredFiles = []string{
	InvariantRegistryFile,
	AuthorityBoundaryMapFile,
	ParametricityRulesFile,
	MoveSemanticsRulesFile,
	DRYProofMapFile,
	ClassificationMapFile,
}

// InvariantRegistry registers every architectural invariant with its
// canonical proof location.
type InvariantRegistry struct {
	Version    int              `toml:"version"`
	Invariants []InvariantEntry `toml:"invariants"`
}

// InvariantEntry is one registered invariant.
type InvariantEntry struct {
	ID                          string `toml:"id"`
	Predicate                   string `toml:"predicate"`
	CanonicalProofTypePath      string `toml:"canonical_proof_type_path"`
	AuthorityBoundaryModulePath string `toml:"authority_boundary_module_path"`
}

// IDs returns the registered invariant ids in document order.
func (r *InvariantRegistry) IDs() []string {
	ids := make([]string, len(r.Invariants))
	for i, e := range r.Invariants {
		ids[i] = e.ID
	}
	return ids
}

// AuthorityBoundaryMap declares, per controlled type, the single module
// allowed to construct it and the ceiling on constructor visibility.
type AuthorityBoundaryMap struct {
	Version int              `toml:"version"`
	Entries []AuthorityEntry `toml:"entries"`
}

// AuthorityEntry is one controlled type's authority declaration.
type AuthorityEntry struct {
	ControlledTypePath           string   `toml:"controlled_type_path"`
	BoundaryModulePath           string   `toml:"boundary_module_path"`
	ConstructorPaths             []string `toml:"constructor_paths"`
	AllowedCallerModulePaths     []string `toml:"allowed_caller_module_paths"`
	MaxConstructorVisibilityRung string   `toml:"max_constructor_visibility_rung"`

	// Ceiling is the parsed rung, populated during schema validation.
	Ceiling scan.Visibility `toml:"-"`
}

// ParametricityRules lists banned generic patterns and the interface
// disclosures an implementation must make. Schema-only: the gate validates
// the document's shape, nothing more.
type ParametricityRules struct {
	Version                      int      `toml:"version"`
	BannedPatterns               []string `toml:"banned_patterns"`
	RequiredInterfaceDisclosures []string `toml:"required_interface_disclosures"`
}

// MoveSemanticsRules declares state-bearing types whose transitions must
// consume the value.
type MoveSemanticsRules struct {
	Version           int                `toml:"version"`
	StateBearingTypes []StateBearingType `toml:"state_bearing_types"`
}

// StateBearingType is one type with consumed transition methods.
type StateBearingType struct {
	TypePath                  string             `toml:"type_path"`
	ConsumedTransitionMethods []TransitionMethod `toml:"consumed_transition_methods"`
}

// TransitionMethod is one consuming transition.
type TransitionMethod struct {
	MethodPath                   string `toml:"method_path"`
	ConsumesSelf                 bool   `toml:"consumes_self"`
	PostMoveUnusabilityGuarantee string `toml:"post_move_unusability_guarantee"`
}

// DRYProofMap cross-references each invariant to its one canonical proof
// location. It must bijectively cover the registry.
type DRYProofMap struct {
	Version int        `toml:"version"`
	Entries []DRYEntry `toml:"entries"`
}

// DRYEntry is one invariant's proof cross-reference.
type DRYEntry struct {
	InvariantID                 string `toml:"invariant_id"`
	CanonicalProofTypePath      string `toml:"canonical_proof_type_path"`
	AuthorityBoundaryModulePath string `toml:"authority_boundary_module_path"`
}

// ClassificationMap holds the ordered prefix rules splitting the workspace
// into core and boundary files.
type ClassificationMap struct {
	Version int                  `toml:"version"`
	Rules   []ClassificationRule `toml:"rules"`
}

// ClassificationRule is one prefix rule.
type ClassificationRule struct {
	Prefix string `toml:"prefix"`
	Class  string `toml:"class"`
}

// Rules converts the document rules to the classifier's form.
func (m *ClassificationMap) ClassifyRules() []classify.Rule {
	rules := make([]classify.Rule, len(m.Rules))
	for i, r := range m.Rules {
		c, _ := classify.ParseClass(r.Class)
		rules[i] = classify.Rule{Prefix: r.Prefix, Class: c}
	}
	return rules
}

// Documents is the full, schema-validated policy set for one run.
type Documents struct {
	Registry       *InvariantRegistry
	Authority      *AuthorityBoundaryMap
	Parametricity  *ParametricityRules
	MoveSemantics  *MoveSemanticsRules
	DRYProof       *DRYProofMap
	Classification *ClassificationMap
}
