package policy

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/danielchristiancazares/forgegate/internal/classify"
	"github.com/danielchristiancazares/forgegate/internal/scan"
)

// SchemaError reports a missing or malformed policy document. The message
// names the offending field, sufficient to jump to the document text.
type SchemaError struct {
	Document string // document path
	Message  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Document, e.Message)
}

// Load reads and schema-validates all six policy documents from dir,
// fail-fast in the fixed document order. A missing document is a
// SchemaError; so is any shape violation.
func Load(dir string) (*Documents, error) {
	for _, name := range RequiredFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			return nil, &SchemaError{Document: path, Message: "missing required policy document"}
		}
	}

	docs := &Documents{}
	var err error
	if docs.Registry, err = loadInvariantRegistry(filepath.Join(dir, InvariantRegistryFile)); err != nil {
		return nil, err
	}
	if docs.Authority, err = loadAuthorityBoundaryMap(filepath.Join(dir, AuthorityBoundaryMapFile)); err != nil {
		return nil, err
	}
	if docs.Parametricity, err = loadParametricityRules(filepath.Join(dir, ParametricityRulesFile)); err != nil {
		return nil, err
	}
	if docs.MoveSemantics, err = loadMoveSemanticsRules(filepath.Join(dir, MoveSemanticsRulesFile)); err != nil {
		return nil, err
	}
	if docs.DRYProof, err = loadDRYProofMap(filepath.Join(dir, DRYProofMapFile)); err != nil {
		return nil, err
	}
	if docs.Classification, err = loadClassificationMap(filepath.Join(dir, ClassificationMapFile)); err != nil {
		return nil, err
	}
	slog.Debug("policy documents loaded", "dir", dir, "documents", len(RequiredFiles))
	return docs, nil
}

// decode unmarshals one document and checks the common version metadata.
func decode(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &SchemaError{Document: path, Message: "document is unreadable"}
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return &SchemaError{Document: path, Message: fmt.Sprintf("not a valid policy table: %v", err)}
	}
	return nil
}

func checkVersion(path string, version int) error {
	if version <= 0 {
		return &SchemaError{Document: path, Message: "'version' must be a positive integer"}
	}
	return nil
}

func requireStr(path, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &SchemaError{Document: path, Message: fmt.Sprintf("field '%s' must be a non-empty string", field)}
	}
	return nil
}

func requireList(path, field string, length int) error {
	if length == 0 {
		return &SchemaError{Document: path, Message: fmt.Sprintf("field '%s' must be a non-empty list", field)}
	}
	return nil
}

func requireStrList(path, field string, values []string) error {
	if err := requireList(path, field, len(values)); err != nil {
		return err
	}
	for i, v := range values {
		if err := requireStr(path, fmt.Sprintf("%s[%d]", field, i), v); err != nil {
			return err
		}
	}
	return nil
}

func loadInvariantRegistry(path string) (*InvariantRegistry, error) {
	var doc InvariantRegistry
	if err := decode(path, &doc); err != nil {
		return nil, err
	}
	if err := checkVersion(path, doc.Version); err != nil {
		return nil, err
	}
	if err := requireList(path, "invariants", len(doc.Invariants)); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, e := range doc.Invariants {
		if err := requireStr(path, "id", e.ID); err != nil {
			return nil, err
		}
		if err := requireStr(path, "predicate", e.Predicate); err != nil {
			return nil, err
		}
		if err := requireStr(path, "canonical_proof_type_path", e.CanonicalProofTypePath); err != nil {
			return nil, err
		}
		if err := requireStr(path, "authority_boundary_module_path", e.AuthorityBoundaryModulePath); err != nil {
			return nil, err
		}
		if seen[e.ID] {
			return nil, &SchemaError{Document: path, Message: fmt.Sprintf("duplicate invariant id '%s'", e.ID)}
		}
		seen[e.ID] = true
	}
	return &doc, nil
}

func loadAuthorityBoundaryMap(path string) (*AuthorityBoundaryMap, error) {
	var doc AuthorityBoundaryMap
	if err := decode(path, &doc); err != nil {
		return nil, err
	}
	if err := checkVersion(path, doc.Version); err != nil {
		return nil, err
	}
	if err := requireList(path, "entries", len(doc.Entries)); err != nil {
		return nil, err
	}
	for i := range doc.Entries {
		e := &doc.Entries[i]
		if err := requireStr(path, "controlled_type_path", e.ControlledTypePath); err != nil {
			return nil, err
		}
		if err := requireStr(path, "boundary_module_path", e.BoundaryModulePath); err != nil {
			return nil, err
		}
		if err := requireStrList(path, "constructor_paths", e.ConstructorPaths); err != nil {
			return nil, err
		}
		if err := requireStrList(path, "allowed_caller_module_paths", e.AllowedCallerModulePaths); err != nil {
			return nil, err
		}
		if err := requireStr(path, "max_constructor_visibility_rung", e.MaxConstructorVisibilityRung); err != nil {
			return nil, err
		}
		rung, ok := scan.ParseVisibility(e.MaxConstructorVisibilityRung)
		if !ok {
			return nil, &SchemaError{
				Document: path,
				Message:  fmt.Sprintf("entries[%d].max_constructor_visibility_rung must be one of [private pub(super) pub(crate) pub]", i),
			}
		}
		e.Ceiling = rung
	}
	return &doc, nil
}

func loadParametricityRules(path string) (*ParametricityRules, error) {
	var doc ParametricityRules
	if err := decode(path, &doc); err != nil {
		return nil, err
	}
	if err := checkVersion(path, doc.Version); err != nil {
		return nil, err
	}
	if err := requireStrList(path, "banned_patterns", doc.BannedPatterns); err != nil {
		return nil, err
	}
	if err := requireStrList(path, "required_interface_disclosures", doc.RequiredInterfaceDisclosures); err != nil {
		return nil, err
	}
	return &doc, nil
}

func loadMoveSemanticsRules(path string) (*MoveSemanticsRules, error) {
	var doc MoveSemanticsRules
	if err := decode(path, &doc); err != nil {
		return nil, err
	}
	if err := checkVersion(path, doc.Version); err != nil {
		return nil, err
	}
	if err := requireList(path, "state_bearing_types", len(doc.StateBearingTypes)); err != nil {
		return nil, err
	}
	for _, sbt := range doc.StateBearingTypes {
		if err := requireStr(path, "type_path", sbt.TypePath); err != nil {
			return nil, err
		}
		if err := requireList(path, "consumed_transition_methods", len(sbt.ConsumedTransitionMethods)); err != nil {
			return nil, err
		}
		for _, tm := range sbt.ConsumedTransitionMethods {
			if err := requireStr(path, "method_path", tm.MethodPath); err != nil {
				return nil, err
			}
			if !tm.ConsumesSelf {
				return nil, &SchemaError{
					Document: path,
					Message:  fmt.Sprintf("transition '%s' must set consumes_self=true", tm.MethodPath),
				}
			}
			if err := requireStr(path, "post_move_unusability_guarantee", tm.PostMoveUnusabilityGuarantee); err != nil {
				return nil, err
			}
		}
	}
	return &doc, nil
}

func loadDRYProofMap(path string) (*DRYProofMap, error) {
	var doc DRYProofMap
	if err := decode(path, &doc); err != nil {
		return nil, err
	}
	if err := checkVersion(path, doc.Version); err != nil {
		return nil, err
	}
	if err := requireList(path, "entries", len(doc.Entries)); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, e := range doc.Entries {
		if err := requireStr(path, "invariant_id", e.InvariantID); err != nil {
			return nil, err
		}
		if err := requireStr(path, "canonical_proof_type_path", e.CanonicalProofTypePath); err != nil {
			return nil, err
		}
		if err := requireStr(path, "authority_boundary_module_path", e.AuthorityBoundaryModulePath); err != nil {
			return nil, err
		}
		if seen[e.InvariantID] {
			return nil, &SchemaError{Document: path, Message: fmt.Sprintf("duplicate invariant_id '%s'", e.InvariantID)}
		}
		seen[e.InvariantID] = true
	}
	return &doc, nil
}

func loadClassificationMap(path string) (*ClassificationMap, error) {
	var doc ClassificationMap
	if err := decode(path, &doc); err != nil {
		return nil, err
	}
	if err := checkVersion(path, doc.Version); err != nil {
		return nil, err
	}
	if err := requireList(path, "rules", len(doc.Rules)); err != nil {
		return nil, err
	}
	for i, r := range doc.Rules {
		if err := requireStr(path, "prefix", r.Prefix); err != nil {
			return nil, err
		}
		if strings.HasPrefix(r.Prefix, "/") || strings.Contains(r.Prefix, "..") || strings.Contains(r.Prefix, "\\") {
			return nil, &SchemaError{
				Document: path,
				Message:  fmt.Sprintf("rules[%d].prefix must be workspace-relative with no traversal", i),
			}
		}
		if _, ok := classify.ParseClass(r.Class); !ok {
			return nil, &SchemaError{
				Document: path,
				Message:  fmt.Sprintf("rules[%d].class must be one of [core boundary]", i),
			}
		}
	}
	return &doc, nil
}
