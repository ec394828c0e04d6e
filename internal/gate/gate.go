package gate

import (
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/danielchristiancazares/forgegate/internal/classify"
	"github.com/danielchristiancazares/forgegate/internal/policy"
	"github.com/danielchristiancazares/forgegate/internal/symbols"
	"github.com/danielchristiancazares/forgegate/internal/workspace"
)

// Options configure one gate run.
type Options struct {
	// Root is the workspace root holding the root manifest.
	Root string
	// PolicyDir holds the six policy documents. Defaults to <root>/ifa.
	PolicyDir string
}

// run holds the state of one gate execution: the loaded inputs plus the
// run-scoped cache. Nothing here outlives the run.
type run struct {
	ws       *workspace.Workspace
	cache    *workspace.Cache
	docs     *policy.Documents
	resolver *symbols.Resolver

	// enumIndex caches per-module enumeration names for the ban checks.
	enumIndex map[string]map[string]bool

	dryProofPath string
}

// Run executes the full gate: load, classify, then every validator in the
// fixed order. The first failure aborts the remaining stages and is returned
// as the run's single diagnostic.
func Run(opts Options) error {
	policyDir := opts.PolicyDir
	if policyDir == "" {
		policyDir = filepath.Join(opts.Root, "ifa")
	}

	token := uuid.Must(uuid.NewV7()).String()
	log := slog.With("run", token)
	log.Debug("gate run starting", "root", opts.Root, "policy_dir", policyDir)

	docs, err := policy.Load(policyDir)
	if err != nil {
		return err
	}

	ws, err := workspace.Load(opts.Root)
	if err != nil {
		return err
	}
	if err := ws.Health(); err != nil {
		return err
	}

	cache := workspace.NewCache(opts.Root)
	r := &run{
		ws:           ws,
		cache:        cache,
		docs:         docs,
		resolver:     symbols.NewResolver(ws, cache),
		enumIndex:    make(map[string]map[string]bool),
		dryProofPath: filepath.Join(policyDir, policy.DRYProofMapFile),
	}

	assignment, err := classify.Classify(docs.Classification.ClassifyRules(), ws.Files())
	if err != nil {
		return err
	}
	coreFiles := assignment.Core(ws.Files())
	log.Debug("classification complete", "files", len(ws.Files()), "core", len(coreFiles))

	stages := []struct {
		name  string
		check func() error
	}{
		{"core bans", func() error { return r.checkCoreBans(coreFiles) }},
		{"engine bans", func() error { return r.checkEngineBans(ws.Module("engine")) }},
		{"invariant registry", r.checkRegistry},
		{"authority boundary map", r.checkAuthorityMap},
		{"controlled-type unforgeability", r.checkUnforgeability},
		{"constructor visibility ceilings", r.checkConstructorCeilings},
		// Parametricity rules are schema-only and fully validated at the
		// load boundary.
		{"move semantics", r.checkMoveSemantics},
		{"dry proof map", r.checkDRYProofMap},
	}
	for _, stage := range stages {
		if err := stage.check(); err != nil {
			log.Debug("stage failed", "stage", stage.name)
			return err
		}
		log.Debug("stage passed", "stage", stage.name)
	}
	return nil
}
