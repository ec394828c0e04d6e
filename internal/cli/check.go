package cli

import (
	"github.com/spf13/cobra"

	"github.com/danielchristiancazares/forgegate/internal/gate"
)

// passedLine is the single stdout line emitted on a conforming workspace.
const passedLine = "conformance check passed."

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var policyDir string

	cmd := &cobra.Command{
		Use:   "check [root]",
		Short: "Run the conformance gate against a workspace",
		Long: `Run every conformance validator against the workspace at root
(default: current directory) and its policy documents.

Exit codes: 0 when the workspace conforms, 1 on the first conformance
failure, 2 on command errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, policyDir, args, cmd)
		},
	}

	cmd.Flags().StringVar(&policyDir, "policy-dir", "", "policy document directory (default: <root>/ifa)")

	return cmd
}

func runCheck(opts *RootOptions, policyDir string, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := LoadToolConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	root, err := resolveRoot(args, cfg)
	if err != nil {
		return err
	}
	if policyDir == "" {
		policyDir = cfg.PolicyDir
	}

	formatter.VerboseLog("checking workspace %s", root)

	if err := gate.Run(gate.Options{Root: root, PolicyDir: policyDir}); err != nil {
		// One diagnostic per run; the caller prints it to stderr verbatim.
		return &ExitError{Code: ExitFailure, Err: err}
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]bool{"passed": true})
	}
	return formatter.Success(passedLine)
}
