package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielchristiancazares/forgegate/internal/scan"
	"github.com/danielchristiancazares/forgegate/internal/workspace"
)

// NewAPICommand creates the api command.
func NewAPICommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api [root]",
		Short: "Print the public-API digest of a workspace",
		Long: `Print a flat digest of every public declaration in the workspace at
root (default: current directory): types, functions, trait implementations,
and public methods, with their source locations.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPI(rootOpts, args, cmd)
		},
	}
	return cmd
}

// apiItem is one public declaration in the JSON digest.
type apiItem struct {
	Module string `json:"module"`
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	File   string `json:"file"`
	Line   int    `json:"line"`
}

func runAPI(opts *RootOptions, args []string, cmd *cobra.Command) error {
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

	ws, err := workspace.Load(root)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading workspace", err)
	}
	cache := workspace.NewCache(root)

	items, text, err := digestWorkspace(ws, cache)
	if err != nil {
		return WrapExitError(ExitCommandError, "scanning workspace", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]interface{}{"items": items})
	}
	fmt.Fprint(formatter.Writer, text)
	return nil
}

// digestWorkspace walks every module's files and collects the public
// surface: public top-level declarations, public inherent methods, and
// trait-implementation blocks.
func digestWorkspace(ws *workspace.Workspace, cache *workspace.Cache) ([]apiItem, string, error) {
	var items []apiItem
	var b strings.Builder

	for _, m := range ws.Modules {
		fmt.Fprintf(&b, "module %s\n", m.Name)
		for _, rel := range m.Files {
			f, err := cache.File(rel)
			if err != nil {
				return nil, "", err
			}
			for i := range f.Decls {
				d := &f.Decls[i]
				items = append(items, digestDecl(&b, m.Name, rel, d)...)
			}
		}
	}
	return items, b.String(), nil
}

func digestDecl(b *strings.Builder, module, rel string, d *scan.Declaration) []apiItem {
	var items []apiItem

	switch d.Kind {
	case scan.KindAggregate, scan.KindEnumeration, scan.KindInterface:
		if d.Visibility != scan.VisibilityPublic {
			return nil
		}
		fmt.Fprintf(b, "  pub %s %s  %s:%d\n", d.Kind, d.Name, rel, d.Line)
		items = append(items, apiItem{
			Module: module,
			Kind:   string(d.Kind),
			Path:   module + "::" + d.Name,
			File:   rel,
			Line:   d.Line,
		})
		for _, c := range d.Children {
			switch c.Kind {
			case scan.ChildVariant:
				fmt.Fprintf(b, "    %s\n", c.Name)
			case scan.ChildField, scan.ChildSlot:
				if c.Visibility == scan.VisibilityPublic {
					fmt.Fprintf(b, "    pub %s: %s\n", c.Name, c.Type)
				}
			case scan.ChildMethod:
				// Interface methods are public through the interface.
				fmt.Fprintf(b, "    fn %s\n", c.Name)
			}
		}

	case scan.KindFunction:
		if d.Visibility != scan.VisibilityPublic {
			return nil
		}
		fmt.Fprintf(b, "  pub fn %s  %s:%d\n", d.Name, rel, d.Line)
		items = append(items, apiItem{
			Module: module,
			Kind:   "fn",
			Path:   module + "::" + d.Name,
			File:   rel,
			Line:   d.Line,
		})

	case scan.KindImplBlock:
		if !d.Inherent() {
			fmt.Fprintf(b, "  impl %s for %s  %s:%d\n", d.TraitName, d.ForType, rel, d.Line)
			items = append(items, apiItem{
				Module: module,
				Kind:   "impl",
				Path:   fmt.Sprintf("%s for %s::%s", d.TraitName, module, d.ForType),
				File:   rel,
				Line:   d.Line,
			})
			return items
		}
		for _, c := range d.Children {
			if c.Kind != scan.ChildMethod || c.Visibility != scan.VisibilityPublic {
				continue
			}
			fmt.Fprintf(b, "  pub fn %s::%s  %s:%d\n", d.Name, c.Name, rel, c.Line)
			items = append(items, apiItem{
				Module: module,
				Kind:   "method",
				Path:   fmt.Sprintf("%s::%s::%s", module, d.Name, c.Name),
				File:   rel,
				Line:   c.Line,
			})
		}
	}
	return items
}
