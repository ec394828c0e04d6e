package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielchristiancazares/forgegate/internal/workspace"
)

// NewTreeCommand creates the tree command.
func NewTreeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [root]",
		Short: "Print the workspace file tree with module boundaries",
		Long: `Print the source tree of the workspace at root (default: current
directory). Module boundary directories are marked. Only tracked source
files and module README files appear.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(rootOpts, args, cmd)
		},
	}
	return cmd
}

// moduleTree is the JSON payload for one workspace member.
type moduleTree struct {
	Name      string   `json:"name"`
	Dir       string   `json:"dir"`
	HasReadme bool     `json:"has_readme"`
	Files     []string `json:"files"`
}

func runTree(opts *RootOptions, args []string, cmd *cobra.Command) error {
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

	if opts.Format == "json" {
		payload := make([]moduleTree, 0, len(ws.Modules))
		for _, m := range ws.Modules {
			payload = append(payload, moduleTree{
				Name:      m.Name,
				Dir:       m.Dir,
				HasReadme: m.HasReadme,
				Files:     m.Files,
			})
		}
		return formatter.Success(map[string]interface{}{"modules": payload})
	}

	fmt.Fprint(formatter.Writer, renderTree(ws))
	return nil
}

// treeNode is one directory in the rendered tree.
type treeNode struct {
	dirs  map[string]*treeNode
	files []string
}

func newTreeNode() *treeNode {
	return &treeNode{dirs: make(map[string]*treeNode)}
}

func (n *treeNode) insert(rel string) {
	dir, rest, ok := strings.Cut(rel, "/")
	if !ok {
		n.files = append(n.files, rel)
		return
	}
	child := n.dirs[dir]
	if child == nil {
		child = newTreeNode()
		n.dirs[dir] = child
	}
	child.insert(rest)
}

// renderTree draws the workspace as a connector tree, directories before
// files, module boundary directories marked.
func renderTree(ws *workspace.Workspace) string {
	root := newTreeNode()
	moduleDirs := make(map[string]string) // dir path -> module name
	for _, m := range ws.Modules {
		moduleDirs[m.Dir] = m.Name
		if m.HasReadme {
			root.insert(m.Dir + "/README.md")
		}
		for _, f := range m.Files {
			root.insert(f)
		}
	}

	var b strings.Builder
	b.WriteString(".\n")
	renderNode(&b, root, "", "", moduleDirs)
	return b.String()
}

func renderNode(b *strings.Builder, n *treeNode, prefix, path string, moduleDirs map[string]string) {
	dirNames := make([]string, 0, len(n.dirs))
	for name := range n.dirs {
		dirNames = append(dirNames, name)
	}
	sort.Strings(dirNames)
	files := append([]string(nil), n.files...)
	sort.Strings(files)

	total := len(dirNames) + len(files)
	i := 0
	for _, name := range dirNames {
		connector, extension := connectors(i == total-1)
		full := name
		if path != "" {
			full = path + "/" + name
		}
		label := name
		if modName, ok := moduleDirs[full]; ok {
			label = fmt.Sprintf("%s  [module %s]", name, modName)
		}
		fmt.Fprintf(b, "%s%s%s\n", prefix, connector, label)
		renderNode(b, n.dirs[name], prefix+extension, full, moduleDirs)
		i++
	}
	for _, name := range files {
		connector, _ := connectors(i == total-1)
		fmt.Fprintf(b, "%s%s%s\n", prefix, connector, name)
		i++
	}
}

func connectors(last bool) (connector, extension string) {
	if last {
		return "└── ", "    "
	}
	return "├── ", "│   "
}
