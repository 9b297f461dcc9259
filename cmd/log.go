package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/govcs/internal/constants"
	"github.com/KostasZigo/govcs/internal/objects"
)

var logCmd = &cobra.Command{
	Use:   "log [commit]",
	Short: "Render the commit graph as Graphviz dot",
	Long: `Walk the parent edges starting from the given commit (default HEAD) and
print the history as a Graphviz digraph. Pipe the output through dot to
render it:

  govcs log | dot -Tpng -o history.png`,
	SilenceUsage: true,
	Args:         maximumArgs(1),
	RunE:         runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)
}

// runLog prints the ancestry digraph of one commit.
func runLog(cmd *cobra.Command, args []string) error {
	name := constants.Head
	if len(args) > 0 {
		name = args[0]
	}

	_, store, err := openStore()
	if err != nil {
		return err
	}

	digest, err := store.Resolve(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "digraph govcslog {")

	// Merge commits share ancestors; the seen set keeps each commit's
	// edges from being emitted more than once.
	seen := make(map[string]bool)
	if err := logGraphviz(store, out, digest, seen); err != nil {
		return err
	}

	fmt.Fprintln(out, "}")
	return nil
}

// logGraphviz emits one "C_parent -> C_child" edge per parent link,
// recursing into unvisited parents.
func logGraphviz(store *objects.ObjectStore, out io.Writer, digest string, seen map[string]bool) error {
	if seen[digest] {
		return nil
	}
	seen[digest] = true

	obj, err := store.Read(digest)
	if err != nil {
		return err
	}

	commit, ok := obj.(*objects.Commit)
	if !ok {
		return fmt.Errorf("object %s in commit history is a %s, not a commit", digest, obj.Type())
	}

	for _, parent := range commit.Parents() {
		fmt.Fprintf(out, "\tC_%s -> C_%s;\n", digest, parent)
		if err := logGraphviz(store, out, parent, seen); err != nil {
			return err
		}
	}

	return nil
}
