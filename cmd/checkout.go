package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/govcs/internal/constants"
	"github.com/KostasZigo/govcs/internal/objects"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <commit|tree> <directory>",
	Short: "Materialize a commit or tree into a directory",
	Long: `Expand a stored tree (or the tree of a commit) into real files and
directories. The target directory must be empty or not exist yet; existing
files are never overwritten.

A failed checkout stops immediately and does not remove files it already
created.`,
	SilenceUsage: true,
	Args:         requireArgs(constants.CheckoutCmdName, 2, "object and directory"),
	RunE:         runCheckout,
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
}

// runCheckout materializes one tree into the target directory.
func runCheckout(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}

	if err := objects.Checkout(store, args[0], args[1]); err != nil {
		return fmt.Errorf("checkout failed: %w", err)
	}

	return nil
}
