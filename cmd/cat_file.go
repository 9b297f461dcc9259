package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/govcs/internal/constants"
	"github.com/KostasZigo/govcs/utils"
)

var catFileCmd = &cobra.Command{
	Use:   "cat-file <type> <object>",
	Short: "Print the payload of a stored object",
	Long: `Resolve an object name to a digest, read the object from the store and print
its serialized payload on stdout. The given type must match the stored
object's actual type.

Examples:
  govcs cat-file blob ce013625030ba8dba906f756967f9e9ca394464a
  govcs cat-file commit HEAD`,
	SilenceUsage: true,
	Args:         requireArgs(constants.CatFileCmdName, 2, "type and object"),
	RunE:         runCatFile,
}

func init() {
	rootCmd.AddCommand(catFileCmd)
}

// runCatFile resolves, reads, and prints one object.
func runCatFile(cmd *cobra.Command, args []string) error {
	objectType, err := utils.ParseObjectType(args[0])
	if err != nil {
		return err
	}

	_, store, err := openStore()
	if err != nil {
		return err
	}

	digest, err := store.Resolve(args[1])
	if err != nil {
		return err
	}

	obj, err := store.Read(digest)
	if err != nil {
		return err
	}

	if obj.Type() != objectType {
		return fmt.Errorf("object %s is a %s, not a %s", digest, obj.Type(), objectType)
	}

	_, err = cmd.OutOrStdout().Write(obj.Content())
	return err
}
