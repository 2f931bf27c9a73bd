package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/blobkv/pkg/cli"
)

var rmCmd = &cobra.Command{
	Use:   "rm <key>...",
	Short: "Delete values",
	Long: `Delete the values stored under the given keys.

Deleting an absent key is a successful no-op, so rm can be re-run
safely.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		for _, key := range args {
			if err := s.Delete(cmd.Context(), key); err != nil {
				return err
			}
			cli.PrintSuccess("deleted %s", key)
		}
		return nil
	},
}
