package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/blobkv/pkg/cli"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List keys",
	Long: `List every key in the store.

Keys are streamed one per line as the backend produces them; with
--json the full listing is collected and emitted as a JSON array.
The listing is a snapshot and may not reflect concurrent writes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if outputJSON {
			keys, err := s.Keys(cmd.Context())
			if err != nil {
				return err
			}
			if keys == nil {
				keys = []string{}
			}
			return cli.Output(keys, cli.OutputOptions{Format: cli.FormatJSON})
		}

		for key, err := range s.IterKeys(cmd.Context()) {
			if err != nil {
				return err
			}
			fmt.Println(key)
		}
		return nil
	},
}
