package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/blobkv/pkg/cli"
)

var putAdopt bool

var putCmd = &cobra.Command{
	Use:   "put <key> [file]",
	Short: "Store a value from a file or stdin",
	Long: `Store a value under the given key, overwriting any existing value.

The value is read from the named file, or from stdin when no file is
given. With --adopt the source file is moved into the store instead of
copied; on filesystem stores sharing a volume with the source this is
a single atomic rename.

Examples:
  blobkv put backup.tar ./backup.tar
  tar -c /etc | blobkv put etc.tar
  blobkv put render.png /tmp/render.png --adopt`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if putAdopt {
			if len(args) < 2 {
				return fmt.Errorf("--adopt requires a source file")
			}
			if err := s.PutFile(cmd.Context(), key, args[1]); err != nil {
				return err
			}
			cli.PrintSuccess("adopted %s as %s", args[1], key)
			return nil
		}

		var src io.Reader = os.Stdin
		if len(args) == 2 {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			src = f
		}
		if err := s.PutReader(cmd.Context(), key, src); err != nil {
			return err
		}
		cli.PrintSuccess("stored %s", key)
		return nil
	},
}

func init() {
	putCmd.Flags().BoolVar(&putAdopt, "adopt", false, "move the source file into the store instead of copying it")
}
