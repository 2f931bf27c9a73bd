package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var getOutput string

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read a value",
	Long: `Read the value stored under the given key.

The value is streamed to stdout, or to the file named with -o.

Examples:
  blobkv get etc.tar | tar -t
  blobkv get backup.tar -o /tmp/backup.tar`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		r, err := s.Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		var w io.Writer = os.Stdout
		if getOutput != "" {
			f, err := os.Create(getOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		_, err = io.Copy(w, r)
		return err
	},
}

func init() {
	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "output file (default: stdout)")
}
