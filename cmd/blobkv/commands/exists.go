package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var existsCmd = &cobra.Command{
	Use:   "exists <key>",
	Short: "Check whether a key is present",
	Long: `Print "true" if the key has a stored value and "false" otherwise.

Absence is not an error; the command fails only when the backend
cannot be reached or the key is malformed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		ok, err := s.Exists(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(ok)
		return nil
	},
}
