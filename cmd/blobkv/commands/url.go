package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url <key>",
	Short: "Derive the external URL for a key",
	Long: `Derive the externally resolvable URL for a key.

The URL is computed from the key and the store's configuration alone;
the key's existence is not checked. Only fs, web and url-configured s3
stores have URLs.

Examples:
  blobkv url report.pdf
  blobkv -c web url "a b"   # → https://example.invalid/files/a%20b`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := urlStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		u, err := s.URLFor(args[0])
		if err != nil {
			return err
		}
		fmt.Println(u)
		return nil
	},
}
