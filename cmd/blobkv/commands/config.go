package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/blobkv/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and store contexts.

Contexts allow you to manage multiple store configurations,
similar to kubectl's context management.

Configuration is stored in ~/.blobkv/config.yaml`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if globalConfig == nil {
			return fmt.Errorf("configuration not initialized")
		}
		return nil
	},
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new store context",
	Long: `Add a new context with the specified name.

Each context names a backend (--store) and its parameters:

  fs      requires --root
  web     requires --root and --url-prefix
  s3      requires --bucket; --prefix, --region, --endpoint,
          --access-key/--secret-key and --url-prefix are optional
  badger  optional --data-dir (default ~/.blobkv/data/<name>)
  memory  no parameters (ephemeral, for smoke tests)

Examples:
  blobkv config add-context local --store fs --root /var/data/blobs

  blobkv config add-context web \
    --store web --root /var/www/files \
    --url-prefix https://some.domain.invalid/files/

  blobkv config add-context prod \
    --store s3 --bucket my-bucket --prefix blobs --region eu-central-1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		ctx := &cli.Context{}
		for _, f := range []struct {
			flag string
			dst  *string
		}{
			{"store", &ctx.Store},
			{"root", &ctx.Root},
			{"url-prefix", &ctx.URLPrefix},
			{"bucket", &ctx.Bucket},
			{"prefix", &ctx.Prefix},
			{"region", &ctx.Region},
			{"endpoint", &ctx.Endpoint},
			{"access-key", &ctx.AccessKey},
			{"secret-key", &ctx.SecretKey},
			{"data-dir", &ctx.DataDir},
		} {
			v, err := cmd.Flags().GetString(f.flag)
			if err != nil {
				return fmt.Errorf("failed to read '%s' flag: %w", f.flag, err)
			}
			*f.dst = v
		}
		if ctx.Store == "" {
			return fmt.Errorf("--store is required")
		}

		if err := globalConfig.AddContext(name, ctx); err != nil {
			return err
		}
		cli.PrintSuccess("added context %q", name)

		// First context becomes current automatically.
		if globalConfig.CurrentContext == "" {
			if err := globalConfig.UseContext(name); err != nil {
				return err
			}
			cli.PrintInfo("context %q is now current", name)
		}
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := globalConfig.UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("switched to context %q", args[0])
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := globalConfig.DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("deleted context %q", args[0])
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:   "list-contexts",
	Short: "List all contexts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputJSON {
			return cli.Output(globalConfig.Contexts, cli.OutputOptions{Format: cli.FormatJSON})
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tSTORE\tLOCATION")
		for name, ctx := range globalConfig.Contexts {
			current := ""
			if name == globalConfig.CurrentContext {
				current = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", current, name, ctx.Store, contextLocation(ctx))
		}
		return w.Flush()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a context (credentials masked)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		ctx, err := globalConfig.ResolveContext(name)
		if err != nil {
			return err
		}
		shown := *ctx
		shown.SecretKey = cli.MaskSecret(shown.SecretKey)
		format := cli.FormatYAML
		if outputJSON {
			format = cli.FormatJSON
		}
		return cli.Output(&shown, cli.OutputOptions{Format: format})
	},
}

// contextLocation summarizes where a context's data lives.
func contextLocation(ctx *cli.Context) string {
	switch ctx.Store {
	case cli.StoreFS, cli.StoreWeb:
		return ctx.Root
	case cli.StoreS3:
		if ctx.Prefix != "" {
			return ctx.Bucket + "/" + ctx.Prefix
		}
		return ctx.Bucket
	case cli.StoreBadger:
		return ctx.DataDir
	}
	return ""
}

func init() {
	configAddContextCmd.Flags().String("store", "", "backend kind: fs, web, s3, badger or memory")
	configAddContextCmd.Flags().String("root", "", "root directory (fs, web)")
	configAddContextCmd.Flags().String("url-prefix", "", "URL prefix for derived locators, used verbatim (web, s3)")
	configAddContextCmd.Flags().String("bucket", "", "bucket name (s3)")
	configAddContextCmd.Flags().String("prefix", "", "object key prefix (s3)")
	configAddContextCmd.Flags().String("region", "", "AWS region (s3)")
	configAddContextCmd.Flags().String("endpoint", "", "custom endpoint for S3-compatible services (s3)")
	configAddContextCmd.Flags().String("access-key", "", "static access key (s3)")
	configAddContextCmd.Flags().String("secret-key", "", "static secret key (s3)")
	configAddContextCmd.Flags().String("data-dir", "", "database directory (badger)")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configShowCmd)
}
