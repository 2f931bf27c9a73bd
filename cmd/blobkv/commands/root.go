package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/blobkv/pkg/cli"
)

var (
	// Global flags
	cfgFile     string
	contextName string
	outputJSON  bool
	verbose     bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blobkv",
	Short: "Key-value store CLI for files, S3 and embedded databases",
	Long: `blobkv - a command line interface for backend-agnostic key-value stores.

Values are opaque byte blobs addressed by flat string keys. The same
commands work against every backend: a local directory, a web-exported
directory, an S3 bucket, or an embedded Badger database.

Configuration is stored in ~/.blobkv/ and supports multiple contexts,
similar to kubectl's context management.

Examples:
  # Set up a local store
  blobkv config add-context local --store fs --root /var/data/blobs
  blobkv config use-context local

  # Store and fetch a value
  blobkv put report.pdf ./report.pdf
  blobkv get report.pdf -o /tmp/report.pdf

  # Same commands against S3
  blobkv -c prod put report.pdf ./report.pdf
  blobkv -c prod ls --json
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is ~/.blobkv/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(existsCmd)
	rootCmd.AddCommand(urlCmd)
}

func initConfig() {
	// Configure slog based on verbose flag
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	var err error
	globalConfig, err = cli.LoadConfig(cfgFile)
	if err != nil {
		// Log but don't exit — allows running commands that need no
		// config (e.g. help).
		fmt.Fprintf(os.Stderr, "Warning: config: %v\n", err)
	}
}

// getContext returns the context configuration to use
func getContext() (*cli.Context, error) {
	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	ctx, err := globalConfig.ResolveContext(contextName)
	if err != nil {
		if contextName == "" {
			return nil, fmt.Errorf("no context specified. Use -c flag or set a default context with 'blobkv config use-context'")
		}
		return nil, err
	}

	return ctx, nil
}
