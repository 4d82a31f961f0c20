// Command tool is the operator CLI (§12.1): password hashing for
// AUTH_PASSWORD_HASH, a self-signed TLS cert/key pair for local testing,
// and migration up/down against the configured database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/llmstxt-pipeline/internal/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tool",
		Short:         "Operator CLI for the llms.txt pipeline",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.AddCommand(newHashPasswordCommand())
	cmd.AddCommand(newGenTLSCertCommand())
	cmd.AddCommand(newMigrateCommand())
	return cmd
}

func loadToolConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(config.GetConfigPath(""))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
