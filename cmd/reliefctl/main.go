// reliefctl is an admin CLI operating directly on the record store and
// lookup cache, for local inspection and seeding.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reliefgrid/reliefgrid/internal/config"
	"github.com/reliefgrid/reliefgrid/internal/platform/factory"
	"github.com/reliefgrid/reliefgrid/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "reliefctl",
	Short:         "Admin CLI for the disaster-coordination data core",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// openStore builds the configured store; every subcommand goes through it.
func openStore() (store.Store, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	return factory.NewStore(cfg)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
