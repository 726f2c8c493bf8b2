package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reliefgrid/reliefgrid/internal/config"
	"github.com/reliefgrid/reliefgrid/internal/platform/factory"
)

func init() {
	cacheCmd := &cobra.Command{Use: "cache", Short: "Lookup cache operations"}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove every expired cache entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			c, err := factory.NewCache(cfg, zerolog.Nop())
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			n, err := c.ClearExpired(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stdout, "removed %d expired entries\n", n)
			return nil
		},
	}
	cacheCmd.AddCommand(sweepCmd)

	rootCmd.AddCommand(cacheCmd)
}
