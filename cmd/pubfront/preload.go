package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/pubfront"
)

func newPreloadCmd(c *cli) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "preload",
		Short: "Fetch the first page into the response cache and exit",
		Long: `preload warms the response cache with the first listing page and the
site settings. Run it at build or deploy time against a persistent
backend (sqlite or redis) so the first visitor is served from cache.
Preloaded entries do not expire; POST /api/revalidate or a new preload
replaces them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := siteConfig(c.v)
			if err != nil {
				return err
			}
			app := pubfront.New(cfg, pubfront.WithLogger(c.log))
			defer app.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return app.Preload(ctx)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "give up after this long")
	return cmd
}
