package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// cli carries the state shared by all subcommands.
type cli struct {
	v       *viper.Viper
	cfgFile string
	debug   bool
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "pubfront",
		Short: "Server-rendered front end for a headless WordPress site",
		Long: `pubfront serves a WordPress site's posts over WPGraphQL as plain HTML
pages with cursor pagination, RSS and a sitemap.

Configuration comes from flags, environment variables (SITE_NAME,
WORDPRESS_GRAPHQL_ENDPOINT, ...), a .env file and an optional YAML file
passed with --config.

Examples:
  pubfront serve
  pubfront preload --cache-backend sqlite
  pubfront version`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "development logging at debug level")
	bindFlags(c.v, root)

	root.AddCommand(newServeCmd(c), newPreloadCmd(c), newVersionCmd())
	return root
}

// init loads .env, the config file and the environment, then builds the logger.
func (c *cli) init() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", c.cfgFile, err)
		}
	}

	var err error
	if c.debug {
		c.log, err = zap.NewDevelopment()
	} else {
		c.log, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	return nil
}
