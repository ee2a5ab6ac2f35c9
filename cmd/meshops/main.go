// meshops runs mesh modeling operators on scene files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/meshops/internal/config"
	"github.com/Faultbox/meshops/internal/logger"
	"github.com/Faultbox/meshops/internal/ops"
)

// cli holds what every subcommand shares.
type cli struct {
	flags    config.Flags
	cfg      *config.Config
	registry *ops.Registry
}

func newRootCmd() *cobra.Command {
	c := &cli{registry: ops.Default()}

	root := &cobra.Command{
		Use:   "meshops",
		Short: "Mesh modeling operators for scene files",
		Long: `meshops applies modeling operators to YAML or TOML scene files:
mirroring, arrays, loop selection, cursor and pivot placement and more.

Examples:
  meshops new cube scene.yaml --edit
  meshops run quick_mirror --scene scene.yaml -p axis=Y
  meshops menus`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(&c.flags)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return logger.Setup(cfg.Logging.Options())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	c.flags.Register(root.PersistentFlags())

	root.AddCommand(
		c.listCmd(),
		c.menusCmd(),
		c.runCmd(),
		c.infoCmd(),
		c.newCmd(),
		c.convertCmd(),
		c.configCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
