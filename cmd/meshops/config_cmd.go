package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/meshops/internal/config"
)

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.cfg.Write(cmd.OutOrStdout())
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the configuration in effect to a file",
		Long: `Writes the configuration in effect, defaults included, so it can be
edited. Without a path the file goes to the user config directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := c.cfg.SaveTo(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
