// meshview opens a scene file in an interactive wireframe viewer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/meshops/internal/config"
	"github.com/Faultbox/meshops/internal/logger"
	"github.com/Faultbox/meshops/internal/ops"
	"github.com/Faultbox/meshops/internal/viewer"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

func newRootCmd() *cobra.Command {
	var flags config.Flags

	cmd := &cobra.Command{
		Use:   "meshview [scene]",
		Short: "View and edit a scene file",
		Long: `meshview shows a scene in a window. Key bindings run operators and
open menus; Ctrl+S saves back to the scene file.

Without a scene file the viewer starts with a single plane and nothing is
saved.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(&flags)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if err := logger.Setup(cfg.Logging.Options()); err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer logger.Sync()

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			s, err := openScene(path)
			if err != nil {
				return err
			}
			logger.Info("=== meshview ===", zap.String("scene", path))

			v, err := viewer.New(cfg, ops.NewContextWithConfig(s, cfg), ops.Default(), path)
			if err != nil {
				return err
			}
			defer v.Close()
			return v.Run()
		},
	}
	flags.Register(cmd.Flags())
	flags.RegisterViewer(cmd.Flags())
	return cmd
}

func openScene(path string) (*scene.Scene, error) {
	if path != "" {
		return scene.Load(path)
	}
	s := scene.New()
	obj := s.AddObject("Plane", mesh.Plane(2))
	s.Select(obj, true)
	s.SetActive(obj)
	return s, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
