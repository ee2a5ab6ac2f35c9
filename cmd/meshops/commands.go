package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/meshops/internal/logger"
	"github.com/Faultbox/meshops/internal/ops"
	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

func (c *cli) listCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the available operators",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.listOperators(cmd.OutOrStdout(), verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show operator descriptions")
	return cmd
}

func (c *cli) listOperators(w io.Writer, verbose bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, op := range c.registry.Operators() {
		if verbose {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", op.ID, op.Label, op.Description)
		} else {
			fmt.Fprintf(tw, "%s\t%s\n", op.ID, op.Label)
		}
	}
	return tw.Flush()
}

func (c *cli) menusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menus [menu]",
		Short: "Show the operator menus",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			menus := c.registry.Menus()
			if len(args) == 1 {
				m := c.registry.Menu(args[0])
				if m == nil {
					return fmt.Errorf("unknown menu %q", args[0])
				}
				menus = []*ops.MenuSpec{m}
			}
			w := cmd.OutOrStdout()
			for _, m := range menus {
				printMenu(w, m)
			}
			return nil
		},
	}
}

func printMenu(w io.Writer, m *ops.MenuSpec) {
	kind := "menu"
	if m.Pie {
		kind = "pie"
	}
	fmt.Fprintf(w, "%s (%s, %s)\n", m.Label, m.ID, kind)
	for i, item := range m.Items {
		switch {
		case item.Menu != "":
			fmt.Fprintf(w, "  %d. %-20s -> menu %s\n", i+1, item.Label, item.Menu)
		case len(item.Params) > 0:
			fmt.Fprintf(w, "  %d. %-20s %s %s\n", i+1, item.Label, item.Operator, formatParams(item.Params))
		default:
			fmt.Fprintf(w, "  %d. %-20s %s\n", i+1, item.Label, item.Operator)
		}
	}
}

func formatParams(p ops.Params) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, p[k])
	}
	return strings.Join(parts, " ")
}

func (c *cli) runCmd() *cobra.Command {
	var (
		scenePath string
		outPath   string
		pairs     []string
		pointer   []float32
		dryRun    bool
	)
	cmd := &cobra.Command{
		Use:   "run <operator>",
		Short: "Run an operator on a scene file",
		Long: `Runs one operator on a scene file and writes the result back.

Parameters are given as key=value pairs; values are YAML, so lists and
booleans work as expected:
  meshops run linear_array --scene s.yaml -p count=[3,1,1] -p offset=[2,0,0]

Operators that work under the mouse take the pointer ray as six numbers,
origin then direction:
  meshops run move_to_face --scene s.yaml --pointer 0,0,10,0,0,-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := ops.ParseParams(pairs)
			if err != nil {
				return err
			}
			s, err := scene.Load(scenePath)
			if err != nil {
				return err
			}

			ctx := ops.NewContextWithConfig(s, c.cfg)
			if len(pointer) > 0 {
				if len(pointer) != 6 {
					return fmt.Errorf("--pointer needs 6 numbers, got %d", len(pointer))
				}
				ray := scene.NewRay(
					math.Vec3{X: pointer[0], Y: pointer[1], Z: pointer[2]},
					math.Vec3{X: pointer[3], Y: pointer[4], Z: pointer[5]})
				ctx.Pointer = &ray
			}

			res, err := c.registry.Run(ctx, args[0], params)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if res.Message != "" {
				fmt.Fprintf(w, "%s: %s\n", res.Status, res.Message)
			} else {
				fmt.Fprintln(w, res.Status)
			}
			if res.Status != ops.StatusFinished || dryRun {
				return nil
			}

			if outPath == "" {
				outPath = scenePath
			}
			if err := scene.Save(s, outPath); err != nil {
				return err
			}
			logger.Info("scene written", zap.String("path", outPath), zap.String("operator", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVarP(&scenePath, "scene", "s", "", "Scene file (.yaml, .yml or .toml)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the result here instead of the scene file")
	cmd.Flags().StringArrayVarP(&pairs, "param", "p", nil, "Operator parameter as key=value")
	cmd.Flags().Float32SliceVar(&pointer, "pointer", nil, "Pointer ray: ox,oy,oz,dx,dy,dz")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without writing the scene")
	_ = cmd.MarkFlagRequired("scene")
	return cmd
}

func (c *cli) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <scene>",
		Short: "Show the objects of a scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			return printInfo(cmd.OutOrStdout(), args[0], s)
		},
	}
}

func printInfo(w io.Writer, path string, s *scene.Scene) error {
	fmt.Fprintf(w, "Scene:     %s\n", path)
	fmt.Fprintf(w, "Objects:   %d\n", len(s.Objects))
	fmt.Fprintf(w, "Mode:      %s\n", s.SelectionMode())
	c := s.Cursor.Location
	fmt.Fprintf(w, "Cursor:    (%g, %g, %g)\n", c.X, c.Y, c.Z)
	if len(s.Materials) > 0 {
		names := make([]string, len(s.Materials))
		for i, m := range s.Materials {
			names[i] = m.Name
		}
		fmt.Fprintf(w, "Materials: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMODE\tVERTS\tEDGES\tFACES\tSELECTED\tLOCATION")
	for _, o := range s.Objects {
		flag := ""
		switch {
		case o == s.Active():
			flag = "*"
		case s.IsSelected(o):
			flag = "+"
		}
		var verts, edges, faces, sel int
		if o.Mesh != nil {
			verts, edges, faces = len(o.Mesh.Verts), len(o.Mesh.Edges), len(o.Mesh.Faces)
			sel = len(o.Mesh.SelectedVerts(false))
		}
		l := o.Location
		fmt.Fprintf(tw, "%s%s\t%s\t%d\t%d\t%d\t%d\t(%g, %g, %g)\n",
			o.Name, flag, o.Mode, verts, edges, faces, sel, l.X, l.Y, l.Z)
	}
	return tw.Flush()
}

func (c *cli) newCmd() *cobra.Command {
	var (
		size     float32
		segments []int
		name     string
		edit     bool
	)
	cmd := &cobra.Command{
		Use:   "new <plane|grid|cube> <scene>",
		Short: "Create a scene file holding one primitive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := primitive(args[0], size, segments)
			if err != nil {
				return err
			}
			s := scene.New()
			if name == "" {
				name = strings.ToUpper(args[0][:1]) + args[0][1:]
			}
			obj := s.AddObject(name, m)
			s.Select(obj, true)
			s.SetActive(obj)
			if edit {
				if err := s.SetSelectionMode(mesh.ModeVertex, mesh.MaskOf(mesh.ModeVertex)); err != nil {
					return err
				}
				m.SelectAll()
			}
			if err := scene.Save(s, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s with %s (%d verts, %d faces)\n",
				args[1], obj.Name, len(m.Verts), len(m.Faces))
			return nil
		},
	}
	cmd.Flags().Float32Var(&size, "size", 2, "Edge length")
	cmd.Flags().IntSliceVar(&segments, "segments", []int{4, 4}, "Grid segments along X and Y")
	cmd.Flags().StringVar(&name, "name", "", "Object name")
	cmd.Flags().BoolVar(&edit, "edit", false, "Start in edit mode with everything selected")
	return cmd
}

func primitive(kind string, size float32, segments []int) (*mesh.Mesh, error) {
	if size <= 0 {
		return nil, fmt.Errorf("size must be positive, got %g", size)
	}
	switch kind {
	case "plane":
		return mesh.Plane(size), nil
	case "cube":
		return mesh.Cube(size), nil
	case "grid":
		if len(segments) != 2 || segments[0] < 1 || segments[1] < 1 {
			return nil, fmt.Errorf("grid needs two positive segment counts, got %v", segments)
		}
		return mesh.Grid(segments[0], segments[1], size), nil
	}
	return nil, fmt.Errorf("unknown primitive %q", kind)
}

func (c *cli) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a scene between YAML and TOML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			return scene.Save(s, args[1])
		},
	}
}
