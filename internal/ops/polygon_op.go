package ops

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshops/internal/ops/polygon"
	"github.com/Faultbox/meshops/pkg/math"
)

type makePolygonParams struct {
	polygon.Options `yaml:",inline"`
	// Points are world positions, placed in order.
	Points [][3]float32 `yaml:"points"`
}

func makePolygon() OperatorSpec {
	return OperatorSpec{
		ID:    "make_polygon",
		Label: "Draw Polygon",
		Description: "Draw a polygon vertex by vertex. Outside edit mode the polygon " +
			"becomes a new object.",
		Poll:    func(ctx *Context) bool { return ctx.Scene != nil },
		Execute: executeMakePolygon,
	}
}

// executeMakePolygon places the given points through a polygon session. The
// viewer drives the same session interactively.
func executeMakePolygon(ctx *Context, params Params) (Result, error) {
	p := makePolygonParams{Options: polygon.Options{
		Pivot: ctx.Tools.PolygonPivot,
		Align: ctx.Tools.PolygonAlign,
		Axis:  "XY",
	}}
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	if len(p.Points) == 0 {
		return Cancelled("No points to draw"), nil
	}

	ss, err := polygon.Start(ctx.Scene, p.Options, polygon.View{Focus: ctx.Scene.Cursor.Location})
	if err != nil {
		return Result{}, err
	}
	for _, pt := range p.Points {
		if err := ss.AddPoint(math.Vec3FromArray(pt)); err != nil {
			return Result{}, err
		}
	}
	if err := ss.Finish(); err != nil {
		return Result{}, err
	}
	ctx.Log.Debug("polygon drawn",
		zap.String("object", ss.Object().Name),
		zap.Int("points", len(p.Points)))
	return Finished(""), nil
}
