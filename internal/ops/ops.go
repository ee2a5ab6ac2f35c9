// Package ops implements the modeling operators and the registry they are
// looked up in by identifier.
//
// An operator is a Poll guard plus an Execute function. Run refuses to
// execute when Poll fails, and restores the edited meshes when Execute
// cancels or fails, so callers only ever see finished edits.
package ops

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/meshops/internal/config"
	"github.com/Faultbox/meshops/internal/logger"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

var (
	// ErrUnknownOperator is returned for identifiers missing from the registry.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrPollFailed is returned when an operator cannot run in the current context.
	ErrPollFailed = errors.New("operator cannot run in this context")
	// ErrNoPointer is returned by operators that need a ray under the mouse.
	ErrNoPointer = errors.New("no pointer ray")
)

// Status is the outcome of an operator.
type Status string

const (
	StatusFinished  Status = "FINISHED"
	StatusCancelled Status = "CANCELLED"
)

// Result is what an operator reports back to the user.
type Result struct {
	Status  Status
	Message string
}

// Finished returns a successful result with an optional message.
func Finished(format string, args ...any) Result {
	if format == "" {
		return Result{Status: StatusFinished}
	}
	return Result{Status: StatusFinished, Message: fmt.Sprintf(format, args...)}
}

// Cancelled returns a recoverable cancellation. The edit is rolled back.
func Cancelled(format string, args ...any) Result {
	return Result{Status: StatusCancelled, Message: fmt.Sprintf(format, args...)}
}

// Context is everything an operator may read or change.
type Context struct {
	Scene     *scene.Scene
	Clipboard *scene.Clipboard
	Tools     config.ToolsConfig
	// Pointer is the world-space ray under the mouse, when there is one.
	Pointer *scene.Ray
	Log     *zap.Logger
}

// NewContext returns a context with default tool settings.
func NewContext(s *scene.Scene) *Context {
	return &Context{
		Scene:     s,
		Clipboard: scene.NewClipboard(""),
		Tools:     config.Default().Tools,
		Log:       logger.Named("ops"),
	}
}

// NewContextWithConfig returns a context using the tool defaults and copy
// buffer location from cfg.
func NewContextWithConfig(s *scene.Scene, cfg *config.Config) *Context {
	ctx := NewContext(s)
	ctx.Tools = cfg.Tools
	ctx.Clipboard = scene.NewClipboard(cfg.Clipboard.Path)
	return ctx
}

// OperatorSpec describes one operator.
type OperatorSpec struct {
	ID          string
	Label       string
	Description string
	Poll        func(ctx *Context) bool
	Execute     func(ctx *Context, params Params) (Result, error)
}

// MenuItem runs an operator with preset parameters, or opens a submenu.
type MenuItem struct {
	Label    string `yaml:"label"`
	Operator string `yaml:"operator,omitempty"`
	Params   Params `yaml:"params,omitempty"`
	Menu     string `yaml:"menu,omitempty"`
}

// MenuSpec is a named list of menu items.
type MenuSpec struct {
	ID    string     `yaml:"id"`
	Label string     `yaml:"label"`
	Pie   bool       `yaml:"pie,omitempty"`
	Items []MenuItem `yaml:"items"`
}

// Registry maps identifiers to operators and menus.
type Registry struct {
	operators map[string]*OperatorSpec
	menus     map[string]*MenuSpec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		operators: make(map[string]*OperatorSpec),
		menus:     make(map[string]*MenuSpec),
	}
}

// Register adds an operator. Identifiers must be unique.
func (r *Registry) Register(op OperatorSpec) error {
	if op.ID == "" {
		return fmt.Errorf("operator id cannot be empty")
	}
	if op.Execute == nil {
		return fmt.Errorf("operator %q has no execute function", op.ID)
	}
	if _, exists := r.operators[op.ID]; exists {
		return fmt.Errorf("operator %q already registered", op.ID)
	}
	r.operators[op.ID] = &op
	return nil
}

// RegisterMenu adds a menu. Every operator and submenu it names must exist.
func (r *Registry) RegisterMenu(menu MenuSpec) error {
	if _, exists := r.menus[menu.ID]; exists {
		return fmt.Errorf("menu %q already registered", menu.ID)
	}
	for _, item := range menu.Items {
		if item.Operator != "" {
			if _, ok := r.operators[item.Operator]; !ok {
				return fmt.Errorf("menu %q: %w: %s", menu.ID, ErrUnknownOperator, item.Operator)
			}
		}
		if item.Menu != "" {
			if _, ok := r.menus[item.Menu]; !ok {
				return fmt.Errorf("menu %q: unknown submenu %q", menu.ID, item.Menu)
			}
		}
	}
	r.menus[menu.ID] = &menu
	return nil
}

// Operator returns the operator with the identifier.
func (r *Registry) Operator(id string) (*OperatorSpec, error) {
	op, ok := r.operators[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, id)
	}
	return op, nil
}

// Operators lists every operator sorted by identifier.
func (r *Registry) Operators() []*OperatorSpec {
	out := make([]*OperatorSpec, 0, len(r.operators))
	for _, op := range r.operators {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Menu returns the menu with the identifier, or nil.
func (r *Registry) Menu(id string) *MenuSpec {
	return r.menus[id]
}

// Menus lists every menu sorted by identifier.
func (r *Registry) Menus() []*MenuSpec {
	out := make([]*MenuSpec, 0, len(r.menus))
	for _, m := range r.menus {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Available reports whether the operator's poll passes.
func (r *Registry) Available(ctx *Context, id string) bool {
	op, err := r.Operator(id)
	if err != nil {
		return false
	}
	return op.Poll == nil || op.Poll(ctx)
}

// Run polls and executes an operator. A cancelled or failed operator leaves
// the meshes of the scene as they were.
func (r *Registry) Run(ctx *Context, id string, params Params) (Result, error) {
	op, err := r.Operator(id)
	if err != nil {
		return Result{}, err
	}
	if ctx.Log == nil {
		ctx.Log = logger.Named("ops")
	}
	log := ctx.Log
	if op.Poll != nil && !op.Poll(ctx) {
		log.Debug("poll failed", zap.String("operator", id))
		return Result{}, fmt.Errorf("%s: %w", id, ErrPollFailed)
	}

	snap := takeSnapshot(ctx.Scene)
	res, err := op.Execute(ctx, params)
	if err != nil {
		snap.restore(ctx.Scene)
		log.Debug("operator failed", zap.String("operator", id), zap.Error(err))
		return Result{}, fmt.Errorf("%s: %w", id, err)
	}
	if res.Status == "" {
		res.Status = StatusFinished
	}
	if res.Status == StatusCancelled {
		snap.restore(ctx.Scene)
	}
	log.Debug("operator done",
		zap.String("operator", id),
		zap.String("status", string(res.Status)),
		zap.String("message", res.Message))
	return res, nil
}

// snapshot holds copies of every mesh, object and material in the scene
// along with the object selection.
type snapshot struct {
	meshes    map[*mesh.Mesh]*mesh.Mesh
	states    map[*scene.Object]scene.Object
	objects   []*scene.Object
	selected  []*scene.Object
	active    *scene.Object
	materials []*scene.Material
	matStates map[*scene.Material]scene.Material
	cursor    scene.Cursor
	tools     scene.ToolSettings
}

func takeSnapshot(s *scene.Scene) *snapshot {
	snap := &snapshot{
		meshes:    make(map[*mesh.Mesh]*mesh.Mesh),
		states:    make(map[*scene.Object]scene.Object, len(s.Objects)),
		objects:   append([]*scene.Object(nil), s.Objects...),
		selected:  s.Selected(),
		active:    s.Active(),
		materials: append([]*scene.Material(nil), s.Materials...),
		matStates: make(map[*scene.Material]scene.Material, len(s.Materials)),
		cursor:    s.Cursor,
		tools:     s.Tools,
	}
	for _, m := range s.Materials {
		snap.matStates[m] = *m
	}
	for _, o := range s.Objects {
		state := *o
		state.MaterialSlots = append([]string(nil), o.MaterialSlots...)
		snap.states[o] = state
		if o.Mesh != nil && snap.meshes[o.Mesh] == nil {
			snap.meshes[o.Mesh] = o.Mesh.Copy()
		}
	}
	return snap
}

func (snap *snapshot) restore(s *scene.Scene) {
	for live, saved := range snap.meshes {
		*live = *saved
		live.InvalidateLookup()
	}
	for o, state := range snap.states {
		*o = state
	}
	s.Objects = snap.objects
	s.DeselectAll()
	for _, o := range snap.selected {
		s.Select(o, true)
	}
	s.SetActive(snap.active)
	for m, state := range snap.matStates {
		*m = state
	}
	s.Materials = snap.materials
	s.Cursor = snap.cursor
	s.Tools = snap.tools
}
