package polygon

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshops/pkg/scene"
)

// EventType identifies an input event.
type EventType int

const (
	EventPress EventType = iota
	EventRelease
	EventMove
)

// Button is a mouse button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
)

// Key is a keyboard key the session reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyEnter
	KeySpace
	KeyEscape
)

// Event is a viewer input event. Ray is the pointer ray for mouse events.
type Event struct {
	Type   EventType
	Button Button
	Key    Key
	Shift  bool
	Ray    scene.Ray
}

// Handle applies one input event and returns the resulting state.
//
//	left press        add a vertex and drag it until release
//	shift+left press  finish the outline and start a new one
//	right press       remove the newest vertex
//	enter, space      finish
//	escape            cancel
func (ss *Session) Handle(ev Event) (State, error) {
	if ss.state != Running {
		return ss.state, ErrNotRunning
	}

	switch ev.Type {
	case EventPress:
		switch {
		case ev.Key == KeyEscape:
			err := ss.Cancel()
			return ss.state, err
		case ev.Key == KeyEnter || ev.Key == KeySpace:
			err := ss.Finish()
			return ss.state, err
		case ev.Button == ButtonRight:
			err := ss.RemoveLast()
			return ss.state, err
		case ev.Button == ButtonLeft:
			loc, ok := ss.Locate(ev.Ray)
			if !ok {
				ss.log.Debug("pointer misses the drawing plane")
				return ss.state, nil
			}
			if ev.Shift && len(ss.verts) > 0 {
				if err := ss.NewSection(); err != nil {
					return ss.state, err
				}
			}
			if err := ss.AddPoint(loc); err != nil {
				return ss.state, err
			}
			ss.dragging = true
			co := loc.Array()
			ss.log.Debug("polygon vertex added",
				zap.Int("count", len(ss.verts)),
				zap.Float32s("location", co[:]))
		}
	case EventRelease:
		if ev.Button == ButtonLeft {
			ss.dragging = false
		}
	case EventMove:
		if !ss.dragging {
			return ss.state, nil
		}
		if loc, ok := ss.Locate(ev.Ray); ok {
			if err := ss.MoveLast(loc); err != nil {
				return ss.state, err
			}
		}
	}
	return ss.state, nil
}
