// Package input maps window key events to runner actions.
package input

import "github.com/go-gl/glfw/v3.3/glfw"

// Action is what the runner should do in response to a key event.
type Action int

const (
	None Action = iota
	Quit
	Reload
)

func (a Action) String() string {
	switch a {
	case Quit:
		return "quit"
	case Reload:
		return "reload"
	}
	return "none"
}

// Bindings maps keys to actions.
type Bindings map[glfw.Key]Action

// DefaultBindings binds ESC to Quit and R to Reload.
func DefaultBindings() Bindings {
	return Bindings{
		glfw.KeyEscape: Quit,
		glfw.KeyR:      Reload,
	}
}

// Resolve returns the action for a key event. Only presses trigger actions;
// repeats and releases are ignored.
func (b Bindings) Resolve(key glfw.Key, action glfw.Action) Action {
	if action != glfw.Press {
		return None
	}
	return b[key]
}
