// Package ui provides a minimal message-driven component runtime:
// one update loop, one mutation path, and a redraw after every
// update that asks for one.
package ui

import (
	"log/slog"

	"github.com/elizafairlady/userpanel/ui/proto"
	"github.com/elizafairlady/userpanel/ui/view"
)

// Component owns its state and is only ever touched by the loop.
type Component interface {
	// Update applies msg and reports whether the view must be
	// recomputed. dispatch enqueues follow-up messages; it never
	// blocks and may be kept for use from other goroutines.
	Update(msg Msg, dispatch Dispatch) bool

	// View describes the current state. It must not mutate anything.
	View() *view.Node
}

// Unmounter is implemented by components that hold resources which
// must be released when the loop stops.
type Unmounter interface {
	Unmount()
}

// Renderer displays a tree snapshot.
type Renderer interface {
	Render(t *proto.Tree) error
}

// App defines the application structure.
type App struct {
	Component Component
	Renderer  Renderer

	// Mount is enqueued once, after the first render.
	Mount []Msg

	Logger *slog.Logger
}
