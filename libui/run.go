package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/elizafairlady/userpanel/ui/view"
)

// Loop serializes every state change of one component. Messages are
// applied strictly in the order they were dispatched, one at a time.
type Loop struct {
	app App
	log *slog.Logger

	mu      sync.Mutex
	queue   []Msg
	stopped bool
	wake    chan struct{}

	rev uint64 // owned by Run
}

// NewLoop creates a loop for app. Nothing happens until Run.
func NewLoop(app App) *Loop {
	log := app.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		app:  app,
		log:  log,
		wake: make(chan struct{}, 1),
	}
}

// Dispatch appends msg to the queue. It is safe to call from any
// goroutine, including from inside Update. Messages dispatched after
// the loop stopped are dropped.
func (l *Loop) Dispatch(msg Msg) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		l.log.Debug("message dropped after unmount", "msg", fmt.Sprintf("%T", msg))
		return
	}
	l.queue = append(l.queue, msg)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) next() (Msg, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	msg := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return msg, true
}

// Rev returns the revision of the last rendered tree. It is only
// meaningful once Run has returned.
func (l *Loop) Rev() uint64 {
	return l.rev
}

// Run renders the initial view, enqueues the mount messages and then
// processes messages until ctx is done or a Quit message arrives.
// The component is unmounted before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	if l.app.Component == nil || l.app.Renderer == nil {
		return errors.New("ui: app needs a component and a renderer")
	}
	defer l.unmount()

	l.redraw()
	for _, msg := range l.app.Mount {
		l.Dispatch(msg)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		msg, ok := l.next()
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-l.wake:
			}
			continue
		}
		if _, quit := msg.(Quit); quit {
			l.log.Debug("quit requested")
			return nil
		}
		if l.app.Component.Update(msg, l.Dispatch) {
			l.redraw()
		}
	}
}

// redraw is the single path from state to screen.
func (l *Loop) redraw() {
	root := l.app.Component.View()
	if root == nil {
		return
	}
	l.rev++
	if err := l.app.Renderer.Render(view.Serialize(root, l.rev)); err != nil {
		l.log.Error("render failed", "rev", l.rev, "error", err)
	}
}

func (l *Loop) unmount() {
	l.mu.Lock()
	l.stopped = true
	l.queue = nil
	l.mu.Unlock()

	if u, ok := l.app.Component.(Unmounter); ok {
		u.Unmount()
	}
}
