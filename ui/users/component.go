// Package users is a component that keeps a click counter and shows
// the user list loaded from a remote endpoint.
//
// All state lives in State and changes only through Component.Update,
// driven by the messages Increment, FetchUsers and FetchCompleted. A
// load runs outside the loop; its outcome comes back as a
// FetchCompleted message, never as a direct write. While a load is in
// flight further FetchUsers messages are ignored.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	ui "github.com/elizafairlady/userpanel/libui"
	"github.com/elizafairlady/userpanel/ui/view"
)

// Fetcher starts loading users. It must return at once with a non-nil
// handle and call done exactly once later, from any goroutine, unless
// the handle is cancelled first.
type Fetcher interface {
	Fetch(ctx context.Context, done func([]User, error)) Handle
}

// Component implements ui.Component.
type Component struct {
	state   State
	fetcher Fetcher
	ctx     context.Context
	log     *slog.Logger
	printer *message.Printer
}

var (
	_ ui.Component = (*Component)(nil)
	_ ui.Unmounter = (*Component)(nil)
)

// Option configures a Component.
type Option func(*Component)

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(c *Component) { c.log = l }
}

// WithContext sets the parent context of every load.
func WithContext(ctx context.Context) Option {
	return func(c *Component) { c.ctx = ctx }
}

// WithLanguage selects how numbers are formatted.
func WithLanguage(tag language.Tag) Option {
	return func(c *Component) { c.printer = message.NewPrinter(tag) }
}

// New creates a component in its initial state: counter 0, no users,
// nothing loading. It does not start a load; the caller mounts it with
// a FetchUsers message.
func New(f Fetcher, opts ...Option) *Component {
	c := &Component{
		fetcher: f,
		ctx:     context.Background(),
		log:     slog.Default(),
		printer: message.NewPrinter(language.English),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Component) Snapshot() Snapshot {
	return c.state.Snapshot()
}

// Update applies one message. Every message it knows asks for a
// redraw.
func (c *Component) Update(msg ui.Msg, dispatch ui.Dispatch) bool {
	switch m := msg.(type) {
	case Increment:
		c.state.increment()
		return true

	case FetchUsers:
		err := c.state.beginFetch(func() Handle {
			return c.fetcher.Fetch(c.ctx, func(users []User, err error) {
				dispatch(FetchCompleted{Users: users, Err: err})
			})
		})
		switch {
		case errors.Is(err, errFetchPending):
			c.log.Debug("load already in flight, ignoring fetch")
		case err != nil:
			c.log.Error("load not started", "error", err)
		}
		return true

	case FetchCompleted:
		c.state.completeFetch(m.Users, m.Err)
		if m.Err != nil {
			c.log.Warn("loading users failed", "error", m.Err)
		} else {
			c.log.Info("users loaded", "count", len(m.Users))
		}
		return true
	}

	c.log.Warn("unhandled message", "msg", fmt.Sprintf("%T", msg))
	return false
}

// View renders the current state.
func (c *Component) View() *view.Node {
	return Render(c.state.Snapshot(), c.printer)
}

// Unmount cancels a pending load.
func (c *Component) Unmount() {
	if h := c.state.release(); h != nil {
		h.Cancel()
		c.log.Debug("pending load cancelled on unmount")
	}
}
