package users

import (
	"errors"
	"slices"
)

var (
	errFetchPending = errors.New("users: load already in flight")
	errNoHandle     = errors.New("users: fetcher returned no handle")
)

// Handle is the retained token of an in-flight load. Dropping it
// through Cancel aborts the load.
type Handle interface {
	Cancel()
}

// State is the component's single source of truth. It is created
// with the component and only ever written by Component.Update.
type State struct {
	counter int64
	users   []User
	pending Handle // nil when idle
	err     error  // outcome of the last failed load
}

// Snapshot is the read-only view of State handed to Render.
type Snapshot struct {
	Counter int64
	Users   []User
	Loading bool
	Err     string
}

// Snapshot copies the displayable parts of s.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Counter: s.counter,
		Users:   slices.Clone(s.users),
		Loading: s.pending != nil,
	}
	if s.err != nil {
		snap.Err = s.err.Error()
	}
	return snap
}

func (s *State) increment() {
	s.counter++
}

// beginFetch calls start and retains its handle. If a load is already
// pending start is not called and errFetchPending is returned. A nil
// handle is recorded as a failed load, since the request could then
// neither be tracked nor cancelled. At most one handle is ever held.
func (s *State) beginFetch(start func() Handle) error {
	if s.pending != nil {
		return errFetchPending
	}
	h := start()
	if h == nil {
		s.err = errNoHandle
		return errNoHandle
	}
	s.pending = h
	s.err = nil
	return nil
}

// completeFetch ends the pending load. A failed load keeps the
// previous users.
func (s *State) completeFetch(users []User, err error) {
	s.pending = nil
	if err != nil {
		s.err = err
		return
	}
	s.users = users
	s.err = nil
}

// release drops the pending handle and returns it.
func (s *State) release() Handle {
	h := s.pending
	s.pending = nil
	return h
}
