package ui

// Msg is a discrete, immutable event for the update loop. Components
// define their own variants as plain struct types.
type Msg any

// Dispatch enqueues a message on the loop that handed it out.
type Dispatch func(Msg)

// Quit stops the loop. The component is unmounted afterwards.
type Quit struct{}
