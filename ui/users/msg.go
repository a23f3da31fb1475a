package users

// Increment adds one to the counter.
type Increment struct{}

// FetchUsers starts loading the user list unless a load is already in
// flight.
type FetchUsers struct{}

// FetchCompleted carries the outcome of a load back into the loop.
// Exactly one of Users and Err is meaningful.
type FetchCompleted struct {
	Users []User
	Err   error
}
