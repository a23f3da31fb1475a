package users

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ErrUnexpectedShape is returned when a response body is neither a
// user object nor an array of them.
var ErrUnexpectedShape = errors.New("users: unexpected response shape")

// User is one record as served by the users endpoint.
type User struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Active      bool   `json:"active"`
	SignInCount int64  `json:"sign_in_count"`
}

// wireUser mirrors User with every field optional, so that absent
// keys can be told apart from zero values.
type wireUser struct {
	ID          *int32  `json:"id"`
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Active      *bool   `json:"active"`
	SignInCount *int64  `json:"sign_in_count"`
}

func (w *wireUser) user() (User, error) {
	if w == nil {
		return User{}, fmt.Errorf("%w: null user", ErrUnexpectedShape)
	}
	var missing []string
	if w.ID == nil {
		missing = append(missing, "id")
	}
	if w.Name == nil {
		missing = append(missing, "name")
	}
	if w.Email == nil {
		missing = append(missing, "email")
	}
	if w.Active == nil {
		missing = append(missing, "active")
	}
	if w.SignInCount == nil {
		missing = append(missing, "sign_in_count")
	}
	if len(missing) > 0 {
		return User{}, fmt.Errorf("%w: missing %s", ErrUnexpectedShape, strings.Join(missing, ", "))
	}
	return User{
		ID:          *w.ID,
		Name:        *w.Name,
		Email:       *w.Email,
		Active:      *w.Active,
		SignInCount: *w.SignInCount,
	}, nil
}

// DecodeUsers parses a response body. The endpoint may answer with a
// single object or with an array; a single object becomes a
// one-element list. Every user must carry all of its fields.
func DecodeUsers(body []byte) ([]User, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnexpectedShape)
	}
	switch body[0] {
	case '[':
		var wire []*wireUser
		if err := json.Unmarshal(body, &wire); err != nil {
			return nil, fmt.Errorf("users: decode list: %w", err)
		}
		list := make([]User, 0, len(wire))
		for i, w := range wire {
			u, err := w.user()
			if err != nil {
				return nil, fmt.Errorf("users: element %d: %w", i, err)
			}
			list = append(list, u)
		}
		return list, nil
	case '{':
		var w wireUser
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, fmt.Errorf("users: decode user: %w", err)
		}
		u, err := w.user()
		if err != nil {
			return nil, err
		}
		return []User{u}, nil
	}
	return nil, fmt.Errorf("%w: body starts with %q", ErrUnexpectedShape, body[0])
}
