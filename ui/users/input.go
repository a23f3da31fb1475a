package users

import (
	"context"

	ui "github.com/elizafairlady/userpanel/libui"
	"github.com/elizafairlady/userpanel/ui/fetch"
	"github.com/elizafairlady/userpanel/ui/proto"
)

// Translate maps input actions to messages:
//
//	click action=inc   Increment (also "click id=inc" and "inc")
//	fetch              FetchUsers
//	quit               ui.Quit
func Translate(a *proto.Action) (ui.Msg, bool) {
	switch a.Kind {
	case "click":
		if a.KVs["action"] == "inc" || a.KVs["id"] == "inc" {
			return Increment{}, true
		}
	case "inc":
		return Increment{}, true
	case "fetch":
		return FetchUsers{}, true
	case "quit":
		return ui.Quit{}, true
	}
	return nil, false
}

// HTTPSource loads users through a fetch.Client.
type HTTPSource struct {
	client *fetch.Client
}

var _ Fetcher = (*HTTPSource)(nil)

// NewHTTPSource wraps c.
func NewHTTPSource(c *fetch.Client) *HTTPSource {
	return &HTTPSource{client: c}
}

// Fetch issues the GET and decodes the body. The returned handle is
// the *fetch.Task of the request.
func (s *HTTPSource) Fetch(ctx context.Context, done func([]User, error)) Handle {
	return s.client.Get(ctx, func(r fetch.Response) {
		if r.Err != nil {
			done(nil, r.Err)
			return
		}
		done(DecodeUsers(r.Body))
	})
}
