package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/elizafairlady/userpanel/ui/view"
)

func findNode(n *view.Node, id string) *view.Node {
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if f := findNode(c, id); f != nil {
			return f
		}
	}
	return nil
}

func TestRenderIdle(t *testing.T) {
	root := Render(Snapshot{Counter: 1234}, nil)

	btn := findNode(root, "inc")
	require.NotNil(t, btn)
	assert.Equal(t, "button", btn.Type)
	assert.Equal(t, "inc", btn.Props["on"])
	assert.Equal(t, "+1", btn.Props["text"])

	assert.Equal(t, "1,234", findNode(root, "count").Props["text"])
	assert.Nil(t, findNode(root, "status"))

	list := findNode(root, "users")
	require.NotNil(t, list)
	assert.Empty(t, list.Children)
}

func TestRenderUsersInOrder(t *testing.T) {
	snap := Snapshot{Users: []User{
		ada,
		{ID: 2, Name: "Grace", Email: "grace@x.com", SignInCount: 12000},
	}}
	root := Render(snap, nil)

	list := findNode(root, "users")
	require.Len(t, list.Children, 2)

	assert.Equal(t, "Ada", findNode(list.Children[0], "user-0-name").Props["text"])
	assert.Equal(t, "ada@x.com", findNode(list.Children[0], "user-0-email").Props["text"])
	assert.Equal(t, "3 sign-ins", findNode(list.Children[0], "user-0-signins").Props["text"])
	assert.Equal(t, "1", list.Children[0].Props["active"])
	assert.Equal(t, "green", findNode(list.Children[0], "user-0-name").Props["fg"])

	assert.Equal(t, "Grace", findNode(list.Children[1], "user-1-name").Props["text"])
	assert.Equal(t, "12,000 sign-ins", findNode(list.Children[1], "user-1-signins").Props["text"])
	assert.Equal(t, "0", list.Children[1].Props["active"])
	assert.NotContains(t, findNode(list.Children[1], "user-1-name").Props, "fg")
}

func TestRenderStatus(t *testing.T) {
	loading := findNode(Render(Snapshot{Loading: true, Err: "stale"}, nil), "status")
	require.NotNil(t, loading)
	assert.Equal(t, "fetching...", loading.Props["text"])

	failed := findNode(Render(Snapshot{Err: "connection refused"}, nil), "status")
	require.NotNil(t, failed)
	assert.Equal(t, "error: connection refused", failed.Props["text"])
	assert.Equal(t, "error", failed.Props["role"])
}

func TestRenderIsPure(t *testing.T) {
	snap := Snapshot{Counter: 2, Users: []User{ada}, Loading: true}
	before := Snapshot{Counter: 2, Users: []User{ada}, Loading: true}

	a := Render(snap, nil)
	b := Render(snap, nil)
	assert.Equal(t, a, b)
	assert.Equal(t, before, snap)
}

func TestRenderLanguage(t *testing.T) {
	root := Render(Snapshot{Counter: 1234567}, message.NewPrinter(language.German))
	assert.Equal(t, "1.234.567", findNode(root, "count").Props["text"])
}
