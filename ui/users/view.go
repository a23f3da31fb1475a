package users

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/elizafairlady/userpanel/ui/view"
)

// Render describes s. It is a pure function of its arguments; a nil
// printer formats numbers in English.
func Render(s Snapshot, p *message.Printer) *view.Node {
	if p == nil {
		p = message.NewPrinter(language.English)
	}

	root := view.VBox("root",
		view.HBox("counter",
			view.Button("inc", "+1", "inc"),
			view.TextNode("count", p.Sprintf("%d", s.Counter)),
		).PropInt("gap", 1),
	)

	switch {
	case s.Loading:
		root.Child(view.TextNode("status", "fetching...").Prop("role", "loading"))
	case s.Err != "":
		root.Child(view.TextNode("status", "error: "+s.Err).Prop("role", "error"))
	}

	rows := make([]*view.Node, 0, len(s.Users))
	for i, u := range s.Users {
		id := "user-" + strconv.Itoa(i)
		rows = append(rows, view.Row(id,
			nameNode(id, u),
			view.TextNode(id+"-email", u.Email),
			view.TextNode(id+"-signins", p.Sprintf("%d sign-ins", u.SignInCount)).Prop("role", "dim"),
		).Prop("active", boolProp(u.Active)))
	}
	return root.Child(view.List("users", rows...).Prop("empty", "no users"))
}

// nameNode highlights the names of active users.
func nameNode(id string, u User) *view.Node {
	n := view.TextNode(id+"-name", u.Name)
	if u.Active {
		n.Prop("fg", "green")
	}
	return n
}

func boolProp(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
