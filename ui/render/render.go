// Package render implements the display backends of the update loop.
// Text paints a tree as lines on a terminal; Tree writes the raw tree
// protocol for other programs to consume.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elizafairlady/userpanel/ui/proto"
	"github.com/elizafairlady/userpanel/ui/theme"
)

// Text paints trees as indented terminal lines. Each frame is written
// with a single Write call.
//
// Containers: vbox puts children on separate lines, list does the same
// with a bullet per row and an indent, hbox and row join their children
// on one line. Leaves: text, button.
type Text struct {
	w     io.Writer
	theme *theme.Theme
}

// NewText creates a text renderer; a nil theme means theme.Plain.
func NewText(w io.Writer, th *theme.Theme) *Text {
	if th == nil {
		th = theme.Plain()
	}
	return &Text{w: w, theme: th}
}

// Render paints t.
func (r *Text) Render(t *proto.Tree) error {
	var b strings.Builder
	if r.theme.Clear {
		b.WriteString("\x1b[H\x1b[2J")
	}
	if n := t.Nodes[t.Root]; n != nil {
		r.block(&b, t, n, "")
	}
	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return fmt.Errorf("render: write frame %d: %w", t.Rev, err)
	}
	return nil
}

func (r *Text) block(b *strings.Builder, t *proto.Tree, n *proto.Node, indent string) {
	switch n.Type {
	case "vbox":
		for _, c := range children(t, n) {
			r.block(b, t, c, indent)
		}
	case "list":
		rows := children(t, n)
		if len(rows) == 0 {
			if empty := n.Props["empty"]; empty != "" {
				b.WriteString(indent + r.theme.Dim.Paint(empty) + "\n")
			}
			return
		}
		for _, c := range rows {
			line := r.theme.Bullet + r.inline(t, c)
			b.WriteString(indent + r.theme.Indent + line + "\n")
		}
	default:
		if line := r.inline(t, n); line != "" {
			b.WriteString(indent + line + "\n")
		}
	}
}

func (r *Text) inline(t *proto.Tree, n *proto.Node) string {
	switch n.Type {
	case "button":
		return r.theme.Button.Paint("[ " + n.Props["text"] + " ]")
	case "text":
		st := r.theme.ForRole(n.Props["role"])
		if fg := r.theme.Foreground(n.Props["fg"]); fg != "" && r.theme.Text == st {
			st = fg
		}
		return st.Paint(n.Props["text"])
	case "hbox", "row":
		gap := r.theme.Gap
		if n.Type == "row" {
			gap++
		}
		if v, err := strconv.Atoi(n.Props["gap"]); err == nil && v >= 0 {
			gap = v
		}
		var parts []string
		for _, c := range children(t, n) {
			if s := r.inline(t, c); s != "" {
				parts = append(parts, s)
			}
		}
		line := strings.Join(parts, strings.Repeat(" ", gap))
		if n.Props["active"] == "0" {
			line = r.theme.Inactive.Paint(line)
		}
		return line
	}
	return n.Props["text"]
}

func children(t *proto.Tree, n *proto.Node) []*proto.Node {
	out := make([]*proto.Node, 0, len(n.Children))
	for _, id := range n.Children {
		if c := t.Nodes[id]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Tree writes every frame in the tree protocol, followed by an empty
// line.
type Tree struct {
	w io.Writer
}

// NewTree creates a tree protocol renderer.
func NewTree(w io.Writer) *Tree {
	return &Tree{w: w}
}

// Render writes t.
func (r *Tree) Render(t *proto.Tree) error {
	if _, err := io.WriteString(r.w, proto.SerializeTree(t)+"\n"); err != nil {
		return fmt.Errorf("render: write tree %d: %w", t.Rev, err)
	}
	return nil
}
