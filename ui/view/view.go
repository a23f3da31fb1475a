// Package view builds declarative node trees describing what a
// component wants displayed. A tree is plain data: building one has
// no side effects, and Serialize turns it into a proto.Tree for the
// renderer.
package view

import (
	"maps"
	"strconv"

	"github.com/elizafairlady/userpanel/ui/proto"
)

// Node is a view tree node with an ID, type, props, and children.
type Node struct {
	ID       string
	Type     string
	Props    map[string]string
	Children []*Node
}

// N creates a new node with the given id and type.
func N(id, typ string) *Node {
	return &Node{
		ID:    id,
		Type:  typ,
		Props: make(map[string]string),
	}
}

// Prop sets a property on the node and returns it for chaining.
func (n *Node) Prop(k, v string) *Node {
	n.Props[k] = v
	return n
}

// PropInt sets an integer property.
func (n *Node) PropInt(k string, v int) *Node {
	n.Props[k] = strconv.Itoa(v)
	return n
}

// Text sets the "text" property.
func (n *Node) Text(s string) *Node {
	return n.Prop("text", s)
}

// Child appends child nodes and returns the parent for chaining.
func (n *Node) Child(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// VBox stacks children vertically.
func VBox(id string, children ...*Node) *Node {
	return N(id, "vbox").Child(children...)
}

// HBox lays children out on one line.
func HBox(id string, children ...*Node) *Node {
	return N(id, "hbox").Child(children...)
}

// TextNode displays text.
func TextNode(id, text string) *Node {
	return N(id, "text").Text(text)
}

// Button is a clickable control. on names the action reported when
// it is activated.
func Button(id, text, on string) *Node {
	return N(id, "button").Text(text).Prop("on", on).Prop("focusable", "1")
}

// List is an ordered container of rows.
func List(id string, rows ...*Node) *Node {
	return N(id, "list").Child(rows...)
}

// Row is one entry of a list.
func Row(id string, children ...*Node) *Node {
	return N(id, "row").Child(children...)
}

// Serialize flattens the tree rooted at root into a proto.Tree
// stamped with rev. Props are copied, so later edits to the view tree
// do not leak into the snapshot.
func Serialize(root *Node, rev uint64) *proto.Tree {
	t := &proto.Tree{
		Rev:   rev,
		Root:  root.ID,
		Nodes: make(map[string]*proto.Node),
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		pn := &proto.Node{
			ID:    n.ID,
			Type:  n.Type,
			Props: maps.Clone(n.Props),
		}
		if pn.Props == nil {
			pn.Props = make(map[string]string)
		}
		for _, c := range n.Children {
			pn.Children = append(pn.Children, c.ID)
		}
		t.Nodes[n.ID] = pn
		t.Order = append(t.Order, n.ID)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return t
}
