// Package proto implements the text formats exchanged between the
// update loop, the renderer and the input reader.
//
// Tree format (one directive per line, deterministic):
//
//	rev <uint64>
//	root <nodeid>
//	node <id> <type>
//	prop <id> <k>=<v> <k>=<v> ...
//	child <parent> <child>
//
// Action format (one per line):
//
//	<kind> <k>=<v> <k>=<v> ...
//
// Values containing blanks, newlines, quotes, backslashes or '='
// are double-quoted; inside quotes \n, \t, \\ and \" are escapes.
package proto

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Node is one element of a serialized view tree.
type Node struct {
	ID       string
	Type     string
	Props    map[string]string
	Children []string // child IDs in order
}

// Tree is a complete snapshot of what should be displayed.
type Tree struct {
	Rev   uint64
	Root  string
	Nodes map[string]*Node // keyed by ID
	Order []string         // node IDs in declaration order
}

// Action is an input event in the action format.
type Action struct {
	Kind string
	KVs  map[string]string
}

func needsQuote(s string) bool {
	return s == "" || strings.ContainsAny(s, " \t\n\\\"=")
}

// EscapeValue quotes s if the protocol requires it.
func EscapeValue(s string) string {
	if !needsQuote(s) {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}

// UnescapeValue reverses EscapeValue. Unquoted input is returned as is.
func UnescapeValue(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '\\', '"':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// FormatKV formats k=v with v escaped.
func FormatKV(k, v string) string {
	return k + "=" + EscapeValue(v)
}

// ParseKV splits a k=v token and unescapes the value.
func ParseKV(token string) (k, v string, ok bool) {
	k, v, ok = strings.Cut(token, "=")
	if !ok {
		return "", "", false
	}
	return k, UnescapeValue(v), true
}

// Tokenize splits line on blanks. Quoted runs, including the value
// half of k="v w", stay in one token.
func Tokenize(line string) []string {
	var (
		tokens []string
		cur    strings.Builder
		quoted bool
		inTok  bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quoted && c == '\\' && i+1 < len(line):
			cur.WriteByte(c)
			cur.WriteByte(line[i+1])
			i++
		case c == '"':
			quoted = !quoted
			inTok = true
			cur.WriteByte(c)
		case !quoted && (c == ' ' || c == '\t'):
			if inTok {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			inTok = true
			cur.WriteByte(c)
		}
	}
	if inTok {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func writeKVs(b *strings.Builder, kvs map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(kvs)) {
		b.WriteByte(' ')
		b.WriteString(FormatKV(k, kvs[k]))
	}
}

// SerializeTree encodes t in the tree format. Props are written in
// key order so equal trees produce equal text.
func SerializeTree(t *Tree) string {
	var b strings.Builder
	fmt.Fprintf(&b, "rev %d\nroot %s\n", t.Rev, t.Root)
	for _, id := range t.Order {
		n := t.Nodes[id]
		if n == nil {
			continue
		}
		fmt.Fprintf(&b, "node %s %s\n", n.ID, n.Type)
		if len(n.Props) > 0 {
			b.WriteString("prop " + n.ID)
			writeKVs(&b, n.Props)
			b.WriteByte('\n')
		}
		for _, c := range n.Children {
			fmt.Fprintf(&b, "child %s %s\n", n.ID, c)
		}
	}
	return b.String()
}

// SerializeAction encodes a in the action format.
func SerializeAction(a *Action) string {
	var b strings.Builder
	b.WriteString(a.Kind)
	writeKVs(&b, a.KVs)
	return b.String()
}

// ParseAction decodes one action line.
func ParseAction(line string) (*Action, error) {
	tok := Tokenize(strings.TrimSpace(line))
	if len(tok) == 0 {
		return nil, fmt.Errorf("proto: empty action")
	}
	if strings.Contains(tok[0], "=") {
		return nil, fmt.Errorf("proto: action kind missing before %q", tok[0])
	}
	a := &Action{Kind: tok[0], KVs: make(map[string]string)}
	for _, kv := range tok[1:] {
		if k, v, ok := ParseKV(kv); ok {
			a.KVs[k] = v
		}
	}
	return a, nil
}
