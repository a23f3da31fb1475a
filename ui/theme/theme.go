// Package theme defines the visual style model for the terminal
// renderer. The renderer resolves final styles by overlaying node
// props (role, fg) on top of theme defaults.
package theme

import "strings"

// Style is an SGR attribute list such as "1;34". The zero Style
// leaves text untouched.
type Style string

// Paint wraps s in the escape sequences of st.
func (st Style) Paint(s string) string {
	if st == "" || s == "" {
		return s
	}
	return "\x1b[" + string(st) + "m" + s + "\x1b[0m"
}

// Theme holds the style defaults for rendering.
type Theme struct {
	Text     Style
	Button   Style
	Loading  Style
	Error    Style
	Inactive Style
	Dim      Style

	// Layout
	Indent string // per nesting level of lists
	Bullet string // prefix of list rows
	Gap    int    // default blanks between inline children

	// Clear asks the renderer to clear the screen before each frame.
	Clear bool

	// Mono ignores fg props.
	Mono bool
}

// Default returns the colored theme for interactive terminals.
func Default() *Theme {
	return &Theme{
		Button:   "1;7",
		Loading:  "33",
		Error:    "1;31",
		Inactive: "2",
		Dim:      "2",
		Indent:   "  ",
		Bullet:   "• ",
		Gap:      1,
		Clear:    true,
	}
}

// Plain returns a theme without escape sequences, for pipes and logs.
func Plain() *Theme {
	return &Theme{
		Indent: "  ",
		Bullet: "- ",
		Gap:    1,
		Mono:   true,
	}
}

// ForRole returns the style for a node's role prop.
func (t *Theme) ForRole(role string) Style {
	switch role {
	case "loading":
		return t.Loading
	case "error":
		return t.Error
	case "dim":
		return t.Dim
	}
	return t.Text
}

// Foreground resolves a node's fg prop against the theme.
func (t *Theme) Foreground(name string) Style {
	if t.Mono {
		return ""
	}
	return ParseColor(name)
}

// ParseColor maps a color name to a foreground style. Unknown names
// return the zero Style.
func ParseColor(s string) Style {
	switch strings.ToLower(s) {
	case "black":
		return "30"
	case "red":
		return "31"
	case "green", "darkgreen":
		return "32"
	case "yellow", "darkyellow":
		return "33"
	case "blue", "greyblue":
		return "34"
	case "magenta":
		return "35"
	case "cyan", "paleblue":
		return "36"
	case "white":
		return "37"
	}
	return ""
}
