package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/elizafairlady/userpanel/ui/proto"
)

// Translator maps a raw input action to a component message.
// The translation glue lives with the component, not the runtime.
type Translator func(a *proto.Action) (Msg, bool)

// ReadActions reads one action per line from r and dispatches the
// translated messages. Blank lines and lines starting with '#' are
// skipped; malformed or unknown actions are logged and skipped. When r
// is exhausted a Quit is dispatched.
func ReadActions(ctx context.Context, r io.Reader, translate Translator, dispatch Dispatch, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		a, err := proto.ParseAction(line)
		if err != nil {
			log.Warn("bad action", "line", line, "error", err)
			continue
		}
		msg, ok := translate(a)
		if !ok {
			log.Warn("unknown action", "action", proto.SerializeAction(a))
			continue
		}
		dispatch(msg)
	}
	dispatch(Quit{})
	if err := sc.Err(); err != nil {
		return fmt.Errorf("ui: read actions: %w", err)
	}
	return nil
}
