// Users shows a click counter and the list of users served by a
// remote endpoint. The list is loaded once at startup.
//
// Input is read from stdin, one action per line:
//
//	click action=inc    add one to the counter (also: inc)
//	fetch               load the users again
//	quit                exit (as does end of input)
//
// Settings come from USERPANEL_* environment variables; see package
// config. "users version" prints build information.
//
// Usage: users [version]
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/mattn/go-isatty"

	ui "github.com/elizafairlady/userpanel/libui"
	"github.com/elizafairlady/userpanel/ui/config"
	"github.com/elizafairlady/userpanel/ui/fetch"
	"github.com/elizafairlady/userpanel/ui/render"
	"github.com/elizafairlady/userpanel/ui/telemetry"
	"github.com/elizafairlady/userpanel/ui/theme"
	"github.com/elizafairlady/userpanel/ui/users"
)

var (
	version   = "dev"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("users exited", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	info := buildVersion(version, commit, date, builtBy, treeState)
	if len(args) > 0 && args[0] == "version" {
		fmt.Println(info.String())
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)
	log.Info("starting", "version", info.GitVersion, "commit", info.GitCommit, "endpoint", cfg.Endpoint)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, "userpanel", info.GitVersion, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Warn("telemetry shutdown", "error", err)
		}
	}()

	client, err := fetch.New(cfg.Endpoint,
		fetch.WithTimeout(cfg.FetchTimeout),
		fetch.WithLogger(log),
	)
	if err != nil {
		return err
	}

	comp := users.New(users.NewHTTPSource(client),
		users.WithLogger(log),
		users.WithContext(ctx),
		users.WithLanguage(cfg.Tag()),
	)
	loop := ui.NewLoop(ui.App{
		Component: comp,
		Renderer:  newRenderer(cfg, os.Stdout),
		Mount:     []ui.Msg{users.FetchUsers{}},
		Logger:    log,
	})

	// Reading stdin cannot be interrupted; the reader is abandoned
	// when the loop stops.
	go func() {
		if err := ui.ReadActions(ctx, os.Stdin, users.Translate, loop.Dispatch, log); err != nil {
			log.Error("reading input", "error", err)
		}
	}()

	if err := loop.Run(ctx); err != nil {
		return err
	}
	log.Info("stopped", "frames", loop.Rev())
	return nil
}

func newRenderer(cfg config.Config, out *os.File) ui.Renderer {
	if cfg.Render == config.RenderTree {
		return render.NewTree(out)
	}
	return render.NewText(out, pickTheme(cfg.Color, out))
}

func pickTheme(color bool, out io.Writer) *theme.Theme {
	f, ok := out.(*os.File)
	if color && ok && isatty.IsTerminal(f.Fd()) {
		return theme.Default()
	}
	return theme.Plain()
}

func buildVersion(version, commit, date, builtBy, treeState string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("users", "Click counter and remote user list.", "https://github.com/elizafairlady/userpanel"),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
