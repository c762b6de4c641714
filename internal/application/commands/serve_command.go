package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/urfave/cli/v3"

	"github.com/bravo68web/folio/internal/application/service"
	"github.com/bravo68web/folio/internal/infrastructure/watcher"
	"github.com/bravo68web/folio/internal/observability"
	"github.com/bravo68web/folio/internal/server"
	"github.com/bravo68web/folio/internal/transport/http/router"
	sshtransport "github.com/bravo68web/folio/internal/transport/ssh"
	"github.com/bravo68web/folio/pkg/logger"
)

const sshShutdownTimeout = 5 * time.Second

func (r *CommandRegistry) ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP site, and the SSH dashboard when enabled",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the site in a browser once it is listening",
			},
		},
		Action: r.serve,
	}
}

func (r *CommandRegistry) serve(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := r.bootstrap(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg, deps := a.cfg, a.deps

	// A failed first load leaves readiness failing until a later reload succeeds
	if _, err := deps.ReloadService.Reload(ctx, service.TriggerStartup); err != nil {
		a.log.Warn("Initial load failed", logger.Error(err))
	}

	srv := server.New(cfg, a.db)
	if err := router.NewRouter(srv, deps).RegisterRoutes(); err != nil {
		return err
	}

	if cfg.Refresh.Interval > 0 {
		deps.RefreshCron.Start()
	}

	if cfg.Watch.Enabled {
		w, err := r.startWatcher(ctx, a)
		if err != nil {
			return err
		}
		if w != nil {
			defer w.Close()
		}
	}

	if cfg.SSH.Enabled {
		sshServer, err := sshtransport.NewServer(&cfg.SSH, deps.MetaService, cfg.Site.Title)
		if err != nil {
			return err
		}
		go func() {
			if err := sshServer.ListenAndServe(); err != nil {
				a.log.Error("SSH server stopped", logger.Error(err))
			}
		}()
		defer func() {
			_ = sshServer.ShutdownWithTimeout(sshShutdownTimeout)
		}()
	}

	if cmd.Bool("open") || cfg.Server.OpenBrowser {
		url := fmt.Sprintf("http://localhost:%d%s", cfg.Server.Port, router.BasePath(cfg))
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := browser.OpenURL(url); err != nil {
				a.log.Warn("Failed to open browser", logger.String("url", url), logger.Error(err))
			}
		}()
	}

	return srv.Run(ctx)
}

// startWatcher reloads when the commit log or the projects change on disk.
// Remote storage has nothing to watch.
func (r *CommandRegistry) startWatcher(ctx context.Context, a *app) (*watcher.Watcher, error) {
	logPath := a.deps.LocalPath(a.cfg.Meta.LogPath)
	projectsPath := a.deps.LocalPath(a.cfg.Projects.Path)
	if logPath == "" {
		a.log.Info("File watching needs filesystem storage, skipping")
		return nil, nil
	}

	w, err := watcher.New(a.cfg.Watch.Debounce, a.cfg.Watch.Include, a.cfg.Watch.Exclude, func(files []string) {
		observability.WatcherEventsTotal.Inc()
		if _, err := a.deps.ReloadService.Refresh(ctx, service.TriggerWatch); err != nil {
			a.log.Warn("Reload after change failed", logger.Strings("files", files), logger.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	if err := w.Watch(logPath, projectsPath); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}
