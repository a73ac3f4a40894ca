package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/sprintboard/internal/cli"
	"github.com/alexanderramin/sprintboard/internal/config"
	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/remote"
	"github.com/alexanderramin/sprintboard/internal/roster"
	"github.com/alexanderramin/sprintboard/internal/service"
	"github.com/alexanderramin/sprintboard/internal/session"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{}
	sess := session.New(cfg.Token)

	// Either backend satisfies every port the services need.
	var backend remote.Remote
	if cfg.Local() {
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		local := remote.NewLocalBackend(database, cfg.LocalUser())
		backend = local
		app.Local = local
	} else {
		var observer remote.Observer = remote.NoopObserver{}
		if cfg.LogCalls {
			observer = remote.NewLogObserver(logger)
		}
		if !sess.Authenticated() {
			logger.Warn("no API token set; requests are sent unauthenticated", "var", "SPRINTBOARD_TOKEN")
		}
		backend = remote.NewHTTPClient(cfg.Remote(), sess, observer)
	}

	// Wire services
	useCases := service.NewLogUseCaseObserver(logger)
	app.Boards = service.NewBoardService(backend, logger, useCases)
	app.Projects = service.NewProjectService(backend, useCases)
	app.Dashboard = service.NewDashboardService(roster.NewStore(backend, logger), sess, useCases)
	app.Status = service.NewStatusService(backend, useCases)

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
