package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"reveal/internal/config"
	"reveal/internal/database"
	"reveal/internal/logging"
	"reveal/internal/seed"
	"reveal/internal/web"
	"reveal/internal/web/session"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "reveal",
		Usage: "Compare page revisions per language",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dsn", Usage: "sqlite database `DSN` (overrides REVEAL_DSN)"},
			&cli.StringFlag{Name: "addr", Usage: "listen `ADDRESS` (overrides REVEAL_ADDR)"},
			&cli.StringFlag{Name: "log-level", Usage: "log `LEVEL` (overrides LOG_LEVEL)"},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Migrate the database and start the web server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema",
				Action: migrate,
			},
			{
				Name:  "seed",
				Usage: "Load users and pages from a YAML fixture",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "fixture `FILE`", Required: true},
				},
				Action: seedFixture,
			},
		},
		DefaultCommand: "serve",
	}
}

// setup loads the configuration, applies flag overrides and opens the
// migrated database.
func setup(cmd *cli.Command) (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cmd.IsSet("dsn") {
		cfg.Database.DSN = cmd.String("dsn")
	}
	if cmd.IsSet("addr") {
		cfg.Server.Addr = cmd.String("addr")
	}
	if cmd.IsSet("log-level") {
		cfg.Logging.Level = cmd.String("log-level")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}

	if err := logging.Init(cfg.Logging.Level); err != nil {
		return nil, nil, err
	}

	db, err := database.New(cfg.Database.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	log.WithField("dsn", cfg.Database.DSN).Debug("database migrated")
	return cfg, db, nil
}

func migrate(_ context.Context, cmd *cli.Command) error {
	_, db, err := setup(cmd)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database migrated")
	return nil
}

func seedFixture(ctx context.Context, cmd *cli.Command) error {
	_, db, err := setup(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	path := cmd.String("file")
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fixture, err := seed.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	res, err := seed.Load(ctx, db, fixture)
	if err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}

	log.WithFields(log.Fields{
		"users":     res.Users,
		"pages":     res.Pages,
		"revisions": res.Revisions,
	}).Info("fixture loaded")
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, db, err := setup(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	templates, err := web.LoadTemplates()
	if err != nil {
		return err
	}

	if cfg.Session.Key == "" {
		log.Warn("REVEAL_SESSION_KEY is not set, using a random session key")
	}
	store := session.NewStore([]byte(cfg.Session.Key))
	flashes := session.NewFlashes(store, cfg.Session.Name)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           web.NewServer(db, templates, flashes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"addr": cfg.Server.Addr, "env": cfg.Server.Env}).Info("starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
