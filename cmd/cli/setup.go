package main

import (
	"log/slog"
	"os"

	"github.com/sevigo/codelens/internal/config"
	"github.com/sevigo/codelens/internal/engine"
	"github.com/sevigo/codelens/internal/history"
	"github.com/sevigo/codelens/internal/logger"
	"github.com/sevigo/codelens/internal/rulesource"
)

// cliApp bundles what every command needs after bootstrap.
type cliApp struct {
	cfg    *config.Config
	logger *slog.Logger
	engine *engine.Engine
	git    *execGitRunner
}

// newApp loads configuration and constructs the engine with its concrete
// collaborators. The returned cleanup closes the optional history store.
func newApp() (*cliApp, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	log := logger.NewLogger(cfg.Logging, os.Stderr)

	deps := engine.Dependencies{
		Fetcher: rulesource.NewHTTPFetcher(5, 10),
		Cloner:  rulesource.NewGoGitCloner(),
	}

	cleanup := func() {}
	if cfg.History.Enabled {
		db, closeDB, err := history.Open(cfg.History.DSN)
		if err != nil {
			return nil, nil, err
		}
		deps.History = history.NewStore(db)
		cleanup = closeDB
	}

	eng, err := engine.New(cfg, log, deps)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return &cliApp{cfg: cfg, logger: log, engine: eng, git: &execGitRunner{}}, cleanup, nil
}
