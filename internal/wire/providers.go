// Package wire provides compile-time dependency injection for the server
// front end.
package wire

import (
	"io"
	"log/slog"
	"os"

	"github.com/sevigo/codelens/internal/config"
	"github.com/sevigo/codelens/internal/engine"
	"github.com/sevigo/codelens/internal/history"
	"github.com/sevigo/codelens/internal/logger"
	"github.com/sevigo/codelens/internal/rulesource"
)

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogWriter(cfg *config.Config) io.Writer {
	switch cfg.Logging.Output {
	case "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	case "file":
		f, _ := os.OpenFile("codelens.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		return f
	default:
		return os.Stdout
	}
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	return logger.NewLogger(loggerConfig, writer)
}

// provideDependencies builds the engine's collaborator set: the HTTP
// fetcher and git cloner for rule sources, plus the history store when the
// configuration enables it.
func provideDependencies(cfg *config.Config, log *slog.Logger) (engine.Dependencies, func(), error) {
	deps := engine.Dependencies{
		Fetcher: rulesource.NewHTTPFetcher(5, 10),
		Cloner:  rulesource.NewGoGitCloner(),
	}

	cleanup := func() {}
	if cfg.History.Enabled {
		db, closeDB, err := history.Open(cfg.History.DSN)
		if err != nil {
			return engine.Dependencies{}, nil, err
		}
		deps.History = history.NewStore(db)
		cleanup = closeDB
		log.Info("scan history enabled")
	}
	return deps, cleanup, nil
}
