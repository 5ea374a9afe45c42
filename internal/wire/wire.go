//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"github.com/sevigo/codelens/internal/config"
	"github.com/sevigo/codelens/internal/engine"
	"github.com/sevigo/codelens/internal/server"
)

func InitializeServer() (*server.Server, func(), error) {
	wire.Build(
		config.LoadConfig,
		provideLoggerConfig,
		provideLogWriter,
		provideSlogLogger,
		provideDependencies,
		engine.New,
		server.NewServer,
	)
	return nil, nil, nil
}
