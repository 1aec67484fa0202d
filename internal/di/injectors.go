//go:build wireinject
// +build wireinject

package di

import (
	"commitblock/internal"
	"commitblock/internal/contributions"
	"commitblock/internal/controllers"
	"commitblock/internal/goal"
	"commitblock/internal/hostsfile"
	"commitblock/internal/providers"
	"commitblock/internal/structures"
	"commitblock/internal/threshold"

	wire "github.com/google/wire"
)

var coreSet = wire.NewSet(
	providers.NewLogProvider,
	providers.NewMetricsProvider,

	hostsfile.NewZstdCompressor,
	hostsfile.NewBackupManager,
	hostsfile.NewManager,
	threshold.NewStateStore,
	goal.NewStore,
	contributions.NewGithubSource,
	threshold.NewEngine,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		coreSet,
		providers.NewInstrumentedCacheProvider,

		internal.NewConsoleShell,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitToolkit(cfg *structures.CliFlags) (*internal.Toolkit, error) {

	wire.Build(
		providers.NewConfigProvider,
		coreSet,
		internal.NewToolkit,
	)

	return nil, nil
}
