package internal

import (
	"commitblock/internal/hostsfile"
	"commitblock/internal/interfaces"
	"commitblock/internal/providers"
	"commitblock/internal/structures"
)

// Toolkit bundles the components used by one-shot CLI commands.
type Toolkit struct {
	Conf    *structures.Config
	Logger  providers.Logger
	Hosts   interfaces.BlockManagerInterface
	Backups *hostsfile.BackupManager
	State   interfaces.StateStoreInterface
	Goals   interfaces.GoalStoreInterface
	Engine  interfaces.EngineInterface
}

func NewToolkit(conf *structures.Config, logger providers.Logger, hosts interfaces.BlockManagerInterface, backups *hostsfile.BackupManager, state interfaces.StateStoreInterface, goals interfaces.GoalStoreInterface, engine interfaces.EngineInterface) *Toolkit {
	return &Toolkit{
		Conf:    conf,
		Logger:  logger,
		Hosts:   hosts,
		Backups: backups,
		State:   state,
		Goals:   goals,
		Engine:  engine,
	}
}
