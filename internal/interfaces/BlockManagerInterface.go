package interfaces

import "commitblock/internal/models"

type BlockManagerInterface interface {
	Load() ([]string, error)
	Replace(hosts []string) error
	ReplaceEngaged(hosts []string) error
	Engage() error
	Release() error
	Mode() (models.BlockMode, error)
	Restore(backupName string) error
}
