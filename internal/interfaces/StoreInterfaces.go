package interfaces

import "commitblock/internal/models"

type StateStoreInterface interface {
	Load() models.ThresholdStatus
	Persist(status models.ThresholdStatus) error
}

type GoalStoreInterface interface {
	Load() (models.GoalConfig, error)
	Save(cfg models.GoalConfig) error
}
