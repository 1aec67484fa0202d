package threshold

import (
	"commitblock/internal/fsutil"
	"commitblock/internal/interfaces"
	"commitblock/internal/models"
	"commitblock/internal/providers"
	"commitblock/internal/structures"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

type StateStore struct {
	path   string
	logger providers.Logger
}

func NewStateStore(conf *structures.Config, logger providers.Logger) interfaces.StateStoreInterface {
	return &StateStore{
		path:   conf.Threshold.StateFile,
		logger: logger,
	}
}

// Load returns the persisted status. A missing or unreadable file yields an
// empty status.
func (s *StateStore) Load() models.ThresholdStatus {
	var status models.ThresholdStatus

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnf(providers.TypeEngine, "Reading state file %s failed: %s", s.path, err)
		}
		return status
	}

	if err := json.Unmarshal(data, &status); err != nil {
		s.logger.Warnf(providers.TypeEngine, "State file %s is not valid, starting without prior state: %s", s.path, err)
		return models.ThresholdStatus{}
	}
	return status
}

func (s *StateStore) Persist(status models.ThresholdStatus) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state dir %s: %w", dir, err)
		}
	}

	if err := fsutil.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("write state file %s: %w", s.path, err)
	}
	return nil
}
