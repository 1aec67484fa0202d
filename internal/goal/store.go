package goal

import (
	"commitblock/internal/interfaces"
	"commitblock/internal/models"
	"commitblock/internal/structures"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/gookit/validate"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var ErrParse = errors.New("goal config is malformed")

// ParseError is returned when the goal document exists but cannot be used.
type ParseError struct {
	Path  string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, ErrParse, e.Cause)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Cause}
}

// Store reads and writes the TOML goal document. Every Load reads the file
// again so edits apply on the next cycle.
type Store struct {
	path string
}

func NewStore(conf *structures.Config) interfaces.GoalStoreInterface {
	return &Store{path: conf.Threshold.GoalFile}
}

func (s *Store) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("toml")
	defaults := models.DefaultGoalConfig()
	v.SetDefault("github_username", defaults.GithubUsername)
	v.SetDefault("contribution_goal", defaults.ContributionGoal)
	return v
}

func (s *Store) Load() (models.GoalConfig, error) {
	defaults := models.DefaultGoalConfig()

	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("stat goal config %s: %w", s.path, err)
	}

	v := s.newViper()
	if err := v.ReadInConfig(); err != nil {
		return defaults, &ParseError{Path: s.path, Cause: err}
	}

	goal, err := cast.ToInt64E(v.Get("contribution_goal"))
	if err != nil {
		return defaults, &ParseError{Path: s.path, Cause: fmt.Errorf("contribution_goal: %w", err)}
	}
	if goal < 0 || goal > math.MaxUint32 {
		return defaults, &ParseError{Path: s.path, Cause: fmt.Errorf("contribution_goal %d is out of range", goal)}
	}

	cfg := models.GoalConfig{
		GithubUsername:   v.GetString("github_username"),
		ContributionGoal: uint32(goal),
	}
	if err := check(cfg); err != nil {
		return defaults, &ParseError{Path: s.path, Cause: err}
	}
	return cfg, nil
}

func (s *Store) Save(cfg models.GoalConfig) error {
	if err := check(cfg); err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create goal config dir %s: %w", dir, err)
		}
	}

	v := s.newViper()
	v.Set("github_username", cfg.GithubUsername)
	v.Set("contribution_goal", cfg.ContributionGoal)
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write goal config %s: %w", s.path, err)
	}
	return nil
}

func check(cfg models.GoalConfig) error {
	v := validate.Struct(cfg)
	if !v.Validate() {
		return fmt.Errorf("invalid goal config: %s", v.Errors.One())
	}
	return nil
}
