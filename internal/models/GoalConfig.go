package models

// GoalConfig is the user-editable goal document, re-read on every cycle.
type GoalConfig struct {
	GithubUsername   string `mapstructure:"github_username" json:"github_username"`
	ContributionGoal uint32 `mapstructure:"contribution_goal" json:"contribution_goal" validate:"required|min:1"`
}

func DefaultGoalConfig() GoalConfig {
	return GoalConfig{
		GithubUsername:   "",
		ContributionGoal: 1,
	}
}
