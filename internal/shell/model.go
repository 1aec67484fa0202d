package shell

import (
	"commitblock/internal/hostsfile"
	"commitblock/internal/models"
	"errors"
	"slices"
	"strconv"
	"strings"
)

type Screen int

const (
	ScreenMain Screen = iota
	ScreenEditing
	ScreenConfiguration
	ScreenHelp
	ScreenExiting
)

func (s Screen) String() string {
	switch s {
	case ScreenMain:
		return "main"
	case ScreenEditing:
		return "editing"
	case ScreenConfiguration:
		return "configuration"
	case ScreenHelp:
		return "help"
	case ScreenExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

type EditingField int

const (
	FieldNone EditingField = iota
	FieldContributionGoal
	FieldGithubUsername
)

var ErrInvalidGoal = errors.New("contribution goal must be a positive number")

// Model is the state behind the interactive shell. It holds no file handles;
// persisting hosts and goals is left to the caller.
type Model struct {
	HostInput     string
	Selected      int
	Hosts         []string
	Screen        Screen
	Editing       EditingField
	GoalInput     string
	UsernameInput string
	Progress      uint32
	Goal          models.GoalConfig
	Status        models.ThresholdStatus
}

func NewModel(hosts []string, progress uint32, goal models.GoalConfig, status models.ThresholdStatus) *Model {
	return &Model{
		Hosts:         hosts,
		Screen:        ScreenMain,
		GoalInput:     strconv.FormatUint(uint64(goal.ContributionGoal), 10),
		UsernameInput: goal.GithubUsername,
		Progress:      progress,
		Goal:          goal,
		Status:        status,
	}
}

// SaveNewHost appends HostInput to the host list in ASCII form. Empty input
// and hosts already listed are ignored. The input is cleared either way.
func (m *Model) SaveNewHost() error {
	input := strings.TrimSpace(m.HostInput)
	m.HostInput = ""
	if input == "" {
		return nil
	}

	host, err := hostsfile.NormalizeHost(input)
	if err != nil {
		return err
	}
	if slices.Contains(m.Hosts, host) {
		return nil
	}
	m.Hosts = append(m.Hosts, host)
	return nil
}

// DeleteSelected removes the selected host and keeps the selection in range.
func (m *Model) DeleteSelected() (string, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Hosts) {
		return "", false
	}
	removed := m.Hosts[m.Selected]
	m.Hosts = slices.Delete(m.Hosts, m.Selected, m.Selected+1)
	if m.Selected >= len(m.Hosts) && m.Selected > 0 {
		m.Selected = len(m.Hosts) - 1
	}
	return removed, true
}

// Select moves the selection to host, reporting whether it was listed.
func (m *Model) Select(host string) bool {
	i := slices.Index(m.Hosts, host)
	if i < 0 {
		return false
	}
	m.Selected = i
	return true
}

func (m *Model) SelectNext() {
	if m.Selected < len(m.Hosts)-1 {
		m.Selected++
	}
}

func (m *Model) SelectPrevious() {
	if m.Selected > 0 {
		m.Selected--
	}
}

// ToggleEditingConfig switches between the two configuration fields,
// starting with the contribution goal.
func (m *Model) ToggleEditingConfig() {
	switch m.Editing {
	case FieldContributionGoal:
		m.Editing = FieldGithubUsername
	default:
		m.Editing = FieldContributionGoal
	}
}

// GoalFromInputs builds a goal config from the configuration inputs.
func (m *Model) GoalFromInputs() (models.GoalConfig, error) {
	goal, err := strconv.ParseUint(strings.TrimSpace(m.GoalInput), 10, 32)
	if err != nil || goal == 0 {
		return models.GoalConfig{}, ErrInvalidGoal
	}
	return models.GoalConfig{
		GithubUsername:   strings.TrimSpace(m.UsernameInput),
		ContributionGoal: uint32(goal),
	}, nil
}

func (m *Model) ApplyProgress(progress uint32) {
	m.Progress = progress
}
