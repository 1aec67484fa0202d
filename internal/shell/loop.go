package shell

import (
	"bufio"
	"commitblock/internal/interfaces"
	"commitblock/internal/providers"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const helpText = `commands:
  list              show blocked hosts
  add <host>        add a host to the block
  remove <host|n>   remove a host by name or position
  next | prev       move the selection
  delete            remove the selected host
  goal <n>          set the daily contribution goal
  user <name>       set the GitHub username
  status            show progress towards today's goal
  help              show this help
  quit              leave the shell
`

// Shell drives a Model from line commands and persists every edit.
type Shell struct {
	in     io.Reader
	out    io.Writer
	hosts  interfaces.BlockManagerInterface
	goals  interfaces.GoalStoreInterface
	state  interfaces.StateStoreInterface
	engine interfaces.EngineInterface
	logger providers.Logger
	tick   time.Duration

	model *Model
}

func NewShell(in io.Reader, out io.Writer, hosts interfaces.BlockManagerInterface, goals interfaces.GoalStoreInterface, state interfaces.StateStoreInterface, engine interfaces.EngineInterface, logger providers.Logger) *Shell {
	return &Shell{
		in:     in,
		out:    out,
		hosts:  hosts,
		goals:  goals,
		state:  state,
		engine: engine,
		logger: logger,
		tick:   250 * time.Millisecond,
	}
}

func (s *Shell) Model() *Model {
	return s.model
}

func (s *Shell) load() error {
	hosts, err := s.hosts.Load()
	if err != nil {
		return fmt.Errorf("load hosts: %w", err)
	}
	goal, err := s.goals.Load()
	if err != nil {
		return fmt.Errorf("load goal config: %w", err)
	}
	s.model = NewModel(hosts, s.engine.Progress(), goal, s.state.Load())
	return nil
}

// Run reads commands until quit, end of input or ctx is done. Failing to
// persist an edit ends the shell with an error.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.load(); err != nil {
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.printf("%s", helpText)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.drainProgress()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			s.drainProgress()
			if err := s.Execute(line); err != nil {
				return err
			}
			if s.model.Screen == ScreenExiting {
				return nil
			}
		}
	}
}

func (s *Shell) drainProgress() {
	for {
		select {
		case p := <-s.engine.Updates():
			s.model.ApplyProgress(p)
		default:
			return
		}
	}
}

// Execute applies one command line to the model.
func (s *Shell) Execute(line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	m := s.model

	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "list", "ls":
		m.Screen = ScreenMain
		s.printHosts()
	case "add":
		m.Screen = ScreenEditing
		m.HostInput = arg
		before := len(m.Hosts)
		if err := m.SaveNewHost(); err != nil {
			s.printf("%s\n", err)
			m.Screen = ScreenMain
			return nil
		}
		m.Screen = ScreenMain
		if len(m.Hosts) == before {
			return nil
		}
		return s.saveHosts()
	case "remove", "rm":
		if !s.selectArg(arg) {
			s.printf("no such host: %s\n", arg)
			return nil
		}
		return s.deleteSelected()
	case "delete":
		return s.deleteSelected()
	case "next":
		m.SelectNext()
		s.printHosts()
	case "prev":
		m.SelectPrevious()
		s.printHosts()
	case "goal":
		m.Screen = ScreenConfiguration
		m.Editing = FieldContributionGoal
		m.GoalInput = arg
		return s.saveGoal()
	case "user":
		m.Screen = ScreenConfiguration
		m.Editing = FieldGithubUsername
		m.UsernameInput = arg
		return s.saveGoal()
	case "status":
		s.printStatus()
	case "help", "h", "?":
		m.Screen = ScreenHelp
		s.printf("%s", helpText)
		m.Screen = ScreenMain
	case "quit", "exit", "q":
		m.Screen = ScreenExiting
	default:
		s.printf("unknown command %q, type help\n", cmd)
	}
	return nil
}

func (s *Shell) selectArg(arg string) bool {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(s.model.Hosts) {
			return false
		}
		s.model.Selected = n - 1
		return true
	}
	return s.model.Select(arg)
}

func (s *Shell) deleteSelected() error {
	removed, ok := s.model.DeleteSelected()
	if !ok {
		return nil
	}
	s.logger.Infof(providers.TypeApp, "Removing %s from the block", removed)
	return s.saveHosts()
}

func (s *Shell) saveHosts() error {
	if err := s.hosts.Replace(s.model.Hosts); err != nil {
		return fmt.Errorf("save hosts: %w", err)
	}
	s.engine.Trigger()
	s.printHosts()
	return nil
}

func (s *Shell) saveGoal() error {
	m := s.model
	defer func() {
		m.Screen = ScreenMain
		m.Editing = FieldNone
	}()

	cfg, err := m.GoalFromInputs()
	if err != nil {
		s.printf("%s\n", err)
		m.GoalInput = fmt.Sprint(m.Goal.ContributionGoal)
		m.UsernameInput = m.Goal.GithubUsername
		return nil
	}
	if err := s.goals.Save(cfg); err != nil {
		return fmt.Errorf("save goal config: %w", err)
	}
	m.Goal = cfg
	s.engine.Trigger()
	s.printf("goal: %d contributions for %q\n", cfg.ContributionGoal, cfg.GithubUsername)
	return nil
}

func (s *Shell) printHosts() {
	if len(s.model.Hosts) == 0 {
		s.printf("no hosts are blocked\n")
		return
	}
	for i, host := range s.model.Hosts {
		marker := " "
		if i == s.model.Selected {
			marker = ">"
		}
		s.printf("%s %d. %s\n", marker, i+1, host)
	}
}

func (s *Shell) printStatus() {
	m := s.model
	m.Status = s.state.Load()
	s.printf("progress: %d%% of %d contributions", m.Progress, m.Goal.ContributionGoal)
	if m.Status.MetDate != nil {
		s.printf(", last met %s", *m.Status.MetDate)
	}
	s.printf("\n")
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
