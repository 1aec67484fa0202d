package threshold

import (
	"commitblock/internal/interfaces"
	"commitblock/internal/models"
	"commitblock/internal/providers"
	"commitblock/internal/structures"
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"
)

var (
	ErrAlreadyRunning = errors.New("engine is already running")
	ErrNotRunning     = errors.New("engine is not running")
)

// Engine decides once per cycle whether the managed hosts stay blocked.
// Nothing is cached between cycles: goal config and threshold status are
// re-read every time.
type Engine struct {
	config  *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	hosts   interfaces.BlockManagerInterface
	state   interfaces.StateStoreInterface
	goals   interfaces.GoalStoreInterface
	source  interfaces.ContributionSource
	now     func() time.Time

	progress *atomic.Uint32
	updates  chan uint32

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	triggerCh chan struct{}
}

func NewEngine(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, hosts interfaces.BlockManagerInterface, state interfaces.StateStoreInterface, goals interfaces.GoalStoreInterface, source interfaces.ContributionSource) interfaces.EngineInterface {
	return &Engine{
		config:    config,
		logger:    logger,
		metrics:   metrics,
		hosts:     hosts,
		state:     state,
		goals:     goals,
		source:    source,
		now:       time.Now,
		progress:  atomic.NewUint32(0),
		updates:   make(chan uint32, 1),
		triggerCh: make(chan struct{}, 1),
	}
}

func (e *Engine) Progress() uint32 {
	return e.progress.Load()
}

// Updates delivers progress values. Only the latest unread value is kept.
func (e *Engine) Updates() <-chan uint32 {
	return e.updates
}

func (e *Engine) publish(progress uint32) {
	e.progress.Store(progress)
	e.metrics.SetProgress(progress)
	select {
	case e.updates <- progress:
		return
	default:
	}
	select {
	case <-e.updates:
	default:
	}
	select {
	case e.updates <- progress:
	default:
	}
}

// RunCycle evaluates the goal once and applies the resulting action.
func (e *Engine) RunCycle(ctx context.Context) models.CycleResult {
	result := e.evaluate(ctx)
	e.metrics.IncCycles(result.Outcome.String())
	return result
}

func (e *Engine) evaluate(ctx context.Context) models.CycleResult {
	today := e.now()

	goal, err := e.goals.Load()
	if err != nil {
		e.logger.Errorf(providers.TypeEngine, "Loading goal config failed, skipping cycle: %s", err)
		return models.CycleResult{Outcome: models.OutcomeConfigFailed, Err: err}
	}
	target := goal.ContributionGoal

	status := e.state.Load()
	if status.MetFor(today, target) {
		e.publish(100)
		return models.CycleResult{Outcome: models.OutcomeAlreadyMet, Goal: target, Progress: 100}
	}

	if !status.IsEmpty() {
		e.logger.Infof(providers.TypeEngine, "Threshold status is stale for %s with goal %d", today.Format(models.DateLayout), target)
	}

	if err := e.hosts.Engage(); err != nil {
		e.logger.Errorf(providers.TypeEngine, "Engaging host block failed: %s", err)
	}

	start := time.Now()
	count, err := e.source.TodayCount(ctx, goal.GithubUsername, today)
	e.metrics.ObserveQueryDuration(time.Since(start))
	if err != nil {
		e.logger.Errorf(providers.TypeEngine, "Contribution query failed: %s", err)
		return models.CycleResult{Outcome: models.OutcomeQueryFailed, Goal: target, Progress: e.Progress(), Err: err}
	}

	progress := Percent(count, target)
	result := models.CycleResult{Outcome: models.OutcomeBlocked, Count: count, Goal: target, Progress: progress}

	if count >= target {
		// the block stays engaged until the met status is on disk
		if err := e.state.Persist(models.NewMetStatus(today, target)); err != nil {
			e.logger.Errorf(providers.TypeEngine, "Persisting threshold status failed, hosts stay blocked: %s", err)
			result.Err = err
			e.publish(progress)
			return result
		}
		if err := e.hosts.Release(); err != nil {
			e.logger.Errorf(providers.TypeEngine, "Releasing host block failed: %s", err)
			result.Err = err
		}
		e.logger.Infof(providers.TypeEngine, "Goal of %d reached with %d contributions, hosts released", target, count)
		result.Outcome = models.OutcomeReleased
	} else {
		e.logger.Debugf(providers.TypeEngine, "%d/%d contributions, hosts stay blocked", count, target)
	}

	e.publish(progress)
	return result
}

// interval is the pause after a cycle with the given outcome.
func (e *Engine) interval(outcome models.CycleOutcome) time.Duration {
	if outcome == models.OutcomeAlreadyMet {
		return e.config.Threshold.MetInterval
	}
	return e.config.Threshold.PollInterval
}

func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrAlreadyRunning
	}
	e.running = true
	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})

	go e.run(ctx, e.stopCh, e.doneCh)
	e.logger.Infof(providers.TypeEngine, "Threshold engine started")
	return nil
}

func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return ErrNotRunning
	}
	close(e.stopCh)
	done := e.doneCh
	e.mu.Unlock()

	<-done
	e.logger.Infof(providers.TypeEngine, "Threshold engine stopped")
	return nil
}

// Trigger asks a running engine to start its next cycle immediately.
func (e *Engine) Trigger() {
	select {
	case e.triggerCh <- struct{}{}:
	default:
	}
}

func (e *Engine) run(ctx context.Context, stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	for {
		result := e.RunCycle(ctx)

		timer := time.NewTimer(e.interval(result.Outcome))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-stopCh:
			timer.Stop()
			return
		case <-e.triggerCh:
			timer.Stop()
		case <-timer.C:
		}
	}
}
