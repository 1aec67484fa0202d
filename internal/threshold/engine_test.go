package threshold

import (
	"commitblock/internal/models"
	"commitblock/internal/structures"
	"commitblock/internal/testutil"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineFixture struct {
	engine  *Engine
	log     *testutil.CallLog
	hosts   *testutil.MockBlockManager
	state   *testutil.MockStateStore
	goals   *testutil.MockGoalStore
	source  *testutil.MockContributionSource
	metrics *testutil.MockMetrics
	logger  *testutil.MockLogger
}

var fixedNow = time.Date(2024, 3, 1, 14, 30, 0, 0, time.Local)

func newEngineFixture(goal uint32) *engineFixture {
	log := &testutil.CallLog{}
	f := &engineFixture{
		log:     log,
		hosts:   &testutil.MockBlockManager{Log: log, Hosts: []string{"example.com"}},
		state:   &testutil.MockStateStore{Log: log},
		goals:   &testutil.MockGoalStore{Config: models.GoalConfig{GithubUsername: "octocat", ContributionGoal: goal}},
		source:  &testutil.MockContributionSource{Log: log},
		metrics: &testutil.MockMetrics{},
		logger:  &testutil.MockLogger{},
	}
	conf := &structures.Config{Threshold: structures.ThresholdConfig{
		PollInterval: 10 * time.Millisecond,
		MetInterval:  10 * time.Millisecond,
	}}
	f.engine = NewEngine(conf, f.logger, f.metrics, f.hosts, f.state, f.goals, f.source).(*Engine)
	f.engine.now = func() time.Time { return fixedNow }
	return f
}

func (f *engineFixture) queries() int {
	n := 0
	for _, c := range f.log.Calls() {
		if c == "query" {
			n++
		}
	}
	return n
}

func TestRunCycle_BelowGoalStaysBlocked(t *testing.T) {
	f := newEngineFixture(5)
	f.hosts.Released = true
	f.source.Count = 3

	result := f.engine.RunCycle(context.Background())

	assert.Equal(t, models.OutcomeBlocked, result.Outcome)
	assert.Equal(t, uint32(3), result.Count)
	assert.Equal(t, uint32(60), result.Progress)
	assert.False(t, f.hosts.Released)
	assert.Empty(t, f.state.Persisted)
	assert.Equal(t, []string{"state.load", "engage", "query"}, f.log.Calls())
	assert.Equal(t, uint32(60), f.engine.Progress())
	assert.Equal(t, 1, f.metrics.Cycles["blocked"])
}

func TestRunCycle_ReachingGoalReleases(t *testing.T) {
	f := newEngineFixture(5)
	f.source.Count = 3
	f.engine.RunCycle(context.Background())

	f.source.SetCount(5)
	result := f.engine.RunCycle(context.Background())

	assert.Equal(t, models.OutcomeReleased, result.Outcome)
	assert.Equal(t, uint32(100), result.Progress)
	assert.True(t, f.hosts.Released)
	require.Len(t, f.state.Persisted, 1)
	assert.Equal(t, "2024-03-01", *f.state.Persisted[0].MetDate)
	assert.Equal(t, uint32(5), *f.state.Persisted[0].MetGoal)
	assert.Equal(t, []string{
		"state.load", "engage", "query",
		"state.load", "engage", "query", "state.persist", "release",
	}, f.log.Calls())
}

func TestRunCycle_PersistFailureKeepsBlock(t *testing.T) {
	f := newEngineFixture(5)
	f.source.Count = 5
	f.state.PersistErr = errors.New("disk full")

	result := f.engine.RunCycle(context.Background())

	assert.Equal(t, models.OutcomeBlocked, result.Outcome)
	assert.ErrorContains(t, result.Err, "disk full")
	assert.False(t, f.hosts.Released)
	assert.Equal(t, []string{"state.load", "engage", "query", "state.persist"}, f.log.Calls())

	f.state.PersistErr = nil
	result = f.engine.RunCycle(context.Background())

	assert.Equal(t, models.OutcomeReleased, result.Outcome)
	assert.NoError(t, result.Err)
	assert.True(t, f.hosts.Released)
	require.Len(t, f.state.Persisted, 1)
}

func TestRunCycle_AlreadyMetSkipsQuery(t *testing.T) {
	f := newEngineFixture(5)
	f.state.Status = models.NewMetStatus(fixedNow, 5)
	f.hosts.Released = true

	result := f.engine.RunCycle(context.Background())

	assert.Equal(t, models.OutcomeAlreadyMet, result.Outcome)
	assert.Equal(t, uint32(100), f.engine.Progress())
	assert.True(t, f.hosts.Released)
	assert.Equal(t, []string{"state.load"}, f.log.Calls())
}

func TestRunCycle_LoweredGoalStillMet(t *testing.T) {
	f := newEngineFixture(3)
	f.state.Status = models.NewMetStatus(fixedNow, 5)

	result := f.engine.RunCycle(context.Background())

	assert.Equal(t, models.OutcomeAlreadyMet, result.Outcome)
	assert.NotContains(t, f.log.Calls(), "query")
}

func TestRunCycle_FutureDateCountsAsMet(t *testing.T) {
	f := newEngineFixture(5)
	f.state.Status = models.NewMetStatus(fixedNow.AddDate(0, 0, 2), 5)

	result := f.engine.RunCycle(context.Background())

	assert.Equal(t, models.OutcomeAlreadyMet, result.Outcome)
}

func TestRunCycle_YesterdayInvalidates(t *testing.T) {
	f := newEngineFixture(5)
	f.state.Status = models.NewMetStatus(fixedNow.AddDate(0, 0, -1), 5)
	f.hosts.Released = true
	f.source.Count = 1

	result := f.engine.RunCycle(context.Background())

	assert.Equal(t, models.OutcomeBlocked, result.Outcome)
	assert.False(t, f.hosts.Released)
	calls := f.log.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "engage", calls[1])
	assert.Equal(t, "query", calls[2])
}

func TestRunCycle_RaisedGoalInvalidates(t *testing.T) {
	f := newEngineFixture(10)
	f.state.Status = models.NewMetStatus(fixedNow, 5)
	f.hosts.Released = true
	f.source.Count = 7

	result := f.engine.RunCycle(context.Background())

	assert.Equal(t, models.OutcomeBlocked, result.Outcome)
	assert.Equal(t, uint32(70), result.Progress)
	assert.False(t, f.hosts.Released)
	assert.Empty(t, f.state.Persisted)
}

func TestRunCycle_QueryFailureKeepsBlock(t *testing.T) {
	f := newEngineFixture(5)
	f.hosts.Released = true
	f.source.Err = errors.New("network down")

	result := f.engine.RunCycle(context.Background())

	assert.Equal(t, models.OutcomeQueryFailed, result.Outcome)
	assert.ErrorContains(t, result.Err, "network down")
	assert.False(t, f.hosts.Released)
	assert.Empty(t, f.state.Persisted)
	assert.NotContains(t, f.log.Calls(), "release")
	assert.Equal(t, 1, f.logger.Count("error"))
}

func TestRunCycle_GoalLoadFailureChangesNothing(t *testing.T) {
	f := newEngineFixture(5)
	f.goals.LoadErr = errors.New("bad toml")
	f.hosts.Released = true

	result := f.engine.RunCycle(context.Background())

	assert.Equal(t, models.OutcomeConfigFailed, result.Outcome)
	assert.True(t, f.hosts.Released)
	assert.Empty(t, f.log.Calls())
	assert.Equal(t, 1, f.metrics.Cycles["config_failed"])
}

func TestRunCycle_EngageFailureStillQueries(t *testing.T) {
	f := newEngineFixture(5)
	f.hosts.EngageErr = errors.New("permission denied")
	f.source.Count = 2

	result := f.engine.RunCycle(context.Background())

	assert.Equal(t, models.OutcomeBlocked, result.Outcome)
	assert.Contains(t, f.log.Calls(), "query")
	assert.Equal(t, 1, f.logger.Count("error"))
}

func TestRunCycle_UsesConfiguredUsername(t *testing.T) {
	f := newEngineFixture(5)

	f.engine.RunCycle(context.Background())

	assert.Equal(t, []string{"octocat"}, f.source.Usernames)
}

func TestUpdates_LatestValueWins(t *testing.T) {
	f := newEngineFixture(10)

	f.source.SetCount(2)
	f.engine.RunCycle(context.Background())
	f.source.SetCount(6)
	f.engine.RunCycle(context.Background())

	select {
	case v := <-f.engine.Updates():
		assert.Equal(t, uint32(60), v)
	default:
		t.Fatal("expected a progress update")
	}
	select {
	case v := <-f.engine.Updates():
		t.Fatalf("unexpected stale update %d", v)
	default:
	}
}

func TestEngine_StartStop(t *testing.T) {
	f := newEngineFixture(5)
	f.source.Count = 1

	require.NoError(t, f.engine.Start(context.Background()))
	assert.ErrorIs(t, f.engine.Start(context.Background()), ErrAlreadyRunning)

	assert.Eventually(t, func() bool { return f.queries() >= 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, f.engine.Stop())
	assert.ErrorIs(t, f.engine.Stop(), ErrNotRunning)
}

func TestEngine_ContextCancelStopsLoop(t *testing.T) {
	f := newEngineFixture(5)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, f.engine.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool {
		return errors.Is(f.engine.Stop(), ErrNotRunning)
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_TriggerRunsImmediately(t *testing.T) {
	f := newEngineFixture(5)
	f.engine.config.Threshold.PollInterval = time.Hour

	require.NoError(t, f.engine.Start(context.Background()))
	defer f.engine.Stop()

	assert.Eventually(t, func() bool { return f.queries() == 1 }, time.Second, 5*time.Millisecond)
	f.engine.Trigger()
	assert.Eventually(t, func() bool { return f.queries() == 2 }, time.Second, 5*time.Millisecond)
}
