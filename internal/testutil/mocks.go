package testutil

import (
	"commitblock/internal/models"
	"commitblock/internal/providers"
	"context"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu          sync.Mutex
	Cycles      map[string]int
	HostsWrites map[string]int
	Progress    uint32
	CacheHits   int
	CacheMisses int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObserveQueryDuration(_ time.Duration)             {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncCycles(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Cycles == nil {
		m.Cycles = make(map[string]int)
	}
	m.Cycles[outcome]++
}

func (m *MockMetrics) SetProgress(progress uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Progress = progress
}

func (m *MockMetrics) IncHostsWrites(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HostsWrites == nil {
		m.HostsWrites = make(map[string]int)
	}
	m.HostsWrites[op]++
}

// CallLog records the order of calls across several mocks.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

func (c *CallLog) Add(call string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *CallLog) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}

// MockBlockManager implements interfaces.BlockManagerInterface in memory.
type MockBlockManager struct {
	mu         sync.Mutex
	Log        *CallLog
	Hosts      []string
	Released   bool
	EngageErr  error
	ReleaseErr error
	ReplaceErr error
	Restored   []string
}

func (m *MockBlockManager) Load() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Log.Add("load")
	out := make([]string, len(m.Hosts))
	copy(out, m.Hosts)
	return out, nil
}

func (m *MockBlockManager) Replace(hosts []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Log.Add("replace")
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	m.Hosts = append([]string(nil), hosts...)
	return nil
}

func (m *MockBlockManager) ReplaceEngaged(hosts []string) error {
	if err := m.Replace(hosts); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Released = false
	return nil
}

func (m *MockBlockManager) Engage() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Log.Add("engage")
	if m.EngageErr != nil {
		return m.EngageErr
	}
	m.Released = false
	return nil
}

func (m *MockBlockManager) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Log.Add("release")
	if m.ReleaseErr != nil {
		return m.ReleaseErr
	}
	m.Released = true
	return nil
}

func (m *MockBlockManager) Mode() (models.BlockMode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case len(m.Hosts) == 0:
		return models.ModeAbsent, nil
	case m.Released:
		return models.ModeReleased, nil
	default:
		return models.ModeEngaged, nil
	}
}

func (m *MockBlockManager) Restore(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restored = append(m.Restored, name)
	return nil
}

// MockStateStore implements interfaces.StateStoreInterface in memory.
type MockStateStore struct {
	mu         sync.Mutex
	Log        *CallLog
	Status     models.ThresholdStatus
	Persisted  []models.ThresholdStatus
	PersistErr error
}

func (m *MockStateStore) Load() models.ThresholdStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Log.Add("state.load")
	return m.Status
}

func (m *MockStateStore) Persist(status models.ThresholdStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Log.Add("state.persist")
	if m.PersistErr != nil {
		return m.PersistErr
	}
	m.Status = status
	m.Persisted = append(m.Persisted, status)
	return nil
}

// MockGoalStore implements interfaces.GoalStoreInterface in memory.
type MockGoalStore struct {
	mu      sync.Mutex
	Config  models.GoalConfig
	LoadErr error
	SaveErr error
	Saved   []models.GoalConfig
}

func (m *MockGoalStore) Load() (models.GoalConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return models.DefaultGoalConfig(), m.LoadErr
	}
	return m.Config, nil
}

func (m *MockGoalStore) Save(cfg models.GoalConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Config = cfg
	m.Saved = append(m.Saved, cfg)
	return nil
}

// MockContributionSource returns Count, or Err when set.
type MockContributionSource struct {
	mu        sync.Mutex
	Log       *CallLog
	Count     uint32
	Err       error
	Usernames []string
}

func (m *MockContributionSource) TodayCount(_ context.Context, username string, _ time.Time) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Log.Add("query")
	m.Usernames = append(m.Usernames, username)
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Count, nil
}

func (m *MockContributionSource) SetCount(count uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Count = count
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockEngine implements interfaces.EngineInterface without a loop.
type MockEngine struct {
	mu       sync.Mutex
	Current  uint32
	Result   models.CycleResult
	Triggers int
	Started  bool
	Stopped  bool
	StartErr error
	updates  chan uint32
}

func NewMockEngine() *MockEngine {
	return &MockEngine{updates: make(chan uint32, 1)}
}

func (m *MockEngine) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StartErr != nil {
		return m.StartErr
	}
	m.Started = true
	return nil
}

func (m *MockEngine) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stopped = true
	return nil
}

func (m *MockEngine) Trigger() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Triggers++
}

func (m *MockEngine) TriggerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Triggers
}

func (m *MockEngine) RunCycle(_ context.Context) models.CycleResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Result
}

func (m *MockEngine) Progress() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Current
}

func (m *MockEngine) Updates() <-chan uint32 {
	return m.updates
}

// Publish sets the current progress and queues an update.
func (m *MockEngine) Publish(progress uint32) {
	m.mu.Lock()
	m.Current = progress
	m.mu.Unlock()
	select {
	case m.updates <- progress:
	default:
	}
}
