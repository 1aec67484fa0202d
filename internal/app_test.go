package internal

import (
	"bytes"
	"commitblock/internal/controllers"
	"commitblock/internal/goal"
	"commitblock/internal/interfaces"
	"commitblock/internal/models"
	"commitblock/internal/shell"
	"commitblock/internal/structures"
	"commitblock/internal/testutil"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, input string, engine *testutil.MockEngine) *App {
	t.Helper()
	return newTestAppWithGoals(t, input, engine, &testutil.MockGoalStore{Config: models.DefaultGoalConfig()})
}

func newTestAppWithGoals(t *testing.T, input string, engine *testutil.MockEngine, goals interfaces.GoalStoreInterface) *App {
	t.Helper()
	conf := &structures.Config{
		AppName:   "CommitBlock",
		WebServer: structures.Server{Host: "127.0.0.1", Port: 8093},
	}
	logger := &testutil.MockLogger{}
	hosts := &testutil.MockBlockManager{Hosts: []string{"example.com"}}
	state := &testutil.MockStateStore{}
	api := controllers.NewApiController(logger, hosts, state, goals, engine, testutil.NewMockCache())
	console := shell.NewShell(strings.NewReader(input), &bytes.Buffer{}, hosts, goals, state, engine, logger)
	return NewApp(api, controllers.NewHealthController(engine), engine, goals, console, conf, logger, InitRoutes(api), &testutil.MockMetrics{})
}

func TestApp_ServesHealthAndAPI(t *testing.T) {
	app := newTestApp(t, "", testutil.NewMockEngine())

	rr := httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/hosts", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	engine := testutil.NewMockEngine()
	app := newTestApp(t, "", engine)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, app.Run(ctx, false))
	assert.True(t, engine.Started)
	assert.True(t, engine.Stopped)
}

func TestApp_RunEndsWhenShellQuits(t *testing.T) {
	engine := testutil.NewMockEngine()
	app := newTestApp(t, "quit\n", engine)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background(), true) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop after quit")
	}
	assert.True(t, engine.Stopped)
}

func TestApp_RunEngineStartFailure(t *testing.T) {
	engine := testutil.NewMockEngine()
	engine.StartErr = errors.New("boom")
	app := newTestApp(t, "", engine)

	assert.ErrorContains(t, app.Run(context.Background(), false), "boom")
}

func TestApp_HeadlessRunFailsOnMalformedGoalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("contribution_goal = [broken"), 0644))
	goals := goal.NewStore(&structures.Config{Threshold: structures.ThresholdConfig{GoalFile: path}})

	engine := testutil.NewMockEngine()
	app := newTestAppWithGoals(t, "", engine, goals)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background(), false) }()

	select {
	case err := <-done:
		require.Error(t, err)
		var pe *goal.ParseError
		assert.True(t, errors.As(err, &pe))
		assert.True(t, errors.Is(err, goal.ErrParse))
	case <-time.After(2 * time.Second):
		t.Fatal("headless run did not stop on a malformed goal file")
	}
	assert.False(t, engine.Started)
}

func TestApp_HeadlessRunStartsWithoutGoalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	goals := goal.NewStore(&structures.Config{Threshold: structures.ThresholdConfig{GoalFile: path}})

	engine := testutil.NewMockEngine()
	app := newTestAppWithGoals(t, "", engine, goals)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, app.Run(ctx, false))
	assert.True(t, engine.Started)
}
