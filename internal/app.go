package internal

import (
	"commitblock/internal/controllers"
	"commitblock/internal/interfaces"
	"commitblock/internal/providers"
	"commitblock/internal/shell"
	"commitblock/internal/structures"
	"commitblock/internal/threshold"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

type App struct {
	WebServer *http.Server
	engine    interfaces.EngineInterface
	goals     interfaces.GoalStoreInterface
	shell     *shell.Shell
	conf      *structures.Config
	logger    providers.Logger
}

// NewConsoleShell binds the interactive shell to the process terminal.
func NewConsoleShell(hosts interfaces.BlockManagerInterface, goals interfaces.GoalStoreInterface, state interfaces.StateStoreInterface, engine interfaces.EngineInterface, logger providers.Logger) *shell.Shell {
	return shell.NewShell(os.Stdin, os.Stdout, hosts, goals, state, engine, logger)
}

func NewApp(apiController *controllers.ApiController, healthController *controllers.HealthController, engine interfaces.EngineInterface, goals interfaces.GoalStoreInterface, console *shell.Shell, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, router.Mux())

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine: engine,
		goals:  goals,
		shell:  console,
		conf:   conf,
		logger: logger,
	}
}

// Run starts the threshold engine, the optional status server and, when
// interactive, the shell. It returns after a signal, ctx cancellation or
// the shell quitting.
func (a *App) Run(ctx context.Context, interactive bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)

	if _, err := a.goals.Load(); err != nil {
		return fmt.Errorf("load goal config: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if err := a.engine.Start(gctx); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	g.Go(func() error {
		<-gctx.Done()
		if err := a.engine.Stop(); err != nil && !errors.Is(err, threshold.ErrNotRunning) {
			return err
		}
		return nil
	})

	if a.conf.WebServer.Enabled {
		g.Go(func() error {
			a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
			if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return a.WebServer.Shutdown(shutdownCtx)
		})
	}

	if interactive {
		g.Go(func() error {
			defer cancel()
			return a.shell.Run(gctx)
		})
	}

	err := g.Wait()
	if err != nil {
		a.logger.Errorf(providers.TypeApp, "Stopped with error: %s", err)
		return err
	}
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
