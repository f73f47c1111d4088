package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fridgechef/fridgechef/internal/infrastructure/ai/gemini"
	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/internal/infrastructure/http/webserver"
	"github.com/fridgechef/fridgechef/internal/infrastructure/monitoring"
	"github.com/fridgechef/fridgechef/internal/ports/outbound"
	"github.com/fridgechef/fridgechef/pkg/healthcheck"
)

// ServeCmd runs the web server until interrupted
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Fridge Chef web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(ConfigFile)
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}

		app := fx.New(
			fx.NopLogger,
			fx.StopTimeout(cfg.Server.ShutdownTimeout),
			fx.Supply(cfg),
			fx.Provide(
				newLogger,
				monitoring.NewMetricsCollector,
				newGeminiClient,
				func(c *gemini.Client) outbound.RecipeGenerator { return c },
				webserver.NewSessionStore,
				newHealthCheck,
				webserver.NewWebServer,
			),
			fx.Invoke(registerLifecycleHooks),
		)
		if err := app.Err(); err != nil {
			return fmt.Errorf("failed to build application: %w", err)
		}

		app.Run()
		return nil
	},
}

func init() {
	ServeCmd.Flags().Int("port", 0, "listen port (overrides server.port)")
}

func newGeminiClient(cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) *gemini.Client {
	opts := gemini.OptionsFromConfig(cfg)
	opts.Recorder = metrics
	return gemini.NewClient(opts, log)
}

func newHealthCheck(
	cfg *config.Config,
	log *zap.Logger,
	client *gemini.Client,
	sessions *webserver.SessionStore,
) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log)
	hc.SetCacheTTL(cfg.Monitoring.HealthCacheTTL)

	hc.Register("gemini_credential", gemini.NewCredentialChecker(client))
	hc.Register("sessions", healthcheck.NewCustomChecker("sessions",
		func(ctx context.Context) (healthcheck.Status, string, interface{}) {
			active := sessions.Len()
			metadata := map[string]int{"active": active, "max": cfg.Session.MaxSessions}
			if active >= cfg.Session.MaxSessions {
				return healthcheck.StatusDegraded, "session store is full; oldest sessions are being evicted", metadata
			}
			return healthcheck.StatusHealthy, "", metadata
		}))

	return hc
}

func registerLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	server *webserver.WebServer,
	sessions *webserver.SessionStore,
	metrics *monitoring.MetricsCollector,
) {
	metrics.TrackActiveSessions(sessions.Len)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Fridge Chef",
				zap.String("address", cfg.Address()),
				zap.String("environment", cfg.App.Environment),
				zap.String("model", cfg.AI.Model),
				zap.String("language", cfg.App.Language),
			)

			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Web server stopped unexpectedly", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			defer func() { _ = log.Sync() }()
			return server.Shutdown(ctx)
		},
	})
}
