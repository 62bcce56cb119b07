package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/supportflow/internal/observability"
	"github.com/hrygo/supportflow/internal/profile"
	"github.com/hrygo/supportflow/internal/session"
	"github.com/hrygo/supportflow/plugin/ai"
	"github.com/hrygo/supportflow/plugin/ai/agent"
	"github.com/hrygo/supportflow/plugin/ai/classifier"
	"github.com/hrygo/supportflow/server/chat"
	"github.com/hrygo/supportflow/server/router/apiv1"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "supportflow",
	Short: "Customer support message routing server",
	RunE: func(_ *cobra.Command, _ []string) error {
		serverProfile := &profile.Profile{
			Mode:    viper.GetString("mode"),
			Addr:    viper.GetString("addr"),
			Port:    viper.GetInt("port"),
			Version: version,
		}
		serverProfile.FromEnv()
		if err := serverProfile.Validate(); err != nil {
			return err
		}

		setupLogging(serverProfile)
		return run(serverProfile)
	},
}

func init() {
	rootCmd.Flags().String("mode", "demo", `server mode, can be "demo", "dev" or "prod"`)
	rootCmd.Flags().String("addr", "", "binding address")
	rootCmd.Flags().Int("port", 8081, "binding port")

	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("supportflow")
	viper.AutomaticEnv()
}

func setupLogging(p *profile.Profile) {
	level := slog.LevelInfo
	if p.IsDev() {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if p.Mode == "prod" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

func run(p *profile.Profile) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	completion, err := buildCompletionService(p)
	if err != nil {
		return err
	}

	registry := session.NewRegistry(&session.Config{
		SessionTimeout: p.SessionTimeout,
		ContextWindow:  session.DefaultContextWindow,
		Escalation:     session.DefaultEscalationConfig(),
	}, session.SystemClock())

	dispatcher, err := agent.NewDefaultDispatcher(completion)
	if err != nil {
		return err
	}

	chatService, err := chat.NewService(
		registry,
		classifier.NewRuleClassifier(nil),
		dispatcher,
		observability.NewMetrics(0),
		slog.Default(),
	)
	if err != nil {
		return err
	}

	cleanupJob := session.NewCleanupJob(registry, p.CleanupInterval)
	cleanupJob.Start(ctx)
	defer cleanupJob.Stop()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())

	apiService := apiv1.NewAPIV1Service(p, chatService)
	apiService.RegisterRoutes(e)

	addr := fmt.Sprintf("%s:%d", p.Addr, p.Port)
	slog.Info("supportflow server starting",
		"version", version,
		"mode", p.Mode,
		"addr", addr,
		"ai_enabled", p.IsAIEnabled())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(p.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				apiService.RateLimiter.Prune()
			}
		}
	})
	g.Go(func() error {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		slog.Info("shutting down server")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildCompletionService picks the real provider when AI is configured and
// falls back to canned replies otherwise, so demo mode works offline.
func buildCompletionService(p *profile.Profile) (ai.CompletionService, error) {
	if !p.IsAIEnabled() {
		slog.Warn("AI is not configured, using static replies",
			"hint", "set SUPPORTFLOW_AI_ENABLED=true and SUPPORTFLOW_AI_API_KEY")
		return ai.NewStaticCompletionService(), nil
	}

	provider, err := ai.NewProvider(ai.ConfigFromProfile(p))
	if err != nil {
		return nil, err
	}
	if err := provider.Validate(); err != nil {
		return nil, err
	}

	slog.Info("completion provider initialized",
		"provider", p.AIProvider,
		"model", p.AIModel,
		"base_url", p.AIBaseURL)
	return provider, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
