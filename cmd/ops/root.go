package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/bootstrap"
	"github.com/propcore/backend/internal/infrastructure/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	app    *bootstrap.App
	stopFn context.CancelFunc
)

func init() {
	rootCmd.PersistentFlags().StringP("tenant", "t", "", "Tenant ID or slug (default: every active tenant)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level")
}

var rootCmd = &cobra.Command{
	Use:   "ops",
	Short: "Operational tasks for the propcore backend",
	Long: `Run maintenance tasks against the configured database.
Configuration is read from config.toml and PROPCORE_* environment
variables, the same way the server reads it.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
}

// shutdown releases what setupApp opened. It runs whether or not the
// command succeeded.
func shutdown() error {
	if stopFn != nil {
		defer stopFn()
	}
	if app == nil {
		return nil
	}
	_ = app.Logger.Sync()
	return app.Close(context.Background())
}

func setupApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	// ops output goes to stdout, logs stay on stderr
	if cfg.Log.Output == "" || cfg.Log.Output == "stdout" {
		cfg.Log.Output = "stderr"
	}

	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	stopFn = stop
	cmd.SetContext(ctx)

	app, err = bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	app.Logger.Debug("ops command starting", zap.String("command", cmd.CommandPath()))
	return nil
}

// targetTenant resolves the --tenant flag. ok is false when the flag is
// empty and the command should visit every active tenant.
func targetTenant(cmd *cobra.Command) (id uuid.UUID, ok bool, err error) {
	raw, _ := cmd.Flags().GetString("tenant")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, false, nil
	}
	if id, err := uuid.Parse(raw); err == nil {
		return id, true, nil
	}

	err = app.Scope.Execute(cmd.Context(), func(repos unitofwork.Repositories) error {
		t, err := repos.Tenants().FindBySlug(cmd.Context(), raw)
		if err != nil {
			return err
		}
		if !t.Active {
			return fmt.Errorf("tenant %q is inactive", raw)
		}
		id = t.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("resolve tenant %q: %w", raw, err)
	}
	return id, true, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// tenantResult is the per-tenant line printed by single-tenant runs
type tenantResult struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Result   any       `json:"result"`
}
