package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/condo"
	"github.com/propcore/backend/internal/infrastructure/scheduler"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(expireReservationsCmd)
	rootCmd.AddCommand(markOverdueCmd)
	rootCmd.AddCommand(generateChargesCmd)

	now := time.Now().UTC()
	generateChargesCmd.Flags().String("plan", "", "Condo plan ID (required)")
	generateChargesCmd.Flags().Int("year", now.Year(), "Charge period year")
	generateChargesCmd.Flags().Int("month", int(now.Month()), "Charge period month (1-12)")
	_ = generateChargesCmd.MarkFlagRequired("plan")
}

var expireReservationsCmd = &cobra.Command{
	Use:   "expire-reservations",
	Short: "Expire lapsed reservations and release their units",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd, scheduler.JobExpireReservations)
	},
}

var markOverdueCmd = &cobra.Command{
	Use:   "mark-overdue",
	Short: "Mark pending condo charges past their due date as overdue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd, scheduler.JobMarkOverdue)
	},
}

// runSweep runs a scheduler job once. With --tenant only that tenant is
// swept; otherwise every active tenant, exactly as the cron trigger does.
func runSweep(cmd *cobra.Command, job string) error {
	ctx := cmd.Context()
	tenantID, single, err := targetTenant(cmd)
	if err != nil {
		return err
	}

	if single {
		tc := scheduler.SystemContext(tenantID)
		switch job {
		case scheduler.JobExpireReservations:
			res, err := app.Reservations.Expire(ctx, tc)
			if err != nil {
				return err
			}
			return printJSON(tenantResult{TenantID: tenantID, Result: res})
		case scheduler.JobMarkOverdue:
			res, err := app.Condo.MarkOverdue(ctx, tc)
			if err != nil {
				return err
			}
			return printJSON(tenantResult{TenantID: tenantID, Result: res})
		}
		return fmt.Errorf("unknown job %q", job)
	}

	s, err := app.Scheduler()
	if err != nil {
		return err
	}
	res, err := s.Run(ctx, job)
	if err != nil {
		return err
	}
	if err := printJSON(map[string]any{
		"job":      res.Job,
		"tenants":  res.Tenants,
		"affected": res.Affected,
		"failed":   res.Failed,
		"duration": res.Duration.String(),
	}); err != nil {
		return err
	}
	if res.Failed > 0 {
		return fmt.Errorf("%s failed for %d of %d tenants", job, res.Failed, res.Tenants)
	}
	return nil
}

var generateChargesCmd = &cobra.Command{
	Use:   "generate-charges",
	Short: "Generate monthly condo charges for a plan",
	Long: `Create one charge per active owner account of the plan for the
given period. Accounts already charged for the period are skipped,
so the command is safe to rerun.`,
	Args: cobra.NoArgs,
	RunE: runGenerateCharges,
}

func runGenerateCharges(cmd *cobra.Command, args []string) error {
	tenantID, single, err := targetTenant(cmd)
	if err != nil {
		return err
	}
	if !single {
		return fmt.Errorf("--tenant is required for generate-charges")
	}

	rawPlan, _ := cmd.Flags().GetString("plan")
	planID, err := uuid.Parse(rawPlan)
	if err != nil {
		return fmt.Errorf("invalid --plan %q: %w", rawPlan, err)
	}
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	period := condo.Period{Year: year, Month: month}
	if err := period.Validate(); err != nil {
		return err
	}

	res, err := app.Condo.GenerateMonthlyCharges(cmd.Context(), scheduler.SystemContext(tenantID), planID, period)
	if err != nil {
		return err
	}
	return printJSON(tenantResult{TenantID: tenantID, Result: res})
}
