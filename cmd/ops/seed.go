package main

import (
	"github.com/propcore/backend/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(seedCmd)

	def := seed.DefaultOptions()
	seedCmd.Flags().String("slug", def.Slug, "Slug of the tenant to create")
	seedCmd.Flags().String("name", "", "Tenant display name (default: a generated company name)")
	seedCmd.Flags().Int("units", def.Units, "Number of units")
	seedCmd.Flags().Int("per-floor", def.UnitsPerFloor, "Units per floor")
	seedCmd.Flags().Int("leads", def.Leads, "Number of leads")
	seedCmd.Flags().Int("clients", def.Clients, "Client members, each owning one unit's condo account")
	seedCmd.Flags().Uint64("seed", 0, "Random seed for reproducible data (0 = random)")
	seedCmd.Flags().String("platform-fee", def.PlatformFee, "Platform fee percentage")
	seedCmd.Flags().String("commission", def.Commission, "Seller commission percentage")
	seedCmd.Flags().String("condo-fee", def.CondoFee, "Monthly condo fee")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo tenant with generated data",
	Long: `Create a new tenant with admin, seller and client members, a tower
of available units, leads, a condo plan and owner accounts. The
generated IDs are printed as JSON.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	opts := seed.DefaultOptions()
	opts.Slug, _ = flags.GetString("slug")
	opts.Name, _ = flags.GetString("name")
	opts.Units, _ = flags.GetInt("units")
	opts.UnitsPerFloor, _ = flags.GetInt("per-floor")
	opts.Leads, _ = flags.GetInt("leads")
	opts.Clients, _ = flags.GetInt("clients")
	opts.Seed, _ = flags.GetUint64("seed")
	opts.PlatformFee, _ = flags.GetString("platform-fee")
	opts.Commission, _ = flags.GetString("commission")
	opts.CondoFee, _ = flags.GetString("condo-fee")

	res, err := seed.Run(cmd.Context(), app.Scope, opts)
	if err != nil {
		return err
	}
	app.Logger.Info("tenant seeded",
		zap.String("tenant_id", res.TenantID.String()),
		zap.Int("units", len(res.UnitIDs)))
	return printJSON(res)
}
