// Package seed fills a tenant with plausible demo data: staff and client
// memberships, a tower of units, leads, a condo fee plan and owner accounts.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/condo"
	"github.com/propcore/backend/internal/domain/inventory"
	"github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

// Options sizes the generated data set
type Options struct {
	Slug          string
	Name          string
	Units         int
	UnitsPerFloor int
	Leads         int
	Clients       int
	Seed          uint64 // 0 picks a random seed
	PlatformFee   string
	Commission    string
	CondoFee      string
}

// DefaultOptions returns a small demo tower
func DefaultOptions() Options {
	return Options{
		Slug:          "demo",
		Units:         24,
		UnitsPerFloor: 4,
		Leads:         10,
		Clients:       5,
		PlatformFee:   "5",
		Commission:    "3",
		CondoFee:      "450",
	}
}

// Result lists what was created
type Result struct {
	TenantID   uuid.UUID   `json:"tenant_id"`
	AdminID    uuid.UUID   `json:"admin_id"`
	SellerID   uuid.UUID   `json:"seller_id"`
	ClientIDs  []uuid.UUID `json:"client_ids"`
	UnitIDs    []uuid.UUID `json:"unit_ids"`
	Leads      int         `json:"leads"`
	CondoPlan  uuid.UUID   `json:"condo_plan_id"`
	OwnerCount int         `json:"owner_accounts"`
}

var views = []string{"sea", "city", "park", "courtyard"}

// Run creates the tenant and its data in one transaction. A slug already in
// use is rejected so reruns never mix two data sets.
func Run(ctx context.Context, scope unitofwork.Scope, opts Options) (*Result, error) {
	if opts.Units <= 0 || opts.UnitsPerFloor <= 0 {
		return nil, shared.Validation("units and units per floor must be positive")
	}
	if opts.Clients > opts.Units {
		return nil, shared.Validation("cannot seed more clients (%d) than units (%d)", opts.Clients, opts.Units)
	}
	faker := gofakeit.New(opts.Seed)
	if opts.Name == "" {
		opts.Name = faker.Company() + " Residences"
	}

	fee, err := valueobject.NewPercentageFromString(opts.PlatformFee)
	if err != nil {
		return nil, err
	}
	commission, err := valueobject.NewPercentageFromString(opts.Commission)
	if err != nil {
		return nil, err
	}
	condoFee, err := decimal.NewFromString(opts.CondoFee)
	if err != nil {
		return nil, shared.Validation("invalid condo fee %q", opts.CondoFee)
	}

	tenant, err := tenancy.NewTenant(opts.Name, opts.Slug, fee, commission, tenancy.DefaultReservationTTLHours)
	if err != nil {
		return nil, err
	}
	res := &Result{TenantID: tenant.ID}

	err = scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if _, err := repos.Tenants().FindBySlug(ctx, tenant.Slug); err == nil {
			return shared.InvalidState("tenant %q already exists", tenant.Slug)
		} else if !shared.IsNotFound(err) {
			return err
		}
		if err := repos.Tenants().Save(ctx, tenant); err != nil {
			return fmt.Errorf("save tenant: %w", err)
		}

		var tc tenancy.Context
		member := func(role tenancy.Role) (uuid.UUID, error) {
			userID := uuid.New()
			tc = tenancy.NewContext(tenant.ID, &userID, tenancy.RoleAdmin)
			m, err := tenancy.NewMembership(tenant.ID, userID, role)
			if err != nil {
				return uuid.Nil, err
			}
			return userID, repos.Memberships().Save(ctx, tc, m)
		}
		if res.SellerID, err = member(tenancy.RoleSeller); err != nil {
			return fmt.Errorf("seed seller: %w", err)
		}
		for i := 0; i < opts.Clients; i++ {
			id, err := member(tenancy.RoleClient)
			if err != nil {
				return fmt.Errorf("seed client: %w", err)
			}
			res.ClientIDs = append(res.ClientIDs, id)
		}
		// admin last so tc acts as the admin for the remaining inserts
		if res.AdminID, err = member(tenancy.RoleAdmin); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}

		for i := 0; i < opts.Units; i++ {
			floor := i/opts.UnitsPerFloor + 1
			code := fmt.Sprintf("T1-%02d%02d", floor, i%opts.UnitsPerFloor+1)
			area := decimal.NewFromInt(int64(faker.Number(45, 180)))
			price := area.Mul(decimal.NewFromInt(int64(faker.Number(3500, 9000)))).Round(0)

			u, err := inventory.NewUnit(tenant.ID, code, price)
			if err != nil {
				return err
			}
			u.AreaM2 = area
			u.Floor = &floor
			u.View = views[faker.Number(0, len(views)-1)]
			if err := repos.Units().Create(ctx, tc, u); err != nil {
				return fmt.Errorf("seed unit %s: %w", code, err)
			}
			res.UnitIDs = append(res.UnitIDs, u.ID)
		}

		for i := 0; i < opts.Leads; i++ {
			l, err := sales.NewLead(tenant.ID, faker.Name(), strings.ToLower(faker.Email()))
			if err != nil {
				return err
			}
			if err := repos.Leads().Create(ctx, tc, l); err != nil {
				return fmt.Errorf("seed lead: %w", err)
			}
			res.Leads++
		}

		plan, err := condo.NewPlan(tenant.ID, opts.Name+" condominium", condoFee, valueobject.MustPercentage("2"))
		if err != nil {
			return err
		}
		if err := repos.CondoPlans().Create(ctx, tc, plan); err != nil {
			return fmt.Errorf("seed condo plan: %w", err)
		}
		res.CondoPlan = plan.ID

		for i, clientID := range res.ClientIDs {
			userID, unitID := clientID, res.UnitIDs[i]
			a, err := condo.NewOwnerAccount(tenant.ID, &userID, &unitID, faker.Name(), strings.ToLower(faker.Email()))
			if err != nil {
				return err
			}
			if err := repos.OwnerAccounts().Create(ctx, tc, a); err != nil {
				return fmt.Errorf("seed owner account: %w", err)
			}
			res.OwnerCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
