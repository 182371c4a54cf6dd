package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/duscraft/garry/internal/domain"
	"github.com/duscraft/garry/internal/repository"
	"github.com/duscraft/garry/internal/tools/common"
	"github.com/duscraft/garry/internal/tools/ui"
)

type options struct {
	ci      bool
	timeout time.Duration
	envFile string
	user    string
}

type seedItem struct {
	product  string
	brand    string
	category domain.Category
	ageDays  int
	months   int
}

// Demo records cover expired, expiring-soon and active warranties so
// every dashboard state has data after seeding.
var seedItems = []seedItem{
	{"Old Washing Machine", "Bosch", domain.CategoryAppliances, 800, 24},
	{"Smartphone", "Samsung", domain.CategoryElectronics, 710, 24},
	{"Office Chair", "Herman Miller", domain.CategoryFurniture, 60, 24},
	{"Winter Jacket", "Patagonia", domain.CategoryClothing, 30, 6},
	{"Car Battery", "Varta", domain.CategoryAutomotive, 100, 24},
	{"Running Shoes", "Asics", domain.CategorySports, 200, 12},
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "seed",
		Short: "Manage demo warranty data",
	}
	root.PersistentFlags().BoolVar(&opts.ci, "ci", false, "machine-readable JSON output")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "env file to load before connecting")
	root.PersistentFlags().StringVar(&opts.user, "user", "demo-user", "owner of the seeded records")
	root.AddCommand(newApplyCommand(opts), newDryRunCommand(opts), newPurgeCommand(opts))
	return root
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Insert the demo warranties",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(opts, "seed", "apply", func(ctx context.Context) ([]string, error) {
				db, err := common.OpenDatabase()
				if err != nil {
					return nil, err
				}
				repo := repository.NewWarrantyRepository(db)
				details := make([]string, 0, len(seedItems))
				now := time.Now().UTC()
				for _, item := range seedItems {
					w := buildWarranty(opts.user, item, now)
					if err := repo.Create(ctx, w); err != nil {
						return details, fmt.Errorf("create %q: %w", item.product, err)
					}
					details = append(details, fmt.Sprintf("%s (%s) id=%s", item.product, item.category, w.ID))
				}
				return details, nil
			})
			return err
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what apply would insert without writing",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(opts, "seed", "dry-run", func(ctx context.Context) ([]string, error) {
				details := make([]string, 0, len(seedItems))
				now := time.Now().UTC()
				for _, item := range seedItems {
					w := buildWarranty(opts.user, item, now)
					details = append(details, fmt.Sprintf("%s (%s) ends %s", item.product, item.category, w.WarrantyEndDate.Format("2006-01-02")))
				}
				return details, nil
			})
			return err
		},
	}
}

func newPurgeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every warranty owned by --user",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(opts, "seed", "purge", func(ctx context.Context) ([]string, error) {
				db, err := common.OpenDatabase()
				if err != nil {
					return nil, err
				}
				res := db.WithContext(ctx).Where("user_id = ?", opts.user).Delete(&domain.Warranty{})
				if res.Error != nil {
					return nil, res.Error
				}
				return []string{fmt.Sprintf("deleted %d warranties for %s", res.RowsAffected, opts.user)}, nil
			})
			return err
		},
	}
}

func buildWarranty(user string, item seedItem, now time.Time) *domain.Warranty {
	purchase := now.Add(-time.Duration(item.ageDays) * 24 * time.Hour)
	brand := item.brand
	return &domain.Warranty{
		UserID:          user,
		ProductName:     item.product,
		Brand:           &brand,
		Category:        item.category,
		PurchaseDate:    purchase,
		WarrantyMonths:  item.months,
		WarrantyEndDate: domain.WarrantyEndDate(purchase, item.months),
	}
}

func run(opts *options, tool, action string, fn ui.Action) ([]string, error) {
	if err := common.LoadEnvFile(opts.envFile); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	title := tool + " " + action
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	if opts.ci {
		details, err := fn(ctx)
		common.PrintCIResult(err == nil, title, details, err)
		return details, err
	}
	return nil, ui.Run(title, fn)
}
